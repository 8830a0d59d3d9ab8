package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional YAML/JSON/TOML file layered under the environment.
const ConfigFileEnv = "WEBLY_CONFIG"

var ErrMissingSetting = errors.New("missing required setting")

type Server struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"app_env"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AdminUsername   string        `mapstructure:"admin_username"`
	AdminPassword   string        `mapstructure:"admin_password"`
	CORSOrigins     []string      `mapstructure:"cors_origin"`
	BodyLimitBytes  int64         `mapstructure:"body_limit_bytes"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	RateLimitMax    int           `mapstructure:"rate_limit_max"`
	TrustProxy      bool          `mapstructure:"trust_proxy"`
	DataDir         string        `mapstructure:"data_dir"`
	StoreDriver     string        `mapstructure:"store_driver"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	StaticDir       string        `mapstructure:"static_dir"`
	BaseURL         string        `mapstructure:"base_url"`
	AdminURL        string        `mapstructure:"admin_url"`
	StripeSecretKey string        `mapstructure:"stripe_secret_key"`
	StripePublicKey string        `mapstructure:"stripe_publishable_key"`
	SendGridAPIKey  string        `mapstructure:"sendgrid_api_key"`
	EmailFrom       string        `mapstructure:"email_from"`
	EmailTo         string        `mapstructure:"email_to"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Storefront struct {
	Env            string        `mapstructure:"app_env"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	CartStorage    string        `mapstructure:"cart_storage"`
	CartFile       string        `mapstructure:"cart_file"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	CartProfile    string        `mapstructure:"cart_profile"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func serverDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("admin_username", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("cors_origin", "")
	v.SetDefault("body_limit_bytes", 1<<20)
	v.SetDefault("rate_limit_window", 15*time.Minute)
	v.SetDefault("rate_limit_max", 120)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("data_dir", "data")
	v.SetDefault("store_driver", "json")
	v.SetDefault("sqlite_path", "data/webly.db")
	v.SetDefault("static_dir", "public")
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("admin_url", "http://localhost:3000/admin")
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("stripe_publishable_key", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("email_from", "")
	v.SetDefault("email_to", "")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

func storefrontDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("api_base_url", "http://localhost:3000")
	v.SetDefault("cart_storage", "file")
	v.SetDefault("cart_file", defaultCartFile())
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("cart_profile", "default")
	v.SetDefault("request_timeout", 15*time.Second)
}

// LoadServer reads the api-gateway settings from defaults, the optional config
// file and the environment, in increasing precedence.
func LoadServer() (*Server, error) {
	v, err := newViper(serverDefaults)
	if err != nil {
		return nil, err
	}
	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode server config: %w", err)
	}
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	return &cfg, nil
}

func LoadStorefront() (*Storefront, error) {
	v, err := newViper(storefrontDefaults)
	if err != nil {
		return nil, err
	}
	var cfg Storefront
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode storefront config: %w", err)
	}
	return &cfg, nil
}

func newViper(defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// cleanList also splits entries that still hold commas, which happens when the
// value came from a config file instead of the environment.
func cleanList(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func defaultCartFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "consultpro_cart.json"
	}
	return dir + string(os.PathSeparator) + "webly" + string(os.PathSeparator) + "cart.json"
}
