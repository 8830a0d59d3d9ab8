package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blunfr84/Webly/api-gateway/internal/domain"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteRepository stores services and messages. Events and analytics stay
// in JSON files.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

const serviceColumns = `id, category, title, description, type, price, subscription_price, duration, features, options`

func scanService(row rowScanner) (*catalog.Service, error) {
	var (
		s                 catalog.Service
		price, subPrice   sql.NullFloat64
		duration          sql.NullInt64
		features, options string
	)
	if err := row.Scan(&s.ID, &s.Category, &s.Title, &s.Description, &s.Type,
		&price, &subPrice, &duration, &features, &options); err != nil {
		return nil, err
	}
	if price.Valid {
		s.Price = catalog.Float(price.Float64)
	}
	if subPrice.Valid {
		s.SubscriptionPrice = catalog.Float(subPrice.Float64)
	}
	if duration.Valid {
		s.Duration = catalog.Int(int(duration.Int64))
	}
	if err := json.Unmarshal([]byte(features), &s.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features of service %d: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(options), &s.Options); err != nil {
		return nil, fmt.Errorf("failed to decode options of service %d: %w", s.ID, err)
	}
	return &s, nil
}

func serviceArgs(s *catalog.Service) ([]any, error) {
	features := s.Features
	if features == nil {
		features = []string{}
	}
	options := s.Options
	if options == nil {
		options = []catalog.Option{}
	}
	f, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	o, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}

	var price, subPrice sql.NullFloat64
	if s.Price != nil {
		price = sql.NullFloat64{Float64: *s.Price, Valid: true}
	}
	if s.SubscriptionPrice != nil {
		subPrice = sql.NullFloat64{Float64: *s.SubscriptionPrice, Valid: true}
	}
	var duration sql.NullInt64
	if s.Duration != nil {
		duration = sql.NullInt64{Int64: int64(*s.Duration), Valid: true}
	}

	return []any{s.Category, s.Title, s.Description, string(s.Type), price, subPrice, duration, string(f), string(o)}, nil
}

func (r *SQLiteRepository) ListServices(ctx context.Context) ([]catalog.Service, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := []catalog.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return services, nil
}

func (r *SQLiteRepository) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	return getService(ctx, r.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getService(ctx context.Context, q querier, id int64) (*catalog.Service, error) {
	row := q.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: service %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service %d: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteRepository) CreateService(ctx context.Context, svc *catalog.Service) error {
	args, err := serviceArgs(svc)
	if err != nil {
		return fmt.Errorf("failed to encode service: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO services (category, title, description, type, price, subscription_price, duration, features, options)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read service id: %w", err)
	}
	svc.ID = id
	return nil
}

func (r *SQLiteRepository) UpdateService(ctx context.Context, id int64, fn func(*catalog.Service) error) (*catalog.Service, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	svc, err := getService(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(svc); err != nil {
		return nil, err
	}
	svc.ID = id

	args, err := serviceArgs(svc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE services
		SET category = ?, title = ?, description = ?, type = ?, price = ?,
		    subscription_price = ?, duration = ?, features = ?, options = ?
		WHERE id = ?`, append(args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update service %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return svc, nil
}

func (r *SQLiteRepository) DeleteService(ctx context.Context, id int64) (*catalog.Service, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	svc, err := getService(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete service %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return svc, nil
}

const messageColumns = `id, name, email, phone, company, message, date, time, status, read`

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Company, &m.Message,
		&m.Date, &m.Time, &m.Status, &m.Read); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *SQLiteRepository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return messages, nil
}

func (r *SQLiteRepository) GetMessage(ctx context.Context, id int64) (*domain.Message, error) {
	return getMessage(ctx, r.db, id)
}

func getMessage(ctx context.Context, q querier, id int64) (*domain.Message, error) {
	row := q.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: message %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message %d: %w", id, err)
	}
	return m, nil
}

func (r *SQLiteRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (name, email, phone, company, message, date, time, status, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.Name, msg.Email, msg.Phone, msg.Company, msg.Message, msg.Date, msg.Time, msg.Status, msg.Read)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read message id: %w", err)
	}
	msg.ID = id
	return nil
}

func (r *SQLiteRepository) UpdateMessage(ctx context.Context, id int64, fn func(*domain.Message) error) (*domain.Message, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	msg, err := getMessage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(msg); err != nil {
		return nil, err
	}
	msg.ID = id

	_, err = tx.ExecContext(ctx, `
		UPDATE messages
		SET name = ?, email = ?, phone = ?, company = ?, message = ?, date = ?, time = ?, status = ?, read = ?
		WHERE id = ?`,
		msg.Name, msg.Email, msg.Phone, msg.Company, msg.Message, msg.Date, msg.Time, msg.Status, msg.Read, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update message %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return msg, nil
}

func (r *SQLiteRepository) DeleteMessage(ctx context.Context, id int64) (*domain.Message, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	msg, err := getMessage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete message %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return msg, nil
}
