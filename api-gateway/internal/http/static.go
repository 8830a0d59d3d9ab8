package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Static serves the public site from dir. Anything that is not a regular
// file answers the JSON 404.
type Static struct {
	dir string
}

func NewStatic(dir string) *Static {
	return &Static{dir: dir}
}

// Page serves one named file, like "/" -> index.html.
func (s *Static) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, name)
	}
}

func (s *Static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, r.URL.Path)
}

func (s *Static) serve(w http.ResponseWriter, r *http.Request, name string) {
	clean := path.Clean("/" + name)
	full := filepath.Join(s.dir, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() || strings.HasPrefix(filepath.Base(full), ".") {
		NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}
