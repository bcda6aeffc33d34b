// Package view renders html/template pages wrapped in the shared layout.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/tvstock/auth"
)

var (
	mu       sync.RWMutex
	baseDir  string
	devMode  bool
	tplCache = map[string]*template.Template{}

	// canResolver lets templates ask the host app's gate about the current user.
	canResolver func(r *http.Request, resource, action string) bool
)

// partials are parsed alongside every page when present.
var partials = []string{"flash.html", "nav.html"}

// SetCanResolver sets the callback behind the "can" template func.
func SetCanResolver(f func(r *http.Request, resource, action string) bool) {
	mu.Lock()
	canResolver = f
	mu.Unlock()
}

// SetDev disables the template cache so edits show up on reload.
func SetDev(dev bool) {
	mu.Lock()
	devMode = dev
	mu.Unlock()
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	mu.Lock()
	baseDir = filepath.Clean(path)
	tplCache = map[string]*template.Template{}
	mu.Unlock()
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	mu.Lock()
	baseDir = ""
	tplCache = map[string]*template.Template{}
	mu.Unlock()
}

func detectBase() string {
	for _, c := range []string{"templates", "../templates", "../../templates", "../../../templates"} {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return filepath.Clean(c)
		}
	}
	return "templates"
}

// Funcs returns the helpers available to every template.
func Funcs(r *http.Request) template.FuncMap {
	return template.FuncMap{
		"can": func(resource, action string) bool {
			mu.RLock()
			f := canResolver
			mu.RUnlock()
			return f != nil && f(r, resource, action)
		},
		"year": func() int { return time.Now().Year() },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.DateOnly)
		},
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				if key, ok := values[i].(string); ok {
					m[key] = values[i+1]
				}
			}
			return m
		},
	}
}

// Render executes page name with data inside layout.html and status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. The page is executed
// into a buffer first so a template error never leaves a half-written 200.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}
	p, loggedIn := auth.PrincipalFromContext(r.Context())
	if _, ok := data["IsLoggedIn"]; !ok {
		data["IsLoggedIn"] = loggedIn
	}
	if _, ok := data["Role"]; !ok {
		data["Role"] = p.Role
	}

	t, err := load(r, name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func load(r *http.Request, name string) (*template.Template, error) {
	mu.Lock()
	if baseDir == "" {
		baseDir = detectBase()
	}
	dir, dev := baseDir, devMode
	t, ok := tplCache[name]
	mu.Unlock()
	if ok && !dev {
		return bind(t, r)
	}

	mainPath := filepath.Join(dir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	files := []string{filepath.Join(dir, "layout.html"), mainPath}
	for _, p := range partials {
		pp := filepath.Join(dir, "partials", p)
		if fi, err := os.Stat(pp); err == nil && !fi.IsDir() {
			files = append(files, pp)
		}
	}
	t, err := template.New("layout.html").Funcs(Funcs(r)).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	if !dev {
		mu.Lock()
		tplCache[name] = t
		mu.Unlock()
	}
	return bind(t, r)
}

// bind clones the cached master so request-scoped funcs never leak between
// requests; the master itself is never executed.
func bind(master *template.Template, r *http.Request) (*template.Template, error) {
	t, err := master.Clone()
	if err != nil {
		return nil, err
	}
	return t.Funcs(Funcs(r)), nil
}
