// Package assets loads the read-only deployment artifacts — sequence email
// templates and bundle attachments — into memory at process start. The
// resulting Store is immutable and shared lock-free across requests; no
// request handler ever touches the filesystem.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// NameToken is the reserved placeholder in template files supplied by the
// asset store. Load rewrites it into a template pipeline before parsing, so
// every substitution is HTML-escaped — markup injected through a recipient
// name cannot alter document structure.
const NameToken = "{{NAME}}"

// ErrAssetMissing is returned when a requested template or attachment is not
// part of the loaded asset collection.
var ErrAssetMissing = errors.New("assets: asset not found")

// TemplateData carries the values available to template files.
type TemplateData struct {
	Name string
}

// Store holds the parsed templates and raw attachment bytes. Populated once
// by Load and never mutated afterward.
type Store struct {
	templates   map[string]*template.Template
	attachments map[string][]byte
}

// Load reads every file under dir exactly once and returns an immutable
// Store. Files under dir/templates are parsed as HTML templates; files under
// dir/attachments are kept as raw bytes. Both are keyed by base filename.
func Load(dir string) (*Store, error) {
	s := &Store{
		templates:   make(map[string]*template.Template),
		attachments: make(map[string][]byte),
	}

	tmplDir := filepath.Join(dir, "templates")
	entries, err := os.ReadDir(tmplDir)
	if err != nil {
		return nil, fmt.Errorf("assets: read template dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(tmplDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("assets: read template %s: %w", e.Name(), err)
		}
		// Rewrite the reserved token into an escaping pipeline. The file
		// itself is trusted markup; only the interpolated name is not.
		src := strings.ReplaceAll(string(raw), NameToken, "{{.Name}}")
		tmpl, err := template.New(e.Name()).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("assets: parse template %s: %w", e.Name(), err)
		}
		s.templates[e.Name()] = tmpl
	}

	attachDir := filepath.Join(dir, "attachments")
	entries, err = os.ReadDir(attachDir)
	if err != nil {
		// Attachments are optional — a deployment that only runs the
		// sequence service ships no attachment dir.
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("assets: read attachment dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(attachDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("assets: read attachment %s: %w", e.Name(), err)
		}
		s.attachments[e.Name()] = raw
	}

	return s, nil
}

// HasTemplate reports whether a template with the given filename was loaded.
func (s *Store) HasTemplate(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// RenderTemplate executes the named template with data and returns the
// resulting HTML. Returns ErrAssetMissing for unknown names.
func (s *Store) RenderTemplate(name string, data TemplateData) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: template %s", ErrAssetMissing, name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("assets: execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Attachment returns the raw bytes of the named attachment. Returns
// ErrAssetMissing for unknown names. Callers must not modify the slice.
func (s *Store) Attachment(name string) ([]byte, error) {
	b, ok := s.attachments[name]
	if !ok {
		return nil, fmt.Errorf("%w: attachment %s", ErrAssetMissing, name)
	}
	return b, nil
}
