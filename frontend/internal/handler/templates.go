package handler

import (
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"
)

func sub(a, b int) int { return a - b }
func add(a, b int) int { return a + b }
func div(a, b int) int { return a / b }

// pages returns 1..n for pagination links.
func pages(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

var funcs = template.FuncMap{
	"sub":   sub,
	"add":   add,
	"div":   div,
	"pages": pages,
	"dict":  dict,
	"join":  strings.Join,
}

// LoadTemplates parses every page in dir together with the base layout and partials.
func LoadTemplates(dir string) (map[string]*template.Template, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, f := range files {
		name := f.Name()
		if filepath.Ext(name) != ".html" || name == baseTemplate || name == partialsTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFiles(
			path.Join(dir, baseTemplate),
			path.Join(dir, name),
			path.Join(dir, partialsTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
