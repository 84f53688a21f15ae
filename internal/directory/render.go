package directory

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"antiques-directory/internal/hours"
)

// publicTemplates holds the parsed templates for the visitor-facing pages.
var publicTemplates *template.Template

// basePath holds the base path for URLs in templates
var basePath = "/"

// funcMap provides template helper functions used across templates.
var funcMap = template.FuncMap{
	"basePath": func() string {
		return basePath
	},
	"seq": func(start, end int) []int {
		var s []int
		for i := start; i <= end; i++ {
			s = append(s, i)
		}
		return s
	},
	"time12": func(t string) string {
		return hours.FormatTimeFor12Hour(t)
	},
	"fmtFloat": func(f *float64) string {
		if f == nil {
			return ""
		}
		return fmt.Sprintf("%.6f", *f)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// LoadTemplates parses the public templates from the provided filesystem. It
// should be called at application startup.
func LoadTemplates(fsys fs.FS) error {
	t, err := template.New("").Funcs(funcMap).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return err
	}
	publicTemplates = t
	return nil
}

// SetBasePath sets the base path for URLs in templates.
func SetBasePath(path string) {
	basePath = path
}

// ExecuteTemplate renders a named template to the ResponseWriter.
func ExecuteTemplate(w http.ResponseWriter, name string, data interface{}) error {
	if publicTemplates == nil {
		return fmt.Errorf("templates not loaded: call directory.LoadTemplates at startup")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return publicTemplates.ExecuteTemplate(w, name, data)
}
