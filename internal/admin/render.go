package admin

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"antiques-directory/internal/hours"
	"antiques-directory/internal/models"
)

// adminTemplates holds the parsed templates for the curator UI.
var adminTemplates *template.Template

// basePath holds the base path for URLs in templates
var basePath = "/"

// funcMap provides template helper functions used across templates.
var funcMap = template.FuncMap{
	"basePath": func() string {
		return basePath
	},
	"time12": func(t string) string {
		return hours.FormatTimeFor12Hour(t)
	},
	"dayName": func(d models.StorageDay) string {
		return d.Name()
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"fmtFloat": func(f *float64) string {
		if f == nil {
			return ""
		}
		return fmt.Sprintf("%.6f", *f)
	},
	"intVal": func(i interface{}, def int) int {
		switch v := i.(type) {
		case *int:
			if v == nil {
				return def
			}
			return *v
		case int:
			return v
		case int64:
			return int(v)
		case *int64:
			if v == nil {
				return def
			}
			return int(*v)
		default:
			return def
		}
	},
}

// LoadTemplates parses all admin templates from the provided filesystem. It
// should be called at application startup.
func LoadTemplates(fsys fs.FS) error {
	t, err := template.New("").Funcs(funcMap).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return err
	}
	adminTemplates = t
	return nil
}

// SetBasePath sets the base path for URLs in templates.
func SetBasePath(path string) {
	basePath = path
}

// ExecuteTemplate renders a named template to the ResponseWriter.
func ExecuteTemplate(w http.ResponseWriter, name string, data interface{}) error {
	if adminTemplates == nil {
		return fmt.Errorf("templates not loaded: call admin.LoadTemplates at startup")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return adminTemplates.ExecuteTemplate(w, name, data)
}

// RenderUnauthorized renders the unauthorized access page
func RenderUnauthorized(w http.ResponseWriter, ip string) {
	data := struct {
		IP string
	}{
		IP: ip,
	}
	w.WriteHeader(http.StatusForbidden)
	if err := ExecuteTemplate(w, "unauthorized.tmpl", data); err != nil {
		http.Error(w, "Unauthorized", http.StatusForbidden)
	}
}
