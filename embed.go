package main

import (
	"embed"
	"io/fs"
)

//go:embed web/templates/public/*.tmpl
var publicTemplatesFS embed.FS

//go:embed web/templates/admin/*.tmpl
var adminTemplatesFS embed.FS

//go:embed web/static
var staticFS embed.FS

// PublicTemplates returns a filesystem rooted at web/templates/public.
func PublicTemplates() fs.FS {
	if sub, err := fs.Sub(publicTemplatesFS, "web/templates/public"); err == nil {
		return sub
	}
	return publicTemplatesFS
}

// AdminTemplates returns a filesystem rooted at web/templates/admin.
func AdminTemplates() fs.FS {
	if sub, err := fs.Sub(adminTemplatesFS, "web/templates/admin"); err == nil {
		return sub
	}
	return adminTemplatesFS
}

// Static returns a filesystem rooted at web/static within the embedded FS.
func Static() fs.FS {
	if sub, err := fs.Sub(staticFS, "web/static"); err == nil {
		return sub
	}
	return staticFS
}
