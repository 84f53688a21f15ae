// Package auth resolves client IP addresses to curator IDs from a YAML
// roster and gates the admin routes on it. The public listing and map pages
// carry no authentication.
package auth

import (
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// CuratorResolver maps client IPs onto curator IDs loaded from
// curators.yaml (a flat "ip: id" mapping).
type CuratorResolver struct {
	mu       sync.RWMutex
	ipToID   map[string]int
	loaded   bool
	yamlPath string
}

// NewCuratorResolver loads curators.yaml from the given path, or from the
// working directory when path is empty. A missing roster is not fatal; admin
// routes stay blocked until it appears and Reload is called.
func NewCuratorResolver(path string) *CuratorResolver {
	r := &CuratorResolver{ipToID: make(map[string]int)}

	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Printf("Warning: cannot determine working directory: %v", err)
			return r
		}
		path = filepath.Join(cwd, "curators.yaml")
	}

	if err := r.loadRoster(path); err != nil {
		log.Printf("curators.yaml not loaded from %s: %v", path, err)
		log.Printf("Admin pages will be blocked until curators.yaml is present at: %s", path)
	} else {
		r.yamlPath = path
		log.Printf("Loaded curator IP roster from %s (%d entries)", path, len(r.ipToID))
	}
	return r
}

func (r *CuratorResolver) loadRoster(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var roster map[string]int
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ipToID = roster
	r.loaded = true
	return nil
}

// Reload re-reads the roster from disk.
func (r *CuratorResolver) Reload() error {
	if r.yamlPath == "" {
		return nil
	}
	return r.loadRoster(r.yamlPath)
}

// IsLoaded reports whether a roster was successfully loaded.
func (r *CuratorResolver) IsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// CuratorID resolves the request's client IP to a curator id.
func (r *CuratorResolver) CuratorID(req *http.Request) (int, bool) {
	ip := extractClientIP(req)

	r.mu.RLock()
	defer r.mu.RUnlock()
	id, found := r.ipToID[ip]
	return id, found
}

// ClientIP returns the client IP for the request, for the unauthorized page.
func (r *CuratorResolver) ClientIP(req *http.Request) string {
	return extractClientIP(req)
}

// extractClientIP handles X-Forwarded-For and X-Real-IP for reverse proxy
// setups before falling back to RemoteAddr.
func extractClientIP(req *http.Request) string {
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := firstIP(xff); ip != "" {
			return ip
		}
	}
	if xri := req.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return ip
}

// firstIP extracts the first entry of a comma-separated list.
func firstIP(xff string) string {
	for i := 0; i < len(xff); i++ {
		if xff[i] == ',' {
			return xff[:i]
		}
	}
	return xff
}
