package auth

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCuratorResolver_CuratorID(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "curators.yaml")
	yamlContent := `"10.0.1.5": 101
"10.0.1.8": 202
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	resolver := NewCuratorResolver(yamlPath)
	if !resolver.IsLoaded() {
		t.Fatal("roster should be loaded")
	}

	tests := []struct {
		name          string
		remoteAddr    string
		xForwardedFor string
		xRealIP       string
		expectedID    int
		expectedFound bool
	}{
		{
			name:          "RemoteAddr match",
			remoteAddr:    "10.0.1.5:12345",
			expectedID:    101,
			expectedFound: true,
		},
		{
			name:          "X-Forwarded-For takes precedence",
			remoteAddr:    "192.168.1.1:12345",
			xForwardedFor: "10.0.1.8",
			expectedID:    202,
			expectedFound: true,
		},
		{
			name:          "X-Forwarded-For list uses first entry",
			remoteAddr:    "192.168.1.1:12345",
			xForwardedFor: "10.0.1.5,10.0.0.1",
			expectedID:    101,
			expectedFound: true,
		},
		{
			name:          "X-Real-IP fallback",
			remoteAddr:    "192.168.1.1:12345",
			xRealIP:       "10.0.1.5",
			expectedID:    101,
			expectedFound: true,
		},
		{
			name:          "unknown IP",
			remoteAddr:    "192.168.1.1:12345",
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			id, found := resolver.CuratorID(req)
			if found != tt.expectedFound || id != tt.expectedID {
				t.Errorf("CuratorID = (%d, %v), want (%d, %v)", id, found, tt.expectedID, tt.expectedFound)
			}
		})
	}
}

func TestCuratorResolver_MissingRoster(t *testing.T) {
	resolver := NewCuratorResolver(filepath.Join(t.TempDir(), "absent.yaml"))
	if resolver.IsLoaded() {
		t.Fatal("missing roster must not report loaded")
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.RemoteAddr = "10.0.1.5:12345"
	if _, found := resolver.CuratorID(req); found {
		t.Fatal("missing roster must resolve nobody")
	}
}
