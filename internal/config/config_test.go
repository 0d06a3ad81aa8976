package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "STORAGE_BACKEND", "CRAWL_DELAY", "HISTORY_LIMIT", "SERVER_ADDR", "MAX_VISITORS", "VISITOR_IDLE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.StorageBackend != "memory" {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, "memory")
	}
	if cfg.CrawlDelay != 2*time.Second {
		t.Errorf("CrawlDelay = %v, want 2s", cfg.CrawlDelay)
	}
	if cfg.HistoryLimit != 0 {
		t.Errorf("HistoryLimit = %d, want 0", cfg.HistoryLimit)
	}
	if cfg.MaxVisitors != 1000 {
		t.Errorf("MaxVisitors = %d, want 1000", cfg.MaxVisitors)
	}
	if cfg.VisitorIdleTimeout != 30*time.Minute {
		t.Errorf("VisitorIdleTimeout = %v, want 30m", cfg.VisitorIdleTimeout)
	}
	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":3000")
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true")
	}
}

func TestLoad_ParsesNumbersAndDurations(t *testing.T) {
	tests := []struct {
		name      string
		delay     string
		limit     string
		wantDelay time.Duration
		wantLimit int
	}{
		{"valid values", "150ms", "25", 150 * time.Millisecond, 25},
		{"invalid duration falls back", "soon", "25", 2 * time.Second, 25},
		{"negative duration falls back", "-1s", "3", 2 * time.Second, 3},
		{"invalid limit falls back", "0s", "many", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CRAWL_DELAY", tt.delay)
			t.Setenv("HISTORY_LIMIT", tt.limit)

			cfg := Load()
			if cfg.CrawlDelay != tt.wantDelay {
				t.Errorf("CrawlDelay = %v, want %v", cfg.CrawlDelay, tt.wantDelay)
			}
			if cfg.HistoryLimit != tt.wantLimit {
				t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, tt.wantLimit)
			}
		})
	}
}

func TestIsEmailEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"fully configured", Config{SMTPEnabled: true, SMTPHost: "smtp.example.com", SMTPFrom: "noreply@example.com"}, true},
		{"disabled flag", Config{SMTPHost: "smtp.example.com", SMTPFrom: "noreply@example.com"}, false},
		{"missing host", Config{SMTPEnabled: true, SMTPFrom: "noreply@example.com"}, false},
		{"missing from", Config{SMTPEnabled: true, SMTPHost: "smtp.example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEmailEnabled(); got != tt.want {
				t.Errorf("IsEmailEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultFixtures(t *testing.T) {
	links := DefaultFixtures()
	if len(links) != 9 {
		t.Fatalf("len(DefaultFixtures()) = %d, want 9", len(links))
	}

	broken := 0
	for _, l := range links {
		if l.Status >= 400 {
			broken++
		}
	}
	if broken != 4 {
		t.Errorf("broken fixtures = %d, want 4", broken)
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "fixtures.yaml")
	content := `links:
  - url: "{root}/docs"
    source: "{root}"
    status: 200
  - url: "https://gone.example"
    source: "{root}/docs"
    status: 410
`
	if err := os.WriteFile(valid, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	links, err := LoadFixtures(valid)
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	if len(links) != 2 || links[1].Status != 410 || links[0].URL != "{root}/docs" {
		t.Errorf("LoadFixtures() = %+v", links)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("links: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFixtures(empty); err == nil {
		t.Error("LoadFixtures(empty) error = nil, want error")
	}

	if _, err := LoadFixtures(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFixtures(missing) error = nil, want error")
	}

	links, err = LoadFixtures("")
	if err != nil || len(links) != 9 {
		t.Errorf("LoadFixtures(\"\") = %d links, %v; want defaults", len(links), err)
	}
}
