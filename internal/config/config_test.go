package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.KafkaTopic != "booking-events" {
		t.Fatalf("unexpected topic %q", cfg.KafkaTopic)
	}
	if cfg.CatalogURL == "" {
		t.Fatal("expected a default catalog URL")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "http_addr: \":9000\"\ngeocoder_url: \"http://geo.internal\"\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("GEOCODE_TIMEOUT", "750ms")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("env should win over yaml, got %q", cfg.HTTPAddr)
	}
	if cfg.GeocoderURL != "http://geo.internal" {
		t.Fatalf("yaml value lost, got %q", cfg.GeocoderURL)
	}
	if cfg.GeocodeTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected timeout %s", cfg.GeocodeTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected level %q", cfg.LogLevel)
	}
}

func TestInvalidDurationReported(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	if _, err := LoadServerConfig(); err == nil {
		t.Fatal("expected an error for a bad duration")
	}
}
