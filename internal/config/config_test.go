package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formschema.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(FileEnv, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv(FileEnv, writeFile(t, `
server:
  addr: ":9000"
definitions:
  dir: ./defs
  watch: true
store:
  driver: sqlite
  dsn: file:states.db
  ttl: 10m
serializer: simplified
log:
  level: debug
`))
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9100" || cfg.Server.Mode != "release" {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if !cfg.Definitions.Watch || cfg.Definitions.Dir != "./defs" {
		t.Fatalf("unexpected definitions config %+v", cfg.Definitions)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.TTL != 10*time.Minute || cfg.Store.Table != "formschema_states" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Serializer != "simplified" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing file")
	}

	t.Setenv(FileEnv, writeFile(t, "store: [broken"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "postgres"
	cfg.Serializer = "xml"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "yaml"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, fragment := range []string{"requires a dsn", `serializer "xml" not found`, `log level "loud"`, `log format "yaml"`} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}

	cfg = Default()
	cfg.Store.Driver = "redis"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "unknown store driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level")
	}
	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Warn("shown")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}
