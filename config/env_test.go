package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "STORE_DSN", "POLLING_INTERVAL", "RETENTION_WINDOW", "AUTO_START_TRACKING"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.StoreDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.StoreDriver)
	}
	if cfg.PollingInterval != 5*time.Minute {
		t.Errorf("expected 5m polling interval, got %s", cfg.PollingInterval)
	}
	if cfg.RetentionWindow != 28*24*time.Hour {
		t.Errorf("expected 28 day retention, got %s", cfg.RetentionWindow)
	}
	if !cfg.AutoStartTracking {
		t.Error("expected tracking to auto start")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("STORE_DSN", "")
	t.Setenv("POLLING_INTERVAL", "30s")
	t.Setenv("RETENTION_WINDOW", "not-a-duration")
	t.Setenv("AUTO_START_TRACKING", "false")

	cfg := Load()
	if cfg.StoreDSN != defaultDSN(DriverPostgres) {
		t.Errorf("expected postgres default dsn, got %s", cfg.StoreDSN)
	}
	if cfg.PollingInterval != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.PollingInterval)
	}
	if cfg.RetentionWindow != 28*24*time.Hour {
		t.Errorf("expected fallback retention, got %s", cfg.RetentionWindow)
	}
	if cfg.AutoStartTracking {
		t.Error("expected tracking auto start to be disabled")
	}
}

func TestNewStore_UnknownDriver(t *testing.T) {
	if _, err := NewStore(&Config{StoreDriver: "mysql"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_SQLiteMemory(t *testing.T) {
	db, err := NewStore(&Config{StoreDriver: DriverSQLite, StoreDSN: ":memory:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = db.Close()
}
