package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UndoLimit != 50 || cfg.Port != 8080 || cfg.StoreDriver != "sqlite" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.Origins(); len(got) != 2 || got[0] != "localhost:5173" {
		t.Fatalf("origins = %v", got)
	}
	if v := cfg.Viewport(); v == nil || v.Width != 2000 {
		t.Fatalf("viewport = %+v", v)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("UNDO_LIMIT", "5")
	t.Setenv("MOVE_BOUNDS_CHECK", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UndoLimit != 5 || cfg.Viewport() != nil || cfg.Level() != slog.LevelDebug {
		t.Fatalf("cfg = %+v", cfg)
	}

	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
