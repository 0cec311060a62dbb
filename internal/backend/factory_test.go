package backend

import (
	"context"
	"path/filepath"
	"testing"

	"smartmoney/internal/config"
	"smartmoney/internal/log"
	"smartmoney/internal/storage"
)

func TestCreateSlot(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataDirectory: filepath.Join(dir, "files")}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "sm.db")}, false},
		{"file without dir", Config{Type: FileBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}

	f := NewFactory(log.Discard())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateSlot(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateSlot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer res.Close()

			ctx := context.Background()
			if err := res.Slot.Save(ctx, []byte(`{}`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if data, err := res.Slot.Load(ctx); err != nil || string(data) != `{}` {
				t.Fatalf("load: %q %v", data, err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	app := config.Default()
	app.DataBackend = "sqlite"
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != app.SQLiteDBPath || cfg.SlotName != storage.DefaultSlotName {
		t.Fatalf("unexpected config %+v", cfg)
	}

	app.DataBackend = "nope"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for invalid backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
