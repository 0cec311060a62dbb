package backend

import (
	"context"
	"fmt"

	"smartmoney/internal/log"
	"smartmoney/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateSlot implements Factory.CreateSlot
func (f *DefaultFactory) CreateSlot(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.SlotName == "" {
		config.SlotName = storage.DefaultSlotName
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteSlot(ctx, config)
	case FileBackend:
		return f.createFileSlot(ctx, config)
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory slot", log.FieldSlot, config.SlotName)
		return &Result{Slot: storage.NewMemorySlot()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteSlot(ctx context.Context, config Config) (*Result, error) {
	slot, err := storage.NewSQLiteSlot(config.SQLiteDBPath, config.SlotName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite slot: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite slot",
		log.FieldSlot, config.SlotName,
		"db_path", config.SQLiteDBPath,
		"schema_version", slot.SchemaVersion())

	return &Result{Slot: slot, Cleanup: slot.Close}, nil
}

func (f *DefaultFactory) createFileSlot(ctx context.Context, config Config) (*Result, error) {
	slot, err := storage.NewFileSlot(config.DataDirectory, config.SlotName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file slot: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized file slot",
		log.FieldSlot, config.SlotName,
		"path", slot.Path())

	return &Result{Slot: slot}, nil
}
