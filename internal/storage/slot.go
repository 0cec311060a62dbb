// Package storage provides the durable snapshot slots the store persists to.
//
// A slot holds one opaque blob under a fixed name. Load returns (nil, nil)
// when nothing has been saved yet; Save overwrites the blob wholesale.
package storage

import "context"

// DefaultSlotName is the key the snapshot is stored under.
const DefaultSlotName = "smart-money-manager-storage"

// Slot is a single named durable blob.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
