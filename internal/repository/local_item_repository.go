package repository

import (
	"encoding/json"

	"driftnote-server/internal/domain"

	"go.uber.org/zap"
)

// Collection names are physical storage partitions only; every semantic
// read unions both and every delete rewrites both.
const (
	CollectionNotes   = "notes"
	CollectionFolders = "folders"
)

// KV is the persistent key-value surface backing the fallback path.
// Implemented by localstore.Store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, payload string) error
}

// LocalItemRepository is the local fallback store. It never surfaces an
// error: a missing or corrupt collection reads as empty, and write
// failures are logged and swallowed, so calling code always receives a
// well-typed value.
type LocalItemRepository struct {
	kv     KV
	logger *zap.Logger
}

func NewLocalItemRepository(kv KV, logger *zap.Logger) *LocalItemRepository {
	return &LocalItemRepository{
		kv:     kv,
		logger: logger,
	}
}

// CollectionFor maps an item kind to its physical collection.
func CollectionFor(kind domain.ItemKind) string {
	if kind == domain.KindFolder {
		return CollectionFolders
	}
	return CollectionNotes
}

func (r *LocalItemRepository) Load(collection string) []domain.Item {
	payload, found, err := r.kv.Get(collection)
	if err != nil {
		r.logger.Warn("failed to read local collection",
			zap.String("collection", collection), zap.Error(err))
		return []domain.Item{}
	}
	if !found {
		return []domain.Item{}
	}

	var items []domain.Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		r.logger.Warn("corrupt local collection, masking as empty",
			zap.String("collection", collection), zap.Error(err))
		return []domain.Item{}
	}
	return items
}

func (r *LocalItemRepository) Save(collection string, items []domain.Item) {
	if items == nil {
		items = []domain.Item{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		r.logger.Error("failed to serialize local collection",
			zap.String("collection", collection), zap.Error(err))
		return
	}

	if err := r.kv.Set(collection, string(payload)); err != nil {
		r.logger.Error("failed to write local collection",
			zap.String("collection", collection), zap.Error(err))
	}
}

// LoadAll unions the notes and folders partitions into the one logical
// item collection.
func (r *LocalItemRepository) LoadAll() []domain.Item {
	items := r.Load(CollectionNotes)
	return append(items, r.Load(CollectionFolders)...)
}
