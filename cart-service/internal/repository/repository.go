package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/pkg/jsonstore"
)

var ErrCorruptStorage = errors.New("corrupt cart storage")

// FileStorage is a local key/value file: one JSON object whose keys are
// storage keys. The cart lives under cart.StorageKey; other keys are kept.
type FileStorage struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path, key: cart.StorageKey}
}

// Load returns nil items when nothing was saved yet.
func (f *FileStorage) Load(ctx context.Context) ([]cart.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[f.key]
	if !ok {
		return nil, nil
	}

	var items []cart.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStorage, err)
	}
	return items, nil
}

func (f *FileStorage) Save(ctx context.Context, items []cart.CartItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc()
	if errors.Is(err, ErrCorruptStorage) {
		doc = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}

	if items == nil {
		items = []cart.CartItem{}
	}
	value, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	doc[f.key] = value

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage failed: %w", err)
	}
	return jsonstore.WriteFileAtomic(f.path, data)
}

func (f *FileStorage) readDoc() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart storage: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStorage, err)
	}
	return doc, nil
}
