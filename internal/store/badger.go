package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/fairyhunter13/product-catalog-service/internal/model"
)

const productPrefix = "product:"

// BadgerStore implements ProductStore on top of a Badger key-value database.
type BadgerStore struct {
	db *badger.DB
}

// Open creates a BadgerStore at dir. An empty dir opens a transient
// in-memory database.
func Open(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error { return s.db.Close() }

func productKey(id string) []byte { return []byte(productPrefix + id) }

func (s *BadgerStore) Insert(ctx context.Context, p model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(productKey(p.ID), data)
	})
}

func (s *BadgerStore) Get(ctx context.Context, id string) (model.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Product{}, false, err
	}
	var p model.Product
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(productKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("decode product %s: %w", id, err)
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return model.Product{}, false, err
	}
	return p, found, nil
}

func (s *BadgerStore) List(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products := []model.Product{}
	prefix := []byte(productPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var p model.Product
				if err := json.Unmarshal(v, &p); err != nil {
					return fmt.Errorf("decode product: %w", err)
				}
				products = append(products, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *BadgerStore) Replace(ctx context.Context, p model.Product) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return false, err
	}
	found := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(productKey(p.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return txn.Set(productKey(p.ID), data)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Badger's Delete on an absent key succeeds, which is exactly the
	// idempotent behavior callers rely on.
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(productKey(id))
	})
}
