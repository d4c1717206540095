// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// EvidenceRepository implements storage.EvidenceRepository for BadgerDB.
type EvidenceRepository struct {
	backend *Backend
}

var _ storage.EvidenceRepository = (*EvidenceRepository)(nil)

// NewEvidenceRepository creates a new EvidenceRepository.
func NewEvidenceRepository(backend *Backend) (*EvidenceRepository, error) {
	return &EvidenceRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *EvidenceRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EvidenceRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Search delegates to the backend.
func (r *EvidenceRepository) Search(ctx context.Context, vector []float32, limit int) ([]core.ScoredUnit, error) {
	return r.backend.Search(ctx, vector, limit)
}

// AddEvidenceUnits adds one or more evidence units to storage.
// Units with ID=0 get a content-based ID derived from their fingerprint,
// so re-ingesting the same file overwrites rather than duplicates.
func (r *EvidenceRepository) AddEvidenceUnits(ctx context.Context, units ...*core.EvidenceUnit) ([]*core.EvidenceUnit, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, unit := range units {
			if unit.Id == 0 {
				unit.Id = core.IDFromContent(unit.Fingerprint())
			}
			if unit.InsertedAt.IsZero() {
				unit.InsertedAt = time.Now().UTC()
			}

			// Store primary record
			key := makeEvidenceUnitKey(unit.Id)
			if err := tx.Set(key, storage.MarshalEvidenceUnit(unit)); err != nil {
				return err
			}

			// Update source index
			sourceKey := makeEvidenceSourceKey(unit.SourceFilename, unit.SequenceIndex, unit.Id)
			if err := tx.Set(sourceKey, storage.MarshalID(unit.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return units, err
}

// DeleteEvidenceUnits removes evidence units by their IDs.
func (r *EvidenceRepository) DeleteEvidenceUnits(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEvidenceUnitKey(id)

			// Read unit to locate its source index entry
			unit, err := r.readEvidenceUnit(tx, key)
			if err != nil {
				return err
			}
			if unit == nil {
				return storage.ErrNotFound
			}

			sourceKey := makeEvidenceSourceKey(unit.SourceFilename, unit.SequenceIndex, unit.Id)
			if err := tx.Delete(sourceKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEvidenceUnit retrieves a single evidence unit by ID.
func (r *EvidenceRepository) GetEvidenceUnit(ctx context.Context, id core.ID) (*core.EvidenceUnit, error) {
	var result *core.EvidenceUnit
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readEvidenceUnit(tx, makeEvidenceUnitKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetEvidenceUnits retrieves multiple evidence units by their IDs.
// Missing units are skipped, not an error.
func (r *EvidenceRepository) GetEvidenceUnits(ctx context.Context, ids ...core.ID) ([]*core.EvidenceUnit, error) {
	var result []*core.EvidenceUnit
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			unit, err := r.readEvidenceUnit(tx, makeEvidenceUnitKey(id))
			if err != nil {
				return err
			}
			if unit != nil {
				result = append(result, unit)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetEvidenceUnitsBySource retrieves all units chunked from one source file,
// ordered by sequence index.
func (r *EvidenceRepository) GetEvidenceUnitsBySource(ctx context.Context, sourceFilename string) ([]*core.EvidenceUnit, error) {
	var results []*core.EvidenceUnit
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialEvidenceSourceKey(sourceFilename)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			var unitID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				unitID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			unit, err := r.readEvidenceUnit(tx, makeEvidenceUnitKey(unitID))
			if err != nil {
				return err
			}
			if unit != nil {
				results = append(results, unit)
			}
		}
		return nil
	}, false)

	return results, err
}

// Count returns the number of stored evidence units.
func (r *EvidenceRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(evidenceUnitPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Clear removes all evidence units and their source indices.
func (r *EvidenceRepository) Clear(ctx context.Context) error {
	return r.backend.DropPrefixes(
		[]byte(evidenceUnitPrefix+":"),
		[]byte(evidenceSourcePrefix+":"),
	)
}

// readEvidenceUnit reads a unit by key within a transaction.
// Returns nil without error when the key does not exist.
func (r *EvidenceRepository) readEvidenceUnit(tx *badger.Txn, key []byte) (*core.EvidenceUnit, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var unit *core.EvidenceUnit
	err = item.Value(func(val []byte) error {
		var err error
		unit, err = storage.UnmarshalEvidenceUnit(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}
