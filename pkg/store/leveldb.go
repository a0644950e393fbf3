package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStore serves objects from a local LevelDB snapshot of the site
// bundle. It is used for offline development and for edge nodes that carry
// a pre-seeded copy of the published site.
//
// Keys are object paths; values are raw object bytes. Content types are
// derived from the path extension, which matches how the site bundle is
// published (every object path carries its real extension).
type LevelDBStore struct {
	db     *leveldb.DB
	logger zerolog.Logger
}

// OpenLevelDBStore opens (or creates) a snapshot database at dir.
// The returned store must be closed by the caller.
func OpenLevelDBStore(dir string, logger zerolog.Logger) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %s: %w", dir, err)
	}

	return &LevelDBStore{
		db:     db,
		logger: logger.With().Str("component", "leveldb-store").Logger(),
	}, nil
}

// Put publishes an object into the snapshot.
func (s *LevelDBStore) Put(objectPath string, body []byte) error {
	if err := s.db.Put([]byte(objectPath), body, nil); err != nil {
		return fmt.Errorf("snapshot put %s: %w", objectPath, err)
	}
	return nil
}

// Get implements Store.
func (s *LevelDBStore) Get(ctx context.Context, objectPath string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Path: objectPath, Err: err}
	}

	body, err := s.db.Get([]byte(objectPath), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		s.logger.Warn().Err(err).Str("path", objectPath).Msg("Snapshot read failed")
		return nil, &StoreError{Path: objectPath, Err: err}
	}

	return &Object{
		Body:        body,
		ContentType: contentTypeForPath(objectPath),
	}, nil
}

// Close closes the underlying database.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
