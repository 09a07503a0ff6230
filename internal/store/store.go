// Package store keeps encoded NDEF message images in a pebble database
// keyed by KSUID.
package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/danmuck/ndefkit/internal/protocol/ndef"
)

var ErrNotFound = errors.New("store: message not found")

type Store struct {
	db     *pebble.DB
	limits ndef.Limits
}

// Open opens or creates the database at path. Images are validated
// against limits before they are written.
func Open(path string, limits ndef.Limits) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db, limits: limits}, nil
}

// Create stores data under a new id. data must decode as a message.
func (s *Store) Create(data []byte) (ksuid.KSUID, error) {
	if _, err := ndef.DecodeWithLimits(data, s.limits); err != nil {
		return ksuid.Nil, err
	}
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("store: set %s: %w", id, err)
	}
	return id, nil
}

// Read returns a copy of the image stored under id.
func (s *Store) Read(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Message reads and decodes the image stored under id.
func (s *Store) Message(id ksuid.KSUID) (*ndef.Message, error) {
	data, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	return ndef.DecodeWithLimits(data, s.limits)
}

func (s *Store) Delete(id ksuid.KSUID) error {
	if _, err := s.Read(id); err != nil {
		return err
	}
	return s.db.Delete(id.Bytes(), pebble.Sync)
}

// List returns stored ids in creation order.
func (s *Store) List() ([]ksuid.KSUID, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("store: iterate: %w", err)
	}
	defer iter.Close()

	ids := make([]ksuid.KSUID, 0)
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("store: bad key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, iter.Error()
}

func (s *Store) Close() error {
	return s.db.Close()
}
