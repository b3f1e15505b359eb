package storage

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when a slot has never been written
var ErrNotFound = errors.New("slot not found")

// ErrCorrupt is returned by GetJSON when a slot holds a value that does not
// decode into the requested type
var ErrCorrupt = errors.New("slot value is not decodable")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is a durable key/value store holding whole values per slot.
// Writes replace the full value; there are no partial updates and no
// transactions across slots.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the slot into v. A missing slot leaves v untouched and
// returns ErrNotFound.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(ErrCorrupt, "decode slot %s: %v", key, err)
	}
	return nil
}

// PutJSON encodes v and writes it as the slot's whole value
func PutJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode slot %s", key)
	}
	return s.Put(ctx, key, raw)
}

// IsNotFound reports whether err means the slot is absent
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// IsCorrupt reports whether err means the slot could not be decoded
func IsCorrupt(err error) bool {
	return errors.Cause(err) == ErrCorrupt
}
