// Package hashid derives the public identifiers for catalog files.
//
// File rows are addressed externally by an obfuscated alphanumeric token
// instead of their sequential primary key. The token is a salted hashids
// encoding of the key: deterministic for a fixed salt, collision free, and
// not guessable without the salt. Only encoding is needed; lookups go through
// the indexed hash_id column.
package hashid

import (
	"errors"
	"fmt"

	hashids "github.com/speps/go-hashids/v2"
)

// DefaultMinLength pads encoded identifiers to a uniform minimum size.
const DefaultMinLength = 8

// Codec encodes file primary keys into public hash identifiers.
type Codec struct {
	h *hashids.HashID
}

// New constructs a Codec from the process-wide salt. The salt must be
// non-empty; identifiers from different salts are incompatible.
func New(salt string, minLength int) (*Codec, error) {
	if salt == "" {
		return nil, errors.New("hashid: salt must not be empty")
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("hashid: init codec: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode returns the public identifier for a positive primary key.
func (c *Codec) Encode(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("hashid: id must be positive, got %d", id)
	}
	encoded, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("hashid: encode %d: %w", id, err)
	}
	return encoded, nil
}
