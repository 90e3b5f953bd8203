package store

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDv7 generates time-ordered UUIDs: a millisecond timestamp followed by
// random bits. This is the default generator.
type UUIDv7 struct{}

func (UUIDv7) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// UUIDv4 generates purely random UUIDs.
type UUIDv4 struct{}

func (UUIDv4) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Sequence issues "<prefix><n>" ids from a process-local counter. The prefix
// should be unique per process (for example a uuid) when ids leave it.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

// NewSequence returns a Sequence whose prefix is a random nonce.
func NewSequence() *Sequence {
	return &Sequence{Prefix: uuid.NewString()[:8] + "-"}
}

func (s *Sequence) NewID() (string, error) {
	return s.Prefix + strconv.FormatUint(s.n.Add(1), 10), nil
}
