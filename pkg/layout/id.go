package layout

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID identifies a layout node. The owning widget assigns it at construction
// time so renderers can map a solved box back to the widget that drew it.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IDGenerator hands out identities unique within one widget tree.
// Generators are passed explicitly to whoever builds the tree.
type IDGenerator interface {
	NewID() ID
}

// Sequence generates deterministic ids of the form "prefix-1", "prefix-2", ...
// It is safe for concurrent use.
type Sequence struct {
	prefix string
	next   atomic.Uint64
}

// NewSequence returns a Sequence that prefixes ids with prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() ID {
	n := s.next.Add(1)
	if s.prefix == "" {
		return ID(strconv.FormatUint(n, 10))
	}
	return ID(s.prefix + "-" + strconv.FormatUint(n, 10))
}

type uuidGenerator struct{}

// UUIDs returns a generator of random (version 4) UUID identities.
func UUIDs() IDGenerator { return uuidGenerator{} }

func (uuidGenerator) NewID() ID { return ID(uuid.NewString()) }
