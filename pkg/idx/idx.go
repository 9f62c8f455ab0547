// Package idx generates ULID request identifiers from a shared monotonic
// entropy source, safe for concurrent use.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID string.
type ID string

func (id ID) String() string { return string(id) }

var (
	once sync.Once
	gen  *generator
)

type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	u := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), g.entropy)
	return ID(u.String())
}

// New returns a fresh lexicographically sortable ID.
func New() ID {
	once.Do(func() {
		gen = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
	})
	return gen.next()
}
