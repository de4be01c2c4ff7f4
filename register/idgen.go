// ABOUTME: Identifier generation for deal records
// ABOUTME: ULIDs combine a time component with monotonic randomness
package register

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator produces unique deal identifiers. Injected so tests can supply
// deterministic sequences.
type IDGenerator interface {
	Next() string
}

// ULIDGenerator is the production generator. Monotonic entropy guarantees
// distinct IDs within the process lifetime.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (g *ULIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
