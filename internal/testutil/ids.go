package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator hands out predetermined build IDs in order, then
// numbered fallbacks once they run out.
//
// It satisfies store.IDGenerator, so tests that record artifacts get
// byte-identical rows across runs.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewFixedIDGenerator returns a generator over ids. With no ids every
// call yields "build-<n>", starting at 1.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next build ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("build-%d", g.n)
}
