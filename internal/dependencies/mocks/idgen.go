package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/cricketreg/internal/dependencies/idgen"
)

// MockIDGenerator is a mock implementation of Generator for testing
// It returns queued IDs first, then sequential "id-N" values
type MockIDGenerator struct {
	mu     sync.Mutex
	queue  []string
	issued int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a new MockIDGenerator
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

// NewID returns the next queued ID, or a sequential one if none remain
func (g *MockIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	return fmt.Sprintf("id-%d", g.issued)
}

// Queue adds IDs to be returned by NewID
func (g *MockIDGenerator) Queue(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, ids...)
}

// Issued returns how many IDs have been handed out
func (g *MockIDGenerator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}
