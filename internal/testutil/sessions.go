package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/schemaql/internal/content"
)

// SequentialSessionIDs generates "session-1", "session-2", ... so event
// logs and registry dumps are byte-identical across runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialSessionIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialSessionIDs creates a generator. An empty prefix means
// "session".
func NewSequentialSessionIDs(prefix string) *SequentialSessionIDs {
	if prefix == "" {
		prefix = "session"
	}
	return &SequentialSessionIDs{prefix: prefix}
}

// Generate returns the next id. Implements content.IDGenerator.
func (g *SequentialSessionIDs) Generate() content.SessionID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return content.SessionID(fmt.Sprintf("%s-%d", g.prefix, g.seq))
}

// Reset restarts the sequence at 1.
func (g *SequentialSessionIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
