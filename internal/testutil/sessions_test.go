package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/schemaql/internal/content"
)

func TestSequentialSessionIDs(t *testing.T) {
	g := NewSequentialSessionIDs("")
	assert.Equal(t, content.SessionID("session-1"), g.Generate())
	assert.Equal(t, content.SessionID("session-2"), g.Generate())

	g.Reset()
	assert.Equal(t, content.SessionID("session-1"), g.Generate())

	custom := NewSequentialSessionIDs("tx")
	assert.Equal(t, content.SessionID("tx-1"), custom.Generate())
}

func TestSequentialSessionIDs_Concurrent(t *testing.T) {
	g := NewSequentialSessionIDs("")
	seen := make(map[content.SessionID]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}
