package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/schemaql/internal/content"
)

// EventRecorder is a content.Listener that logs every event as a line of
// text, for asserting event order.
type EventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *EventRecorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded lines.
func (r *EventRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *EventRecorder) OnSessionStart(s content.SessionID)          { r.add("%s start", s) }
func (r *EventRecorder) OnBeforeFlush(s content.SessionID)           { r.add("%s before-flush", s) }
func (r *EventRecorder) OnFlushSuccess(s content.SessionID)          { r.add("%s flush-success", s) }
func (r *EventRecorder) OnFlushFailure(s content.SessionID, _ error) { r.add("%s flush-failure", s) }
func (r *EventRecorder) OnSessionEnd(s content.SessionID)            { r.add("%s end", s) }

func (r *EventRecorder) OnNodeCreated(s content.SessionID, n content.Node) {
	r.add("%s node-created %s", s, n.Path())
}

func (r *EventRecorder) OnNodeRemoved(s content.SessionID, n content.Node) {
	r.add("%s node-removed %s", s, n.Path())
}

func (r *EventRecorder) OnPropertyCreated(s content.SessionID, _ content.Node, p content.Property) {
	r.add("%s property-created %s", s, p.Path())
}

func (r *EventRecorder) OnPropertyChanged(s content.SessionID, _ content.Node, p content.Property) {
	r.add("%s property-changed %s", s, p.Path())
}

func (r *EventRecorder) OnPropertyRemoved(s content.SessionID, n content.Node, name string) {
	r.add("%s property-removed %s/%s", s, n.Path(), name)
}
