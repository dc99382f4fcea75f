// Package content is the boundary to the hierarchical content store: a tree
// of typed nodes carrying typed properties, changed through sessions and
// observed through listeners.
//
// MemoryStore is the in-process implementation. Committed trees are never
// mutated; a Session edits a private copy and swaps it in on Commit when
// nobody else committed in between. Listeners receive each change as the
// session makes it, followed by the flush outcome:
//
//	OnSessionStart
//	OnNodeCreated / OnNodeRemoved / OnProperty{Created,Changed,Removed} ...
//	OnBeforeFlush
//	OnFlushSuccess | OnFlushFailure
//	OnSessionEnd
//
// Events are delivered synchronously on the goroutine that caused them.
package content
