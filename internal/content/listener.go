package content

// Listener observes content changes. All callbacks carry the id of the
// session that caused them.
type Listener interface {
	OnSessionStart(session SessionID)
	OnBeforeFlush(session SessionID)
	OnFlushSuccess(session SessionID)
	OnFlushFailure(session SessionID, err error)
	OnSessionEnd(session SessionID)

	OnNodeCreated(session SessionID, node Node)
	// OnNodeRemoved receives the node as it was before removal.
	OnNodeRemoved(session SessionID, node Node)
	OnPropertyCreated(session SessionID, node Node, prop Property)
	OnPropertyChanged(session SessionID, node Node, prop Property)
	OnPropertyRemoved(session SessionID, node Node, name string)
}

// Store is the read and subscribe side of a content store.
type Store interface {
	Root() Node
	Node(path string) (Node, bool)
	AddListener(l Listener)
	RemoveListener(l Listener)
}

var _ Store = (*MemoryStore)(nil)

// NopListener ignores every event. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) OnSessionStart(SessionID)                    {}
func (NopListener) OnBeforeFlush(SessionID)                     {}
func (NopListener) OnFlushSuccess(SessionID)                    {}
func (NopListener) OnFlushFailure(SessionID, error)             {}
func (NopListener) OnSessionEnd(SessionID)                      {}
func (NopListener) OnNodeCreated(SessionID, Node)               {}
func (NopListener) OnNodeRemoved(SessionID, Node)               {}
func (NopListener) OnPropertyCreated(SessionID, Node, Property) {}
func (NopListener) OnPropertyChanged(SessionID, Node, Property) {}
func (NopListener) OnPropertyRemoved(SessionID, Node, string)   {}
