package engine

// PendingKind identifies which creation form, if any, is waiting to be
// submitted as part of a connected-creation flow.
type PendingKind string

const (
	PendingNone         PendingKind = ""
	PendingResourceForm PendingKind = "resource"
	PendingQuestionForm PendingKind = "question"
)

// PendingConnection captures the engine's connected-creation state:
// which form is open and which existing node the new one will be wired to.
// At most one pending connection exists; a new request overwrites any prior
// one without warning.
type PendingConnection struct {
	Kind      PendingKind `json:"kind"`
	ConnectTo string      `json:"connectTo,omitempty"`
}

// RequestConnectedResource opens the resource form wired to an existing
// question. Last request wins.
func (e *Engine) RequestConnectedResource(questionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = PendingConnection{Kind: PendingResourceForm, ConnectTo: questionID}
}

// RequestConnectedQuestion opens the question form wired to an existing
// resource. Last request wins.
func (e *Engine) RequestConnectedQuestion(resourceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = PendingConnection{Kind: PendingQuestionForm, ConnectTo: resourceID}
}

// CancelPending abandons any pending connection without writing anything
func (e *Engine) CancelPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = PendingConnection{}
}

// Pending returns the current pending-connection state
func (e *Engine) Pending() PendingConnection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pending
}

// pendingTarget returns the connect-to id when the pending state matches
// the submitting form kind, or "" for a standalone creation
func (e *Engine) pendingTarget(kind PendingKind) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.pending.Kind == kind {
		return e.pending.ConnectTo
	}
	return ""
}

// resolvePending returns to Idle after a successful creation
func (e *Engine) resolvePending(kind PendingKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending.Kind == kind {
		e.pending = PendingConnection{}
	}
}
