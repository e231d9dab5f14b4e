package client

import "sync"

// NoticeKind classifies the transient notifications a mutation emits.
type NoticeKind string

// Each mutation emits an issued notice when the speculative change is
// applied, then exactly one of success or failure when it resolves.
const (
	NoticeIssued  NoticeKind = "issued"
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

// Notice is a single transient user-facing notification.
type Notice struct {
	ID      int64
	Kind    NoticeKind
	Message string
}

// Notifier receives mutation notices. Delivery is fire-and-forget: the
// controller never blocks on, retries, or inspects the outcome of a notify
// call, and notification state has no bearing on reconciliation.
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// Toasts collects notices for display and assigns their identifiers from a
// counter it owns, rather than process-wide state, so it can be tested in
// isolation.
type Toasts struct {
	mu     sync.Mutex
	seq    int64
	active []Notice
}

// NewToasts creates an empty toast collection.
func NewToasts() *Toasts {
	return &Toasts{}
}

// Ensure Toasts implements Notifier interface
var _ Notifier = (*Toasts)(nil)

// Notify implements Notifier.Notify by appending a new notice.
func (t *Toasts) Notify(kind NoticeKind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.active = append(t.active, Notice{ID: t.seq, Kind: kind, Message: message})
}

// Remove discards the notice with the given ID, typically after its display
// timeout elapses.
func (t *Toasts) Remove(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, n := range t.active {
		if n.ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return
		}
	}
}

// Active returns a copy of the currently displayed notices.
func (t *Toasts) Active() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Notice, len(t.active))
	copy(out, t.active)
	return out
}

// noopNotifier drops all notices; used when no notifier is configured.
type noopNotifier struct{}

func (noopNotifier) Notify(NoticeKind, string) {}
