package bookmarks

// OpState tracks one optimistic mutation through its lifecycle.
type OpState int

const (
	// OpAppliedLocally means the flat map has been patched but the store has
	// not confirmed yet.
	OpAppliedLocally OpState = iota
	// OpConfirmed means the store accepted the mutation (possibly at an
	// adjusted index, already reconciled).
	OpConfirmed
	// OpRejectedResyncing means the store rejected the mutation and a full
	// refetch/reflatten is in flight.
	OpRejectedResyncing
)

// String returns a short label for debugging output.
func (s OpState) String() string {
	switch s {
	case OpConfirmed:
		return "confirmed"
	case OpRejectedResyncing:
		return "rejected-resyncing"
	default:
		return "applied-locally"
	}
}

// MoveOp is one pending optimistic operation. Seq orders operations
// globally; a confirmation for an op that is no longer the latest for its
// bookmark is stale and must not be reconciled.
type MoveOp struct {
	Seq        int
	BookmarkID string
	ParentID   string
	Index      int
	Delete     bool
	State      OpState
}

// Tracker hands out sequence numbers for optimistic operations and remembers
// the latest op per bookmark. There is no locking: all access happens on the
// UI event loop.
type Tracker struct {
	nextSeq int
	latest  map[string]int
	open    map[int]*MoveOp
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		nextSeq: 1,
		latest:  make(map[string]int),
		open:    make(map[int]*MoveOp),
	}
}

// BeginMove registers an optimistic move for id.
func (t *Tracker) BeginMove(id, parentID string, index int) *MoveOp {
	return t.begin(&MoveOp{BookmarkID: id, ParentID: parentID, Index: index})
}

// BeginDelete registers an optimistic delete for id.
func (t *Tracker) BeginDelete(id string) *MoveOp {
	return t.begin(&MoveOp{BookmarkID: id, Delete: true})
}

func (t *Tracker) begin(op *MoveOp) *MoveOp {
	op.Seq = t.nextSeq
	op.State = OpAppliedLocally
	t.nextSeq++
	t.latest[op.BookmarkID] = op.Seq
	t.open[op.Seq] = op
	return op
}

// IsLatest reports whether op is still the most recent operation for its
// bookmark. Confirmations for superseded ops are ignored by the caller.
func (t *Tracker) IsLatest(op *MoveOp) bool {
	return op != nil && t.latest[op.BookmarkID] == op.Seq
}

// Confirm marks op confirmed and retires it.
func (t *Tracker) Confirm(op *MoveOp) {
	if op == nil {
		return
	}
	op.State = OpConfirmed
	t.retire(op)
}

// Reject marks op rejected; it stays visible until Resynced is called so the
// debug overlay can show the resync in flight.
func (t *Tracker) Reject(op *MoveOp) {
	if op == nil {
		return
	}
	op.State = OpRejectedResyncing
}

// Resynced retires every rejected op after a full refetch has replaced the
// flat map.
func (t *Tracker) Resynced() {
	for seq, op := range t.open {
		if op.State == OpRejectedResyncing {
			delete(t.open, seq)
			if t.latest[op.BookmarkID] == seq {
				delete(t.latest, op.BookmarkID)
			}
		}
	}
}

// Pending returns the ops still awaiting confirmation, oldest first.
func (t *Tracker) Pending() []*MoveOp {
	var out []*MoveOp
	for seq := 1; seq < t.nextSeq; seq++ {
		if op, ok := t.open[seq]; ok && op.State != OpConfirmed {
			out = append(out, op)
		}
	}
	return out
}

func (t *Tracker) retire(op *MoveOp) {
	delete(t.open, op.Seq)
	if t.latest[op.BookmarkID] == op.Seq {
		delete(t.latest, op.BookmarkID)
	}
}
