package bookmarks

import "testing"

func TestTrackerSequencing(t *testing.T) {
	tr := NewTracker()
	op1 := tr.BeginMove("100", "10", 2)
	op2 := tr.BeginMove("100", "11", 0)

	if op1.Seq >= op2.Seq {
		t.Fatalf("sequence numbers not increasing: %d then %d", op1.Seq, op2.Seq)
	}
	if tr.IsLatest(op1) {
		t.Error("superseded op reported as latest")
	}
	if !tr.IsLatest(op2) {
		t.Error("newest op not reported as latest")
	}

	// A stale confirmation retires its op without touching the newer one.
	tr.Confirm(op1)
	if !tr.IsLatest(op2) {
		t.Error("confirming a stale op displaced the latest")
	}
	tr.Confirm(op2)
	if got := len(tr.Pending()); got != 0 {
		t.Errorf("pending after all confirms = %d, want 0", got)
	}
}

func TestTrackerRejectThenResync(t *testing.T) {
	tr := NewTracker()
	op := tr.BeginMove("100", "10", 1)
	tr.Reject(op)

	// Rejected ops stay visible until the resync lands.
	pending := tr.Pending()
	if len(pending) != 1 || pending[0].State != OpRejectedResyncing {
		t.Fatalf("pending = %+v, want one rejected-resyncing op", pending)
	}

	tr.Resynced()
	if got := len(tr.Pending()); got != 0 {
		t.Errorf("pending after resync = %d, want 0", got)
	}
	if tr.IsLatest(op) {
		t.Error("resynced op should no longer be latest")
	}
}

func TestTrackerDeleteOps(t *testing.T) {
	tr := NewTracker()
	op := tr.BeginDelete("100")
	if !op.Delete {
		t.Error("BeginDelete should mark the op as a delete")
	}
	if !tr.IsLatest(op) {
		t.Error("fresh delete op should be latest")
	}
	tr.Confirm(op)
	if op.State != OpConfirmed {
		t.Errorf("state after confirm = %v, want confirmed", op.State)
	}
}

func TestTrackerNilOpsAreIgnored(t *testing.T) {
	tr := NewTracker()
	tr.Confirm(nil)
	tr.Reject(nil)
	if tr.IsLatest(nil) {
		t.Error("nil op must never be latest")
	}
}
