package poll

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"poolroom/internal/ledger"
	"poolroom/internal/store/memory"
)

func seededScheduler(t *testing.T) (*Scheduler, *memory.Store) {
	t.Helper()
	st := memory.New()
	log := logrus.New()
	log.SetOutput(io.Discard)

	reg, eng, chat := ledger.New(st, log)
	ctx := context.Background()
	if _, err := reg.Join(ctx, "Trip", "a", "Alice", 1000); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := reg.Join(ctx, "Trip", "b", "Bob", 3000); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := eng.SplitExpense(ctx, "Trip", "a", 400, "dinner"); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := chat.Post(ctx, "Trip", "a", "", "hello"); err != nil {
		t.Fatalf("post: %v", err)
	}

	return NewScheduler(st, nil, 10*time.Millisecond, log), st
}

func TestRefreshIsReadOnly(t *testing.T) {
	sched, st := seededScheduler(t)
	ctx := context.Background()

	before := st.Writes()
	sched.Refresh(ctx)
	if after := st.Writes(); after != before {
		t.Errorf("refresh wrote to the store: %d -> %d", before, after)
	}
}

func TestRefreshSnapshotsCommittedState(t *testing.T) {
	sched, _ := seededScheduler(t)
	ctx := context.Background()

	if _, ok := sched.Snapshot("Trip"); ok {
		t.Fatal("snapshot present before any refresh")
	}

	sched.Refresh(ctx)

	snap, ok := sched.Snapshot("Trip")
	if !ok {
		t.Fatal("no snapshot after refresh")
	}
	if snap.Room.TotalPool != 4000 {
		t.Errorf("snapshot pool %v, want 4000", snap.Room.TotalPool)
	}
	if len(snap.Room.Members) != 2 {
		t.Errorf("snapshot members %d, want 2", len(snap.Room.Members))
	}
	// two join announcements, one settlement announcement, one chat message
	if len(snap.Messages) != 4 {
		t.Errorf("snapshot messages %d, want 4", len(snap.Messages))
	}
	if len(snap.Ledgers["a"]) != 1 || snap.Ledgers["a"][0].MemberShare != 100 {
		t.Errorf("snapshot ledger for a: %+v", snap.Ledgers["a"])
	}
	if sched.State() != Idle {
		t.Errorf("state after refresh = %v, want idle", sched.State())
	}
}

func TestRunRefreshesOnInterval(t *testing.T) {
	sched, _ := seededScheduler(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		if _, ok := sched.Snapshot("Trip"); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scheduler never produced a snapshot")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}
