package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestPostAndRecentWindow(t *testing.T) {
	reg, _, chat, _ := newServices(t)
	ctx := context.Background()

	if _, err := reg.Join(ctx, "Trip", "a", "Alice", 1000); err != nil {
		t.Fatalf("join: %v", err)
	}
	for i := 1; i <= 5; i++ {
		if _, err := chat.Post(ctx, "Trip", "a", "", fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
	}

	msgs, err := chat.Recent(ctx, "Trip", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	// oldest first within the returned window
	for i, want := range []string{"msg 3", "msg 4", "msg 5"} {
		if msgs[i].Text != want {
			t.Errorf("msgs[%d] = %q, want %q", i, msgs[i].Text, want)
		}
	}
	if msgs[0].DisplayName != "Alice" {
		t.Errorf("display name not filled from membership: %q", msgs[0].DisplayName)
	}
}

func TestRetentionCap(t *testing.T) {
	reg, _, chat, _ := newServices(t)
	ctx := context.Background()

	if _, err := reg.Join(ctx, "Trip", "a", "Alice", 1000); err != nil {
		t.Fatalf("join: %v", err)
	}
	// one join announcement is already in the log
	for i := 1; i <= 150; i++ {
		if _, err := chat.Post(ctx, "Trip", "a", "", fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
	}

	msgs, err := chat.Recent(ctx, "Trip", 100)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(msgs) != 100 {
		t.Fatalf("expected exactly 100 retained messages, got %d", len(msgs))
	}
	if msgs[0].Text != "msg 51" {
		t.Errorf("oldest retained = %q, want %q", msgs[0].Text, "msg 51")
	}
	if msgs[99].Text != "msg 150" {
		t.Errorf("newest retained = %q, want %q", msgs[99].Text, "msg 150")
	}
}

func TestPostValidation(t *testing.T) {
	reg, _, chat, _ := newServices(t)
	ctx := context.Background()

	if _, err := reg.Join(ctx, "Trip", "a", "Alice", 1000); err != nil {
		t.Fatalf("join: %v", err)
	}
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := chat.Post(ctx, "Trip", "a", "", text); !errors.Is(err, ErrValidation) {
			t.Errorf("text %q: expected ErrValidation, got %v", text, err)
		}
	}
	if _, err := chat.Post(ctx, "Trip", "stranger", "", "hi"); !errors.Is(err, ErrNotMember) {
		t.Errorf("stranger: expected ErrNotMember, got %v", err)
	}
}
