package memory

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"poolroom/internal/models"
	"poolroom/internal/store"
)

func TestSaveRoomVersionConflict(t *testing.T) {
	st := New()
	ctx := context.Background()

	room := models.NewRoom("Trip")
	if err := st.SaveRoom(ctx, room); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := st.GetRoom(ctx, "Trip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := st.GetRoom(ctx, "Trip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	first.TotalPool = 100
	if err := st.SaveRoom(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second.TotalPool = 200
	if err := st.SaveRoom(ctx, second); !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("stale save: expected ErrVersionConflict, got %v", err)
	}

	cur, err := st.GetRoom(ctx, "Trip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cur.TotalPool != 100 {
		t.Errorf("lost update: pool %v, want 100", cur.TotalPool)
	}
}

func TestCreateRaceDetected(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.SaveRoom(ctx, models.NewRoom("Trip")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.SaveRoom(ctx, models.NewRoom("Trip")); !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("duplicate create: expected ErrVersionConflict, got %v", err)
	}
}

func TestGetRoomReturnsCopy(t *testing.T) {
	st := New()
	ctx := context.Background()

	room := models.NewRoom("Trip")
	room.Members["a"] = models.Member{ID: "a", DisplayName: "A", Contribution: 10}
	room.TotalPool = 10
	if err := st.SaveRoom(ctx, room); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, _ := st.GetRoom(ctx, "Trip")
	snap.TotalPool = 999
	delete(snap.Members, "a")

	cur, _ := st.GetRoom(ctx, "Trip")
	if cur.TotalPool != 10 || len(cur.Members) != 1 {
		t.Errorf("snapshot mutation leaked into store: %+v", cur)
	}
}

func TestMessagePruning(t *testing.T) {
	st := New()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		msg := models.Message{SenderID: "a", Text: string(rune('a' + i)), SentAt: time.Now()}
		if err := st.AppendMessage(ctx, "Trip", msg, 5); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	msgs, err := st.Messages(ctx, "Trip", 100)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("expected 5 kept, got %d", len(msgs))
	}
	if msgs[0].Text != "c" || msgs[4].Text != "g" {
		t.Errorf("wrong window kept: %q .. %q", msgs[0].Text, msgs[4].Text)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	joined := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	room := models.NewRoom("Trip")
	room.Members["a"] = models.Member{ID: "a", DisplayName: "Alice", Contribution: 1000, JoinedAt: joined}
	room.Members["b"] = models.Member{ID: "b", DisplayName: "Bob", Contribution: 3000, JoinedAt: joined}
	room.TotalPool = 4000

	msg := models.Message{SenderID: "a", DisplayName: "Alice", Text: "hello", SentAt: joined}
	tx := models.Transaction{
		RecordedAt:  joined,
		Kind:        models.KindExpense,
		Description: "dinner",
		TotalAmount: 400,
		MemberShare: 100,
		Percentage:  25,
	}

	var room2 models.Room
	b, err := json.Marshal(room)
	if err != nil {
		t.Fatalf("marshal room: %v", err)
	}
	if err := json.Unmarshal(b, &room2); err != nil {
		t.Fatalf("unmarshal room: %v", err)
	}
	if !reflect.DeepEqual(*room, room2) {
		t.Errorf("room round trip mismatch:\n%+v\n%+v", *room, room2)
	}

	var msg2 models.Message
	b, _ = json.Marshal(msg)
	if err := json.Unmarshal(b, &msg2); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if !reflect.DeepEqual(msg, msg2) {
		t.Errorf("message round trip mismatch:\n%+v\n%+v", msg, msg2)
	}

	var tx2 models.Transaction
	b, _ = json.Marshal(tx)
	if err := json.Unmarshal(b, &tx2); err != nil {
		t.Fatalf("unmarshal transaction: %v", err)
	}
	if !reflect.DeepEqual(tx, tx2) {
		t.Errorf("transaction round trip mismatch:\n%+v\n%+v", tx, tx2)
	}
}
