package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tcg-backend/internal/model"
	"tcg-backend/internal/repository"
	"tcg-backend/internal/testutil"
)

func TestDeckEventWorkerHandle(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := repository.NewDeckEventRepository(db)
	w := NewDeckEventWorker(nil, repo, "test.queue")
	ctx := context.Background()

	event := model.DeckEvent{
		ID:         99,
		DeckID:     3,
		UserID:     1,
		Action:     model.DeckActionCreated,
		CardCount:  model.DeckSize,
		OccurredAt: time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := w.handle(ctx, body); err != nil {
		t.Fatalf("handle() error: %v", err)
	}

	events, err := repo.ListByDeckID(ctx, 3)
	if err != nil {
		t.Fatalf("ListByDeckID() error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	got := events[0]
	if got.Action != model.DeckActionCreated || got.UserID != 1 || got.CardCount != model.DeckSize {
		t.Errorf("event = %+v", got)
	}
}

func TestDeckEventWorkerHandleRejects(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	w := NewDeckEventWorker(nil, repository.NewDeckEventRepository(db), "test.queue")

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing deck id", `{"action":"created"}`},
		{"missing action", `{"deck_id":4}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.handle(context.Background(), []byte(tt.body)); err == nil {
				t.Error("handle() should fail")
			}
		})
	}
}

func TestDeckEventWorkerCloseWithoutStart(t *testing.T) {
	t.Parallel()

	w := NewDeckEventWorker(nil, nil, "test.queue")
	w.Close()
}
