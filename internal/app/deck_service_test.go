package app_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"tcg-backend/internal/app"
	"tcg-backend/internal/model"
	"tcg-backend/internal/repository"
	"tcg-backend/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.DeckEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.DeckEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type deckFixture struct {
	svc       *app.DeckService
	deckRepo  *repository.DeckRepository
	publisher *recordingPublisher
	red       model.User
	blue      model.User
}

func newDeckFixture(t *testing.T) deckFixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedCards(t, db, 25)
	deckRepo := repository.NewDeckRepository(db)
	publisher := &recordingPublisher{}
	return deckFixture{
		svc:       app.NewDeckService(deckRepo, repository.NewCardRepository(db), publisher),
		deckRepo:  deckRepo,
		publisher: publisher,
		red:       testutil.CreateUser(t, db, "red"),
		blue:      testutil.CreateUser(t, db, "blue"),
	}
}

func (f deckFixture) createDeck(t *testing.T, owner model.User, numbers []int) *model.Deck {
	t.Helper()
	deck, err := f.svc.Create(context.Background(), owner.ID, app.CreateDeckInput{Name: "Deck", Cards: numbers})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return deck
}

func idOf(d *model.Deck) string {
	return strconv.FormatUint(uint64(d.ID), 10)
}

func TestDeckServiceCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		userID  func(f deckFixture) uint
		deck    string
		cards   []int
		wantErr error
	}{
		{"ten distinct cards", ownerRed, "Fire", testutil.Numbers(1, 10), nil},
		{"no identity", func(deckFixture) uint { return 0 }, "Fire", testutil.Numbers(1, 10), app.ErrUnauthorized},
		{"empty name", ownerRed, "   ", testutil.Numbers(1, 10), app.ErrInvalidDeckName},
		{"nine cards", ownerRed, "Fire", testutil.Numbers(1, 9), app.ErrInvalidCards},
		{"eleven cards", ownerRed, "Fire", testutil.Numbers(1, 11), app.ErrInvalidCards},
		{"no cards", ownerRed, "Fire", nil, app.ErrInvalidCards},
		{"duplicate collapses", ownerRed, "Fire", []int{1, 1, 2, 3, 4, 5, 6, 7, 8, 9}, app.ErrInvalidCards},
		{"unknown pokedex number", ownerRed, "Fire", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 500}, app.ErrInvalidCards},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newDeckFixture(t)

			deck, err := f.svc.Create(context.Background(), tt.userID(f), app.CreateDeckInput{Name: tt.deck, Cards: tt.cards})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(f.publisher.events) != 0 {
					t.Errorf("failed create published %d events", len(f.publisher.events))
				}
				return
			}

			n, err := f.deckRepo.CountCards(context.Background(), deck.ID)
			if err != nil {
				t.Fatalf("CountCards() error: %v", err)
			}
			if n != model.DeckSize {
				t.Errorf("persisted %d join rows, want %d", n, model.DeckSize)
			}
			if deck.UserID != f.red.ID {
				t.Errorf("UserID = %d, want %d", deck.UserID, f.red.ID)
			}
			if len(f.publisher.events) != 1 || f.publisher.events[0].Action != model.DeckActionCreated {
				t.Errorf("events = %+v, want one created event", f.publisher.events)
			}
		})
	}
}

func ownerRed(f deckFixture) uint { return f.red.ID }

func TestDeckServiceOwnership(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	ctx := context.Background()
	deck := f.createDeck(t, f.red, testutil.Numbers(1, 10))
	update := app.UpdateDeckInput{Name: "Stolen", Cards: testutil.Numbers(11, 20)}

	t.Run("owner reads", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, f.red.ID, idOf(deck))
		if err != nil {
			t.Fatalf("GetByID() error: %v", err)
		}
		if len(got.DeckCards) != model.DeckSize {
			t.Errorf("len(DeckCards) = %d", len(got.DeckCards))
		}
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		if _, err := f.svc.GetByID(ctx, f.blue.ID, idOf(deck)); !errors.Is(err, app.ErrDeckForbidden) {
			t.Errorf("GetByID() error = %v, want ErrDeckForbidden", err)
		}
		if _, err := f.svc.Update(ctx, f.blue.ID, idOf(deck), update); !errors.Is(err, app.ErrDeckForbidden) {
			t.Errorf("Update() error = %v, want ErrDeckForbidden", err)
		}
		if err := f.svc.Delete(ctx, f.blue.ID, idOf(deck)); !errors.Is(err, app.ErrDeckForbidden) {
			t.Errorf("Delete() error = %v, want ErrDeckForbidden", err)
		}
	})

	t.Run("missing deck is not found for anyone", func(t *testing.T) {
		for _, user := range []model.User{f.red, f.blue} {
			if _, err := f.svc.GetByID(ctx, user.ID, "424242"); !errors.Is(err, app.ErrDeckNotFound) {
				t.Errorf("GetByID() error = %v, want ErrDeckNotFound", err)
			}
			if _, err := f.svc.Update(ctx, user.ID, "424242", update); !errors.Is(err, app.ErrDeckNotFound) {
				t.Errorf("Update() error = %v, want ErrDeckNotFound", err)
			}
			if err := f.svc.Delete(ctx, user.ID, "424242"); !errors.Is(err, app.ErrDeckNotFound) {
				t.Errorf("Delete() error = %v, want ErrDeckNotFound", err)
			}
		}
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		for _, raw := range []string{"abc", "", "-1", "0", "1.5"} {
			if _, err := f.svc.GetByID(ctx, f.red.ID, raw); !errors.Is(err, app.ErrDeckNotFound) {
				t.Errorf("GetByID(%q) error = %v, want ErrDeckNotFound", raw, err)
			}
		}
	})

	t.Run("no identity", func(t *testing.T) {
		if _, err := f.svc.GetByID(ctx, 0, idOf(deck)); !errors.Is(err, app.ErrUnauthorized) {
			t.Errorf("GetByID() error = %v, want ErrUnauthorized", err)
		}
		if _, err := f.svc.ListMine(ctx, 0); !errors.Is(err, app.ErrUnauthorized) {
			t.Errorf("ListMine() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("deck is untouched", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, f.red.ID, idOf(deck))
		if err != nil {
			t.Fatalf("GetByID() error: %v", err)
		}
		if got.Name != "Deck" {
			t.Errorf("Name = %q, want Deck", got.Name)
		}
	})
}

func TestDeckServiceUpdateReplacesCards(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	ctx := context.Background()
	deck := f.createDeck(t, f.red, testutil.Numbers(1, 10))

	if _, err := f.svc.Update(ctx, f.red.ID, idOf(deck), app.UpdateDeckInput{
		Name:  "Second",
		Cards: testutil.Numbers(11, 20),
	}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	got, err := f.svc.GetByID(ctx, f.red.ID, idOf(deck))
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Name != "Second" {
		t.Errorf("Name = %q, want Second", got.Name)
	}
	if len(got.DeckCards) != model.DeckSize {
		t.Fatalf("len(DeckCards) = %d, want %d", len(got.DeckCards), model.DeckSize)
	}
	// SeedCards assigns ids in pokedex order on a fresh database.
	for _, dc := range got.DeckCards {
		if dc.CardID < 11 || dc.CardID > 20 {
			t.Errorf("unexpected card %d after replace", dc.CardID)
		}
	}

	last := f.publisher.events[len(f.publisher.events)-1]
	if last.Action != model.DeckActionUpdated || last.CardCount != model.DeckSize {
		t.Errorf("last event = %+v", last)
	}
}

func TestDeckServiceUpdateValidation(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	ctx := context.Background()
	deck := f.createDeck(t, f.red, testutil.Numbers(1, 10))

	tests := []struct {
		name    string
		rawID   string
		input   app.UpdateDeckInput
		wantErr error
	}{
		{"empty name reads as not found", idOf(deck), app.UpdateDeckInput{Name: "", Cards: testutil.Numbers(11, 20)}, app.ErrDeckNotFound},
		{"bad id", "x1", app.UpdateDeckInput{Name: "N", Cards: testutil.Numbers(11, 20)}, app.ErrDeckNotFound},
		{"wrong count", idOf(deck), app.UpdateDeckInput{Name: "N", Cards: testutil.Numbers(11, 19)}, app.ErrInvalidCards},
		{"duplicates", idOf(deck), app.UpdateDeckInput{Name: "N", Cards: []int{11, 11, 12, 13, 14, 15, 16, 17, 18, 19}}, app.ErrInvalidCards},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Update(ctx, f.red.ID, tt.rawID, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, err := f.svc.GetByID(ctx, f.red.ID, idOf(deck))
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	for _, dc := range got.DeckCards {
		if dc.CardID > 10 {
			t.Errorf("failed update changed card set: %d", dc.CardID)
		}
	}
}

func TestDeckServiceDeleteAndList(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	ctx := context.Background()
	first := f.createDeck(t, f.red, testutil.Numbers(1, 10))
	f.createDeck(t, f.red, testutil.Numbers(5, 14))
	f.createDeck(t, f.blue, testutil.Numbers(1, 10))

	mine, err := f.svc.ListMine(ctx, f.red.ID)
	if err != nil {
		t.Fatalf("ListMine() error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len(mine) = %d, want 2", len(mine))
	}

	if err := f.svc.Delete(ctx, f.red.ID, idOf(first)); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := f.svc.GetByID(ctx, f.red.ID, idOf(first)); !errors.Is(err, app.ErrDeckNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrDeckNotFound", err)
	}
	n, err := f.deckRepo.CountCards(ctx, first.ID)
	if err != nil || n != 0 {
		t.Errorf("CountCards() after delete = %d, %v", n, err)
	}

	mine, err = f.svc.ListMine(ctx, f.red.ID)
	if err != nil {
		t.Fatalf("ListMine() error: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("len(mine) after delete = %d, want 1", len(mine))
	}

	last := f.publisher.events[len(f.publisher.events)-1]
	if last.Action != model.DeckActionDeleted || last.DeckID != first.ID {
		t.Errorf("last event = %+v", last)
	}
}

func TestDeckServicePublishFailureKeepsWrite(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	f.publisher.err = errors.New("broker down")

	deck := f.createDeck(t, f.red, testutil.Numbers(1, 10))
	if _, err := f.svc.GetByID(context.Background(), f.red.ID, idOf(deck)); err != nil {
		t.Errorf("deck should exist despite publish failure: %v", err)
	}
}

func TestDeckServiceNilPublisher(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedCards(t, db, 10)
	red := testutil.CreateUser(t, db, "red")
	svc := app.NewDeckService(repository.NewDeckRepository(db), repository.NewCardRepository(db), nil)

	if _, err := svc.Create(context.Background(), red.ID, app.CreateDeckInput{Name: "A", Cards: testutil.Numbers(1, 10)}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
}
