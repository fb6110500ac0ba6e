package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"wishlist-microservices/internal/database"
	"wishlist-microservices/internal/events"
	"wishlist-microservices/wishlist-service/internal/client"
	"wishlist-microservices/wishlist-service/internal/entity"
	"wishlist-microservices/wishlist-service/internal/repository"
	"wishlist-microservices/wishlist-service/migrations"
)

// fakeUsers knows a fixed set of user ids; down simulates an unreachable service.
type fakeUsers struct {
	known map[int]bool
	down  bool
	calls int
}

func (f *fakeUsers) GetUser(_ context.Context, id int) (*entity.User, error) {
	f.calls++
	if f.down {
		return nil, fmt.Errorf("%w: connection refused", client.ErrUnavailable)
	}
	if !f.known[id] {
		return nil, client.ErrNotFound
	}
	return &entity.User{ID: id, Username: fmt.Sprintf("user%d", id)}, nil
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.keys = append(p.keys, event.Key())
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(t *testing.T, users *fakeUsers) (*WishlistService, *recordingPublisher) {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "wishlist_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Up(ctx, db, "sqlite"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pub := &recordingPublisher{}
	return NewWishlistService(repository.NewWishlistRepository(db), users, pub), pub
}

func TestCreateWishlistValidatesUser(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{known: map[int]bool{1: true}}
	svc, pub := newTestService(t, users)

	wishlist, err := svc.CreateWishlist(ctx, 1)
	if err != nil {
		t.Fatalf("create wishlist: %v", err)
	}
	if wishlist.ID != 1 || wishlist.UserID != 1 {
		t.Fatalf("unexpected wishlist %+v", wishlist)
	}
	if _, err := svc.GetWishlist(ctx, wishlist.ID); err != nil {
		t.Fatalf("wishlist not persisted: %v", err)
	}

	for _, id := range []int{0, 2, 99} {
		if _, err := svc.CreateWishlist(ctx, id); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("user %d: expected ErrUserNotFound, got %v", id, err)
		}
	}

	if len(pub.keys) != 1 || pub.keys[0] != "wishlist-created-1" {
		t.Fatalf("unexpected events %v", pub.keys)
	}
}

func TestCreateWishlistDistinguishesUnavailableUserService(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{known: map[int]bool{1: true}, down: true}
	svc, _ := newTestService(t, users)

	_, err := svc.CreateWishlist(ctx, 1)
	if !errors.Is(err, ErrUserServiceUnavailable) {
		t.Fatalf("expected ErrUserServiceUnavailable, got %v", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unavailable must not look like a missing user")
	}
	if _, err := svc.GetWishlist(ctx, 1); !errors.Is(err, ErrWishlistNotFound) {
		t.Fatalf("no wishlist should have been stored, got %v", err)
	}
}

func TestAddGiftRequiresWishlist(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{known: map[int]bool{1: true}}
	svc, _ := newTestService(t, users)

	for _, id := range []int{0, 1, 5} {
		if _, err := svc.AddGift(ctx, id, "Book"); !errors.Is(err, ErrWishlistNotFound) {
			t.Fatalf("wishlist %d: expected ErrWishlistNotFound, got %v", id, err)
		}
	}

	wishlist, err := svc.CreateWishlist(ctx, 1)
	if err != nil {
		t.Fatalf("create wishlist: %v", err)
	}
	gift, err := svc.AddGift(ctx, wishlist.ID, "Book")
	if err != nil {
		t.Fatalf("add gift: %v", err)
	}
	if gift.ID != 1 || gift.WishlistID != wishlist.ID || gift.Name != "Book" {
		t.Fatalf("unexpected gift %+v", gift)
	}
}

func TestRemoveGiftAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{known: map[int]bool{1: true}}
	svc, pub := newTestService(t, users)

	wishlist, _ := svc.CreateWishlist(ctx, 1)
	gift, _ := svc.AddGift(ctx, wishlist.ID, "Book")

	for i := 0; i < 2; i++ {
		if err := svc.RemoveGift(ctx, gift.ID); err != nil {
			t.Fatalf("remove gift call %d: %v", i+1, err)
		}
	}
	if err := svc.RemoveGift(ctx, 404); err != nil {
		t.Fatalf("remove unknown gift: %v", err)
	}

	detail, err := svc.GetWishlist(ctx, wishlist.ID)
	if err != nil {
		t.Fatalf("get wishlist: %v", err)
	}
	if len(detail.Gifts) != 0 {
		t.Fatalf("expected no gifts, got %+v", detail.Gifts)
	}

	want := []string{"wishlist-created-1", "gift-added-1", "gift-removed-1"}
	if fmt.Sprint(pub.keys) != fmt.Sprint(want) {
		t.Fatalf("expected events %v, got %v", want, pub.keys)
	}
}

func TestSetVisibilityChecksExistenceOnly(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{known: map[int]bool{1: true}}
	svc, _ := newTestService(t, users)

	if err := svc.SetVisibility(ctx, 1, true); !errors.Is(err, ErrWishlistNotFound) {
		t.Fatalf("expected ErrWishlistNotFound, got %v", err)
	}

	wishlist, _ := svc.CreateWishlist(ctx, 1)
	if err := svc.SetVisibility(ctx, wishlist.ID, true); err != nil {
		t.Fatalf("set public: %v", err)
	}
	if err := svc.SetVisibility(ctx, wishlist.ID, false); err != nil {
		t.Fatalf("set private: %v", err)
	}

	detail, err := svc.GetWishlist(ctx, wishlist.ID)
	if err != nil {
		t.Fatalf("get wishlist: %v", err)
	}
	if detail.ID != wishlist.ID || detail.UserID != 1 {
		t.Fatalf("visibility must not change the wishlist: %+v", detail)
	}
}
