package services

import (
	"testing"

	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
)

func TestFavouriteAdd(t *testing.T) {
	database := newTestDB(t)
	catalog := NewCatalogService(database)
	favourites := NewFavouriteService(database)
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))
	alice := createUser(t, database, "alice", types.RoleUser)

	brick := createBrick(t, catalog, admin, BrickInput{Name: "2x4 Brick"})

	if err := favourites.Add(alice.ID, brick.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := favourites.Add(alice.ID, brick.ID); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("duplicate favourite must conflict, got %v", err)
	}

	if err := favourites.Add(alice.ID, 9999); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("favouriting a missing brick must be not found, got %v", err)
	}
}

func TestFavouriteListAndRemove(t *testing.T) {
	database := newTestDB(t)
	catalog := NewCatalogService(database)
	favourites := NewFavouriteService(database)
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))
	alice := createUser(t, database, "alice", types.RoleUser)
	bob := createUser(t, database, "bob", types.RoleUser)

	first := createBrick(t, catalog, admin, BrickInput{Name: "2x4 Brick"})
	second := createBrick(t, catalog, admin, BrickInput{Name: "Technic Pin"})

	if err := favourites.Add(alice.ID, first.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := favourites.Add(alice.ID, second.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := favourites.Add(bob.ID, first.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	bricks, err := favourites.List(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bricks) != 2 {
		t.Fatalf("expected 2 favourites, got %d", len(bricks))
	}
	for _, brick := range bricks {
		if brick.ID == 0 || brick.Name == "" {
			t.Fatal("favourites must resolve to full brick records")
		}
	}

	if err := favourites.Remove(alice.ID, first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Removing a bookmark that is already gone is fine.
	if err := favourites.Remove(alice.ID, first.ID); err != nil {
		t.Fatalf("repeat remove: %v", err)
	}

	bricks, err = favourites.List(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bricks) != 1 || bricks[0].ID != second.ID {
		t.Fatal("remove must only drop the named bookmark")
	}

	// Bob's bookmark on the same brick is untouched.
	theirs, err := favourites.List(bob.ID)
	if err != nil {
		t.Fatalf("list bob: %v", err)
	}
	if len(theirs) != 1 || theirs[0].ID != first.ID {
		t.Fatal("remove must be scoped to the acting user")
	}
}
