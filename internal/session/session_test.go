package session

import (
	"context"
	"testing"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"
)

func TestCurrentUserLifecycle(t *testing.T) {
	ctx := context.Background()
	keys := New(store.NewMemoryStore(store.MemoryOptions{}))

	user, err := keys.CurrentUser(ctx)
	if err != nil || user != nil {
		t.Fatalf("expected nobody signed in, got %+v err=%v", user, err)
	}

	in := model.User{ID: "1", Name: "Administrador", Email: "admin@time.com", Role: model.RoleAdmin, PasswordHash: "secret"}
	if err := keys.SetCurrentUser(ctx, in); err != nil {
		t.Fatalf("set current user: %v", err)
	}
	user, err = keys.CurrentUser(ctx)
	if err != nil || user == nil {
		t.Fatalf("expected signed in user, got %+v err=%v", user, err)
	}
	if user.Email != in.Email {
		t.Fatalf("expected email %q, got %q", in.Email, user.Email)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash must not be stored with the session")
	}

	if err := keys.SetRoleChosen(ctx, true); err != nil {
		t.Fatalf("set role chosen: %v", err)
	}
	if chosen, _ := keys.RoleChosen(ctx); !chosen {
		t.Fatal("expected role chosen flag")
	}

	if err := keys.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if user, _ := keys.CurrentUser(ctx); user != nil {
		t.Fatalf("expected user cleared, got %+v", user)
	}
	if chosen, _ := keys.RoleChosen(ctx); chosen {
		t.Fatal("expected role flag cleared")
	}
}
