package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"
)

const (
	CurrentUserKey = "tkp.current-user"
	RoleChosenKey  = "tkp.role-chosen"
)

// Keys tracks the simulated login: who is signed in and whether a role was picked.
type Keys struct {
	kv store.Store
}

func New(kv store.Store) *Keys {
	return &Keys{kv: kv}
}

func (k *Keys) SetCurrentUser(ctx context.Context, user model.User) error {
	raw, err := json.Marshal(user.Public())
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	if err := k.kv.Set(ctx, CurrentUserKey, raw); err != nil {
		return fmt.Errorf("store current user: %w", err)
	}
	return nil
}

// CurrentUser returns nil when nobody is signed in or the stored value is unreadable.
func (k *Keys) CurrentUser(ctx context.Context) (*model.User, error) {
	raw, ok, err := k.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (k *Keys) SetRoleChosen(ctx context.Context, chosen bool) error {
	raw, _ := json.Marshal(chosen)
	if err := k.kv.Set(ctx, RoleChosenKey, raw); err != nil {
		return fmt.Errorf("store role flag: %w", err)
	}
	return nil
}

func (k *Keys) RoleChosen(ctx context.Context) (bool, error) {
	raw, ok, err := k.kv.Get(ctx, RoleChosenKey)
	if err != nil {
		return false, fmt.Errorf("read role flag: %w", err)
	}
	if !ok {
		return false, nil
	}
	var chosen bool
	if err := json.Unmarshal(raw, &chosen); err != nil {
		return false, nil
	}
	return chosen, nil
}

func (k *Keys) Logout(ctx context.Context) error {
	if err := k.kv.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	if err := k.kv.Delete(ctx, RoleChosenKey); err != nil {
		return fmt.Errorf("clear role flag: %w", err)
	}
	return nil
}
