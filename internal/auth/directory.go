package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"patient-portal/internal/model"
	"patient-portal/internal/store"
)

var ErrEmailTaken = errors.New("email already registered")

// Directory owns the registered-user list. Emails are matched exactly,
// case included.
type Directory struct {
	kv    store.KV
	mu    sync.Mutex
	newID func() string
}

func NewDirectory(kv store.KV) *Directory {
	return &Directory{kv: kv, newID: newUserID}
}

// time-ordered, so ids sort by registration
func newUserID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (d *Directory) accounts(ctx context.Context) ([]model.Account, error) {
	accts, _, err := store.Load[[]model.Account](ctx, d.kv, store.KeyUsers)
	return accts, err
}

func find(accts []model.Account, email string) int {
	for i := range accts {
		if accts[i].Email == email {
			return i
		}
	}
	return -1
}

// Register appends a new account. A taken email returns ErrEmailTaken and
// leaves the stored list untouched.
func (d *Directory) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accts, err := d.accounts(ctx)
	if err != nil {
		return model.User{}, err
	}
	if find(accts, reg.Email) >= 0 {
		return model.User{}, ErrEmailTaken
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	a := model.Account{
		User: model.User{
			ID:          d.newID(),
			FirstName:   reg.FirstName,
			LastName:    reg.LastName,
			Email:       reg.Email,
			Phone:       reg.Phone,
			DateOfBirth: reg.DateOfBirth,
		},
		PasswordHash: hash,
	}
	if err := store.Save(ctx, d.kv, store.KeyUsers, append(accts, a)); err != nil {
		return model.User{}, err
	}
	return a.User, nil
}

// Authenticate checks credentials. Accounts still holding a plaintext
// password are upgraded to a hash on their first successful login.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (model.User, model.LoginOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accts, err := d.accounts(ctx)
	if err != nil {
		return model.User{}, "", err
	}
	i := find(accts, email)
	if i < 0 {
		return model.User{}, model.LoginNotRegistered, nil
	}

	a := accts[i]
	switch {
	case a.PasswordHash != "":
		if !CheckPassword(a.PasswordHash, password) {
			return model.User{}, model.LoginInvalidPassword, nil
		}
	case a.LegacyPassword != "" && a.LegacyPassword == password:
		hash, err := HashPassword(password)
		if err != nil {
			return model.User{}, "", fmt.Errorf("hash password: %w", err)
		}
		accts[i].PasswordHash = hash
		accts[i].LegacyPassword = ""
		if err := store.Save(ctx, d.kv, store.KeyUsers, accts); err != nil {
			// login still succeeds; the upgrade is retried next time
			log.Printf("auth: upgrade legacy password for %s: %v", a.ID, err)
		}
	default:
		return model.User{}, model.LoginInvalidPassword, nil
	}
	return a.User, model.LoginSuccess, nil
}

func (d *Directory) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	accts, err := d.accounts(ctx)
	if err != nil {
		return false, err
	}
	return find(accts, email) >= 0, nil
}

func (d *Directory) Lookup(ctx context.Context, id string) (model.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	accts, err := d.accounts(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	for _, a := range accts {
		if a.ID == id {
			return a.User, true, nil
		}
	}
	return model.User{}, false, nil
}
