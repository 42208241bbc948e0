package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/server/auth"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService(t *testing.T, rm *fakeRepoManager) *AccountService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	return NewAccountService(db, rm, testConfig())
}

func TestRegister_Success(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAccountService(t, rm)

	a, err := s.Register(context.Background(), "petya", "petya@example.com", "+79990000000", "secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if a.ID == 0 || a.Role != models.RoleUser {
		t.Fatalf("unexpected account: %+v", a)
	}
	if a.PasswordHash == "secret" {
		t.Fatalf("password must not be stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not verify the password: %v", err)
	}
}

func TestRegister_DuplicateHandle(t *testing.T) {
	rm := newFakeRepoManager()
	seedAccount(rm)
	s := newAccountService(t, rm)

	_, err := s.Register(context.Background(), "sveta", "other@example.com", "", "secret")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newAccountService(t, newFakeRepoManager())

	if _, err := s.Register(context.Background(), "", "a@b", "", "secret"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("empty handle: want ErrorValidation, got %v", err)
	}
	if _, err := s.Register(context.Background(), "petya", "a@b", "", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("empty password: want ErrorValidation, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAccountService(t, rm)

	if _, err := s.Register(context.Background(), "petya", "petya@example.com", "", "secret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	token, err := s.Login(context.Background(), "petya", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	claims, err := auth.ParseToken(token, []byte(testConfig().SecretKey))
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.Subject != "petya" || claims.Role != models.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAccountService(t, rm)

	if _, err := s.Register(context.Background(), "petya", "petya@example.com", "", "secret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := s.Login(context.Background(), "petya", "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("wrong password: want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownHandle(t *testing.T) {
	s := newAccountService(t, newFakeRepoManager())

	if _, err := s.Login(context.Background(), "ghost", "secret"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("unknown handle: want ErrorUnauthorized, got %v", err)
	}
}

func TestPromote_TogglesBoosted(t *testing.T) {
	rm := newFakeRepoManager()
	a := seedAccount(rm)
	s := newAccountService(t, rm)

	if err := s.Promote(context.Background(), a.ID, true); err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if !rm.a.boosted[a.ID] {
		t.Fatalf("boosted flag not set")
	}
	if err := s.Promote(context.Background(), a.ID, false); err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if rm.a.boosted[a.ID] {
		t.Fatalf("boosted flag not cleared")
	}
}

func TestPromote_UnknownAccount(t *testing.T) {
	rm := newFakeRepoManager()
	rm.a.boostedErr = common.ErrorNotFound
	s := newAccountService(t, rm)

	if err := s.Promote(context.Background(), 42, true); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
