package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/security"
)

func newRegisterService(t *testing.T, userRepo *stubUserRepo, storeSvc *stubStoreSvc) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		UserRepo:       userRepo,
		StoreSvc:       storeSvc,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("NewRegisterService: %v", err)
	}
	return svc
}

func TestRegisterCreatesAccountAndStore(t *testing.T) {
	userRepo := newStubUserRepo()
	storeSvc := newStubStoreSvc()
	svc := newRegisterService(t, userRepo, storeSvc)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		StoreName: "Cafe Central",
		Email:     "Owner@Example.com ",
		Password:  "hunter22",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Email != "owner@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.Store == nil || resp.Store.OwnerID != resp.User.ID {
		t.Fatalf("store not linked to account: %+v", resp.Store)
	}

	stored := userRepo.byEmail["owner@example.com"]
	if stored.PasswordHash == "hunter22" {
		t.Fatal("password stored in plain text")
	}
	if ok, err := security.VerifyPassword("hunter22", stored.PasswordHash); err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := newStubUserRepo()
	seedUser(t, userRepo, "owner@example.com", "hunter22")
	svc := newRegisterService(t, userRepo, newStubStoreSvc())

	_, err := svc.Register(context.Background(), RegisterRequest{
		StoreName: "Cafe Central",
		Email:     "owner@example.com",
		Password:  "hunter22",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestRegisterPartialWhenStoreFails(t *testing.T) {
	userRepo := newStubUserRepo()
	storeSvc := newStubStoreSvc()
	storeSvc.createErr = errors.New("slug collision under load")
	svc := newRegisterService(t, userRepo, storeSvc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		StoreName: "Cafe Central",
		Email:     "owner@example.com",
		Password:  "hunter22",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialReg {
		t.Fatalf("expected REGISTRATION_INCOMPLETE, got %v", err)
	}

	// the account must survive so SetupStore can be retried after login
	user, ok := userRepo.byEmail["owner@example.com"]
	if !ok {
		t.Fatal("account was not kept after store failure")
	}

	storeSvc.createErr = nil
	store, err := svc.SetupStore(context.Background(), user.ID, "Cafe Central")
	if err != nil {
		t.Fatalf("SetupStore: %v", err)
	}
	if store.OwnerID != user.ID {
		t.Fatalf("store not linked to retried account: %+v", store)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newRegisterService(t, newStubUserRepo(), newStubStoreSvc())

	cases := map[string]RegisterRequest{
		"missing email":      {StoreName: "Cafe", Password: "hunter22"},
		"short password":     {StoreName: "Cafe", Email: "a@b.com", Password: "12345"},
		"missing store name": {Email: "a@b.com", Password: "hunter22", StoreName: "  "},
	}
	for name, req := range cases {
		_, err := svc.Register(context.Background(), req)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected VALIDATION_ERROR, got %v", name, err)
		}
	}
}

func TestSetupStoreRequiresUser(t *testing.T) {
	svc := newRegisterService(t, newStubUserRepo(), newStubStoreSvc())

	_, err := svc.SetupStore(context.Background(), uuid.Nil, "Cafe Central")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}
