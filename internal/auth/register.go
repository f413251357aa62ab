package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/internal/stores"
	"github.com/aurylabs/aury-backend/internal/users"
	"github.com/aurylabs/aury-backend/pkg/config"
	"github.com/aurylabs/aury-backend/pkg/db/models"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/security"
)

const minPasswordLength = 6

// RegisterRequest contains the payload required for onboarding a new store.
type RegisterRequest struct {
	StoreName string `json:"store_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// RegisterResponse returns the created account and its store.
type RegisterResponse struct {
	User  *users.UserDTO   `json:"user"`
	Store *stores.StoreDTO `json:"store"`
}

// RegisterService handles onboarding: one account, one store.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	SetupStore(ctx context.Context, userID uuid.UUID, storeName string) (*stores.StoreDTO, error)
}

type registerUserRepo interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type storeCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string) (*stores.StoreDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	UserRepo       registerUserRepo
	StoreSvc       storeCreator
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	users       registerUserRepo
	stores      storeCreator
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.StoreSvc == nil {
		return nil, fmt.Errorf("store service is required")
	}
	return &registerService{
		users:       params.UserRepo,
		stores:      params.StoreSvc,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the account, then its store. The account insert commits
// on its own so a store failure leaves a usable login; the client retries
// the store half through SetupStore.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(req.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	store, err := s.stores.Create(ctx, user.ID, req.StoreName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePartialReg, err, "create store").
			WithDetails(map[string]string{"user_id": user.ID.String()})
	}

	return &RegisterResponse{
		User:  users.FromModel(user),
		Store: store,
	}, nil
}

// SetupStore creates a store for an account that finished registration
// without one.
func (s *registerService) SetupStore(ctx context.Context, userID uuid.UUID, storeName string) (*stores.StoreDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return s.stores.Create(ctx, userID, storeName)
}
