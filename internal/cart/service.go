package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/config"
	"github.com/aurylabs/aury-backend/pkg/db/models"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
)

type cartStore interface {
	Load(ctx context.Context, storeID, sessionID string) (*Cart, error)
	Save(ctx context.Context, storeID, sessionID string, cart *Cart) error
	Clear(ctx context.Context, storeID, sessionID string) error
}

type productFinder interface {
	FindProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error)
}

// CartDTO is the transport view of a session cart with derived values.
type CartDTO struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Service exposes session cart mutations for the storefront.
type Service interface {
	Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*CartDTO, error)
	Add(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID) (*CartDTO, error)
	AdjustQuantity(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID, delta int) (*CartDTO, error)
	Remove(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

type service struct {
	store    cartStore
	products productFinder
	cfg      config.CartConfig
}

// NewService builds a cart service over the Redis store and catalog lookup.
func NewService(store cartStore, products productFinder, cfg config.CartConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{store: store, products: products, cfg: cfg}, nil
}

func (s *service) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*CartDTO, error) {
	cart, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

func (s *service) Add(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	product, err := s.products.FindProduct(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	cart, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}

	if existing := findLine(cart, productID); existing == nil {
		if s.cfg.MaxLines > 0 && len(cart.Lines) >= s.cfg.MaxLines {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line limit reached")
		}
	} else if s.cfg.MaxQty > 0 && existing.Quantity >= s.cfg.MaxQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity limit reached")
	}

	cart.Add(Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
	})

	if err := s.save(ctx, storeID, sessionID, cart); err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

func (s *service) AdjustQuantity(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID, delta int) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	cart, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}

	if existing := findLine(cart, productID); existing != nil && delta > 0 &&
		s.cfg.MaxQty > 0 && existing.Quantity+delta > s.cfg.MaxQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity limit reached")
	}

	cart.AdjustQuantity(productID, delta)

	if err := s.save(ctx, storeID, sessionID, cart); err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

func (s *service) Remove(ctx context.Context, storeID uuid.UUID, sessionID string, productID uuid.UUID) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)

	if err := s.save(ctx, storeID, sessionID, cart); err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

func (s *service) Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, storeID.String(), sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.Load(ctx, storeID.String(), sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, storeID uuid.UUID, sessionID string, cart *Cart) error {
	if err := s.store.Save(ctx, storeID.String(), sessionID, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

func findLine(cart *Cart, productID uuid.UUID) *Line {
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			return &cart.Lines[i]
		}
	}
	return nil
}

func toDTO(cart *Cart) *CartDTO {
	lines := cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &CartDTO{
		Lines: lines,
		Total: cart.Total(),
		Count: cart.Count(),
	}
}
