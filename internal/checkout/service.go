package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/internal/cart"
	"github.com/aurylabs/aury-backend/internal/orders"
	"github.com/aurylabs/aury-backend/internal/stores"
	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeResolver interface {
	ResolveSlug(ctx context.Context, storeSlug string) (*stores.PublicStoreDTO, error)
}

type cartSource interface {
	Load(ctx context.Context, storeID, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, storeID, sessionID string) error
}

// PlaceInput carries everything the storefront submits at checkout.
type PlaceInput struct {
	StoreSlug     string
	SessionID     string
	CustomerName  string
	CustomerPhone string
	PaymentMethod enums.PaymentMethod
	Notes         *string
}

// Service turns a session cart into a placed order.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*orders.OrderDTO, error)
}

type service struct {
	tx         txRunner
	storeSvc   storeResolver
	carts      cartSource
	ordersRepo orders.Repository
	log        *logger.Logger
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(tx txRunner, storeSvc storeResolver, carts cartSource, ordersRepo orders.Repository, log *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store resolver required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, storeSvc: storeSvc, carts: carts, ordersRepo: ordersRepo, log: log, now: time.Now}, nil
}

func (s *service) Place(ctx context.Context, input PlaceInput) (*orders.OrderDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	store, err := s.storeSvc.ResolveSlug(ctx, input.StoreSlug)
	if err != nil {
		return nil, err
	}
	if !store.IsOpen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is not accepting orders")
	}
	if !store.Payments.Accepts(input.PaymentMethod) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method not accepted").
			WithDetails(map[string]string{"payment_method": input.PaymentMethod.String()})
	}

	sessionCart, err := s.carts.Load(ctx, store.ID.String(), input.SessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(sessionCart.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var placed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)

		number, err := repo.NextNumber(ctx, store.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		order := buildOrder(store.ID, number, input, sessionCart, s.now().UTC())
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed; a leftover cart only means a stale badge
	// until its TTL expires.
	if err := s.carts.Clear(ctx, store.ID.String(), input.SessionID); err != nil {
		s.log.Error(ctx, "clear cart after checkout", err)
	}

	return orders.FromModel(placed), nil
}

// Ids are assigned here rather than left to the column default so the
// returned snapshot is addressable on any backend.
func buildOrder(storeID uuid.UUID, number int, input PlaceInput, sessionCart *cart.Cart, placedAt time.Time) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		StoreID:       storeID,
		Number:        number,
		SessionID:     input.SessionID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		Total:         sessionCart.Total(),
		Status:        enums.OrderStatusNew,
		PlacedAt:      placedAt,
	}
	for _, line := range sessionCart.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return order
}

func validateInput(input PlaceInput) error {
	if strings.TrimSpace(input.SessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}
