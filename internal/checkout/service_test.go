package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/internal/cart"
	"github.com/aurylabs/aury-backend/internal/orders"
	"github.com/aurylabs/aury-backend/internal/stores"
	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/logger"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

type stubTxRunner struct {
	failWith error
}

func (s *stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if s.failWith != nil {
		return s.failWith
	}
	return fn(nil)
}

type stubResolver struct {
	store *stores.PublicStoreDTO
}

func (s *stubResolver) ResolveSlug(_ context.Context, storeSlug string) (*stores.PublicStoreDTO, error) {
	if s.store == nil || s.store.Slug != storeSlug {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return s.store, nil
}

type stubCartSource struct {
	carts   map[string]*cart.Cart
	cleared []string
}

func (s *stubCartSource) key(storeID, sessionID string) string { return storeID + ":" + sessionID }

func (s *stubCartSource) Load(_ context.Context, storeID, sessionID string) (*cart.Cart, error) {
	if c, ok := s.carts[s.key(storeID, sessionID)]; ok {
		return c, nil
	}
	return &cart.Cart{}, nil
}

func (s *stubCartSource) Clear(_ context.Context, storeID, sessionID string) error {
	s.cleared = append(s.cleared, s.key(storeID, sessionID))
	delete(s.carts, s.key(storeID, sessionID))
	return nil
}

type recordingOrderRepo struct {
	created    []*models.Order
	nextNumber int
}

func (r *recordingOrderRepo) WithTx(_ *gorm.DB) orders.Repository { return r }

func (r *recordingOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.created = append(r.created, order)
	return nil
}

func (r *recordingOrderRepo) NextNumber(_ context.Context, _ uuid.UUID) (int, error) {
	r.nextNumber++
	return r.nextNumber, nil
}

func (r *recordingOrderRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *recordingOrderRepo) UpdateStatus(_ context.Context, _ *models.Order) error { return nil }

func (r *recordingOrderRepo) CountsByStatus(_ context.Context, _ uuid.UUID) (map[enums.OrderStatus]int64, error) {
	return nil, nil
}

func (r *recordingOrderRepo) ListFiltered(_ context.Context, _ uuid.UUID, _ *enums.OrderStatus, _ string) ([]models.Order, error) {
	return nil, nil
}

func (r *recordingOrderRepo) ListSince(_ context.Context, _ uuid.UUID, _ time.Time) ([]models.Order, error) {
	return nil, nil
}

func (r *recordingOrderRepo) ListRecent(_ context.Context, _ uuid.UUID, _ int) ([]models.Order, error) {
	return nil, nil
}

func (r *recordingOrderRepo) ListPage(_ context.Context, _ uuid.UUID, _ *pagination.Cursor, _ int) ([]models.Order, error) {
	return nil, nil
}

type checkoutFixture struct {
	svc   Service
	store *stores.PublicStoreDTO
	carts *stubCartSource
	repo  *recordingOrderRepo
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	store := &stores.PublicStoreDTO{
		ID:     uuid.New(),
		Name:   "Cafe Central",
		Slug:   "cafe-central",
		IsOpen: true,
		Payments: stores.Payments{
			Pix:    true,
			Credit: true,
			Debit:  false,
			Cash:   true,
		},
	}
	carts := &stubCartSource{carts: map[string]*cart.Cart{}}
	repo := &recordingOrderRepo{}
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(&stubTxRunner{}, &stubResolver{store: store}, carts, repo, log)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &checkoutFixture{svc: svc, store: store, carts: carts, repo: repo}
}

func (f *checkoutFixture) seedCart(sessionID string, lines ...cart.Line) {
	f.carts.carts[f.store.ID.String()+":"+sessionID] = &cart.Cart{Lines: lines}
}

func placeInput(sessionID string) PlaceInput {
	return PlaceInput{
		StoreSlug:     "cafe-central",
		SessionID:     sessionID,
		CustomerName:  "Maria Silva",
		CustomerPhone: "+55 11 99999-0000",
		PaymentMethod: enums.PaymentMethodPix,
	}
}

func TestPlaceCreatesOrderAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart("sess-1",
		cart.Line{ProductID: uuid.New(), Name: "Cheeseburger", UnitPrice: decimal.NewFromFloat(9.90), Quantity: 2},
		cart.Line{ProductID: uuid.New(), Name: "Lemonade", UnitPrice: decimal.NewFromFloat(4.50), Quantity: 1},
	)

	order, err := f.svc.Place(context.Background(), placeInput("sess-1"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if order.Number != 1 {
		t.Fatalf("expected number 1, got %d", order.Number)
	}
	if order.ID == uuid.Nil {
		t.Fatal("expected the placed order to carry a generated id")
	}
	if order.Status != enums.OrderStatusNew {
		t.Fatalf("expected status new, got %s", order.Status)
	}
	if !order.Total.Equal(decimal.NewFromFloat(24.30)) {
		t.Fatalf("expected total 24.30, got %s", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if len(f.carts.cleared) != 1 {
		t.Fatalf("expected cart to be cleared, got %v", f.carts.cleared)
	}
}

func TestPlaceNumbersArePerStoreSequential(t *testing.T) {
	f := newCheckoutFixture(t)
	line := cart.Line{ProductID: uuid.New(), Name: "Cheeseburger", UnitPrice: decimal.NewFromFloat(9.90), Quantity: 1}

	f.seedCart("sess-1", line)
	first, err := f.svc.Place(context.Background(), placeInput("sess-1"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	f.seedCart("sess-2", line)
	second, err := f.svc.Place(context.Background(), placeInput("sess-2"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if first.Number != 1 || second.Number != 2 {
		t.Fatalf("expected sequential numbers, got %d then %d", first.Number, second.Number)
	}
}

func TestPlaceRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Place(context.Background(), placeInput("sess-1"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for empty cart, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Fatal("no order should be created for an empty cart")
	}
}

func TestPlaceRejectsClosedStore(t *testing.T) {
	f := newCheckoutFixture(t)
	f.store.IsOpen = false
	f.seedCart("sess-1", cart.Line{ProductID: uuid.New(), Name: "Cheeseburger", UnitPrice: decimal.NewFromFloat(9.90), Quantity: 1})

	_, err := f.svc.Place(context.Background(), placeInput("sess-1"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for closed store, got %v", err)
	}
}

func TestPlaceRejectsDisabledPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart("sess-1", cart.Line{ProductID: uuid.New(), Name: "Cheeseburger", UnitPrice: decimal.NewFromFloat(9.90), Quantity: 1})

	input := placeInput("sess-1")
	input.PaymentMethod = enums.PaymentMethodDebit
	_, err := f.svc.Place(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for disabled method, got %v", err)
	}
}

func TestPlaceUnknownStore(t *testing.T) {
	f := newCheckoutFixture(t)

	input := placeInput("sess-1")
	input.StoreSlug = "missing"
	_, err := f.svc.Place(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown store, got %v", err)
	}
}

func TestPlaceValidatesContact(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart("sess-1", cart.Line{ProductID: uuid.New(), Name: "Cheeseburger", UnitPrice: decimal.NewFromFloat(9.90), Quantity: 1})

	for name, mutate := range map[string]func(*PlaceInput){
		"missing name":    func(in *PlaceInput) { in.CustomerName = "  " },
		"missing phone":   func(in *PlaceInput) { in.CustomerPhone = "" },
		"missing session": func(in *PlaceInput) { in.SessionID = "" },
		"bad method":      func(in *PlaceInput) { in.PaymentMethod = "check" },
	} {
		input := placeInput("sess-1")
		mutate(&input)
		_, err := f.svc.Place(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected VALIDATION_ERROR, got %v", name, err)
		}
	}
}
