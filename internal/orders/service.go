package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurylabs/aury-backend/pkg/db/models"
	"github.com/aurylabs/aury-backend/pkg/enums"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

// Service drives the order lifecycle and the dashboard read views.
type Service interface {
	Accept(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	MarkReady(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	Finalize(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	Override(ctx context.Context, storeID, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	Detail(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error)
	Board(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus, query string) (*BoardDTO, error)
	Stats(ctx context.Context, storeID uuid.UUID) (*StatsDTO, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*PageDTO, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Accept(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	return s.forward(ctx, storeID, orderID, enums.OrderStatusNew, enums.OrderStatusPreparing)
}

func (s *service) MarkReady(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	return s.forward(ctx, storeID, orderID, enums.OrderStatusPreparing, enums.OrderStatusReady)
}

func (s *service) Finalize(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	return s.forward(ctx, storeID, orderID, enums.OrderStatusReady, enums.OrderStatusCompleted)
}

func (s *service) forward(ctx context.Context, storeID, orderID uuid.UUID, from, to enums.OrderStatus) (*OrderDTO, error) {
	order, err := s.find(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition").
			WithDetails(map[string]string{
				"current": order.Status.String(),
				"target":  to.String(),
			})
	}

	order.Status = to
	if to == enums.OrderStatusCompleted {
		now := s.now().UTC()
		order.CompletedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return FromModel(order), nil
}

// Override moves a non-completed order to any status, backward included.
// Completed orders are terminal.
func (s *service) Override(ctx context.Context, storeID, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.find(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already completed").
			WithDetails(map[string]string{"current": order.Status.String()})
	}
	if order.Status == target {
		return FromModel(order), nil
	}

	order.Status = target
	if target == enums.OrderStatusCompleted {
		now := s.now().UTC()
		order.CompletedAt = &now
	} else {
		order.CompletedAt = nil
	}
	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return FromModel(order), nil
}

func (s *service) Detail(ctx context.Context, storeID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.find(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// Board returns counts over the full order set and the list filtered by
// status and free text, as independent read-only projections.
func (s *service) Board(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus, query string) (*BoardDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	counts, err := s.repo.CountsByStatus(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	orders, err := s.repo.ListFiltered(ctx, storeID, status, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	return &BoardDTO{
		Counts: StatusCounts{
			New:       counts[enums.OrderStatusNew],
			Preparing: counts[enums.OrderStatusPreparing],
			Ready:     counts[enums.OrderStatusReady],
			Completed: counts[enums.OrderStatusCompleted],
		},
		Orders: fromModels(orders),
	}, nil
}

func (s *service) Stats(ctx context.Context, storeID uuid.UUID) (*StatsDTO, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	today, err := s.repo.ListSince(ctx, storeID, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list today's orders")
	}

	stats := &StatsDTO{
		TodayOrders:  int64(len(today)),
		TodayRevenue: decimal.Zero,
	}

	var completed int64
	var completionMinutes float64
	for _, order := range today {
		stats.TodayRevenue = stats.TodayRevenue.Add(order.Total)
		if order.Status == enums.OrderStatusCompleted {
			completed++
			if order.CompletedAt != nil {
				completionMinutes += order.CompletedAt.Sub(order.PlacedAt).Minutes()
			}
		}
	}
	if len(today) > 0 {
		stats.CompletionRate = float64(completed) / float64(len(today))
	}
	if completed > 0 {
		stats.AvgCompletionMinutes = completionMinutes / float64(completed)
	}

	recent, err := s.repo.ListRecent(ctx, storeID, 5)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}
	stats.Recent = fromModels(recent)

	return stats, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*PageDTO, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	orders, err := s.repo.ListPage(ctx, storeID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &PageDTO{}
	if len(orders) > limit {
		last := orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		orders = orders[:limit]
	}
	page.Orders = fromModels(orders)
	return page, nil
}

func (s *service) find(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, storeID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
