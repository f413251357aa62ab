package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurylabs/aury-backend/api/middleware"
	"github.com/aurylabs/aury-backend/internal/orders"
	"github.com/aurylabs/aury-backend/pkg/enums"
	pkgerrors "github.com/aurylabs/aury-backend/pkg/errors"
	"github.com/aurylabs/aury-backend/pkg/pagination"
)

type stubOrderService struct {
	order      *orders.OrderDTO
	board      *orders.BoardDTO
	stats      *orders.StatsDTO
	page       *orders.PageDTO
	err        error
	lastStatus *enums.OrderStatus
	lastQuery  string
	lastTarget enums.OrderStatus
}

func (s *stubOrderService) Accept(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) MarkReady(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) Finalize(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) Override(_ context.Context, _, _ uuid.UUID, target enums.OrderStatus) (*orders.OrderDTO, error) {
	s.lastTarget = target
	return s.order, s.err
}

func (s *stubOrderService) Detail(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) Board(_ context.Context, _ uuid.UUID, status *enums.OrderStatus, query string) (*orders.BoardDTO, error) {
	s.lastStatus = status
	s.lastQuery = query
	return s.board, s.err
}

func (s *stubOrderService) Stats(context.Context, uuid.UUID) (*orders.StatsDTO, error) {
	return s.stats, s.err
}

func (s *stubOrderService) List(context.Context, uuid.UUID, pagination.Params) (*orders.PageDTO, error) {
	return s.page, s.err
}

func storeScopedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithStoreID(req.Context(), uuid.NewString()))
}

func TestOrdersBoardForwardsFilters(t *testing.T) {
	svc := &stubOrderService{board: &orders.BoardDTO{Orders: []orders.OrderDTO{}}}
	handler := OrdersBoard(svc, nil)

	req := storeScopedRequest(http.MethodGet, "/api/v1/orders/board?status=preparing&q=maria", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastStatus == nil || *svc.lastStatus != enums.OrderStatusPreparing {
		t.Fatalf("expected preparing filter forwarded, got %v", svc.lastStatus)
	}
	if svc.lastQuery != "maria" {
		t.Fatalf("expected query forwarded, got %q", svc.lastQuery)
	}
}

func TestOrdersBoardRejectsUnknownStatus(t *testing.T) {
	handler := OrdersBoard(&stubOrderService{}, nil)

	req := storeScopedRequest(http.MethodGet, "/api/v1/orders/board?status=cancelled", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrderAcceptSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{order: &orders.OrderDTO{
		ID:     orderID,
		Number: 7,
		Status: enums.OrderStatusPreparing,
		Total:  decimal.RequireFromString("51.80"),
	}}
	handler := OrderAccept(svc, nil)

	req := storeScopedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/accept", nil)
	req = withURLParam(req, "orderId", orderID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusPreparing {
		t.Fatalf("expected preparing got %s", envelope.Data.Status)
	}
}

func TestOrderAcceptStateConflict(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order is not new")}
	handler := OrderAccept(svc, nil)

	req := storeScopedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/accept", nil)
	req = withURLParam(req, "orderId", orderID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestOrderOverrideParsesTarget(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{order: &orders.OrderDTO{ID: orderID, Status: enums.OrderStatusNew}}
	handler := OrderOverride(svc, nil)

	req := storeScopedRequest(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/status", []byte(`{"status":"new"}`))
	req = withURLParam(req, "orderId", orderID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastTarget != enums.OrderStatusNew {
		t.Fatalf("expected target new got %s", svc.lastTarget)
	}
}

func TestOrderOverrideRejectsBadStatus(t *testing.T) {
	orderID := uuid.New()
	handler := OrderOverride(&stubOrderService{}, nil)

	req := storeScopedRequest(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/status", []byte(`{"status":"on-hold"}`))
	req = withURLParam(req, "orderId", orderID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrdersListRejectsOversizedLimit(t *testing.T) {
	handler := OrdersList(&stubOrderService{page: &orders.PageDTO{}}, nil)

	req := storeScopedRequest(http.MethodGet, "/api/v1/orders?limit=500", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestDashboardStatsSuccess(t *testing.T) {
	svc := &stubOrderService{stats: &orders.StatsDTO{
		TodayOrders:    3,
		TodayRevenue:   decimal.RequireFromString("120.50"),
		CompletionRate: 0.5,
	}}
	handler := DashboardStats(svc, nil)

	req := storeScopedRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data orders.StatsDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TodayOrders != 3 {
		t.Fatalf("expected 3 orders today got %d", envelope.Data.TodayOrders)
	}
}
