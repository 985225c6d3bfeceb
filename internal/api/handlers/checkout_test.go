package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/checkout"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type fakeOrderRepo struct {
	created []*domain.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	order.ID = uuid.New()
	order.Code = "FER-000042"
	r.created = append(r.created, order)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	for _, o := range r.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
}

func (r *fakeOrderRepo) GetByCode(_ context.Context, code string) (*domain.Order, error) {
	for _, o := range r.created {
		if o.Code == code {
			return o, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: code}
}

func (r *fakeOrderRepo) ListByUserID(context.Context, uuid.UUID, int, int) ([]*domain.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) ListByStatus(context.Context, domain.OrderStatus, int, int) ([]*domain.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) List(context.Context, int, int) ([]*domain.Order, error) { return nil, nil }

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus, reason *string) error {
	order, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	order.Status = status
	order.RejectionReason = reason
	return nil
}

func (r *fakeOrderRepo) UpdateMessage(_ context.Context, id uuid.UUID, message string) error {
	order, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	order.Message = message
	return nil
}

type fakeOrderItemRepo struct{}

func (fakeOrderItemRepo) CreateBatch(context.Context, []*domain.OrderItem) error { return nil }
func (fakeOrderItemRepo) GetByOrderID(context.Context, uuid.UUID) ([]*domain.OrderItem, error) {
	return nil, nil
}

type fakeOrderEventRepo struct{}

func (fakeOrderEventRepo) Create(context.Context, *domain.OrderEvent) error { return nil }
func (fakeOrderEventRepo) GetByOrderID(context.Context, uuid.UUID) ([]*domain.OrderEvent, error) {
	return nil, nil
}

type fakeIdempotencyKeyRepo struct {
	keys map[string]*domain.IdempotencyKey
}

func (r *fakeIdempotencyKeyRepo) GetByKey(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	if k, ok := r.keys[key]; ok {
		return k, nil
	}
	return nil, nil
}

func (r *fakeIdempotencyKeyRepo) Create(_ context.Context, key *domain.IdempotencyKey) error {
	if r.keys == nil {
		r.keys = make(map[string]*domain.IdempotencyKey)
	}
	r.keys[key.Key] = key
	return nil
}

type checkoutTestEnv struct {
	router   *gin.Engine
	sessions *store.SessionStore
	orders   *fakeOrderRepo
}

func newCheckoutEnv(t *testing.T) *checkoutTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := &fakeOrderRepo{}
	repos := &repository.Repositories{
		Order:          orders,
		OrderItem:      fakeOrderItemRepo{},
		OrderEvent:     fakeOrderEventRepo{},
		IdempotencyKey: &fakeIdempotencyKeyRepo{},
	}
	sessions := store.NewMemorySessionStore()
	opener := checkout.NewOpener(checkout.DirectiveNavigator{}, 400*time.Millisecond, nil)
	cfg := &config.Config{
		WhatsApp: config.WhatsAppConfig{
			StorePhone:    "51999888777",
			BaseURL:       checkout.TrustedChannelPrefix,
			FallbackDelay: 400 * time.Millisecond,
			RedirectDelay: 1500 * time.Millisecond,
		},
	}
	svc := checkout.NewService(repos, sessions, opener, nil, cfg.WhatsApp, nil)

	logger := zap.NewNop()
	router := gin.New()
	router.Use(middleware.SessionMiddleware())
	router.POST("/checkout", middleware.IdempotencyMiddleware(repos, logger), HandleCheckout(cfg, svc, repos, logger))

	return &checkoutTestEnv{router: router, sessions: sessions, orders: orders}
}

func (e *checkoutTestEnv) seedCart(t *testing.T, sessionKey string) {
	t.Helper()
	price, _ := decimal.NewFromString("25.50")
	cart := &domain.Cart{
		SessionKey: sessionKey,
		Lines: []domain.CartLine{
			{ProductID: uuid.New(), SKU: "HAM-01", Name: "Hammer", Quantity: 2, UnitPrice: price},
		},
	}
	if err := e.sessions.Cart.Save(context.Background(), cart); err != nil {
		t.Fatal(err)
	}
}

func (e *checkoutTestEnv) submit(t *testing.T, sessionKey, idempotencyKey, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionKeyHeader, sessionKey)
	req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	e.router.ServeHTTP(w, req)
	return w
}

const pickupCheckoutBody = `{
	"order_type": "pickup",
	"shipping": {"full_name": "Ana", "phone": "999888777", "city": "Lima"}
}`

func TestCheckoutReplayReturnsOriginalOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	env.seedCart(t, "s1")

	first := env.submit(t, "s1", "key-1", pickupCheckoutBody)
	if first.Code != http.StatusCreated {
		t.Fatalf("first submission status = %d, body %s", first.Code, first.Body.String())
	}

	var created CheckoutResponse
	if err := json.Unmarshal(first.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.OrderCode != "FER-000042" {
		t.Fatalf("order code = %s", created.OrderCode)
	}

	replay := env.submit(t, "s1", "key-1", pickupCheckoutBody)
	if replay.Code != http.StatusOK {
		t.Fatalf("replay status = %d, body %s", replay.Code, replay.Body.String())
	}

	var replayed CheckoutResponse
	if err := json.Unmarshal(replay.Body.Bytes(), &replayed); err != nil {
		t.Fatal(err)
	}
	if replayed.OrderCode != created.OrderCode {
		t.Fatalf("replay code %s, original %s", replayed.OrderCode, created.OrderCode)
	}
	if replayed.OrderID == nil || created.OrderID == nil || *replayed.OrderID != *created.OrderID {
		t.Fatalf("replay order id %v, original %v", replayed.OrderID, created.OrderID)
	}

	if len(env.orders.created) != 1 {
		t.Fatalf("replay created a second order: %d", len(env.orders.created))
	}
}

func TestCheckoutSameKeyDifferentPayloadConflicts(t *testing.T) {
	env := newCheckoutEnv(t)
	env.seedCart(t, "s1")

	if w := env.submit(t, "s1", "key-1", pickupCheckoutBody); w.Code != http.StatusCreated {
		t.Fatalf("first submission status = %d", w.Code)
	}

	altered := `{
	"order_type": "pickup",
	"shipping": {"full_name": "Luis", "phone": "999888777", "city": "Lima"}
}`
	if w := env.submit(t, "s1", "key-1", altered); w.Code != http.StatusConflict {
		t.Fatalf("different payload under same key: status = %d, want %d", w.Code, http.StatusConflict)
	}
	if len(env.orders.created) != 1 {
		t.Fatalf("conflicting submission created an order: %d", len(env.orders.created))
	}
}

func TestCheckoutWithoutKeyCreatesEachTime(t *testing.T) {
	env := newCheckoutEnv(t)

	env.seedCart(t, "s1")
	if w := env.submit(t, "s1", "", pickupCheckoutBody); w.Code != http.StatusCreated {
		t.Fatalf("first submission status = %d", w.Code)
	}
	env.seedCart(t, "s1")
	if w := env.submit(t, "s1", "", pickupCheckoutBody); w.Code != http.StatusCreated {
		t.Fatalf("second submission status = %d", w.Code)
	}
	if len(env.orders.created) != 2 {
		t.Fatalf("expected two independent orders, got %d", len(env.orders.created))
	}
}

func TestUpdateOrderStatusRejectsInvalidTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)

	orders := &fakeOrderRepo{}
	order := &domain.Order{Status: domain.OrderStatusPending}
	if err := orders.Create(context.Background(), order); err != nil {
		t.Fatal(err)
	}

	repos := &repository.Repositories{Order: orders, OrderEvent: fakeOrderEventRepo{}}
	logger := zap.NewNop()
	router := gin.New()
	router.POST("/orders/:id/ship", HandleUpdateOrderStatus(repos, domain.OrderStatusShipped, logger))
	router.POST("/orders/:id/confirm", HandleUpdateOrderStatus(repos, domain.OrderStatusConfirmed, logger))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/"+order.ID.String()+"/ship", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("pending order shipped directly: status = %d, want %d", w.Code, http.StatusConflict)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("rejected transition mutated the order: %s", order.Status)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/orders/"+order.ID.String()+"/confirm", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid confirm: status = %d, body %s", w.Code, w.Body.String())
	}
	if order.Status != domain.OrderStatusConfirmed {
		t.Fatalf("order status after confirm: %s", order.Status)
	}
}
