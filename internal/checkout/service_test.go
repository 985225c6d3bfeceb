package checkout

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type fakeOrderRepo struct {
	createErr error
	created   []*domain.Order
	messages  map[uuid.UUID]string
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	order.ID = uuid.New()
	order.Code = fmt.Sprintf("FER-%06d", len(r.created)+1)
	r.created = append(r.created, order)
	return nil
}

func (r *fakeOrderRepo) GetByID(context.Context, uuid.UUID) (*domain.Order, error) {
	return nil, &errors.ErrNotFound{Resource: "order"}
}
func (r *fakeOrderRepo) GetByCode(context.Context, string) (*domain.Order, error) {
	return nil, &errors.ErrNotFound{Resource: "order"}
}
func (r *fakeOrderRepo) ListByUserID(context.Context, uuid.UUID, int, int) ([]*domain.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) ListByStatus(context.Context, domain.OrderStatus, int, int) ([]*domain.Order, error) {
	return nil, nil
}
func (r *fakeOrderRepo) List(context.Context, int, int) ([]*domain.Order, error) { return nil, nil }
func (r *fakeOrderRepo) UpdateStatus(context.Context, uuid.UUID, domain.OrderStatus, *string) error {
	return nil
}
func (r *fakeOrderRepo) UpdateMessage(_ context.Context, id uuid.UUID, message string) error {
	if r.messages == nil {
		r.messages = make(map[uuid.UUID]string)
	}
	r.messages[id] = message
	return nil
}

type fakeOrderItemRepo struct{ items []*domain.OrderItem }

func (r *fakeOrderItemRepo) CreateBatch(_ context.Context, items []*domain.OrderItem) error {
	r.items = append(r.items, items...)
	return nil
}
func (r *fakeOrderItemRepo) GetByOrderID(context.Context, uuid.UUID) ([]*domain.OrderItem, error) {
	return nil, nil
}

type fakeOrderEventRepo struct{ events []*domain.OrderEvent }

func (r *fakeOrderEventRepo) Create(_ context.Context, e *domain.OrderEvent) error {
	r.events = append(r.events, e)
	return nil
}
func (r *fakeOrderEventRepo) GetByOrderID(context.Context, uuid.UUID) ([]*domain.OrderEvent, error) {
	return nil, nil
}

type fakeDestinationRepo struct {
	byID   map[uuid.UUID]*domain.Destination
	getErr error
}

func (r *fakeDestinationRepo) ListActive(context.Context) ([]*domain.Destination, error) {
	return nil, nil
}
func (r *fakeDestinationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Destination, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if d, ok := r.byID[id]; ok {
		return d, nil
	}
	return nil, &errors.ErrNotFound{Resource: "destination", ID: id.String()}
}
func (r *fakeDestinationRepo) GetByName(context.Context, string) (*domain.Destination, error) {
	return nil, &errors.ErrNotFound{Resource: "destination"}
}
func (r *fakeDestinationRepo) UpsertBatch(context.Context, []*domain.Destination) error { return nil }

type checkoutFixture struct {
	svc          *Service
	sessions     *store.SessionStore
	orders       *fakeOrderRepo
	items        *fakeOrderItemRepo
	destinations *fakeDestinationRepo
	nav          *fakeNavigator
	destID       uuid.UUID
}

func newFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	destID := uuid.New()
	cost, _ := decimal.NewFromString("10")
	orders := &fakeOrderRepo{}
	items := &fakeOrderItemRepo{}
	destinations := &fakeDestinationRepo{byID: map[uuid.UUID]*domain.Destination{
		destID: {ID: destID, Name: "Lima", Cost: cost, ShippingMode: domain.ShippingModeGround, IsActive: true},
	}}
	repos := &repository.Repositories{
		Order:       orders,
		OrderItem:   items,
		OrderEvent:  &fakeOrderEventRepo{},
		Destination: destinations,
	}
	sessions := store.NewMemorySessionStore()
	nav := &fakeNavigator{handle: fakeHandle{closed: false, known: true}}
	opener := NewOpener(nav, 400*time.Millisecond, nil).WithSleep(func(time.Duration) {})
	wa := config.WhatsAppConfig{
		StorePhone:    "51999888777",
		BaseURL:       TrustedChannelPrefix,
		FallbackDelay: 400 * time.Millisecond,
		RedirectDelay: 1500 * time.Millisecond,
	}
	svc := NewService(repos, sessions, opener, nil, wa, nil)
	return &checkoutFixture{
		svc:          svc,
		sessions:     sessions,
		orders:       orders,
		items:        items,
		destinations: destinations,
		nav:          nav,
		destID:       destID,
	}
}

func (f *checkoutFixture) seedCart(t *testing.T, sessionKey string) {
	t.Helper()
	price, _ := decimal.NewFromString("25.50")
	cart := &domain.Cart{
		SessionKey: sessionKey,
		Lines: []domain.CartLine{
			{ProductID: uuid.New(), SKU: "HAM-01", Name: "Hammer", Quantity: 2, UnitPrice: price},
		},
	}
	if err := f.sessions.Cart.Save(context.Background(), cart); err != nil {
		t.Fatal(err)
	}
}

func validShipping(destID uuid.UUID) domain.ShippingDetails {
	return domain.ShippingDetails{
		FullName:      "Ana",
		Phone:         "999888777",
		City:          "Lima",
		DestinationID: destID,
	}
}

func TestCheckoutEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "s1")

	res, err := f.svc.Checkout(context.Background(), "s1", nil, validShipping(f.destID), domain.OrderTypeDelivery)
	if err != nil {
		t.Fatal(err)
	}

	if res.OrderCode != "FER-000001" {
		t.Fatalf("order code: %s", res.OrderCode)
	}
	for _, want := range []string{"2 x Hammer", "S/ 51.00", "*Total: S/ 61.00*"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("message missing %q:\n%s", want, res.Message)
		}
	}
	if !strings.HasPrefix(res.ChannelURL, TrustedChannelPrefix) {
		t.Fatalf("channel url not trusted: %s", res.ChannelURL)
	}
	if len(f.nav.opened) != 1 {
		t.Fatalf("opener not invoked: %v", f.nav.opened)
	}
	if res.Delivery.UsedFallback {
		t.Fatal("healthy navigator should not fall back")
	}

	// Cart cleared.
	cart, _ := f.sessions.Cart.Get(context.Background(), "s1")
	if !cart.IsEmpty() {
		t.Fatal("cart not cleared after checkout")
	}

	// Order persisted with items and totals.
	if len(f.orders.created) != 1 || len(f.items.items) != 1 {
		t.Fatalf("order/items not persisted: %d/%d", len(f.orders.created), len(f.items.items))
	}
	if got := f.orders.created[0].Total.StringFixed(2); got != "61.00" {
		t.Fatalf("order total %s", got)
	}
	if res.RedirectPath != "/orders" || res.RedirectDelay == 0 {
		t.Fatalf("missing post-delivery redirect: %+v", res)
	}
}

func TestCheckoutValidationAggregates(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "s1")

	shipping := validShipping(f.destID)
	shipping.Phone = ""
	shipping.City = ""

	_, err := f.svc.Checkout(context.Background(), "s1", nil, shipping, domain.OrderTypeDelivery)
	verr, ok := err.(*errors.ErrValidation)
	if !ok {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(verr.Fields) != 2 || verr.Fields[0].Field != "phone" || verr.Fields[1].Field != "city" {
		t.Fatalf("expected exactly phone then city, got %+v", verr.Fields)
	}
	if len(f.nav.opened) != 0 || len(f.orders.created) != 0 {
		t.Fatal("rejected checkout must have no side effects")
	}
}

func TestCheckoutDNIRules(t *testing.T) {
	f := newFixture(t)

	run := func(dni string) error {
		f.seedCart(t, "s1")
		shipping := validShipping(f.destID)
		shipping.DNI = dni
		_, err := f.svc.Checkout(context.Background(), "s1", nil, shipping, domain.OrderTypeDelivery)
		return err
	}

	if err := run("1234567"); err == nil {
		t.Fatal("7-char DNI must be rejected")
	} else if !strings.Contains(err.Error(), "exactly 8 characters") {
		t.Fatalf("expected length-specific message, got %v", err)
	}
	if err := run("12345678"); err != nil {
		t.Fatalf("8-char DNI must pass: %v", err)
	}
	if err := run(""); err != nil {
		t.Fatalf("empty DNI is optional and must pass: %v", err)
	}
	// Length is counted in characters, not bytes.
	if err := run("1234567Ñ"); err != nil {
		t.Fatalf("8-char DNI with a multibyte character must pass: %v", err)
	}
	if err := run("12345678Ñ"); err == nil {
		t.Fatal("9-char DNI must be rejected")
	}
}

func TestCheckoutPersistFailureStillDelivers(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "s1")
	f.orders.createErr = fmt.Errorf("connection refused")

	res, err := f.svc.Checkout(context.Background(), "s1", nil, validShipping(f.destID), domain.OrderTypeDelivery)
	if err != nil {
		t.Fatalf("backend failure must not fail checkout: %v", err)
	}
	if res.OrderCode != PendingOrderCode {
		t.Fatalf("expected placeholder code, got %s", res.OrderCode)
	}
	if !strings.Contains(res.Message, "Pedido: "+PendingOrderCode) {
		t.Fatalf("placeholder not embedded:\n%s", res.Message)
	}
	if len(f.nav.opened) != 1 {
		t.Fatal("opener must still be invoked after persistence failure")
	}
}

func TestCheckoutDoubleSubmitRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "s1")

	ok, _ := f.sessions.Guard.Begin(context.Background(), "s1")
	if !ok {
		t.Fatal("setup: could not take guard")
	}

	_, err := f.svc.Checkout(context.Background(), "s1", nil, validShipping(f.destID), domain.OrderTypeDelivery)
	if _, isConflict := err.(*errors.ErrConflict); !isConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCheckoutUnknownDestinationRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "s1")

	shipping := validShipping(uuid.New())
	_, err := f.svc.Checkout(context.Background(), "s1", nil, shipping, domain.OrderTypeDelivery)
	verr, ok := err.(*errors.ErrValidation)
	if !ok || len(verr.Fields) != 1 || verr.Fields[0].Field != "destination" {
		t.Fatalf("expected destination validation error, got %v", err)
	}
}

func TestCheckoutDestinationLookupOutagePropagates(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "s1")
	f.destinations.getErr = fmt.Errorf("connection refused")

	_, err := f.svc.Checkout(context.Background(), "s1", nil, validShipping(f.destID), domain.OrderTypeDelivery)
	if err == nil {
		t.Fatal("repository outage must fail the checkout")
	}
	if _, isValidation := err.(*errors.ErrValidation); isValidation {
		t.Fatalf("outage surfaced as a validation error: %v", err)
	}
	if len(f.nav.opened) != 0 || len(f.orders.created) != 0 {
		t.Fatal("failed checkout must have no side effects")
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), "s1", nil, validShipping(f.destID), domain.OrderTypeDelivery)
	verr, ok := err.(*errors.ErrValidation)
	if !ok {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if verr.Fields[0].Field != "cart" {
		t.Fatalf("expected cart field first, got %+v", verr.Fields)
	}
}
