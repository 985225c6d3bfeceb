package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// state names the orchestration stages. The checkout walks
// idle → validating → composing → persisting → delivering → clearing → done,
// with validating → rejected on input failure.
type state string

const (
	stateIdle       state = "idle"
	stateValidating state = "validating"
	stateComposing  state = "composing"
	statePersisting state = "persisting"
	stateDelivering state = "delivering"
	stateClearing   state = "clearing"
	stateDone       state = "done"
	stateRejected   state = "rejected"
)

// Notifier forwards a created order to the staff notification gateway.
// Implementations must be best-effort; a nil-safe no-op is acceptable.
type Notifier interface {
	OrderCreated(order *domain.Order)
}

// NopNotifier is used when no gateway is configured.
type NopNotifier struct{}

func (NopNotifier) OrderCreated(*domain.Order) {}

// Result is what the checkout hands back to the transport layer.
type Result struct {
	OrderID      *uuid.UUID
	OrderCode    string // PendingOrderCode when persistence produced no record
	Message      string
	ChannelURL   string
	Delivery     Outcome
	RedirectPath string
	// RedirectDelay gives the delivery channel time to take visual effect
	// before the client navigates to order history.
	RedirectDelay time.Duration
	// Degraded is set when the full composition failed and the minimal
	// message was delivered instead.
	Degraded bool
}

// Service orchestrates checkout end to end.
type Service struct {
	repos    *repository.Repositories
	sessions *store.SessionStore
	opener   *Opener
	notifier Notifier
	wa       config.WhatsAppConfig
	logger   *zap.Logger
}

// NewService creates a checkout service.
func NewService(
	repos *repository.Repositories,
	sessions *store.SessionStore,
	opener *Opener,
	notifier Notifier,
	wa config.WhatsAppConfig,
	logger *zap.Logger,
) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repos:    repos,
		sessions: sessions,
		opener:   opener,
		notifier: notifier,
		wa:       wa,
		logger:   logger,
	}
}

// Checkout runs the whole flow for one session. Validation failures return
// ErrValidation with no side effects; an untrusted channel URL returns
// ErrUntrustedChannel; a concurrent submission returns ErrConflict. Backend
// persistence failures never fail the checkout.
func (s *Service) Checkout(
	ctx context.Context,
	sessionKey string,
	userID *uuid.UUID,
	shipping domain.ShippingDetails,
	orderType domain.OrderType,
) (*Result, error) {
	ok, err := s.sessions.Guard.Begin(ctx, sessionKey)
	if err != nil {
		// The guard is a mitigation, not a dependency; proceed without it.
		s.logger.Warn("Checkout guard unavailable, continuing unguarded", zap.Error(err))
	} else if !ok {
		return nil, &errors.ErrConflict{Message: "a checkout is already in progress for this session"}
	} else {
		defer func() {
			if endErr := s.sessions.Guard.End(context.WithoutCancel(ctx), sessionKey); endErr != nil {
				s.logger.Warn("Failed to release checkout guard", zap.Error(endErr))
			}
		}()
	}

	if orderType == "" {
		orderType = domain.OrderTypeDelivery
	}

	current := stateIdle
	transition := func(next state) {
		s.logger.Debug("Checkout transition",
			zap.String("from", string(current)),
			zap.String("to", string(next)),
			zap.String("session_key", sessionKey))
		current = next
	}

	// validating
	transition(stateValidating)
	cart, err := s.sessions.Cart.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if verr := ValidateShipping(shipping, orderType, cart); verr != nil {
		transition(stateRejected)
		return nil, verr
	}

	var destination *domain.Destination
	if orderType != domain.OrderTypePickup {
		destination, err = s.repos.Destination.GetByID(ctx, shipping.DestinationID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); !ok {
				// Repository outage, not a bad destination choice.
				return nil, err
			}
			transition(stateRejected)
			verr := &errors.ErrValidation{}
			verr.Add("destination", "selected destination is not available")
			return nil, verr
		}
	}

	// Everything after validation must reach the delivery channel even when
	// something blows up mid-flight; degrade to the minimal message.
	result, hardErr := s.run(ctx, sessionKey, userID, shipping, orderType, destination, cart, transition)
	if hardErr != nil {
		return nil, hardErr
	}
	return result, nil
}

func (s *Service) run(
	ctx context.Context,
	sessionKey string,
	userID *uuid.UUID,
	shipping domain.ShippingDetails,
	orderType domain.OrderType,
	destination *domain.Destination,
	cart *domain.Cart,
	transition func(state),
) (result *Result, hardErr error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Checkout failed unexpectedly, delivering minimal message",
				zap.Any("panic", r), zap.String("session_key", sessionKey))
			result, hardErr = s.deliverMinimal(shipping, cart)
		}
	}()

	// composing
	transition(stateComposing)
	now := time.Now()
	input := ComposeInput{
		CreatedAt:   now,
		Shipping:    shipping,
		Destination: destination,
		OrderType:   orderType,
		Lines:       cart.Lines,
	}
	message := ComposeMessage(input)

	// persisting (best-effort)
	transition(statePersisting)
	order := s.persistOrder(ctx, userID, shipping, orderType, destination, cart, message, now)
	orderCode := PendingOrderCode
	var orderID *uuid.UUID
	if order != nil && order.Code != "" {
		orderCode = order.Code
		orderID = &order.ID
		input.OrderCode = order.Code
		message = ComposeMessage(input)
		if err := s.repos.Order.UpdateMessage(ctx, order.ID, message); err != nil {
			s.logger.Warn("Failed to store final order message", zap.Error(err))
		}
		order.Message = message
		go s.notifier.OrderCreated(order)
	}

	// delivering
	transition(stateDelivering)
	channelURL := BuildChannelURL(s.wa.StorePhone, message)
	outcome, err := s.opener.Open(channelURL)
	if err != nil {
		// Only the untrusted-channel check fails hard.
		return nil, err
	}

	// clearing
	transition(stateClearing)
	if err := s.sessions.Cart.Clear(ctx, sessionKey); err != nil {
		s.logger.Warn("Failed to clear cart after checkout", zap.Error(err))
	}

	// done
	transition(stateDone)
	return &Result{
		OrderID:       orderID,
		OrderCode:     orderCode,
		Message:       message,
		ChannelURL:    channelURL,
		Delivery:      outcome,
		RedirectPath:  "/orders",
		RedirectDelay: s.wa.RedirectDelay,
	}, nil
}

// persistOrder attempts backend order creation. Every failure is logged and
// swallowed: an order confirmed over the external channel is commercially
// valid without a backend record.
func (s *Service) persistOrder(
	ctx context.Context,
	userID *uuid.UUID,
	shipping domain.ShippingDetails,
	orderType domain.OrderType,
	destination *domain.Destination,
	cart *domain.Cart,
	message string,
	now time.Time,
) *domain.Order {
	order := &domain.Order{
		UserID:        userID,
		CustomerName:  strings.TrimSpace(shipping.FullName),
		CustomerPhone: strings.TrimSpace(shipping.Phone),
		CustomerEmail: strings.TrimSpace(shipping.Email),
		Status:        domain.OrderStatusPending,
		OrderType:     orderType,
		City:          strings.TrimSpace(shipping.City),
		Message:       message,
		Subtotal:      cart.Total(),
		CreatedAt:     now,
	}
	if dni := strings.TrimSpace(shipping.DNI); dni != "" {
		order.CustomerDNI = &dni
	}
	if destination != nil {
		order.DestinationID = &destination.ID
		order.ShippingCost = destination.Cost
	}
	order.Total = order.Subtotal.Add(order.ShippingCost)

	if err := s.repos.Order.Create(ctx, order); err != nil {
		s.logger.Warn("Best-effort order persistence failed, continuing checkout", zap.Error(err))
		return nil
	}

	items := make([]*domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, &domain.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			SKU:       line.SKU,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.Subtotal(),
		})
	}
	if err := s.repos.OrderItem.CreateBatch(ctx, items); err != nil {
		s.logger.Warn("Failed to persist order items", zap.Error(err), zap.String("order_id", order.ID.String()))
	}

	event := &domain.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		EventData: map[string]interface{}{
			"code":       order.Code,
			"status":     order.Status,
			"order_type": order.OrderType,
			"total":      order.Total.StringFixed(2),
		},
	}
	if err := s.repos.OrderEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event", zap.Error(err))
	}

	order.Items = nil
	for _, it := range items {
		order.Items = append(order.Items, *it)
	}
	return order
}

// deliverMinimal is the degraded path: customer plus raw line items, still
// pushed through the opener so the external handoff happens.
func (s *Service) deliverMinimal(shipping domain.ShippingDetails, cart *domain.Cart) (*Result, error) {
	message := ComposeMinimal(shipping, cart.Lines)
	channelURL := BuildChannelURL(s.wa.StorePhone, message)
	outcome, err := s.opener.Open(channelURL)
	if err != nil {
		return nil, err
	}
	return &Result{
		OrderCode:     PendingOrderCode,
		Message:       message,
		ChannelURL:    channelURL,
		Delivery:      outcome,
		RedirectPath:  "/orders",
		RedirectDelay: s.wa.RedirectDelay,
		Degraded:      true,
	}, nil
}
