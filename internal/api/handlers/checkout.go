package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/checkout"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// CheckoutRequest is the checkout submission payload.
type CheckoutRequest struct {
	OrderType string          `json:"order_type" binding:"required"`
	Shipping  ShippingRequest `json:"shipping" binding:"required"`
}

type ShippingRequest struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	DNI           string `json:"dni"`
	City          string `json:"city"`
	DestinationID string `json:"destination_id"`
}

type CheckoutResponse struct {
	OrderID   *string               `json:"order_id,omitempty"`
	OrderCode string                `json:"order_code"`
	Message   string                `json:"message"`
	Delivery  checkout.DeliveryPlan `json:"delivery"`
	Redirect  RedirectResponse      `json:"redirect"`
	Degraded  bool                  `json:"degraded,omitempty"`
}

type RedirectResponse struct {
	Path    string `json:"path"`
	DelayMS int64  `json:"delay_ms"`
}

func HandleCheckout(cfg *config.Config, svc *checkout.Service, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionKey := middleware.GetSessionKey(c)

		// Replayed submission: hand back the order already created for this key.
		_, _, existingOrderID, isExisting := middleware.GetIdempotencyInfo(c)
		if isExisting {
			handleCheckoutReplay(c, cfg, repos, existingOrderID, logger)
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderType := domain.OrderType(req.OrderType)
		if !orderType.IsValid() {
			verr := &errors.ErrValidation{}
			verr.Add("order_type", "order type must be delivery or pickup")
			respondError(c, logger, verr)
			return
		}

		shipping := domain.ShippingDetails{
			FullName: req.Shipping.FullName,
			Phone:    req.Shipping.Phone,
			Email:    req.Shipping.Email,
			DNI:      req.Shipping.DNI,
			City:     req.Shipping.City,
		}
		if req.Shipping.DestinationID != "" {
			id, err := uuid.Parse(req.Shipping.DestinationID)
			if err != nil {
				verr := &errors.ErrValidation{}
				verr.Add("destination", "invalid destination id")
				respondError(c, logger, verr)
				return
			}
			shipping.DestinationID = id
		}

		var userID *uuid.UUID
		if user, ok := middleware.GetUserFromContext(c); ok {
			userID = &user.ID
		}

		result, err := svc.Checkout(c.Request.Context(), sessionKey, userID, shipping, orderType)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		storeIdempotencyKey(c, repos, sessionKey, result, logger)

		resp := CheckoutResponse{
			OrderCode: result.OrderCode,
			Message:   result.Message,
			Delivery:  checkout.NewDeliveryPlan(result.ChannelURL, result.Delivery, cfg.WhatsApp.FallbackDelay),
			Redirect: RedirectResponse{
				Path:    result.RedirectPath,
				DelayMS: result.RedirectDelay.Milliseconds(),
			},
			Degraded: result.Degraded,
		}
		if result.OrderID != nil {
			id := result.OrderID.String()
			resp.OrderID = &id
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// storeIdempotencyKey records the key once the order exists. Best-effort;
// a failure only means a replay would create a second order.
func storeIdempotencyKey(c *gin.Context, repos *repository.Repositories, sessionKey string, result *checkout.Result, logger *zap.Logger) {
	key, requestHash, _, _ := middleware.GetIdempotencyInfo(c)
	if key == "" || result.OrderID == nil {
		return
	}

	err := repos.IdempotencyKey.Create(c.Request.Context(), &domain.IdempotencyKey{
		Key:         key,
		SessionKey:  sessionKey,
		OrderID:     *result.OrderID,
		RequestHash: requestHash,
	})
	if err != nil {
		logger.Warn("Failed to store idempotency key", zap.Error(err))
	}
}

func handleCheckoutReplay(c *gin.Context, cfg *config.Config, repos *repository.Repositories, orderID string, logger *zap.Logger) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		logger.Error("Invalid existing order ID from idempotency", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	order, err := repos.Order.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	url := checkout.BuildChannelURL(cfg.WhatsApp.StorePhone, order.Message)
	idStr := order.ID.String()

	c.JSON(http.StatusOK, CheckoutResponse{
		OrderID:   &idStr,
		OrderCode: order.Code,
		Message:   order.Message,
		Delivery:  checkout.NewDeliveryPlan(url, checkout.Outcome{}, cfg.WhatsApp.FallbackDelay),
		Redirect: RedirectResponse{
			Path:    "/orders",
			DelayMS: cfg.WhatsApp.RedirectDelay.Milliseconds(),
		},
	})
}
