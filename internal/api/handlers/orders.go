package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	Code            string              `json:"code"`
	Status          domain.OrderStatus  `json:"status"`
	OrderType       domain.OrderType    `json:"order_type"`
	CustomerName    string              `json:"customer_name"`
	City            string              `json:"city,omitempty"`
	Subtotal        string              `json:"subtotal"`
	ShippingCost    string              `json:"shipping_cost"`
	Total           string              `json:"total"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	CreatedAt       string              `json:"created_at"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID.String(),
		Code:            order.Code,
		Status:          order.Status,
		OrderType:       order.OrderType,
		CustomerName:    order.CustomerName,
		City:            order.City,
		Subtotal:        order.Subtotal.StringFixed(2),
		ShippingCost:    order.ShippingCost.StringFixed(2),
		Total:           order.Total.StringFixed(2),
		RejectionReason: order.RejectionReason,
		CreatedAt:       order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: item.ProductID.String(),
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: item.LineTotal.StringFixed(2),
		})
	}
	return resp
}

// HandleListMyOrders returns the authenticated client's order history,
// newest first.
func HandleListMyOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		orders, err := repos.Order.ListByUserID(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]OrderResponse, len(orders))
		for i, order := range orders {
			resp[i] = toOrderResponse(order)
		}

		c.JSON(http.StatusOK, gin.H{"orders": resp})
	}
}

// HandleGetOrder returns one order with its items. Clients only see their
// own orders; staff see all.
func HandleGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := findOrder(c, repos)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if user.Role != domain.RoleStaff {
			if order.UserID == nil || *order.UserID != user.ID {
				respondError(c, logger, &errors.ErrNotFound{Resource: "order", ID: c.Param("id")})
				return
			}
		}

		items, err := repos.OrderItem.GetByOrderID(c.Request.Context(), order.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		for _, item := range items {
			order.Items = append(order.Items, *item)
		}

		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// findOrder resolves the :id path segment, accepting either the UUID or the
// human-facing code.
func findOrder(c *gin.Context, repos *repository.Repositories) (*domain.Order, error) {
	ref := c.Param("id")
	if id, err := uuid.Parse(ref); err == nil {
		return repos.Order.GetByID(c.Request.Context(), id)
	}
	return repos.Order.GetByCode(c.Request.Context(), ref)
}

// HandleListOrders is the staff order board, filterable by status.
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		var orders []*domain.Order
		var err error

		if statusParam := c.Query("status"); statusParam != "" {
			status := domain.OrderStatus(statusParam)
			if !status.IsValid() {
				verr := &errors.ErrValidation{}
				verr.Add("status", "unknown order status: "+statusParam)
				respondError(c, logger, verr)
				return
			}
			orders, err = repos.Order.ListByStatus(c.Request.Context(), status, limit, offset)
		} else {
			orders, err = repos.Order.List(c.Request.Context(), limit, offset)
		}

		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]OrderResponse, len(orders))
		for i, order := range orders {
			resp[i] = toOrderResponse(order)
		}

		c.JSON(http.StatusOK, gin.H{"orders": resp})
	}
}

type UpdateOrderStatusRequest struct {
	Reason string `json:"reason"`
}

// HandleUpdateOrderStatus moves an order through its lifecycle. The target
// status comes from the route; rejections may carry a reason.
func HandleUpdateOrderStatus(repos *repository.Repositories, target domain.OrderStatus, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := findOrder(c, repos)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if !order.Status.CanTransitionTo(target) {
			respondError(c, logger, &errors.ErrInvalidStateTransition{From: order.Status, To: target})
			return
		}

		var reason *string
		if target == domain.OrderStatusRejected || target == domain.OrderStatusCancelled {
			var req UpdateOrderStatusRequest
			if err := c.ShouldBindJSON(&req); err == nil && req.Reason != "" {
				reason = &req.Reason
			}
		}

		if err := repos.Order.UpdateStatus(c.Request.Context(), order.ID, target, reason); err != nil {
			respondError(c, logger, err)
			return
		}

		eventData := map[string]interface{}{
			"from": string(order.Status),
			"to":   string(target),
		}
		if reason != nil {
			eventData["reason"] = *reason
		}
		event := &domain.OrderEvent{
			OrderID:   order.ID,
			EventType: "status_changed",
			EventData: eventData,
		}
		if err := repos.OrderEvent.Create(c.Request.Context(), event); err != nil {
			logger.Warn("Failed to record order event", zap.Error(err))
		}

		logger.Info("Order status updated",
			zap.String("order_code", order.Code),
			zap.String("from", string(order.Status)),
			zap.String("to", string(target)),
		)

		order.Status = target
		order.RejectionReason = reason
		c.JSON(http.StatusOK, toOrderResponse(order))
	}
}

// HandleGetOrderEvents returns the audit trail for an order.
func HandleGetOrderEvents(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := findOrder(c, repos)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		events, err := repos.OrderEvent.GetByOrderID(c.Request.Context(), order.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]gin.H, len(events))
		for i, event := range events {
			resp[i] = gin.H{
				"event_type": event.EventType,
				"event_data": event.EventData,
				"created_at": event.CreatedAt,
			}
		}

		c.JSON(http.StatusOK, gin.H{"events": resp})
	}
}
