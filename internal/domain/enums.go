package domain

// Role distinguishes the two login surfaces.
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleStaff
}

// ShippingMode is how a destination is reached.
type ShippingMode string

const (
	ShippingModeGround ShippingMode = "ground"
	ShippingModeAir    ShippingMode = "air"
)

// IsValid checks if the shipping mode is known.
func (m ShippingMode) IsValid() bool {
	return m == ShippingModeGround || m == ShippingModeAir
}

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

// IsValid checks if the order type is known.
func (t OrderType) IsValid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup
}

// OrderStatus represents the lifecycle of an order after checkout.
type OrderStatus string

const (
	// PENDING - created at checkout, awaiting staff confirmation via WhatsApp
	OrderStatusPending OrderStatus = "PENDING"
	// CONFIRMED - staff confirmed the order with the customer
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// SHIPPED - order handed to the carrier
	OrderStatusShipped OrderStatus = "SHIPPED"
	// DELIVERED - order received by the customer
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// REJECTED - staff rejected the order
	OrderStatusRejected OrderStatus = "REJECTED"
	// CANCELLED - customer cancelled before shipping
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusRejected,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed ||
			newStatus == OrderStatusRejected ||
			newStatus == OrderStatusCancelled
	case OrderStatusConfirmed:
		return newStatus == OrderStatusShipped ||
			newStatus == OrderStatusCancelled
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusRejected, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}
