package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a storefront account. Clients shop; staff manage the catalog and
// order statuses. Both authenticate through the same token flow with a role claim.
type User struct {
	ID           uuid.UUID
	Email        string
	Phone        string
	FullName     string
	DNI          *string // optional national id, exactly 8 characters when present
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Product is a catalog entry. UnitPrice is the normalized price; the raw
// source fields it was derived from are not kept past ingestion.
type Product struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	Description string
	Category    string
	Brand       string
	UnitPrice   decimal.Decimal
	Stock       int
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartLine is one product entry with quantity in a session's cart.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity times unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the full session cart, stored wholesale as one blob.
type Cart struct {
	SessionKey string     `json:"session_key"`
	Lines      []CartLine `json:"lines"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Total sums all line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ShippingDetails is the checkout form input. Validated before any order
// composition; not persisted beyond the order record it is echoed into.
type ShippingDetails struct {
	FullName      string
	Phone         string
	Email         string
	DNI           string // optional; must be exactly 8 characters when non-empty
	City          string
	DestinationID uuid.UUID
}

// Destination is a shipping target with an associated cost and transport mode.
type Destination struct {
	ID           uuid.UUID
	Name         string
	Cost         decimal.Decimal
	ShippingMode ShippingMode
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Order is the persisted representation of a checkout. Message holds the
// composed text that was handed to the delivery channel.
type Order struct {
	ID              uuid.UUID
	Code            string // human-facing order code, e.g. FER-000123
	UserID          *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerDNI     *string
	Status          OrderStatus
	OrderType       OrderType
	DestinationID   *uuid.UUID
	City            string
	Message         string
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Total           decimal.Decimal
	RejectionReason *string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is one line of a persisted order.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	CreatedAt time.Time
}

// OrderEvent is an audit event for an order.
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}

// IdempotencyKey stores idempotency information for checkout submissions.
type IdempotencyKey struct {
	Key         string
	SessionKey  string
	OrderID     uuid.UUID
	RequestHash string
	CreatedAt   time.Time
}

// Favorite links a user account to a product. Guest favorites live in the
// session store until merged on login.
type Favorite struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	CreatedAt time.Time
}

// Note is a calendar note shown on the utility pages; Date is day precision.
type Note struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Date      time.Time
	Title     string
	Body      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
