package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

const (
	// PendingOrderCode is embedded when no backend order record was created.
	PendingOrderCode = "PENDIENTE"

	// DefaultGreeting is the last-resort message body; the outgoing text is
	// never allowed to be empty.
	DefaultGreeting = "Hola, quiero hacer un pedido en Ferreteria JyM Gutierrez."

	messageHeader = "*NUEVO PEDIDO - FERRETERIA JyM GUTIERREZ*"
	divider       = "------------------------------"
)

// limaTime renders timestamps in the store's fixed timezone regardless of
// where the service runs.
var limaTime = func() *time.Location {
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		return time.FixedZone("-05", -5*60*60)
	}
	return loc
}()

// ComposeInput is everything the composer needs. Lines must be non-empty;
// the orchestrator guards that before composing.
type ComposeInput struct {
	OrderCode   string // empty means no backend record; the placeholder is used
	CreatedAt   time.Time
	Shipping    domain.ShippingDetails
	Destination *domain.Destination // nil for pickup orders
	OrderType   domain.OrderType
	Lines       []domain.CartLine
}

// FormatMoney renders an amount with the store currency prefix, two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "S/ " + d.StringFixed(2)
}

// ComposeMessage builds the full order text for the delivery channel.
func ComposeMessage(in ComposeInput) string {
	code := strings.TrimSpace(in.OrderCode)
	if code == "" {
		code = PendingOrderCode
	}
	at := in.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	var b strings.Builder
	b.WriteString(messageHeader + "\n")
	fmt.Fprintf(&b, "Pedido: %s\n", code)
	fmt.Fprintf(&b, "Fecha: %s\n", at.In(limaTime).Format("02/01/2006 15:04"))
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "Cliente: %s\n", in.Shipping.FullName)
	fmt.Fprintf(&b, "Telefono: %s\n", in.Shipping.Phone)
	if in.Shipping.DNI != "" {
		fmt.Fprintf(&b, "DNI: %s\n", in.Shipping.DNI)
	} else {
		b.WriteString("DNI: no registrado\n")
	}
	fmt.Fprintf(&b, "Ciudad: %s\n", in.Shipping.City)
	if in.OrderType == domain.OrderTypePickup {
		b.WriteString("Entrega: recojo en tienda\n")
	} else if in.Destination != nil {
		mode := "terrestre"
		if in.Destination.ShippingMode == domain.ShippingModeAir {
			mode = "aereo"
		}
		fmt.Fprintf(&b, "Envio: %s, %s (%s)\n", in.Destination.Name, FormatMoney(in.Destination.Cost), mode)
	}
	b.WriteString(divider + "\n")

	subtotal := decimal.Zero
	for i, line := range in.Lines {
		lineTotal := line.Subtotal()
		subtotal = subtotal.Add(lineTotal)
		fmt.Fprintf(&b, "%d) %d x %s (%s c/u) = %s\n",
			i+1, line.Quantity, line.Name, FormatMoney(line.UnitPrice), FormatMoney(lineTotal))
	}
	b.WriteString(divider + "\n")

	shipping := decimal.Zero
	if in.OrderType != domain.OrderTypePickup && in.Destination != nil {
		shipping = in.Destination.Cost
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", FormatMoney(subtotal))
	fmt.Fprintf(&b, "Envio: %s\n", FormatMoney(shipping))
	fmt.Fprintf(&b, "*Total: %s*\n\n", FormatMoney(subtotal.Add(shipping)))
	b.WriteString("Por favor confirmar disponibilidad y forma de pago. Gracias!")

	return ensureNonEmpty(Sanitize(b.String()))
}

// ComposeMinimal is the degraded form used when the full composition fails:
// customer plus raw line items only, no computed totals.
func ComposeMinimal(shipping domain.ShippingDetails, lines []domain.CartLine) string {
	var b strings.Builder
	b.WriteString(messageHeader + "\n")
	fmt.Fprintf(&b, "Pedido: %s\n", PendingOrderCode)
	fmt.Fprintf(&b, "Cliente: %s\n", shipping.FullName)
	fmt.Fprintf(&b, "Telefono: %s\n", shipping.Phone)
	fmt.Fprintf(&b, "Ciudad: %s\n", shipping.City)
	b.WriteString(divider + "\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "%d x %s\n", line.Quantity, line.Name)
	}
	return ensureNonEmpty(Sanitize(b.String()))
}

// Sanitize strips control characters and replacement characters so the text
// is safe to URL-encode. Newlines survive; WhatsApp renders them.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r == 0x7f || r == '�' {
			return -1
		}
		return r
	}, s)
}

func ensureNonEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return DefaultGreeting
	}
	return s
}

// TrustedChannelPrefix is the only URL form the opener will navigate to.
// The native app scheme (whatsapp://) must never be substituted here.
const TrustedChannelPrefix = "https://wa.me/"

// BuildChannelURL produces the delivery channel URL for a recipient phone
// (international format, digits only) and an already-sanitized message.
func BuildChannelURL(phone, message string) string {
	return TrustedChannelPrefix + phone + "?text=" + url.QueryEscape(ensureNonEmpty(message))
}
