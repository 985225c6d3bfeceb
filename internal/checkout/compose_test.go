package checkout

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sampleInput(t *testing.T) ComposeInput {
	return ComposeInput{
		OrderCode: "FER-000123",
		CreatedAt: time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC),
		Shipping: domain.ShippingDetails{
			FullName: "Ana",
			Phone:    "999888777",
			City:     "Lima",
		},
		Destination: &domain.Destination{
			Name:         "Lima",
			Cost:         dec(t, "10"),
			ShippingMode: domain.ShippingModeGround,
		},
		OrderType: domain.OrderTypeDelivery,
		Lines: []domain.CartLine{
			{ProductID: uuid.New(), Name: "Hammer", Quantity: 2, UnitPrice: dec(t, "25.50")},
		},
	}
}

func TestComposeMessage(t *testing.T) {
	msg := ComposeMessage(sampleInput(t))

	for _, want := range []string{
		"FER-000123",
		"2 x Hammer",
		"S/ 51.00", // line subtotal
		"Subtotal: S/ 51.00",
		"Envio: S/ 10.00",
		"*Total: S/ 61.00*",
		"Cliente: Ana",
		"Telefono: 999888777",
		"Ciudad: Lima",
		"DNI: no registrado",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	// UTC 20:30 is 15:30 in Lima.
	if !strings.Contains(msg, "14/03/2026 15:30") {
		t.Errorf("timestamp not rendered in Lima time:\n%s", msg)
	}
}

func TestComposeMessagePendingPlaceholder(t *testing.T) {
	in := sampleInput(t)
	in.OrderCode = ""
	msg := ComposeMessage(in)

	if !strings.Contains(msg, "Pedido: "+PendingOrderCode) {
		t.Fatalf("expected placeholder order code:\n%s", msg)
	}
	if strings.Contains(msg, "Pedido: \n") || strings.Contains(msg, "undefined") {
		t.Fatalf("empty or undefined identifier leaked into message:\n%s", msg)
	}
}

func TestComposeMessageDNIPresent(t *testing.T) {
	in := sampleInput(t)
	in.Shipping.DNI = "12345678"
	msg := ComposeMessage(in)
	if !strings.Contains(msg, "DNI: 12345678") {
		t.Fatalf("expected DNI line:\n%s", msg)
	}
	if strings.Contains(msg, "no registrado") {
		t.Fatalf("both DNI variants present:\n%s", msg)
	}
}

func TestComposeMessagePickupOmitsShipping(t *testing.T) {
	in := sampleInput(t)
	in.OrderType = domain.OrderTypePickup
	in.Destination = nil
	msg := ComposeMessage(in)
	if !strings.Contains(msg, "recojo en tienda") {
		t.Fatalf("expected pickup line:\n%s", msg)
	}
	if !strings.Contains(msg, "Envio: S/ 0.00") {
		t.Fatalf("pickup should carry zero shipping:\n%s", msg)
	}
}

func TestComposeMinimal(t *testing.T) {
	in := sampleInput(t)
	msg := ComposeMinimal(in.Shipping, in.Lines)
	if !strings.Contains(msg, "2 x Hammer") || !strings.Contains(msg, "Cliente: Ana") {
		t.Fatalf("minimal message missing basics:\n%s", msg)
	}
	if strings.Contains(msg, "Total") {
		t.Fatalf("minimal message must not contain computed totals:\n%s", msg)
	}
}

func TestSanitize(t *testing.T) {
	in := "hola\x00\x1b mundo\ufffd\ttab\nline"
	got := Sanitize(in)
	if got != "hola mundotab\nline" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildChannelURL(t *testing.T) {
	u := BuildChannelURL("51999888777", "2 x Hammer = S/ 51.00")
	if !strings.HasPrefix(u, TrustedChannelPrefix+"51999888777?text=") {
		t.Fatalf("bad url: %s", u)
	}
	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatal(err)
	}
	if got := parsed.Query().Get("text"); got != "2 x Hammer = S/ 51.00" {
		t.Fatalf("roundtrip mismatch: %q", got)
	}

	// Empty message still produces a non-empty text parameter.
	u = BuildChannelURL("51999888777", "   ")
	parsed, _ = url.Parse(u)
	if parsed.Query().Get("text") != DefaultGreeting {
		t.Fatalf("expected default greeting, got %q", parsed.Query().Get("text"))
	}
}
