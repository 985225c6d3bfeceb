package checkout

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

const dniLength = 8

// ValidateShipping checks the checkout form. All failures are aggregated into
// a single ErrValidation so the user sees one message listing every missing
// field; field order is fixed. Returns nil when everything passes.
func ValidateShipping(shipping domain.ShippingDetails, orderType domain.OrderType, cart *domain.Cart) error {
	verr := &errors.ErrValidation{}

	if cart.IsEmpty() {
		verr.Add("cart", "cart is empty")
	}
	if strings.TrimSpace(shipping.FullName) == "" {
		verr.Add("full_name", "full name is required")
	}
	if strings.TrimSpace(shipping.Phone) == "" {
		verr.Add("phone", "phone is required")
	}
	if strings.TrimSpace(shipping.City) == "" {
		verr.Add("city", "city is required")
	}
	if orderType != domain.OrderTypePickup && shipping.DestinationID == uuid.Nil {
		verr.Add("destination", "destination is required")
	}
	// DNI is optional, but when present it must be exactly 8 characters.
	if dni := strings.TrimSpace(shipping.DNI); dni != "" && utf8.RuneCountInString(dni) != dniLength {
		verr.Add("dni", "national id must be exactly 8 characters")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
