package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

// FallbackDestinations is served when neither the catalog service nor the
// database can provide destinations. Costs are the store's standing rates.
func FallbackDestinations() []*domain.Destination {
	entries := []struct {
		name string
		cost string
		mode domain.ShippingMode
	}{
		{"Lima", "10.00", domain.ShippingModeGround},
		{"Trujillo", "20.00", domain.ShippingModeGround},
		{"Arequipa", "25.00", domain.ShippingModeGround},
		{"Cusco", "30.00", domain.ShippingModeGround},
		{"Iquitos", "45.00", domain.ShippingModeAir},
	}

	out := make([]*domain.Destination, 0, len(entries))
	for _, e := range entries {
		cost, _ := decimal.NewFromString(e.cost)
		out = append(out, &domain.Destination{
			ID:           DestinationID(e.name),
			Name:         e.name,
			Cost:         cost,
			ShippingMode: e.mode,
			IsActive:     true,
		})
	}
	return out
}
