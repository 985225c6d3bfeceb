package catalog

import (
	"testing"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

func TestParseDestinations(t *testing.T) {
	raw := []byte(`{"data": [
		{"name": "Lima", "cost": "10.00", "shipping_mode": "ground"},
		{"name": "Iquitos", "cost": 45, "shipping_mode": "AIR"},
		{"name": "Puno", "cost": "12.50", "shipping_mode": "boat"},
		{"name": "", "cost": "1.00", "shipping_mode": "ground"}
	]}`)

	got, err := ParseDestinations(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 destinations (nameless dropped), got %d", len(got))
	}

	if got[0].Name != "Lima" || got[0].Cost.StringFixed(2) != "10.00" || got[0].ShippingMode != domain.ShippingModeGround {
		t.Fatalf("lima parsed wrong: %+v", got[0])
	}
	if got[1].ShippingMode != domain.ShippingModeAir || got[1].Cost.StringFixed(2) != "45.00" {
		t.Fatalf("iquitos parsed wrong: %+v", got[1])
	}
	// Unknown modes default to ground.
	if got[2].ShippingMode != domain.ShippingModeGround {
		t.Fatalf("unknown mode should default to ground: %+v", got[2])
	}
}

func TestParseDestinationsBadPayload(t *testing.T) {
	if _, err := ParseDestinations([]byte(`not json`), nil); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestFallbackDestinations(t *testing.T) {
	dests := FallbackDestinations()
	if len(dests) != 5 {
		t.Fatalf("expected 5 fallback destinations, got %d", len(dests))
	}

	var sawAir bool
	for _, d := range dests {
		if d.ID != DestinationID(d.Name) {
			t.Errorf("%s: unstable ID", d.Name)
		}
		if !d.IsActive || d.Cost.IsZero() {
			t.Errorf("%s: inactive or free destination in fallback", d.Name)
		}
		if d.ShippingMode == domain.ShippingModeAir {
			sawAir = true
		}
	}
	if !sawAir {
		t.Fatal("fallback list should include an air destination")
	}
}

func TestDestinationIDStable(t *testing.T) {
	if DestinationID("Lima") != DestinationID("  lima ") {
		t.Fatal("destination ID must be case and whitespace insensitive")
	}
	if DestinationID("Lima") == DestinationID("Cusco") {
		t.Fatal("distinct names must have distinct IDs")
	}
}
