package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func normalizeJSON(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	var rp RawPrice
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return NewNormalizer(nil).Normalize("test-sku", rp)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string price", `{"price": "19.90"}`, "19.9"},
		{"numeric price", `{"price": 25.5}`, "25.5"},
		{"no recognized field", `{"cost": 10}`, "0"},
		{"empty object", `{}`, "0"},
		{"unit_price fallback", `{"unit_price": "7.25"}`, "7.25"},
		{"sale_price fallback", `{"sale_price": 3}`, "3"},
		{"price wins over unit_price", `{"price": "10", "unit_price": "99"}`, "10"},
		{"unit_price wins over sale_price", `{"unit_price": 5, "sale_price": 99}`, "5"},
		{"null price falls through", `{"price": null, "unit_price": "4.50"}`, "4.5"},
		{"unparseable string resolves to zero", `{"price": "abc"}`, "0"},
		{"first field wins even when unparseable", `{"price": "abc", "unit_price": "4"}`, "0"},
		{"negative resolves to zero", `{"price": "-3.10"}`, "0"},
		{"zero stays zero", `{"price": "0"}`, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeJSON(t, tc.raw)
			want, err := decimal.NewFromString(tc.want)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Fatalf("got %s, want %s", got, want)
			}
		})
	}
}

func TestFlexValueOddShapes(t *testing.T) {
	// Objects and arrays in a price field must not fail decoding; they
	// resolve to zero like any other unparseable value.
	got := normalizeJSON(t, `{"price": {"amount": 5}}`)
	if !got.IsZero() {
		t.Fatalf("expected zero for object-shaped price, got %s", got)
	}
	got = normalizeJSON(t, `{"price": [1, 2]}`)
	if !got.IsZero() {
		t.Fatalf("expected zero for array-shaped price, got %s", got)
	}
}
