package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FlexValue is a price field that upstream sources send either as a JSON
// number or as a string (e.g. "19.90"). A present-but-unparseable value
// decodes without error and reports !Valid.
type FlexValue struct {
	Raw   string
	Value decimal.Decimal
	Valid bool
}

// UnmarshalJSON accepts numbers, numeric strings, and null.
func (f *FlexValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Raw = s
		if d, perr := decimal.NewFromString(strings.TrimSpace(s)); perr == nil {
			f.Value = d
			f.Valid = true
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		f.Raw = n.String()
		if d, perr := decimal.NewFromString(n.String()); perr == nil {
			f.Value = d
			f.Valid = true
		}
		return nil
	}

	// Unexpected shape (object, array, bool): treat as unparseable, not fatal.
	f.Raw = trimmed
	return nil
}

// RawPrice carries the possibly-present price fields of an upstream product
// record. Field priority is fixed: price, then unit_price, then sale_price.
type RawPrice struct {
	Price     *FlexValue `json:"price,omitempty"`
	UnitPrice *FlexValue `json:"unit_price,omitempty"`
	SalePrice *FlexValue `json:"sale_price,omitempty"`
}

// Normalizer resolves upstream price fields into a single non-negative value.
// Unrecognized input degrades to zero rather than failing the operation;
// every zero-default is logged so data-quality problems stay visible.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a price normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize picks the first present field in priority order and returns its
// value. Missing fields, parse failures, and negative values all resolve to
// zero. ref identifies the record (SKU or ID) in the degradation log.
func (n *Normalizer) Normalize(ref string, raw RawPrice) decimal.Decimal {
	candidates := []struct {
		name  string
		field *FlexValue
	}{
		{"price", raw.Price},
		{"unit_price", raw.UnitPrice},
		{"sale_price", raw.SalePrice},
	}

	for _, c := range candidates {
		if c.field == nil {
			continue
		}
		if !c.field.Valid {
			n.logger.Warn("Price field present but unparseable, defaulting to zero",
				zap.String("ref", ref),
				zap.String("field", c.name),
				zap.String("raw", c.field.Raw),
			)
			return decimal.Zero
		}
		if c.field.Value.IsNegative() {
			n.logger.Warn("Negative price resolved to zero",
				zap.String("ref", ref),
				zap.String("field", c.name),
				zap.String("raw", c.field.Raw),
			)
			return decimal.Zero
		}
		return c.field.Value
	}

	n.logger.Warn("No recognized price field, defaulting to zero", zap.String("ref", ref))
	return decimal.Zero
}
