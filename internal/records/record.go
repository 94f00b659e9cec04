package records

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agilerecords/records-frontend/internal/validation"
)

// FromForm builds a record from the submitted form. Fields are passed through
// with surrounding whitespace removed; absent fields stay empty.
func FromForm(f validation.SubmitForm) TransactionRecord {
	return TransactionRecord{
		PlotNumber:      strings.TrimSpace(f.PlotNumber),
		Size:            strings.TrimSpace(f.Size),
		County:          strings.TrimSpace(f.County),
		Location:        strings.TrimSpace(f.Location),
		BuyerName:       strings.TrimSpace(f.BuyerName),
		BuyerID:         strings.TrimSpace(f.BuyerID),
		BuyerTel:        strings.TrimSpace(f.BuyerTel),
		SellerName:      strings.TrimSpace(f.SellerName),
		SellerID:        strings.TrimSpace(f.SellerID),
		SellerTel:       strings.TrimSpace(f.SellerTel),
		Value:           strings.TrimSpace(f.SaleValue),
		TransactionCost: strings.TrimSpace(f.TransactionCost),
		SubmissionID:    strings.TrimSpace(f.SubmissionID),
	}
}

// Field returns the value of a record field by its validation-payload name.
// Both the queue name (plot_num) and the backend name (plot_number) resolve.
func (r TransactionRecord) Field(name string) (string, bool) {
	switch name {
	case "plot_number", "plot_num":
		return r.PlotNumber, true
	case "size":
		return r.Size, true
	case "county":
		return r.County, true
	case "location":
		return r.Location, true
	case "buyer_name":
		return r.BuyerName, true
	case "buyer_id":
		return r.BuyerID, true
	case "buyer_tel":
		return r.BuyerTel, true
	case "seller_name":
		return r.SellerName, true
	case "seller_id":
		return r.SellerID, true
	case "seller_tel":
		return r.SellerTel, true
	case "value":
		return r.Value, true
	case "transaction_cost":
		return r.TransactionCost, true
	}
	return "", false
}

// SaleValue parses Value as a decimal. ok is false for empty or unparsable input.
func (r TransactionRecord) SaleValue() (decimal.Decimal, bool) {
	return parseAmount(r.Value)
}

// Cost parses TransactionCost as a decimal.
func (r TransactionRecord) Cost() (decimal.Decimal, bool) {
	return parseAmount(r.TransactionCost)
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// WithPlotNumber returns a copy of the cached record with the queried plot
// number attached for display.
func (c CachedRecord) WithPlotNumber(plot string) CachedRecord {
	out := make(CachedRecord, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[PlotNumberKey] = plot
	return out
}

// Field is a single key/value pair of a cached record, used for rendering.
type Field struct {
	Name  string
	Value any
}

// Fields lists the record's fields with PlotNumber first and the rest sorted by name.
func (c CachedRecord) Fields() []Field {
	keys := make([]string, 0, len(c))
	for k := range c {
		if k != PlotNumberKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Field, 0, len(c))
	if v, ok := c[PlotNumberKey]; ok {
		out = append(out, Field{Name: PlotNumberKey, Value: v})
	}
	for _, k := range keys {
		out = append(out, Field{Name: k, Value: c[k]})
	}
	return out
}
