// Package invoice implements the standalone invoice calculator: decimal-exact
// line-item math with percentage discount and tax, plus text and CSV
// rendering.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one billed row.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Amount returns quantity times unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Invoice is a priced document before totals are computed.
type Invoice struct {
	Number          string          `json:"number"`
	IssuedAt        time.Time       `json:"issuedAt"`
	BilledTo        string          `json:"billedTo"`
	Email           string          `json:"email,omitempty"`
	Items           []LineItem      `json:"items"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	Notes           string          `json:"notes,omitempty"`
}

// Totals is the computed money breakdown, each figure rounded to cents.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// NumberFor derives a display number from a year and sequence.
func NumberFor(year int, sequence int) string {
	return fmt.Sprintf("INV-%d-%04d", year, sequence)
}

// Validate rejects documents that cannot be priced.
func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.BilledTo) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "billed-to name is required")
	}
	if len(inv.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	for i, item := range inv.Items {
		if strings.TrimSpace(item.Description) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d needs a description", i+1))
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d needs a positive quantity", i+1))
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d has a negative unit price", i+1))
		}
	}
	if inv.DiscountPercent.IsNegative() || inv.DiscountPercent.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	if inv.TaxPercent.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax percent cannot be negative")
	}
	return nil
}

// ComputeTotals prices the document. Discount applies to the subtotal, tax
// applies to the discounted amount.
func (inv Invoice) ComputeTotals() (Totals, error) {
	if err := inv.Validate(); err != nil {
		return Totals{}, err
	}
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	discount := subtotal.Mul(inv.DiscountPercent).Div(hundred).Round(2)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(inv.TaxPercent).Div(hundred).Round(2)
	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount,
		Tax:      tax,
		Total:    taxable.Add(tax).Round(2),
	}, nil
}
