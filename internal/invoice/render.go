package invoice

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// RenderText writes a plain-text invoice suitable for a terminal or email.
func RenderText(w io.Writer, inv Invoice) error {
	totals, err := inv.ComputeTotals()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Invoice %s\n", inv.Number)
	fmt.Fprintf(w, "Issued:  %s\n", inv.IssuedAt.Format("2006-01-02"))
	fmt.Fprintf(w, "Billed:  %s", inv.BilledTo)
	if inv.Email != "" {
		fmt.Fprintf(w, " <%s>", inv.Email)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-40s %5s %12s %12s\n", "Description", "Qty", "Unit", "Amount")
	for _, item := range inv.Items {
		fmt.Fprintf(w, "%-40s %5d %12s %12s\n",
			item.Description, item.Quantity, item.UnitPrice.StringFixed(2), item.Amount().StringFixed(2))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%59s %12s\n", "Subtotal", totals.Subtotal.StringFixed(2))
	if !totals.Discount.IsZero() {
		fmt.Fprintf(w, "%59s %12s\n",
			fmt.Sprintf("Discount (%s%%)", inv.DiscountPercent.String()), "-"+totals.Discount.StringFixed(2))
	}
	if !totals.Tax.IsZero() {
		fmt.Fprintf(w, "%59s %12s\n",
			fmt.Sprintf("Tax (%s%%)", inv.TaxPercent.String()), totals.Tax.StringFixed(2))
	}
	fmt.Fprintf(w, "%59s %12s\n", "Total", totals.Total.StringFixed(2))
	if inv.Notes != "" {
		fmt.Fprintf(w, "\n%s\n", inv.Notes)
	}
	return nil
}

// RenderCSV writes the line items and totals as delimited rows.
func RenderCSV(w io.Writer, inv Invoice) error {
	totals, err := inv.ComputeTotals()
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"description", "quantity", "unitPrice", "amount"}); err != nil {
		return err
	}
	for _, item := range inv.Items {
		row := []string{
			item.Description,
			strconv.Itoa(item.Quantity),
			item.UnitPrice.StringFixed(2),
			item.Amount().StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	summary := [][]string{
		{"subtotal", "", "", totals.Subtotal.StringFixed(2)},
		{"discount", "", "", totals.Discount.StringFixed(2)},
		{"tax", "", "", totals.Tax.StringFixed(2)},
		{"total", "", "", totals.Total.StringFixed(2)},
	}
	for _, row := range summary {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
