package billing

import (
	"github.com/medbill/medbill/internal/shared"
)

// Calculation is the priced form of a set of bill lines.
type Calculation struct {
	Items    []LineItem
	SubTotal float64
	TotalTax float64
}

var errUnknownProduct = shared.NewError(shared.ErrProductNotFound, "Product not found!")

// Calculate prices items in input order. Tax is split evenly into CGST and SGST and
// IGST carries their sum. Line discounts are percentages of rate*qty; free units are
// never charged.
func Calculate(items []ItemInput, catalog map[int64]ProductSnapshot) (Calculation, error) {
	calc := Calculation{Items: make([]LineItem, 0, len(items))}
	for i, in := range items {
		snap, ok := catalog[in.ProductID]
		if !ok {
			return Calculation{}, errUnknownProduct
		}
		amount := in.Rate * float64(in.Qty)
		taxable := amount - amount*in.Discount/100
		cgst := taxable * in.TaxPercent / 200
		sgst := cgst
		igst := cgst + sgst

		calc.Items = append(calc.Items, LineItem{
			SrNo:            i + 1,
			ProductSnapshot: snap,
			Qty:             in.Qty,
			FreeQty:         in.FreeQty,
			Rate:            in.Rate,
			TaxPercent:      in.TaxPercent,
			Discount:        in.Discount,
			TaxableAmount:   taxable,
			CGST:            cgst,
			SGST:            sgst,
			IGST:            igst,
			Total:           taxable + igst,
		})
		calc.SubTotal += taxable
		calc.TotalTax += igst
	}
	return calc, nil
}

// ResolveDiscount applies a flat bill discount and returns the grand total.
// A discount equal to the bill amount is allowed and yields zero.
func ResolveDiscount(subTotal, totalTax, discount float64) (float64, error) {
	if discount < 0 {
		return 0, shared.NewError(shared.ErrValidation, "Discount cannot be negative!")
	}
	gross := subTotal + totalTax
	if discount > gross {
		return 0, shared.NewError(shared.ErrDiscountExceedsTotal, "Discount cannot exceed bill amount.")
	}
	return gross - discount, nil
}
