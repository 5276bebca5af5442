package domain

// FinanceTerms is the canonical form of the sale/finance numbers an
// operator enters. It only ever exists post-normalization, so the rest
// of the codebase can rely on its fields being clean non-negative
// integers with the cash-sale rule already applied.
type FinanceTerms struct {
	SaleValue         int64 `json:"sale_value" db:"sale_value"`
	FinanceAmount     int64 `json:"finance_amount" db:"finance_amount"`
	InstallmentAmount int64 `json:"installment_amount" db:"installment_amount"`
	TenureMonths      int   `json:"tenure_months" db:"tenure_months"`
}

// IsCashSale reports whether the buyer paid in full at sale time.
// Cash sales carry no installment schedule.
func (t FinanceTerms) IsCashSale() bool {
	return t.FinanceAmount == 0
}

// NormalizeFinanceTerms clamps raw operator input into canonical
// FinanceTerms. Negative values become zero; a zero finance amount
// means a cash sale, which forces the installment amount and tenure to
// zero regardless of what was supplied. Malformed input is the form
// layer's problem: by the time values reach here they are integers,
// and zero stands in for anything unparsable.
func NormalizeFinanceTerms(saleValue, financeAmount, installmentAmount int64, tenureMonths int) FinanceTerms {
	if saleValue < 0 {
		saleValue = 0
	}
	if financeAmount < 0 {
		financeAmount = 0
	}
	if installmentAmount < 0 {
		installmentAmount = 0
	}
	if tenureMonths < 0 {
		tenureMonths = 0
	}

	if financeAmount == 0 {
		return FinanceTerms{SaleValue: saleValue}
	}

	return FinanceTerms{
		SaleValue:         saleValue,
		FinanceAmount:     financeAmount,
		InstallmentAmount: installmentAmount,
		TenureMonths:      tenureMonths,
	}
}
