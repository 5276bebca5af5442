package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFinanceTerms(t *testing.T) {
	tests := []struct {
		name     string
		sale     int64
		finance  int64
		inst     int64
		tenure   int
		expected FinanceTerms
	}{
		{
			name: "financed sale passes through",
			sale: 450000, finance: 300000, inst: 12500, tenure: 24,
			expected: FinanceTerms{SaleValue: 450000, FinanceAmount: 300000, InstallmentAmount: 12500, TenureMonths: 24},
		},
		{
			name: "cash sale forces installment and tenure to zero",
			sale: 450000, finance: 0, inst: 12500, tenure: 24,
			expected: FinanceTerms{SaleValue: 450000},
		},
		{
			name: "negatives clamp to zero",
			sale: -100, finance: -200, inst: -300, tenure: -4,
			expected: FinanceTerms{},
		},
		{
			name: "negative finance amount becomes a cash sale",
			sale: 80000, finance: -1, inst: 5000, tenure: 12,
			expected: FinanceTerms{SaleValue: 80000},
		},
		{
			name: "financed sale with zero tenure is allowed",
			sale: 80000, finance: 40000, inst: 5000, tenure: 0,
			expected: FinanceTerms{SaleValue: 80000, FinanceAmount: 40000, InstallmentAmount: 5000, TenureMonths: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeFinanceTerms(tt.sale, tt.finance, tt.inst, tt.tenure))
		})
	}
}

func TestIsCashSale(t *testing.T) {
	assert.True(t, NormalizeFinanceTerms(100, 0, 0, 0).IsCashSale())
	assert.False(t, NormalizeFinanceTerms(100, 50, 10, 5).IsCashSale())
}
