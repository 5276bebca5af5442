package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madan1440/svlf-software/internal/domain"
	customError "github.com/madan1440/svlf-software/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func terms(finance, amount int64, tenure int) domain.FinanceTerms {
	return domain.FinanceTerms{
		SaleValue:         finance,
		FinanceAmount:     finance,
		InstallmentAmount: amount,
		TenureMonths:      tenure,
	}
}

func TestGenerateFullSchedule(t *testing.T) {
	saleDate := date(2024, time.March, 10)
	installments := Generate(7, terms(120000, 10000, 12), saleDate)

	require.Len(t, installments, 12)
	for i, inst := range installments {
		assert.Equal(t, int64(7), inst.BuyerID)
		assert.Equal(t, i+1, inst.SequenceNo)
		assert.Equal(t, int64(10000), inst.Amount)
		assert.False(t, inst.Paid)
		assert.Nil(t, inst.PaidDate)
		assert.NotEqual(t, uuid.Nil, inst.ID)
	}

	assert.Equal(t, date(2024, time.April, 10), installments[0].DueDate)
	assert.Equal(t, date(2025, time.March, 10), installments[11].DueDate)

	// Strictly increasing due dates.
	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i].DueDate.After(installments[i-1].DueDate))
	}
}

func TestGenerateClampsMonthEnds(t *testing.T) {
	installments := Generate(1, terms(60000, 5000, 4), date(2024, time.January, 31))

	require.Len(t, installments, 4)
	assert.Equal(t, date(2024, time.February, 29), installments[0].DueDate)
	assert.Equal(t, date(2024, time.March, 31), installments[1].DueDate)
	assert.Equal(t, date(2024, time.April, 30), installments[2].DueDate)
	assert.Equal(t, date(2024, time.May, 31), installments[3].DueDate)
}

func TestGenerateCashSaleIsEmpty(t *testing.T) {
	installments := Generate(1, domain.NormalizeFinanceTerms(50000, 0, 5000, 12), date(2024, time.March, 1))
	assert.Empty(t, installments)
}

func existingSchedule(buyerID int64, amount int64, tenure int, saleDate time.Time) []*domain.Installment {
	return Generate(buyerID, terms(amount*int64(tenure), amount, tenure), saleDate)
}

func TestReconcileNoChangeIsEmpty(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	old := terms(60000, 5000, 12)
	existing := existingSchedule(1, 5000, 12, saleDate)

	result, err := Reconcile(1, old, old, saleDate, existing)

	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestReconcileRepriceSkipsPaidRows(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	existing := existingSchedule(1, 5000, 6, saleDate)
	existing[0].Paid = true
	existing[1].Paid = true

	result, err := Reconcile(1, terms(30000, 5000, 6), terms(30000, 6000, 6), saleDate, existing)

	require.NoError(t, err)
	assert.Empty(t, result.ToInsert)
	assert.Empty(t, result.ToDelete)
	require.Len(t, result.ToUpdate, 4)
	for _, inst := range result.ToUpdate {
		assert.False(t, inst.Paid)
		assert.Equal(t, int64(6000), inst.Amount)
	}

	// Paid rows keep their original amount.
	assert.Equal(t, int64(5000), existing[0].Amount)
	assert.Equal(t, int64(5000), existing[1].Amount)
}

func TestReconcileGrowKeepsOriginalCadence(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	existing := existingSchedule(1, 5000, 4, saleDate)

	result, err := Reconcile(1, terms(20000, 5000, 4), terms(30000, 5000, 6), saleDate, existing)

	require.NoError(t, err)
	assert.Empty(t, result.ToUpdate)
	assert.Empty(t, result.ToDelete)
	require.Len(t, result.ToInsert, 2)

	assert.Equal(t, 5, result.ToInsert[0].SequenceNo)
	assert.Equal(t, date(2024, time.June, 15), result.ToInsert[0].DueDate)
	assert.Equal(t, 6, result.ToInsert[1].SequenceNo)
	assert.Equal(t, date(2024, time.July, 15), result.ToInsert[1].DueDate)
}

func TestReconcileShrinkPreservesPaidTail(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	existing := existingSchedule(1, 5000, 6, saleDate)
	existing[4].Paid = true // sequence 5, beyond the new tenure

	result, err := Reconcile(1, terms(30000, 5000, 6), terms(15000, 5000, 3), saleDate, existing)

	require.NoError(t, err)
	assert.Empty(t, result.ToUpdate)
	assert.Empty(t, result.ToInsert)
	require.Len(t, result.ToDelete, 2)
	assert.Contains(t, result.ToDelete, existing[3].ID)
	assert.Contains(t, result.ToDelete, existing[5].ID)
	assert.NotContains(t, result.ToDelete, existing[4].ID)
}

func TestReconcileRepriceSkipsShrinkDoomedRows(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	existing := existingSchedule(1, 5000, 6, saleDate)

	result, err := Reconcile(1, terms(30000, 5000, 6), terms(18000, 6000, 3), saleDate, existing)

	require.NoError(t, err)
	require.Len(t, result.ToUpdate, 3)
	for _, inst := range result.ToUpdate {
		assert.LessOrEqual(t, inst.SequenceNo, 3)
	}
	assert.Len(t, result.ToDelete, 3)
}

func TestReconcileGrowSkipsRetainedPaidSequence(t *testing.T) {
	// A paid row at sequence 5 survived an earlier shrink to tenure 3.
	// Growing back to 6 must not duplicate sequence 5.
	saleDate := date(2024, time.January, 15)
	existing := existingSchedule(1, 5000, 3, saleDate)
	retained := &domain.Installment{
		ID:         uuid.New(),
		BuyerID:    1,
		SequenceNo: 5,
		DueDate:    date(2024, time.June, 15),
		Amount:     5000,
		Paid:       true,
	}
	existing = append(existing, retained)

	result, err := Reconcile(1, terms(15000, 5000, 3), terms(30000, 5000, 6), saleDate, existing)

	require.NoError(t, err)
	require.Len(t, result.ToInsert, 2)
	assert.Equal(t, 4, result.ToInsert[0].SequenceNo)
	assert.Equal(t, 6, result.ToInsert[1].SequenceNo)
}

func TestReconcileIsIdempotent(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	oldTerms := terms(30000, 5000, 6)
	newTerms := terms(24000, 6000, 4)
	existing := existingSchedule(1, 5000, 6, saleDate)

	first, err := Reconcile(1, oldTerms, newTerms, saleDate, existing)
	require.NoError(t, err)
	assert.False(t, first.Empty())

	// Apply the first result to an in-memory copy of the schedule.
	applied := make([]*domain.Installment, 0, len(existing))
	deleted := make(map[uuid.UUID]bool)
	for _, id := range first.ToDelete {
		deleted[id] = true
	}
	for _, inst := range existing {
		if !deleted[inst.ID] {
			applied = append(applied, inst)
		}
	}
	applied = append(applied, first.ToInsert...)

	second, err := Reconcile(1, newTerms, newTerms, saleDate, applied)
	require.NoError(t, err)
	assert.True(t, second.Empty())
}

func TestReconcileRejectsCorruptSchedules(t *testing.T) {
	saleDate := date(2024, time.January, 15)
	oldTerms := terms(20000, 5000, 4)
	newTerms := terms(25000, 5000, 5)

	t.Run("duplicate sequence number", func(t *testing.T) {
		existing := existingSchedule(1, 5000, 4, saleDate)
		existing[1].SequenceNo = 1

		_, err := Reconcile(1, oldTerms, newTerms, saleDate, existing)
		assert.ErrorIs(t, err, customError.ErrScheduleCorrupt)
	})

	t.Run("gap within tenure", func(t *testing.T) {
		existing := existingSchedule(1, 5000, 4, saleDate)
		existing = existing[:3] // row 4 missing

		_, err := Reconcile(1, oldTerms, newTerms, saleDate, existing)
		assert.ErrorIs(t, err, customError.ErrScheduleCorrupt)
	})

	t.Run("unpaid row beyond tenure", func(t *testing.T) {
		existing := existingSchedule(1, 5000, 4, saleDate)
		existing = append(existing, &domain.Installment{
			ID: uuid.New(), BuyerID: 1, SequenceNo: 9,
			DueDate: date(2024, time.October, 15), Amount: 5000,
		})

		_, err := Reconcile(1, oldTerms, newTerms, saleDate, existing)
		assert.ErrorIs(t, err, customError.ErrScheduleCorrupt)
	})

	t.Run("sequence number below one", func(t *testing.T) {
		existing := existingSchedule(1, 5000, 4, saleDate)
		existing[0].SequenceNo = 0

		_, err := Reconcile(1, oldTerms, newTerms, saleDate, existing)
		assert.ErrorIs(t, err, customError.ErrScheduleCorrupt)

		var businessErr *customError.BusinessError
		require.True(t, errors.As(err, &businessErr))
		assert.Equal(t, customError.ErrCodeScheduleCorrupt, businessErr.Code)
	})
}
