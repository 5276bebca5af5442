// Package schedule is the only place installment rows are created,
// resized, or re-priced. Generate builds the schedule at sale time;
// Reconcile adjusts an existing schedule after a terms edit without
// disturbing installments already marked paid.
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/madan1440/svlf-software/internal/domain"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/pkg/utils"
)

// Generate produces the full installment schedule for a new buyer:
// one row per month 1..tenure, due i calendar months after the sale
// date, all unpaid at the normalized installment amount. A cash sale
// (tenure 0) yields an empty schedule; that is not an error.
func Generate(buyerID int64, terms domain.FinanceTerms, saleDate time.Time) []*domain.Installment {
	installments := make([]*domain.Installment, 0, terms.TenureMonths)
	for i := 1; i <= terms.TenureMonths; i++ {
		installments = append(installments, &domain.Installment{
			ID:         uuid.New(),
			BuyerID:    buyerID,
			SequenceNo: i,
			DueDate:    utils.AddMonths(saleDate, i),
			Amount:     terms.InstallmentAmount,
		})
	}
	return installments
}

// ReconcileResult distinguishes the three effect categories of a
// reconcile so the repository can apply them in one transaction.
type ReconcileResult struct {
	ToUpdate []*domain.Installment
	ToInsert []*domain.Installment
	ToDelete []uuid.UUID
}

// Empty reports whether the reconcile was a no-op.
func (r *ReconcileResult) Empty() bool {
	return len(r.ToUpdate) == 0 && len(r.ToInsert) == 0 && len(r.ToDelete) == 0
}

// Reconcile adjusts an existing schedule to newly edited finance
// terms. Steps apply in a fixed order: reprice unpaid rows, grow the
// tail, shrink the tail. Paid rows are historical fact and are never
// repriced or deleted; grown rows are dated from the original sale
// date so the cadence survives late edits. Equal terms yield an empty
// result.
//
// The existing schedule must satisfy the stored invariant (see
// validateSchedule); a violation is surfaced as a fatal error rather
// than silently repaired, since repair could mask data corruption.
func Reconcile(buyerID int64, oldTerms, newTerms domain.FinanceTerms, saleDate time.Time, existing []*domain.Installment) (*ReconcileResult, error) {
	if err := validateSchedule(buyerID, oldTerms.TenureMonths, existing); err != nil {
		return nil, err
	}

	result := &ReconcileResult{}

	shrinking := newTerms.TenureMonths < oldTerms.TenureMonths

	// Step 1: reprice every unpaid row, overdue or not. Rows about to
	// be removed by the shrink step are skipped so they are not first
	// updated and then deleted in the same transaction.
	if newTerms.InstallmentAmount != oldTerms.InstallmentAmount {
		for _, inst := range existing {
			if inst.Paid {
				continue
			}
			if shrinking && inst.SequenceNo > newTerms.TenureMonths {
				continue
			}
			inst.Amount = newTerms.InstallmentAmount
			result.ToUpdate = append(result.ToUpdate, inst)
		}
	}

	// Step 2: grow. New rows take the new amount and due dates keyed
	// off the original sale date. A sequence number can already exist
	// past the old tenure when a paid row survived an earlier shrink;
	// such rows are kept as-is rather than duplicated.
	if newTerms.TenureMonths > oldTerms.TenureMonths {
		taken := make(map[int]bool, len(existing))
		for _, inst := range existing {
			taken[inst.SequenceNo] = true
		}
		for i := oldTerms.TenureMonths + 1; i <= newTerms.TenureMonths; i++ {
			if taken[i] {
				continue
			}
			result.ToInsert = append(result.ToInsert, &domain.Installment{
				ID:         uuid.New(),
				BuyerID:    buyerID,
				SequenceNo: i,
				DueDate:    utils.AddMonths(saleDate, i),
				Amount:     newTerms.InstallmentAmount,
			})
		}
	}

	// Step 3: shrink. Unpaid rows past the new tenure go; paid rows
	// beyond it are retained, so the visible count may exceed the new
	// tenure. That is correct historical behavior, not a bug.
	if shrinking {
		for _, inst := range existing {
			if !inst.Paid && inst.SequenceNo > newTerms.TenureMonths {
				result.ToDelete = append(result.ToDelete, inst.ID)
			}
		}
	}

	return result, nil
}

// validateSchedule enforces the stored-schedule invariant on entry to
// Reconcile: no duplicate sequence numbers, sequence numbers within
// the recorded tenure form the contiguous range 1..tenure, and any
// row beyond the tenure is paid (the retained tail of an earlier
// shrink).
func validateSchedule(buyerID int64, tenure int, existing []*domain.Installment) error {
	seen := make(map[int]bool, len(existing))
	withinTenure := 0
	for _, inst := range existing {
		if inst.SequenceNo < 1 {
			return customError.WrapScheduleCorrupt(buyerID, fmt.Sprintf("sequence number %d out of range", inst.SequenceNo))
		}
		if seen[inst.SequenceNo] {
			return customError.WrapScheduleCorrupt(buyerID, fmt.Sprintf("duplicate sequence number %d", inst.SequenceNo))
		}
		seen[inst.SequenceNo] = true

		if inst.SequenceNo <= tenure {
			withinTenure++
		} else if !inst.Paid {
			return customError.WrapScheduleCorrupt(buyerID, fmt.Sprintf("unpaid installment %d beyond tenure %d", inst.SequenceNo, tenure))
		}
	}
	if withinTenure != tenure {
		return customError.WrapScheduleCorrupt(buyerID, fmt.Sprintf("expected installments 1..%d, found %d within range", tenure, withinTenure))
	}
	return nil
}
