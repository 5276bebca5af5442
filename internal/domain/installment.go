package domain

import (
	"time"

	"github.com/google/uuid"
)

// Projected installment statuses, mutually exclusive.
const (
	InstallmentStatusPaid     = "Paid"
	InstallmentStatusUnpaid   = "Unpaid"
	InstallmentStatusOverdue  = "Overdue"
	InstallmentStatusDueToday = "Due Today"
	InstallmentStatusUpcoming = "Upcoming"
)

// Installment is one scheduled monthly payment owed by a buyer.
// SequenceNo is the 1-based position in the buyer's schedule.
type Installment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	BuyerID    int64      `json:"buyer_id" db:"buyer_id"`
	SequenceNo int        `json:"sequence_no" db:"sequence_no"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	Amount     int64      `json:"amount" db:"amount"`
	Paid       bool       `json:"paid" db:"paid"`
	PaidDate   *time.Time `json:"paid_date,omitempty" db:"paid_date"`
}

// ProjectStatus derives the display status of an installment on the
// given day. Precedence: the stored paid flag wins over any date, a
// missing due date degrades to Unpaid, then the due date is compared
// at day granularity.
func ProjectStatus(inst *Installment, today time.Time) string {
	if inst.Paid {
		return InstallmentStatusPaid
	}
	if inst.DueDate.IsZero() {
		return InstallmentStatusUnpaid
	}

	dy, dm, dd := inst.DueDate.Date()
	ty, tm, td := today.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	now := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	switch {
	case due.Before(now):
		return InstallmentStatusOverdue
	case due.After(now):
		return InstallmentStatusUpcoming
	default:
		return InstallmentStatusDueToday
	}
}

// InstallmentView is an Installment plus its projected status, the
// shape handed to dashboards.
type InstallmentView struct {
	Installment
	Status string `json:"status"`
}

// ProjectSchedule applies ProjectStatus across a full schedule.
func ProjectSchedule(installments []*Installment, today time.Time) []*InstallmentView {
	views := make([]*InstallmentView, 0, len(installments))
	for _, inst := range installments {
		views = append(views, &InstallmentView{
			Installment: *inst,
			Status:      ProjectStatus(inst, today),
		})
	}
	return views
}
