package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProjectStatus(t *testing.T) {
	today := day(2024, time.June, 15)
	paidDate := day(2024, time.June, 1)

	tests := []struct {
		name     string
		inst     Installment
		expected string
	}{
		{
			name:     "paid wins even when overdue",
			inst:     Installment{DueDate: day(2024, time.January, 1), Paid: true, PaidDate: &paidDate},
			expected: InstallmentStatusPaid,
		},
		{
			name:     "paid wins even when due in the future",
			inst:     Installment{DueDate: day(2024, time.December, 1), Paid: true},
			expected: InstallmentStatusPaid,
		},
		{
			name:     "missing due date degrades to unpaid",
			inst:     Installment{},
			expected: InstallmentStatusUnpaid,
		},
		{
			name:     "due before today is overdue",
			inst:     Installment{DueDate: day(2024, time.June, 14)},
			expected: InstallmentStatusOverdue,
		},
		{
			name:     "due today",
			inst:     Installment{DueDate: day(2024, time.June, 15)},
			expected: InstallmentStatusDueToday,
		},
		{
			name:     "due tomorrow is upcoming",
			inst:     Installment{DueDate: day(2024, time.June, 16)},
			expected: InstallmentStatusUpcoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProjectStatus(&tt.inst, today))
		})
	}
}

func TestProjectStatusIgnoresTimeOfDay(t *testing.T) {
	// Late in the evening an installment due that day is still Due
	// Today, not Overdue.
	now := time.Date(2024, time.June, 15, 23, 50, 0, 0, time.UTC)
	inst := &Installment{DueDate: day(2024, time.June, 15)}
	assert.Equal(t, InstallmentStatusDueToday, ProjectStatus(inst, now))
}

func TestProjectSchedule(t *testing.T) {
	today := day(2024, time.June, 15)
	installments := []*Installment{
		{SequenceNo: 1, DueDate: day(2024, time.May, 15), Paid: true},
		{SequenceNo: 2, DueDate: day(2024, time.June, 10)},
		{SequenceNo: 3, DueDate: day(2024, time.July, 15)},
	}

	views := ProjectSchedule(installments, today)

	assert.Len(t, views, 3)
	assert.Equal(t, InstallmentStatusPaid, views[0].Status)
	assert.Equal(t, InstallmentStatusOverdue, views[1].Status)
	assert.Equal(t, InstallmentStatusUpcoming, views[2].Status)
}
