package loan

import (
	"fmt"
	"time"
)

// DailyFineCents is the flat late fee per overdue day ($0.50).
const DailyFineCents int64 = 50

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) String() string {
	return fmt.Sprintf("$%.2f", m.Dollars())
}

// FineFor computes the late fee for a loan returned at returnedAt.
// Partial days round up; on-time returns owe nothing.
func FineFor(dueDate, returnedAt time.Time) Money {
	if !returnedAt.After(dueDate) {
		return Money{}
	}

	overdue := returnedAt.Sub(dueDate)
	days := int64(overdue / (24 * time.Hour))
	if overdue%(24*time.Hour) != 0 {
		days++
	}

	return Money{cents: days * DailyFineCents}
}
