package model

import "time"

// TicketAssignment grants a seller the right to sell a subset of a lottery's
// tickets, either as a contiguous [StartNumber, EndNumber] range or as
// explicitly enumerated tickets (or both). Ranges of different sellers must
// not overlap within a lottery; the same seller may extend their own range.
type TicketAssignment struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	LotteryID   uint64    `gorm:"column:lottery_id;type:bigint;not null;index"`
	SellerID    uint64    `gorm:"column:seller_id;type:bigint;not null;index"`
	StartNumber *int      `gorm:"column:start_number;type:int"`
	EndNumber   *int      `gorm:"column:end_number;type:int"`
	AssignedAt  time.Time `gorm:"column:assigned_at;type:timestamp;default:now()"`

	Lottery           *Lottery `gorm:"foreignKey:LotteryID;constraint:OnDelete:CASCADE"`
	Seller            *Seller  `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	IndividualTickets []Ticket `gorm:"many2many:ticket_assignment_tickets"`
}

func (TicketAssignment) TableName() string { return "ticket_assignments" }

// HasRange reports whether the assignment carries a numeric range.
func (a *TicketAssignment) HasRange() bool {
	return a.StartNumber != nil && a.EndNumber != nil
}

// RangeNumbers returns every number in the assignment's range, inclusive.
func (a *TicketAssignment) RangeNumbers() []int {
	if !a.HasRange() {
		return nil
	}
	numbers := make([]int, 0, *a.EndNumber-*a.StartNumber+1)
	for n := *a.StartNumber; n <= *a.EndNumber; n++ {
		numbers = append(numbers, n)
	}
	return numbers
}

// RangesOverlap reports whether [s1, e1] and [s2, e2] share any number.
func RangesOverlap(s1, e1, s2, e2 int) bool {
	return s1 <= e2 && s2 <= e1
}
