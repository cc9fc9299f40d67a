package service

import (
	"context"
	"fmt"
	"sort"

	"rifadesk/internal/model"
	"rifadesk/internal/repository"

	"github.com/sirupsen/logrus"
)

// AllocationService assigns ticket ranges and individual tickets to sellers
// and computes which numbers a seller may offer.
type AllocationService struct {
	assignments repository.AssignmentRepository
	tickets     repository.TicketRepository
	logger      *logrus.Logger
}

// NewAllocationService creates an AllocationService.
func NewAllocationService(assignments repository.AssignmentRepository, tickets repository.TicketRepository, logger *logrus.Logger) *AllocationService {
	return &AllocationService{assignments: assignments, tickets: tickets, logger: logger}
}

// AssignInput describes one assignment: a contiguous range and/or explicit
// tickets for a seller within a lottery.
type AssignInput struct {
	LotteryID   uint64   `json:"lottery_id" binding:"required"`
	SellerID    uint64   `json:"seller_id" binding:"required"`
	StartNumber *int     `json:"start_number"`
	EndNumber   *int     `json:"end_number"`
	TicketIDs   []uint64 `json:"ticket_ids"`
}

// Assign validates the range (start strictly below end, no overlap with a
// range held by a different seller in the same lottery) and persists the
// assignment. The same seller may extend or re-assign their own numbers.
func (s *AllocationService) Assign(ctx context.Context, in AssignInput) (*model.TicketAssignment, error) {
	hasRange := in.StartNumber != nil && in.EndNumber != nil
	if !hasRange && len(in.TicketIDs) == 0 {
		return nil, Validationf("an assignment needs a number range or individual tickets")
	}
	if hasRange {
		if *in.StartNumber >= *in.EndNumber {
			return nil, Validationf("start number %d must be below end number %d", *in.StartNumber, *in.EndNumber)
		}
		overlaps, err := s.assignments.HasOverlappingRange(ctx, in.LotteryID, in.SellerID, *in.StartNumber, *in.EndNumber)
		if err != nil {
			return nil, err
		}
		if overlaps {
			return nil, Validationf(
				"tickets in the range %d-%d for lottery %d are already assigned to another seller",
				*in.StartNumber, *in.EndNumber, in.LotteryID)
		}
	}

	assignment := &model.TicketAssignment{
		LotteryID:   in.LotteryID,
		SellerID:    in.SellerID,
		StartNumber: in.StartNumber,
		EndNumber:   in.EndNumber,
	}
	for _, id := range in.TicketIDs {
		ticket, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", id, err)
		}
		if ticket.LotteryID != in.LotteryID {
			return nil, Validationf("ticket %d does not belong to lottery %d", id, in.LotteryID)
		}
		assignment.IndividualTickets = append(assignment.IndividualTickets, *ticket)
	}
	if err := s.assignments.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"lottery_id": in.LotteryID,
		"seller_id":  in.SellerID,
	}).Info("tickets assigned")
	return assignment, nil
}

// AssignmentsForSeller lists a seller's assignments, newest first.
func (s *AllocationService) AssignmentsForSeller(ctx context.Context, sellerID uint64) ([]*model.TicketAssignment, error) {
	return s.assignments.ListBySeller(ctx, sellerID)
}

// AvailableTicketNumbers returns the sorted set of numbers the seller may
// offer for the lottery: the union of their assigned ranges and individual
// tickets, kept to tickets currently AVAILABLE. When editingTicketNumber is
// set (an existing purchase being edited) that number is always included so
// the editor can keep the current selection. SUPERADMIN sellers see every
// AVAILABLE number.
func (s *AllocationService) AvailableTicketNumbers(ctx context.Context, sellerID, lotteryID uint64, editingTicketNumber *int) ([]int, error) {
	seller, err := s.assignments.GetSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	available, err := s.tickets.ListAvailableNumbers(ctx, lotteryID)
	if err != nil {
		return nil, err
	}

	var numbers []int
	if seller.IsSuperAdmin() {
		numbers = available
	} else {
		assignments, err := s.assignments.ListBySellerAndLottery(ctx, sellerID, lotteryID)
		if err != nil {
			return nil, err
		}
		if len(assignments) == 0 {
			numbers = nil
		} else {
			assigned := make(map[int]struct{})
			for _, a := range assignments {
				for _, n := range a.RangeNumbers() {
					assigned[n] = struct{}{}
				}
				for _, t := range a.IndividualTickets {
					assigned[t.Number] = struct{}{}
				}
			}
			for _, n := range available {
				if _, ok := assigned[n]; ok {
					numbers = append(numbers, n)
				}
			}
		}
	}

	if editingTicketNumber != nil {
		found := false
		for _, n := range numbers {
			if n == *editingTicketNumber {
				found = true
				break
			}
		}
		if !found {
			numbers = append(numbers, *editingTicketNumber)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}
