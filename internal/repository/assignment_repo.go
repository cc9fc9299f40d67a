package repository

import (
	"context"

	"rifadesk/internal/model"

	"gorm.io/gorm"
)

// AssignmentRepository persists ticket assignments.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, a *model.TicketAssignment) error
	ListBySellerAndLottery(ctx context.Context, sellerID, lotteryID uint64) ([]*model.TicketAssignment, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]*model.TicketAssignment, error)
	// HasOverlappingRange reports whether another seller already holds a
	// range overlapping [start, end] in the same lottery.
	HasOverlappingRange(ctx context.Context, lotteryID, sellerID uint64, start, end int) (bool, error)
	GetSeller(ctx context.Context, id uint64) (*model.Seller, error)
	CreateSeller(ctx context.Context, s *model.Seller) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates an assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) CreateAssignment(ctx context.Context, a *model.TicketAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepository) ListBySellerAndLottery(ctx context.Context, sellerID, lotteryID uint64) ([]*model.TicketAssignment, error) {
	var list []*model.TicketAssignment
	err := r.db.WithContext(ctx).
		Preload("IndividualTickets").
		Where("seller_id = ? AND lottery_id = ?", sellerID, lotteryID).
		Find(&list).Error
	return list, err
}

func (r *assignmentRepository) ListBySeller(ctx context.Context, sellerID uint64) ([]*model.TicketAssignment, error) {
	var list []*model.TicketAssignment
	err := r.db.WithContext(ctx).
		Preload("IndividualTickets").
		Where("seller_id = ?", sellerID).
		Order("assigned_at DESC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepository) HasOverlappingRange(ctx context.Context, lotteryID, sellerID uint64, start, end int) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.TicketAssignment{}).
		Where("lottery_id = ? AND start_number <= ? AND end_number >= ?", lotteryID, end, start).
		Where("seller_id <> ?", sellerID).
		Count(&total).Error
	return total > 0, err
}

func (r *assignmentRepository) GetSeller(ctx context.Context, id uint64) (*model.Seller, error) {
	var s model.Seller
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *assignmentRepository) CreateSeller(ctx context.Context, s *model.Seller) error {
	return r.db.WithContext(ctx).Create(s).Error
}
