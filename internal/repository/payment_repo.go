package repository

import (
	"context"
	"time"

	"rifadesk/internal/model"

	"gorm.io/gorm"
)

// PaymentRepository persists payments and settlement snapshots.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	CreatePayments(ctx context.Context, ps []*model.Payment) error
	ListPaymentsByClient(ctx context.Context, clientID uint64) ([]*model.Payment, error)
	// ListPaymentsBySellerAndDays returns the seller's payments whose date
	// falls inside any of the [start, end) day windows, ordered by date.
	ListPaymentsBySellerAndDays(ctx context.Context, sellerID uint64, days []DayRange) ([]*model.Payment, error)
	CreateSellerBill(ctx context.Context, bill *model.SellerBill) error
	GetSellerBill(ctx context.Context, id uint64) (*model.SellerBill, error)
}

// DayRange is a half-open [Start, End) window covering one calendar day.
type DayRange struct {
	Start time.Time
	End   time.Time
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) CreatePayments(ctx context.Context, ps []*model.Payment) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ps).Error
}

func (r *paymentRepository) ListPaymentsByClient(ctx context.Context, clientID uint64) ([]*model.Payment, error) {
	var list []*model.Payment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

func (r *paymentRepository) ListPaymentsBySellerAndDays(ctx context.Context, sellerID uint64, days []DayRange) ([]*model.Payment, error) {
	if len(days) == 0 {
		return []*model.Payment{}, nil
	}
	cond := r.db.Where("date >= ? AND date < ?", days[0].Start, days[0].End)
	for _, d := range days[1:] {
		cond = cond.Or("date >= ? AND date < ?", d.Start, d.End)
	}
	var list []*model.Payment
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Where(cond).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

func (r *paymentRepository) CreateSellerBill(ctx context.Context, bill *model.SellerBill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *paymentRepository) GetSellerBill(ctx context.Context, id uint64) (*model.SellerBill, error) {
	var bill model.SellerBill
	if err := r.db.WithContext(ctx).
		Preload("Seller").Preload("Balances").
		First(&bill, id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}
