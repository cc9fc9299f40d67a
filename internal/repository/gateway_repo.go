package repository

import (
	"context"

	"rifadesk/internal/model"

	"gorm.io/gorm"
)

// GatewayRepository persists webhook audit rows and the storefront contact
// records.
type GatewayRepository interface {
	CreateGatewayEvent(ctx context.Context, ev *model.GatewayEvent) error
	LatestSiteWhatsapp(ctx context.Context) (*model.SiteWhatsapp, error)
	ListPaymentContacts(ctx context.Context) ([]*model.PaymentContact, error)
}

type gatewayRepository struct {
	db *gorm.DB
}

// NewGatewayRepository creates a gateway repository.
func NewGatewayRepository(db *gorm.DB) GatewayRepository {
	return &gatewayRepository{db: db}
}

func (r *gatewayRepository) CreateGatewayEvent(ctx context.Context, ev *model.GatewayEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *gatewayRepository) LatestSiteWhatsapp(ctx context.Context) (*model.SiteWhatsapp, error) {
	var w model.SiteWhatsapp
	if err := r.db.WithContext(ctx).Order("id DESC").First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *gatewayRepository) ListPaymentContacts(ctx context.Context) ([]*model.PaymentContact, error) {
	var list []*model.PaymentContact
	err := r.db.WithContext(ctx).Find(&list).Error
	return list, err
}
