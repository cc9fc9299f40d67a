package repository

import (
	"context"

	"rifadesk/internal/model"

	"gorm.io/gorm"
)

// ClientRepository persists purchase attempts (clients).
type ClientRepository interface {
	CreateClient(ctx context.Context, client *model.ClientInfo) error
	GetClient(ctx context.Context, id uint64) (*model.ClientInfo, error)
	ListClientsByReference(ctx context.Context, reference string) ([]*model.ClientInfo, error)
	// DeleteClientCascade removes the client and everything it owns:
	// payments, reservations and purchase records.
	DeleteClientCascade(ctx context.Context, id uint64) error
}

// ReservationRepository persists ticket reservations and purchase records.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, res *model.TicketReservation) error
	ReservationsByTicket(ctx context.Context, ticketID uint64) ([]*model.TicketReservation, error)
	DeleteReservationsByTicket(ctx context.Context, ticketID uint64) error
	GetPurchase(ctx context.Context, ticketID, clientID uint64, reference string) (*model.TicketPurchased, error)
	GetPurchaseByTicket(ctx context.Context, ticketID uint64) (*model.TicketPurchased, error)
	CreatePurchase(ctx context.Context, p *model.TicketPurchased) error
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a client repository.
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &purchaseRepository{db: db}
}

// NewReservationRepository creates a reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) CreateClient(ctx context.Context, client *model.ClientInfo) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *purchaseRepository) GetClient(ctx context.Context, id uint64) (*model.ClientInfo, error) {
	var c model.ClientInfo
	if err := r.db.WithContext(ctx).
		Preload("Lottery").Preload("Ticket").Preload("Seller").
		First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *purchaseRepository) ListClientsByReference(ctx context.Context, reference string) ([]*model.ClientInfo, error) {
	var list []*model.ClientInfo
	err := r.db.WithContext(ctx).
		Where("purchase_reference = ?", reference).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *purchaseRepository) DeleteClientCascade(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&model.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.TicketReservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.TicketPurchased{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ClientInfo{}, id).Error
	})
}

func (r *purchaseRepository) CreateReservation(ctx context.Context, res *model.TicketReservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *purchaseRepository) ReservationsByTicket(ctx context.Context, ticketID uint64) ([]*model.TicketReservation, error) {
	var list []*model.TicketReservation
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Find(&list).Error
	return list, err
}

func (r *purchaseRepository) DeleteReservationsByTicket(ctx context.Context, ticketID uint64) error {
	return r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Delete(&model.TicketReservation{}).Error
}

func (r *purchaseRepository) GetPurchase(ctx context.Context, ticketID, clientID uint64, reference string) (*model.TicketPurchased, error) {
	var p model.TicketPurchased
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ? AND client_id = ? AND purchase_reference = ?", ticketID, clientID, reference).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepository) GetPurchaseByTicket(ctx context.Context, ticketID uint64) (*model.TicketPurchased, error) {
	var p model.TicketPurchased
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepository) CreatePurchase(ctx context.Context, p *model.TicketPurchased) error {
	return r.db.WithContext(ctx).Create(p).Error
}
