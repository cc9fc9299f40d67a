package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rifadesk/internal/model"
	"rifadesk/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PurchaseService drives tickets through reservation, confirmation and
// decline. Multi-write operations run inside one transaction so a failed
// precondition leaves no partial state.
type PurchaseService struct {
	db             *gorm.DB
	logger         *logrus.Logger
	reservationTTL time.Duration
}

// NewPurchaseService creates a PurchaseService. reservationTTL is stamped on
// every reservation; nothing enforces it afterwards.
func NewPurchaseService(db *gorm.DB, logger *logrus.Logger, reservationTTL time.Duration) *PurchaseService {
	return &PurchaseService{db: db, logger: logger, reservationTTL: reservationTTL}
}

// ReserveInput is one storefront or back-office purchase attempt. Every
// ticket in TicketNumbers gets its own ClientInfo row sharing the purchase
// reference.
type ReserveInput struct {
	TicketNumbers     []int  `json:"ticket_numbers" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Lastname          string `json:"lastname" binding:"required"`
	DocumentNumber    string `json:"document_number" binding:"required"`
	Whatsapp          string `json:"whatsapp"`
	City              string `json:"city"`
	SellerID          uint64 `json:"seller_id"`
	PurchaseReference string `json:"purchase_reference"`
}

// Reserve moves each requested ticket AVAILABLE -> RESERVED with a
// conditional update, creates the ClientInfo rows and one reservation per
// ticket, all sharing expiration = now + TTL. Any non-available ticket rolls
// the whole attempt back.
func (s *PurchaseService) Reserve(ctx context.Context, lotteryID uint64, in ReserveInput) ([]*model.ClientInfo, error) {
	if len(in.TicketNumbers) == 0 {
		return nil, Validationf("at least one ticket number is required")
	}
	expiration := time.Now().Add(s.reservationTTL)
	var clients []*model.ClientInfo

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := repository.NewTicketRepository(tx)
		clientRepo := repository.NewClientRepository(tx)
		reservations := repository.NewReservationRepository(tx)

		for _, number := range in.TicketNumbers {
			ticket, err := tickets.GetByNumber(ctx, lotteryID, number)
			if err != nil {
				return fmt.Errorf("ticket %d: %w", number, err)
			}
			next, err := model.Transition(ticket.State, model.ActionReserve)
			if err != nil {
				return fmt.Errorf("ticket %d: %w", number, ErrTicketNotAvailable)
			}
			swapped, err := tickets.CompareAndSetState(ctx, ticket.ID, ticket.State, next)
			if err != nil {
				return err
			}
			if !swapped {
				// Lost the race: someone reserved it between read and write.
				return fmt.Errorf("ticket %d: %w", number, ErrTicketNotAvailable)
			}

			client := &model.ClientInfo{
				LotteryID:         lotteryID,
				TicketID:          ticket.ID,
				SellerID:          in.SellerID,
				Name:              in.Name,
				Lastname:          in.Lastname,
				DocumentNumber:    in.DocumentNumber,
				Whatsapp:          in.Whatsapp,
				Telephone:         in.Whatsapp,
				City:              in.City,
				PurchaseReference: in.PurchaseReference,
			}
			if err := clientRepo.CreateClient(ctx, client); err != nil {
				return err
			}
			if err := reservations.CreateReservation(ctx, &model.TicketReservation{
				TicketID:          ticket.ID,
				ClientID:          client.ID,
				Expiration:        expiration,
				PurchaseReference: in.PurchaseReference,
			}); err != nil {
				return err
			}
			clients = append(clients, client)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"lottery_id": lotteryID,
		"tickets":    in.TicketNumbers,
		"reference":  in.PurchaseReference,
	}).Info("tickets reserved")
	return clients, nil
}

// Confirm marks the client's ticket PURCHASED and writes the terminal
// purchase record keyed (ticket, client, reference). Confirming again is a
// no-op on the purchase record; leftover reservation rows are removed either
// way.
func (s *PurchaseService) Confirm(ctx context.Context, clientID uint64) (*model.TicketPurchased, error) {
	var purchase *model.TicketPurchased

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := repository.NewTicketRepository(tx)
		clientRepo := repository.NewClientRepository(tx)
		reservations := repository.NewReservationRepository(tx)

		client, err := clientRepo.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		ticket := client.Ticket

		if ticket.State != model.StatePurchased {
			next, err := model.Transition(ticket.State, model.ActionConfirm)
			if err != nil {
				return err
			}
			if _, err := tickets.CompareAndSetState(ctx, ticket.ID, ticket.State, next); err != nil {
				return err
			}
		}

		existing, err := reservations.GetPurchase(ctx, ticket.ID, client.ID, client.PurchaseReference)
		switch {
		case err == nil:
			purchase = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			purchase = &model.TicketPurchased{
				TicketID:          ticket.ID,
				ClientID:          client.ID,
				PurchaseReference: client.PurchaseReference,
			}
			if err := reservations.CreatePurchase(ctx, purchase); err != nil {
				return err
			}
		default:
			return err
		}

		return reservations.DeleteReservationsByTicket(ctx, ticket.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"client_id":   clientID,
		"purchase_id": purchase.ID,
	}).Info("ticket purchase verified")
	return purchase, nil
}

// Decline returns the client's ticket to AVAILABLE (unless it already is) and
// deletes the client row, cascading to payments, reservations and purchase
// records.
func (s *PurchaseService) Decline(ctx context.Context, clientID uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := repository.NewTicketRepository(tx)
		clientRepo := repository.NewClientRepository(tx)

		client, err := clientRepo.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		ticket := client.Ticket

		if ticket.State != model.StateAvailable {
			next, err := model.Transition(ticket.State, model.ActionDecline)
			if err != nil {
				return err
			}
			if _, err := tickets.CompareAndSetState(ctx, ticket.ID, ticket.State, next); err != nil {
				return err
			}
		}
		return clientRepo.DeleteClientCascade(ctx, client.ID)
	})
	if err != nil {
		return err
	}

	s.logger.WithField("client_id", clientID).Info("ticket declined")
	return nil
}
