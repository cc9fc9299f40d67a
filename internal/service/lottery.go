package service

import (
	"context"
	"fmt"
	"time"

	"rifadesk/internal/model"
	"rifadesk/internal/repository"
	"rifadesk/internal/utils/masking"
	"rifadesk/internal/wompi"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CentsPerPeso converts ticket prices to the gateway's cent amounts.
const CentsPerPeso = 100

// LotteryService owns lottery creation and the storefront ticket reads.
type LotteryService struct {
	lotteries repository.LotteryRepository
	tickets   repository.TicketRepository
	payments  repository.PaymentRepository
	clients   repository.ClientRepository
	purchases repository.ReservationRepository
	gateway   *wompi.Client
	logger    *logrus.Logger
}

// NewLotteryService creates a LotteryService.
func NewLotteryService(
	lotteries repository.LotteryRepository,
	tickets repository.TicketRepository,
	payments repository.PaymentRepository,
	clients repository.ClientRepository,
	purchases repository.ReservationRepository,
	gateway *wompi.Client,
	logger *logrus.Logger,
) *LotteryService {
	return &LotteryService{
		lotteries: lotteries,
		tickets:   tickets,
		payments:  payments,
		clients:   clients,
		purchases: purchases,
		gateway:   gateway,
		logger:    logger,
	}
}

// CreateLotteryInput is the operator's lottery definition.
type CreateLotteryInput struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	LotteryDate1     *time.Time `json:"lottery_date_1"`
	LotteryDate2     *time.Time `json:"lottery_date_2"`
	LotteryDate3     *time.Time `json:"lottery_date_3"`
	LotteryDate4     *time.Time `json:"lottery_date_4"`
	PricePerTicket   int64      `json:"price_per_ticket" binding:"required"`
	LowerSeriesRange int        `json:"lower_series_range"`
	UpperSeriesRange int        `json:"upper_series_range"`
}

// CreateLottery creates the lottery and materializes one AVAILABLE ticket per
// number in [lower, upper] inclusive, in a single transaction.
func (s *LotteryService) CreateLottery(ctx context.Context, in CreateLotteryInput) (*model.Lottery, error) {
	if in.LowerSeriesRange > in.UpperSeriesRange {
		return nil, Validationf("lower series range %d must not exceed upper series range %d",
			in.LowerSeriesRange, in.UpperSeriesRange)
	}
	lottery := &model.Lottery{
		Name:             in.Name,
		Description:      in.Description,
		LotteryDate1:     in.LotteryDate1,
		LotteryDate2:     in.LotteryDate2,
		LotteryDate3:     in.LotteryDate3,
		LotteryDate4:     in.LotteryDate4,
		PricePerTicket:   in.PricePerTicket,
		LowerSeriesRange: in.LowerSeriesRange,
		UpperSeriesRange: in.UpperSeriesRange,
	}
	if err := s.lotteries.CreateLotteryWithTickets(ctx, lottery); err != nil {
		return nil, fmt.Errorf("create lottery: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"lottery_id": lottery.ID,
		"tickets":    in.UpperSeriesRange - in.LowerSeriesRange + 1,
	}).Info("lottery created")
	return lottery, nil
}

// GetLottery returns one lottery by id.
func (s *LotteryService) GetLottery(ctx context.Context, id uint64) (*model.Lottery, error) {
	return s.lotteries.GetLottery(ctx, id)
}

// LatestLottery returns the most recently created lottery.
func (s *LotteryService) LatestLottery(ctx context.Context) (*model.Lottery, error) {
	return s.lotteries.LatestLottery(ctx)
}

// RandomAvailableTicket picks a random AVAILABLE ticket number for the
// storefront roulette.
func (s *LotteryService) RandomAvailableTicket(ctx context.Context, lotteryID uint64) (int, error) {
	t, err := s.tickets.RandomAvailable(ctx, lotteryID)
	if err != nil {
		return 0, err
	}
	return t.Number, nil
}

// TicketInfo is the storefront view of one ticket: availability plus, for a
// held ticket, the masked holder identity and payment progress.
type TicketInfo struct {
	IsAvailable     bool              `json:"isAvailable"`
	TicketState     model.TicketState `json:"ticket_state,omitempty"`
	NameAndLastname string            `json:"name_and_lastname,omitempty"`
	DocumentNumber  string            `json:"document_number,omitempty"`
	PaymentCount    int               `json:"payment_count,omitempty"`
	TotalPayment    decimal.Decimal   `json:"total_payment"`
}

// TicketInfo resolves the holder through the purchase record for PURCHASED
// tickets and through the reservation for RESERVED ones.
func (s *LotteryService) TicketInfo(ctx context.Context, lotteryID uint64, number int) (*TicketInfo, error) {
	ticket, err := s.tickets.GetByNumber(ctx, lotteryID, number)
	if err != nil {
		return nil, err
	}
	info := &TicketInfo{TotalPayment: decimal.Zero}
	if ticket.State == model.StateAvailable {
		info.IsAvailable = true
		return info, nil
	}
	info.TicketState = ticket.State

	var clientID uint64
	switch ticket.State {
	case model.StatePurchased:
		p, err := s.purchases.GetPurchaseByTicket(ctx, ticket.ID)
		if err != nil {
			return nil, err
		}
		clientID = p.ClientID
	case model.StateReserved:
		rs, err := s.purchases.ReservationsByTicket(ctx, ticket.ID)
		if err != nil {
			return nil, err
		}
		if len(rs) == 0 {
			return info, nil
		}
		clientID = rs[0].ClientID
	}

	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListPaymentsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	info.NameAndLastname = masking.KeepFirstThree(client.Name) + " " + masking.KeepFirstThree(client.Lastname)
	info.DocumentNumber = masking.KeepLastThree(client.DocumentNumber)
	info.PaymentCount = len(payments)
	info.TotalPayment = total
	return info, nil
}

// CheckoutData carries everything the storefront needs to redirect the buyer
// to the gateway.
type CheckoutData struct {
	PublicKey          string `json:"public_key"`
	AmountInCents      int64  `json:"amount_in_cents"`
	Currency           string `json:"currency"`
	PurchaseReference  string `json:"purchase_reference"`
	IntegritySignature string `json:"integrity_signature"`
	RedirectURL        string `json:"redirect_url"`
}

// PrepareCheckout verifies the requested tickets are all AVAILABLE and mints
// the purchase reference and integrity signature for the gateway redirect.
func (s *LotteryService) PrepareCheckout(ctx context.Context, lotteryID uint64, ticketNumbers []int) (*CheckoutData, error) {
	if len(ticketNumbers) == 0 {
		return nil, Validationf("at least one ticket number is required")
	}
	lottery, err := s.lotteries.GetLottery(ctx, lotteryID)
	if err != nil {
		return nil, err
	}
	for _, number := range ticketNumbers {
		ticket, err := s.tickets.GetByNumber(ctx, lotteryID, number)
		if err != nil {
			return nil, err
		}
		if ticket.State != model.StateAvailable {
			return nil, fmt.Errorf("ticket %d: %w", number, ErrTicketNotAvailable)
		}
	}

	cents := lottery.PricePerTicket * int64(len(ticketNumbers)) * CentsPerPeso
	reference := s.gateway.GeneratePurchaseReference()
	return &CheckoutData{
		PublicKey:          s.gateway.PublicKey(),
		AmountInCents:      cents,
		Currency:           wompi.Currency,
		PurchaseReference:  reference,
		IntegritySignature: s.gateway.IntegritySignature(reference, cents),
		RedirectURL:        s.gateway.RedirectURL(fmt.Sprintf("/lottery/%d/payment_gateway", lotteryID)),
	}, nil
}
