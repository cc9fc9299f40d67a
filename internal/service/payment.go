package service

import (
	"context"
	"fmt"
	"time"

	"rifadesk/internal/model"
	"rifadesk/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PaymentService records abonos and answers balance questions.
type PaymentService struct {
	payments repository.PaymentRepository
	clients  repository.ClientRepository
	logger   *logrus.Logger
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(payments repository.PaymentRepository, clients repository.ClientRepository, logger *logrus.Logger) *PaymentService {
	return &PaymentService{payments: payments, clients: clients, logger: logger}
}

// RecordPaymentInput is one manual payment entry. Amount is not capped:
// cumulative payments may exceed the ticket price.
type RecordPaymentInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentType   string          `json:"payment_type" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	Date          time.Time       `json:"date" binding:"required"`
	TransactionID string          `json:"transaction_id"`
}

func validPaymentType(t string) bool {
	switch t {
	case model.PaymentTypeBono1, model.PaymentTypeBono2, model.PaymentTypeBono3:
		return true
	}
	return false
}

// RecordPayment appends one payment row against the client, attributed to the
// client's seller.
func (s *PaymentService) RecordPayment(ctx context.Context, clientID uint64, in RecordPaymentInput) (*model.Payment, error) {
	if !validPaymentType(in.PaymentType) {
		return nil, Validationf("payment type %q is not one of BONO1, BONO2, BONO3", in.PaymentType)
	}
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	payment := &model.Payment{
		SellerID:          client.SellerID,
		ClientID:          client.ID,
		Amount:            in.Amount,
		PaymentMethod:     in.PaymentMethod,
		PaymentType:       in.PaymentType,
		Date:              in.Date,
		TransactionID:     in.TransactionID,
		PurchaseReference: client.PurchaseReference,
	}
	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

// ClientBalance sums every payment recorded against the client.
func (s *PaymentService) ClientBalance(ctx context.Context, clientID uint64) (decimal.Decimal, error) {
	payments, err := s.payments.ListPaymentsByClient(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, p := range payments {
		balance = balance.Add(p.Amount)
	}
	return balance, nil
}

// AmountDue is the ticket price minus the client's balance. Overpayment makes
// it negative.
func (s *PaymentService) AmountDue(ctx context.Context, clientID uint64) (decimal.Decimal, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := s.ClientBalance(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(client.Lottery.PricePerTicket).Sub(balance), nil
}

// SplitAmounts divides a total evenly across n recipients at cent precision:
// every recipient but the last gets floor(total/n, 2dp), the last one gets
// the remainder, so the parts always sum back to the total.
func SplitAmounts(total decimal.Decimal, n int) []decimal.Decimal {
	base := total.DivRound(decimal.NewFromInt(int64(n)), 8).RoundDown(2)
	amounts := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		amounts[i] = base
	}
	amounts[n-1] = total.Sub(base.Mul(decimal.NewFromInt(int64(n - 1))))
	return amounts
}

// SplitGatewayPayment distributes an approved gateway transaction across all
// clients sharing the purchase reference, one BONO1 payment per client
// carrying the gateway transaction id and method.
func (s *PaymentService) SplitGatewayPayment(ctx context.Context, reference string, amountInCents int64, transactionID, method string, finalizedAt time.Time) ([]*model.Payment, error) {
	clients, err := s.clients.ListClientsByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, ErrNoClientsForSplit
	}

	pesos := decimal.NewFromInt(amountInCents).Div(decimal.NewFromInt(CentsPerPeso))
	amounts := SplitAmounts(pesos, len(clients))

	payments := make([]*model.Payment, 0, len(clients))
	for i, client := range clients {
		payments = append(payments, &model.Payment{
			SellerID:          client.SellerID,
			ClientID:          client.ID,
			Amount:            amounts[i],
			PaymentMethod:     method,
			PaymentType:       model.PaymentTypeBono1,
			Date:              finalizedAt,
			TransactionID:     transactionID,
			PurchaseReference: reference,
		})
	}
	if err := s.payments.CreatePayments(ctx, payments); err != nil {
		return nil, fmt.Errorf("create split payments: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"reference":      reference,
		"transaction_id": transactionID,
		"clients":        len(clients),
		"total":          pesos.String(),
	}).Info("gateway payment split recorded")
	return payments, nil
}
