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

// BillingService aggregates a seller's collected payments into balances and
// persists seller bill snapshots.
type BillingService struct {
	payments repository.PaymentRepository
	clients  repository.ClientRepository
	logger   *logrus.Logger
}

// NewBillingService creates a BillingService.
func NewBillingService(payments repository.PaymentRepository, clients repository.ClientRepository, logger *logrus.Logger) *BillingService {
	return &BillingService{payments: payments, clients: clients, logger: logger}
}

// dateLayout is the wire format for balance date filters.
const dateLayout = "2006-01-02"

// ParseDates parses date strings, silently skipping unparseable entries the
// way the balance endpoint always has.
func ParseDates(dates []string) []time.Time {
	parsed := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		if d, err := time.Parse(dateLayout, s); err == nil {
			parsed = append(parsed, d)
		}
	}
	return parsed
}

// DayRanges expands each date to its full [00:00, +24h) day window.
func DayRanges(dates []time.Time) []repository.DayRange {
	ranges := make([]repository.DayRange, 0, len(dates))
	for _, d := range dates {
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		ranges = append(ranges, repository.DayRange{Start: start, End: start.Add(24 * time.Hour)})
	}
	return ranges
}

// PaymentsByDates returns the seller's payments falling on any of the given
// days.
func (s *BillingService) PaymentsByDates(ctx context.Context, sellerID uint64, dates []string) ([]*model.Payment, error) {
	return s.payments.ListPaymentsBySellerAndDays(ctx, sellerID, DayRanges(ParseDates(dates)))
}

// BalanceLine is one client's share of a balance summary.
type BalanceLine struct {
	ClientID        uint64          `json:"client_id"`
	TicketNumber    string          `json:"ticket_number"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	LastPaymentDate time.Time       `json:"last_payment_date"`
}

// Balance is a per-client payment summary plus the grand total.
type Balance struct {
	TotalAmount decimal.Decimal         `json:"total_amount"`
	Clients     map[uint64]*BalanceLine `json:"clients"`
}

// GenerateBalance groups raw payment rows by client, summing amounts and
// tracking each client's most recent payment date. Ticket numbers are
// resolved through the client record and zero-padded to four digits.
func (s *BillingService) GenerateBalance(ctx context.Context, payments []*model.Payment) (*Balance, error) {
	balance := &Balance{
		TotalAmount: decimal.Zero,
		Clients:     make(map[uint64]*BalanceLine),
	}
	for _, p := range payments {
		balance.TotalAmount = balance.TotalAmount.Add(p.Amount)

		line, ok := balance.Clients[p.ClientID]
		if !ok {
			client, err := s.clients.GetClient(ctx, p.ClientID)
			if err != nil {
				return nil, fmt.Errorf("client %d: %w", p.ClientID, err)
			}
			balance.Clients[p.ClientID] = &BalanceLine{
				ClientID:        p.ClientID,
				TicketNumber:    fmt.Sprintf("%04d", client.Ticket.Number),
				TotalAmount:     p.Amount,
				LastPaymentDate: p.Date,
			}
			continue
		}
		line.TotalAmount = line.TotalAmount.Add(p.Amount)
		if p.Date.After(line.LastPaymentDate) {
			line.LastPaymentDate = p.Date
		}
	}
	return balance, nil
}

// GenerateSellerBill persists a point-in-time snapshot of the balance: one
// SellerBill row plus one balance line per client. Underlying payments are
// not marked settled.
func (s *BillingService) GenerateSellerBill(ctx context.Context, sellerID uint64, balance *Balance) (*model.SellerBill, error) {
	bill := &model.SellerBill{
		SellerID:       sellerID,
		GenerationDate: time.Now(),
		TotalAmount:    balance.TotalAmount,
	}
	for _, line := range balance.Clients {
		bill.Balances = append(bill.Balances, model.ClientTicketPaymentBalance{
			ClientID:        line.ClientID,
			TicketNumber:    line.TicketNumber,
			TotalAmount:     line.TotalAmount,
			LastPaymentDate: line.LastPaymentDate,
		})
	}
	if err := s.payments.CreateSellerBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("create seller bill: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"seller_id": sellerID,
		"bill_id":   bill.ID,
		"total":     bill.TotalAmount.String(),
	}).Info("seller bill generated")
	return bill, nil
}

// SellerBillJSON is the serialized bill with full seller identity.
type SellerBillJSON struct {
	BillID         uint64                             `json:"bill_id"`
	GenerationDate time.Time                          `json:"generation_date"`
	Seller         SellerBillSellerJSON               `json:"seller"`
	TotalAmount    decimal.Decimal                    `json:"total_amount"`
	Balances       []model.ClientTicketPaymentBalance `json:"payment_balances"`
}

// SellerBillSellerJSON is the seller identity block of a serialized bill.
type SellerBillSellerJSON struct {
	SellerID       uint64 `json:"seller_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number"`
	CityResidence  string `json:"city_residence"`
	Whatsapp       string `json:"whatsapp"`
}

// SerializeSellerBill loads the bill with its seller and balance lines and
// flattens it for the API response.
func (s *BillingService) SerializeSellerBill(ctx context.Context, billID uint64) (*SellerBillJSON, error) {
	bill, err := s.payments.GetSellerBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	out := &SellerBillJSON{
		BillID:         bill.ID,
		GenerationDate: bill.GenerationDate,
		TotalAmount:    bill.TotalAmount,
		Balances:       bill.Balances,
	}
	if bill.Seller != nil {
		out.Seller = SellerBillSellerJSON{
			SellerID:       bill.Seller.ID,
			FirstName:      bill.Seller.FirstName,
			LastName:       bill.Seller.LastName,
			DocumentNumber: bill.Seller.DocumentNumber,
			CityResidence:  bill.Seller.CityResidence,
			Whatsapp:       bill.Seller.Whatsapp,
		}
	}
	return out, nil
}
