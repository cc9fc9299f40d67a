package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"rifadesk/internal/config"
	"rifadesk/internal/model"
	"rifadesk/internal/repository"
	"rifadesk/internal/wompi"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Seller{},
		&model.Lottery{},
		&model.Ticket{},
		&model.TicketAssignment{},
		&model.ClientInfo{},
		&model.TicketReservation{},
		&model.TicketPurchased{},
		&model.Payment{},
		&model.SellerBill{},
		&model.ClientTicketPaymentBalance{},
		&model.PaymentContact{},
		&model.SiteWhatsapp{},
		&model.GatewayEvent{},
	))
	return db
}

func newLotteryService(db *gorm.DB) *LotteryService {
	gateway := wompi.NewClient(config.WompiConfig{
		PublicKey:       "pub_test_key",
		EventsKey:       "test_events_key",
		IntegrityKey:    "test_integrity_key",
		RedirectBaseURL: "https://rifas.example.com",
	}, testLogger())
	return NewLotteryService(
		repository.NewLotteryRepository(db),
		repository.NewTicketRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewClientRepository(db),
		repository.NewReservationRepository(db),
		gateway,
		testLogger(),
	)
}

func seedSeller(t *testing.T, db *gorm.DB, username, role string) *model.Seller {
	t.Helper()
	s := &model.Seller{
		Username:  username,
		FirstName: "Maria",
		LastName:  "Gomez",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, repository.NewAssignmentRepository(db).CreateSeller(context.Background(), s))
	return s
}

func seedLottery(t *testing.T, db *gorm.DB, lower, upper int, price int64) *model.Lottery {
	t.Helper()
	lottery, err := newLotteryService(db).CreateLottery(context.Background(), CreateLotteryInput{
		Name:             "Rifa de prueba",
		PricePerTicket:   price,
		LowerSeriesRange: lower,
		UpperSeriesRange: upper,
	})
	require.NoError(t, err)
	return lottery
}

func reserveTicket(t *testing.T, db *gorm.DB, lottery *model.Lottery, seller *model.Seller, number int, reference string) *model.ClientInfo {
	t.Helper()
	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	clients, err := svc.Reserve(context.Background(), lottery.ID, ReserveInput{
		TicketNumbers:     []int{number},
		Name:              "Carlos",
		Lastname:          "Restrepo",
		DocumentNumber:    "1098765432",
		Whatsapp:          "3001234567",
		City:              "Bucaramanga",
		SellerID:          seller.ID,
		PurchaseReference: reference,
	})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	return clients[0]
}

func ticketByNumber(t *testing.T, db *gorm.DB, lotteryID uint64, number int) *model.Ticket {
	t.Helper()
	ticket, err := repository.NewTicketRepository(db).GetByNumber(context.Background(), lotteryID, number)
	require.NoError(t, err)
	return ticket
}

func TestCreateLotteryMaterializesTickets(t *testing.T) {
	db := newTestDB(t)
	lottery := seedLottery(t, db, 0, 99, 50000)

	tickets := repository.NewTicketRepository(db)
	total, err := tickets.CountByLottery(context.Background(), lottery.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	available, err := tickets.ListAvailableNumbers(context.Background(), lottery.ID)
	require.NoError(t, err)
	assert.Len(t, available, 100)
	assert.Equal(t, 0, available[0])
	assert.Equal(t, 99, available[99])
}

func TestCreateLotteryRejectsInvertedRange(t *testing.T) {
	db := newTestDB(t)
	_, err := newLotteryService(db).CreateLottery(context.Background(), CreateLotteryInput{
		Name:             "Rifa rota",
		PricePerTicket:   50000,
		LowerSeriesRange: 10,
		UpperSeriesRange: 5,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestReserveMarksTicketReserved(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)

	client := reserveTicket(t, db, lottery, seller, 5, "ref-reserve-1")
	assert.Equal(t, "ref-reserve-1", client.PurchaseReference)
	assert.Equal(t, model.StateReserved, ticketByNumber(t, db, lottery.ID, 5).State)

	reservations, err := repository.NewReservationRepository(db).ReservationsByTicket(context.Background(), client.TicketID)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.True(t, reservations[0].Expiration.After(time.Now().Add(8*24*time.Hour)))
}

func TestReserveFailsWhenTicketTaken(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)
	reserveTicket(t, db, lottery, seller, 5, "ref-1")

	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	_, err := svc.Reserve(context.Background(), lottery.ID, ReserveInput{
		TicketNumbers:     []int{5},
		Name:              "Otra",
		Lastname:          "Persona",
		DocumentNumber:    "123",
		SellerID:          seller.ID,
		PurchaseReference: "ref-2",
	})
	require.ErrorIs(t, err, ErrTicketNotAvailable)
}

func TestReserveRollsBackWholeBatchOnConflict(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)
	reserveTicket(t, db, lottery, seller, 7, "ref-1")

	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	_, err := svc.Reserve(context.Background(), lottery.ID, ReserveInput{
		TicketNumbers:     []int{6, 7},
		Name:              "Otra",
		Lastname:          "Persona",
		DocumentNumber:    "123",
		SellerID:          seller.ID,
		PurchaseReference: "ref-2",
	})
	require.ErrorIs(t, err, ErrTicketNotAvailable)
	// Ticket 6 must have been released by the rollback.
	assert.Equal(t, model.StateAvailable, ticketByNumber(t, db, lottery.ID, 6).State)
}

func TestDeclineReleasesTicketForReReservation(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)
	client := reserveTicket(t, db, lottery, seller, 5, "ref-1")

	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	require.NoError(t, svc.Decline(context.Background(), client.ID))

	assert.Equal(t, model.StateAvailable, ticketByNumber(t, db, lottery.ID, 5).State)
	_, err := repository.NewClientRepository(db).GetClient(context.Background(), client.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	reserveTicket(t, db, lottery, seller, 5, "ref-3")
	assert.Equal(t, model.StateReserved, ticketByNumber(t, db, lottery.ID, 5).State)
}

func TestConfirmIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)
	client := reserveTicket(t, db, lottery, seller, 5, "ref-1")

	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	first, err := svc.Confirm(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePurchased, ticketByNumber(t, db, lottery.ID, 5).State)

	reservations, err := repository.NewReservationRepository(db).ReservationsByTicket(context.Background(), client.TicketID)
	require.NoError(t, err)
	assert.Empty(t, reservations, "confirm clears reservation rows")

	second, err := svc.Confirm(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeated confirm reuses the purchase record")
}

func TestDeclineAfterConfirmRollsBackPurchase(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)
	client := reserveTicket(t, db, lottery, seller, 5, "ref-1")

	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	_, err := svc.Confirm(context.Background(), client.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Decline(context.Background(), client.ID))
	assert.Equal(t, model.StateAvailable, ticketByNumber(t, db, lottery.ID, 5).State)

	_, err = repository.NewReservationRepository(db).GetPurchaseByTicket(context.Background(), client.TicketID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignRejectsOverlappingRangeOfOtherSeller(t *testing.T) {
	db := newTestDB(t)
	sellerA := seedSeller(t, db, "vendedorA", model.RoleSeller)
	sellerB := seedSeller(t, db, "vendedorB", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 100, 50000)

	svc := NewAllocationService(repository.NewAssignmentRepository(db), repository.NewTicketRepository(db), testLogger())
	start, end := 1, 50
	_, err := svc.Assign(context.Background(), AssignInput{
		LotteryID: lottery.ID, SellerID: sellerA.ID, StartNumber: &start, EndNumber: &end,
	})
	require.NoError(t, err)

	s2, e2 := 40, 60
	_, err = svc.Assign(context.Background(), AssignInput{
		LotteryID: lottery.ID, SellerID: sellerB.ID, StartNumber: &s2, EndNumber: &e2,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// The same seller may extend their own range.
	_, err = svc.Assign(context.Background(), AssignInput{
		LotteryID: lottery.ID, SellerID: sellerA.ID, StartNumber: &s2, EndNumber: &e2,
	})
	require.NoError(t, err)

	// Adjacent ranges of different sellers are fine.
	s3, e3 := 61, 100
	_, err = svc.Assign(context.Background(), AssignInput{
		LotteryID: lottery.ID, SellerID: sellerB.ID, StartNumber: &s3, EndNumber: &e3,
	})
	require.NoError(t, err)
}

func TestAssignRejectsDegenerateRange(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedorA", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 100, 50000)

	svc := NewAllocationService(repository.NewAssignmentRepository(db), repository.NewTicketRepository(db), testLogger())
	start, end := 10, 10
	_, err := svc.Assign(context.Background(), AssignInput{
		LotteryID: lottery.ID, SellerID: seller.ID, StartNumber: &start, EndNumber: &end,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAvailableTicketNumbers(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedorA", model.RoleSeller)
	admin := seedSeller(t, db, "admin", model.RoleSuperAdmin)
	lottery := seedLottery(t, db, 1, 10, 50000)

	svc := NewAllocationService(repository.NewAssignmentRepository(db), repository.NewTicketRepository(db), testLogger())
	start, end := 1, 5
	_, err := svc.Assign(context.Background(), AssignInput{
		LotteryID: lottery.ID, SellerID: seller.ID, StartNumber: &start, EndNumber: &end,
	})
	require.NoError(t, err)

	reserveTicket(t, db, lottery, seller, 3, "ref-1")

	numbers, err := svc.AvailableTicketNumbers(context.Background(), seller.ID, lottery.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 5}, numbers)

	// SUPERADMIN sees every available ticket regardless of assignments.
	numbers, err = svc.AvailableTicketNumbers(context.Background(), admin.ID, lottery.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 5, 6, 7, 8, 9, 10}, numbers)

	// A ticket being edited stays selectable even while reserved.
	editing := 3
	numbers, err = svc.AvailableTicketNumbers(context.Background(), seller.ID, lottery.ID, &editing)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers)
}

func TestAvailableTicketNumbersWithoutAssignments(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedorA", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)

	svc := NewAllocationService(repository.NewAssignmentRepository(db), repository.NewTicketRepository(db), testLogger())
	numbers, err := svc.AvailableTicketNumbers(context.Background(), seller.ID, lottery.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, numbers)
}

func TestRecordPaymentAndAmountDue(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 100)
	client := reserveTicket(t, db, lottery, seller, 5, "ref-1")

	svc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())

	_, err := svc.RecordPayment(context.Background(), client.ID, RecordPaymentInput{
		Amount:      decimal.NewFromInt(40),
		PaymentType: model.PaymentTypeBono1,
		Date:        time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.RecordPayment(context.Background(), client.ID, RecordPaymentInput{
		Amount:      decimal.RequireFromString("25.50"),
		PaymentType: model.PaymentTypeBono2,
		Date:        time.Now(),
	})
	require.NoError(t, err)

	balance, err := svc.ClientBalance(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "65.50", balance.StringFixed(2))

	due, err := svc.AmountDue(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "34.50", due.StringFixed(2))

	// Payments are not capped: overpaying drives the amount due negative.
	_, err = svc.RecordPayment(context.Background(), client.ID, RecordPaymentInput{
		Amount:      decimal.NewFromInt(50),
		PaymentType: model.PaymentTypeBono3,
		Date:        time.Now(),
	})
	require.NoError(t, err)
	due, err = svc.AmountDue(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "-15.50", due.StringFixed(2))
}

func TestRecordPaymentRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 100)
	client := reserveTicket(t, db, lottery, seller, 5, "ref-1")

	svc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	_, err := svc.RecordPayment(context.Background(), client.ID, RecordPaymentInput{
		Amount:      decimal.NewFromInt(10),
		PaymentType: "BONO9",
		Date:        time.Now(),
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSplitGatewayPayment(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 100)

	svc := NewPurchaseService(db, testLogger(), 9*24*time.Hour)
	clients, err := svc.Reserve(context.Background(), lottery.ID, ReserveInput{
		TicketNumbers:     []int{1, 2, 3},
		Name:              "Carlos",
		Lastname:          "Restrepo",
		DocumentNumber:    "1098765432",
		SellerID:          seller.ID,
		PurchaseReference: "ref-split",
	})
	require.NoError(t, err)
	require.Len(t, clients, 3)

	payments := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	created, err := payments.SplitGatewayPayment(context.Background(), "ref-split", 10000, "tx-1", "CARD", time.Now())
	require.NoError(t, err)
	require.Len(t, created, 3)

	assert.Equal(t, "33.33", created[0].Amount.StringFixed(2))
	assert.Equal(t, "33.33", created[1].Amount.StringFixed(2))
	assert.Equal(t, "33.34", created[2].Amount.StringFixed(2))
	for _, p := range created {
		assert.Equal(t, model.PaymentTypeBono1, p.PaymentType)
		assert.Equal(t, "tx-1", p.TransactionID)
		assert.Equal(t, "CARD", p.PaymentMethod)
		assert.Equal(t, "ref-split", p.PurchaseReference)
	}
}

func TestSplitGatewayPaymentNoClients(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	_, err := payments.SplitGatewayPayment(context.Background(), "ref-nadie", 10000, "tx-1", "CARD", time.Now())
	require.ErrorIs(t, err, ErrNoClientsForSplit)
}

func TestGenerateBalanceAndSellerBill(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 100)
	clientA := reserveTicket(t, db, lottery, seller, 3, "ref-a")
	clientB := reserveTicket(t, db, lottery, seller, 7, "ref-b")

	paymentSvc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, p := range []struct {
		clientID uint64
		amount   string
		date     time.Time
	}{
		{clientA.ID, "20.00", day},
		{clientA.ID, "30.00", day.Add(2 * time.Hour)},
		{clientB.ID, "50.00", day.Add(time.Hour)},
	} {
		_, err := paymentSvc.RecordPayment(context.Background(), p.clientID, RecordPaymentInput{
			Amount:      decimal.RequireFromString(p.amount),
			PaymentType: model.PaymentTypeBono1,
			Date:        p.date,
		})
		require.NoError(t, err)
	}

	billing := NewBillingService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	rows, err := billing.PaymentsByDates(context.Background(), seller.ID, []string{"2026-03-01"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	balance, err := billing.GenerateBalance(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, "100.00", balance.TotalAmount.StringFixed(2))
	require.Len(t, balance.Clients, 2)
	assert.Equal(t, "0003", balance.Clients[clientA.ID].TicketNumber)
	assert.Equal(t, "50.00", balance.Clients[clientA.ID].TotalAmount.StringFixed(2))
	assert.True(t, balance.Clients[clientA.ID].LastPaymentDate.Equal(day.Add(2*time.Hour)))

	bill, err := billing.GenerateSellerBill(context.Background(), seller.ID, balance)
	require.NoError(t, err)
	require.NotZero(t, bill.ID)

	serialized, err := billing.SerializeSellerBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, serialized.Seller.SellerID)
	assert.Equal(t, "100.00", serialized.TotalAmount.StringFixed(2))
	assert.Len(t, serialized.Balances, 2)
}

func TestPaymentsByDatesIgnoresOtherDays(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 100)
	client := reserveTicket(t, db, lottery, seller, 3, "ref-a")

	paymentSvc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	_, err := paymentSvc.RecordPayment(context.Background(), client.ID, RecordPaymentInput{
		Amount:      decimal.NewFromInt(10),
		PaymentType: model.PaymentTypeBono1,
		Date:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	billing := NewBillingService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	rows, err := billing.PaymentsByDates(context.Background(), seller.ID, []string{"2026-03-01"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTicketInfoMasksHolder(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 100)

	svc := newLotteryService(db)

	info, err := svc.TicketInfo(context.Background(), lottery.ID, 5)
	require.NoError(t, err)
	assert.True(t, info.IsAvailable)

	client := reserveTicket(t, db, lottery, seller, 5, "ref-1")
	paymentSvc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewClientRepository(db), testLogger())
	_, err = paymentSvc.RecordPayment(context.Background(), client.ID, RecordPaymentInput{
		Amount:      decimal.NewFromInt(25),
		PaymentType: model.PaymentTypeBono1,
		Date:        time.Now(),
	})
	require.NoError(t, err)

	info, err = svc.TicketInfo(context.Background(), lottery.ID, 5)
	require.NoError(t, err)
	assert.False(t, info.IsAvailable)
	assert.Equal(t, model.StateReserved, info.TicketState)
	assert.Equal(t, "Car*** Res*****", info.NameAndLastname)
	assert.Equal(t, "*******432", info.DocumentNumber)
	assert.Equal(t, 1, info.PaymentCount)
	assert.Equal(t, "25.00", info.TotalPayment.StringFixed(2))
}

func TestPrepareCheckout(t *testing.T) {
	db := newTestDB(t)
	seller := seedSeller(t, db, "vendedor1", model.RoleSeller)
	lottery := seedLottery(t, db, 1, 10, 50000)

	svc := newLotteryService(db)
	data, err := svc.PrepareCheckout(context.Background(), lottery.ID, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "pub_test_key", data.PublicKey)
	assert.Equal(t, int64(50000*2*100), data.AmountInCents)
	assert.Equal(t, "COP", data.Currency)
	assert.Len(t, data.PurchaseReference, 16)
	assert.Len(t, data.IntegritySignature, 64)
	assert.Equal(t, fmt.Sprintf("https://rifas.example.com/lottery/%d/payment_gateway", lottery.ID), data.RedirectURL)

	reserveTicket(t, db, lottery, seller, 2, "ref-1")
	_, err = svc.PrepareCheckout(context.Background(), lottery.ID, []int{1, 2})
	require.ErrorIs(t, err, ErrTicketNotAvailable)
}
