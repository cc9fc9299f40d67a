package repository

import (
	"context"

	"rifadesk/internal/model"

	"gorm.io/gorm"
)

// LotteryRepository persists lotteries and their ticket pools.
type LotteryRepository interface {
	CreateLotteryWithTickets(ctx context.Context, lottery *model.Lottery) error
	GetLottery(ctx context.Context, id uint64) (*model.Lottery, error)
	LatestLottery(ctx context.Context) (*model.Lottery, error)
}

// TicketRepository persists tickets. State writes happen only through the
// conditional update so concurrent reservations cannot both succeed.
type TicketRepository interface {
	GetByNumber(ctx context.Context, lotteryID uint64, number int) (*model.Ticket, error)
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	CountByLottery(ctx context.Context, lotteryID uint64) (int64, error)
	ListAvailableNumbers(ctx context.Context, lotteryID uint64) ([]int, error)
	RandomAvailable(ctx context.Context, lotteryID uint64) (*model.Ticket, error)
	// CompareAndSetState moves the ticket from one state to another and
	// reports whether the row was actually in the expected state.
	CompareAndSetState(ctx context.Context, ticketID uint64, from, to model.TicketState) (bool, error)
}

type lotteryRepository struct {
	db *gorm.DB
}

// NewLotteryRepository creates a lottery repository.
func NewLotteryRepository(db *gorm.DB) LotteryRepository {
	return &lotteryRepository{db: db}
}

// NewTicketRepository creates a ticket repository.
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &lotteryRepository{db: db}
}

func (r *lotteryRepository) CreateLotteryWithTickets(ctx context.Context, lottery *model.Lottery) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lottery).Error; err != nil {
			return err
		}
		tickets := make([]model.Ticket, 0, lottery.UpperSeriesRange-lottery.LowerSeriesRange+1)
		for number := lottery.LowerSeriesRange; number <= lottery.UpperSeriesRange; number++ {
			tickets = append(tickets, model.Ticket{
				LotteryID: lottery.ID,
				Number:    number,
				State:     model.StateAvailable,
			})
		}
		return tx.CreateInBatches(tickets, 500).Error
	})
}

func (r *lotteryRepository) GetLottery(ctx context.Context, id uint64) (*model.Lottery, error) {
	var l model.Lottery
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lotteryRepository) LatestLottery(ctx context.Context) (*model.Lottery, error) {
	var l model.Lottery
	if err := r.db.WithContext(ctx).Order("id DESC").First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lotteryRepository) GetByNumber(ctx context.Context, lotteryID uint64, number int) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).
		Where("lottery_id = ? AND number = ?", lotteryID, number).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *lotteryRepository) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *lotteryRepository) CountByLottery(ctx context.Context, lotteryID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("lottery_id = ?", lotteryID).
		Count(&total).Error
	return total, err
}

func (r *lotteryRepository) ListAvailableNumbers(ctx context.Context, lotteryID uint64) ([]int, error) {
	var numbers []int
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("lottery_id = ? AND state = ?", lotteryID, model.StateAvailable).
		Order("number ASC").
		Pluck("number", &numbers).Error
	return numbers, err
}

func (r *lotteryRepository) RandomAvailable(ctx context.Context, lotteryID uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).
		Where("lottery_id = ? AND state = ?", lotteryID, model.StateAvailable).
		Order("RANDOM()").
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *lotteryRepository) CompareAndSetState(ctx context.Context, ticketID uint64, from, to model.TicketState) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND state = ?", ticketID, from).
		Update("state", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
