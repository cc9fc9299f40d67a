package model

import "time"

// Lottery is a single raffle event with a numbered ticket pool and up to four
// candidate draw dates.
type Lottery struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string     `gorm:"column:name;type:varchar(200);not null"`
	Description      string     `gorm:"column:description;type:text"`
	LotteryDate1     *time.Time `gorm:"column:lottery_date_1;type:timestamp"`
	LotteryDate2     *time.Time `gorm:"column:lottery_date_2;type:timestamp"`
	LotteryDate3     *time.Time `gorm:"column:lottery_date_3;type:timestamp"`
	LotteryDate4     *time.Time `gorm:"column:lottery_date_4;type:timestamp"`
	PricePerTicket   int64      `gorm:"column:price_per_ticket;type:bigint;not null"`
	LowerSeriesRange int        `gorm:"column:lower_series_range;type:int;not null"`
	UpperSeriesRange int        `gorm:"column:upper_series_range;type:int;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (Lottery) TableName() string { return "lotteries" }

// FutureDates returns the candidate draw dates that are not in the past.
func (l *Lottery) FutureDates(now time.Time) []time.Time {
	var dates []time.Time
	for _, d := range []*time.Time{l.LotteryDate1, l.LotteryDate2, l.LotteryDate3, l.LotteryDate4} {
		if d != nil && !d.Before(now) {
			dates = append(dates, *d)
		}
	}
	return dates
}

// NearestDate returns the future draw date closest to now, or nil when every
// date has passed.
func (l *Lottery) NearestDate(now time.Time) *time.Time {
	dates := l.FutureDates(now)
	if len(dates) == 0 {
		return nil
	}
	nearest := dates[0]
	for _, d := range dates[1:] {
		if d.Sub(now) < nearest.Sub(now) {
			nearest = d
		}
	}
	return &nearest
}

// Ticket is one numbered unit of a raffle. Tickets are created when the
// lottery is created and are never deleted while the lottery exists.
type Ticket struct {
	ID        uint64      `gorm:"column:id;primaryKey;autoIncrement"`
	LotteryID uint64      `gorm:"column:lottery_id;type:bigint;not null;uniqueIndex:uk_lottery_number"`
	Number    int         `gorm:"column:number;type:int;not null;uniqueIndex:uk_lottery_number"`
	State     TicketState `gorm:"column:state;type:int;not null;default:1"`

	Lottery *Lottery `gorm:"foreignKey:LotteryID;constraint:OnDelete:CASCADE"`
}

func (Ticket) TableName() string { return "tickets" }
