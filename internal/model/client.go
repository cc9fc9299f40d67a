package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientInfo is one purchase attempt: the purchaser's identity bound to the
// ticket they are buying and the seller who sold it. A new row is created per
// attempt; rows are not reused across purchases by the same person.
type ClientInfo struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	LotteryID         uint64    `gorm:"column:lottery_id;type:bigint;not null"`
	TicketID          uint64    `gorm:"column:ticket_id;type:bigint;not null"`
	SellerID          uint64    `gorm:"column:seller_id;type:bigint;not null"`
	Name              string    `gorm:"column:name;type:varchar(32);not null"`
	Lastname          string    `gorm:"column:lastname;type:varchar(32);not null"`
	DocumentNumber    string    `gorm:"column:document_number;type:varchar(32);not null"`
	Whatsapp          string    `gorm:"column:whatsapp;type:varchar(15)"`
	Telephone         string    `gorm:"column:telephone;type:varchar(15)"`
	City              string    `gorm:"column:city;type:varchar(32)"`
	PurchaseReference string    `gorm:"column:purchase_reference;type:varchar(200);index"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`

	Lottery *Lottery `gorm:"foreignKey:LotteryID;constraint:OnDelete:CASCADE"`
	Ticket  *Ticket  `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Seller  *Seller  `gorm:"foreignKey:SellerID"`
}

func (ClientInfo) TableName() string { return "clients" }

// Payment installment types. Up to three tracked installments per client.
const (
	PaymentTypeBono1 = "BONO1"
	PaymentTypeBono2 = "BONO2"
	PaymentTypeBono3 = "BONO3"
)

// Payment is one partial payment (abono) toward a client's ticket. Cumulative
// payments are not capped at the ticket price.
type Payment struct {
	ID                uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	SellerID          uint64          `gorm:"column:seller_id;type:bigint;not null;index"`
	ClientID          uint64          `gorm:"column:client_id;type:bigint;not null;index"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PaymentMethod     string          `gorm:"column:payment_method;type:varchar(32);default:''"`
	PaymentType       string          `gorm:"column:payment_type;type:varchar(5);not null"`
	Date              time.Time       `gorm:"column:date;type:timestamp;not null"`
	TransactionID     string          `gorm:"column:transaction_id;type:varchar(200)"`
	PurchaseReference string          `gorm:"column:purchase_reference;type:varchar(200)"`

	Seller *Seller     `gorm:"foreignKey:SellerID"`
	Client *ClientInfo `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

func (Payment) TableName() string { return "payments" }
