package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellerBill is a point-in-time settlement snapshot of a seller's collected
// payments. Generating a bill does not mark the underlying payments as
// settled.
type SellerBill struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	SellerID       uint64          `gorm:"column:seller_id;type:bigint;not null;index"`
	GenerationDate time.Time       `gorm:"column:generation_date;type:timestamp;not null"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`

	Seller   *Seller                      `gorm:"foreignKey:SellerID"`
	Balances []ClientTicketPaymentBalance `gorm:"foreignKey:SellerBillID"`
}

func (SellerBill) TableName() string { return "seller_bills" }

// ClientTicketPaymentBalance is one balance line of a seller bill.
type ClientTicketPaymentBalance struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	SellerBillID    uint64          `gorm:"column:seller_bill_id;type:bigint;not null;index"`
	ClientID        uint64          `gorm:"column:client_id;type:bigint;not null"`
	TicketNumber    string          `gorm:"column:ticket_number;type:varchar(8);not null"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`
	LastPaymentDate time.Time       `gorm:"column:last_payment_date;type:timestamp;not null"`

	SellerBill *SellerBill `gorm:"foreignKey:SellerBillID;constraint:OnDelete:CASCADE"`
}

func (ClientTicketPaymentBalance) TableName() string { return "client_ticket_payment_balances" }
