package model

import "time"

// TicketReservation marks a ticket as reserved and awaiting settlement. It
// replaces the legacy pair of parallel "reserved" and "pending purchase"
// records with a single row carrying the shared expiration. The expiration is
// informational: nothing reverts expired reservations automatically.
type TicketReservation struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	TicketID          uint64    `gorm:"column:ticket_id;type:bigint;not null;index"`
	ClientID          uint64    `gorm:"column:client_id;type:bigint;not null;index"`
	Expiration        time.Time `gorm:"column:expiration;type:timestamp;not null"`
	PurchaseReference string    `gorm:"column:purchase_reference;type:varchar(200)"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`

	Ticket *Ticket     `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Client *ClientInfo `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

func (TicketReservation) TableName() string { return "ticket_reservations" }

// TicketPurchased is the terminal purchase record. At most one exists per
// (ticket, client, purchase_reference); confirming a purchase again is a
// no-op on this table.
type TicketPurchased struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	TicketID          uint64    `gorm:"column:ticket_id;type:bigint;not null;index"`
	ClientID          uint64    `gorm:"column:client_id;type:bigint;not null;index"`
	TransactionID     string    `gorm:"column:transaction_id;type:varchar(200);default:''"`
	PurchaseReference string    `gorm:"column:purchase_reference;type:varchar(200)"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`

	Ticket *Ticket     `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Client *ClientInfo `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

func (TicketPurchased) TableName() string { return "tickets_purchased" }
