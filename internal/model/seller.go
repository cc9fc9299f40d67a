package model

import "time"

// Seller roles. SUPERADMIN bypasses ticket assignment restrictions.
const (
	RoleSeller     = "VENDEDOR"
	RoleSuperAdmin = "SUPERADMIN"
)

// Seller is a back-office user authorized to sell tickets.
type Seller struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Username       string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	FirstName      string    `gorm:"column:first_name;type:varchar(64);not null"`
	LastName       string    `gorm:"column:last_name;type:varchar(64);not null"`
	Role           string    `gorm:"column:role;type:varchar(20);default:'VENDEDOR'"`
	DocumentNumber string    `gorm:"column:document_number;type:varchar(50)"`
	CityResidence  string    `gorm:"column:city_residence;type:varchar(32)"`
	Whatsapp       string    `gorm:"column:whatsapp;type:varchar(15)"`
	IsActive       bool      `gorm:"column:is_active;type:boolean;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (Seller) TableName() string { return "sellers" }

// IsSuperAdmin reports whether the seller sees every ticket regardless of
// assignments.
func (s *Seller) IsSuperAdmin() bool { return s.Role == RoleSuperAdmin }

// PaymentContact is a storefront contact shown on the pending-purchase page.
type PaymentContact struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name;type:varchar(32);not null"`
	Whatsapp string `gorm:"column:whatsapp;type:varchar(32)"`
	Email    string `gorm:"column:email;type:varchar(32)"`
}

func (PaymentContact) TableName() string { return "payment_contacts" }

// SiteWhatsapp is the client-facing contact number; the newest row wins.
type SiteWhatsapp struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Whatsapp string `gorm:"column:whatsapp;type:varchar(32);not null"`
}

func (SiteWhatsapp) TableName() string { return "site_whatsapp" }
