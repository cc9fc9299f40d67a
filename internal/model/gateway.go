package model

import (
	"time"

	"gorm.io/datatypes"
)

// GatewayEvent is an audit row for every webhook delivery from the payment
// gateway, keeping the raw payload alongside the processing outcome.
type GatewayEvent struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	EventType      string         `gorm:"column:event_type;type:varchar(64);not null"`
	TransactionID  string         `gorm:"column:transaction_id;type:varchar(200);index"`
	Reference      string         `gorm:"column:reference;type:varchar(200);index"`
	Status         string         `gorm:"column:status;type:varchar(32)"`
	SignatureValid bool           `gorm:"column:signature_valid;type:boolean;default:false"`
	Outcome        string         `gorm:"column:outcome;type:varchar(200)"`
	Payload        datatypes.JSON `gorm:"column:payload;not null"`
	ReceivedAt     time.Time      `gorm:"column:received_at;type:timestamp;default:now()"`
}

func (GatewayEvent) TableName() string { return "gateway_events" }
