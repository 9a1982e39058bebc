package vault

import (
	"time"

	"gorm.io/datatypes"
)

type TokenRecord struct {
	Token     string         `gorm:"primaryKey;column:token" json:"token"`
	Value     string         `gorm:"column:value;index" json:"value"`
	Strategy  string         `gorm:"column:strategy" json:"strategy"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (TokenRecord) TableName() string {
	return "token_vault"
}
