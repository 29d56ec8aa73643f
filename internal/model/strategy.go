package model

import (
	"time"

	"gorm.io/datatypes"
)

// Strategy is a saved user strategy with the win rate it achieved on the
// backtest that accompanied the save.
type Strategy struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Code      string         `gorm:"not null" json:"code"`
	WinRate   float64        `gorm:"not null" json:"win_rate"`
	Summary   datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Strategy) TableName() string {
	return "strategies"
}
