package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SettlementRecord is the immutable, append-only audit record of one
// screenshot settlement.
type SettlementRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Uploader string    `gorm:"index" json:"uploader"`
	Guild    string    `gorm:"index" json:"guild"`

	Kills    int `json:"kills"`
	Deaths   int `json:"deaths"`
	Mistakes int `json:"mistakes"`

	Money int64 `json:"money"`

	// Mode is the game mode the screenshot settled (搶旗 / 槍戰區 / PK).
	Mode string `json:"mode"`

	DeathBonusCount int   `json:"death_bonus_count"`
	DeathBonusMoney int64 `json:"death_bonus_money"`

	// BankAccount is the 5-digit transfer account the reward is paid to.
	BankAccount string `json:"bank_account"`

	ImageURL string `json:"image_url"`

	// Details keeps the per-run breakdown (policy name, event count,
	// month key) for auditing.
	Details datatypes.JSON `json:"details"`

	CreatedAt time.Time `json:"created_at"`
}
