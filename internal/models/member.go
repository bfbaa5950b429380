package models

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Guild     string    `gorm:"index" json:"guild"`
	CreatedAt time.Time `json:"created_at"`
}
