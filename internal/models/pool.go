package models

import "time"

// MonthlyPool is the shared reward pool for one YYYY-MM month. Rows are
// created lazily on the first contribution of a month and only ever grow,
// except for an explicit administrative draw.
type MonthlyPool struct {
	Month       string    `gorm:"primaryKey;size:7" json:"month"`
	TotalAmount int64     `json:"total_amount"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PoolContribution is one player's accumulated ticket count for a month.
// Tickets weight the monthly prize draw.
type PoolContribution struct {
	Month      string    `gorm:"primaryKey;size:7" json:"month"`
	PlayerName string    `gorm:"primaryKey" json:"player_name"`
	Tickets    int       `json:"tickets"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PoolDraw records the winner of a month's draw. Re-drawing a month
// overwrites the previous result, as the operators expect.
type PoolDraw struct {
	Month   string    `gorm:"primaryKey;size:7" json:"month"`
	Winner  string    `json:"winner"`
	Amount  int64     `json:"amount"`
	DrawnAt time.Time `json:"drawn_at"`
}
