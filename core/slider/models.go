package slider

import "time"

type Slider struct {
	ID        string    `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"` // UTC
}
