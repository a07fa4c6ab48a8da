package entries

import "time"

type Entry struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index:idx_entries_user_id"`

	Content  string  `gorm:"type:text;not null"`
	ImageURL *string `gorm:"column:image_url"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
