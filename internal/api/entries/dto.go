package entries

import (
	"strings"
	"time"

	"pixeljournal/internal/domain/entries"
)

// entryInput accepts both the canonical "content" field and the legacy
// "entry_text" name some clients still send. NormalizedContent is the only
// representation the rest of the code sees.
type entryInput struct {
	Content   string `json:"content"`
	EntryText string `json:"entry_text"`
}

func (in entryInput) NormalizedContent() string {
	if s := strings.TrimSpace(in.Content); s != "" {
		return s
	}
	return strings.TrimSpace(in.EntryText)
}

type EntryDTO struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toEntryDTO(e entries.Entry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		Content:   e.Content,
		ImageURL:  e.ImageURL,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
