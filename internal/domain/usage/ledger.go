// Package usage is the append-only ledger of billable actions. The trailing
// 7-day count it produces is the source of truth for free-tier quota checks.
package usage

import (
	"time"

	"gorm.io/gorm"
)

const (
	ActionImageGenerated      = "image_generated"
	ActionCloudImageGenerated = "cloud_image_generated"
)

// QuotaActions are the tags that count toward the weekly image limit. The
// limit is "images produced", regardless of which path produced them.
var QuotaActions = []string{ActionImageGenerated, ActionCloudImageGenerated}

// Window is the trailing quota window.
const Window = 7 * 24 * time.Hour

type UsageEvent struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index:idx_usage_tracking_user_created,priority:1"`
	Action string `gorm:"not null"`

	CreatedAt time.Time `gorm:"index:idx_usage_tracking_user_created,priority:2"`
}

func (UsageEvent) TableName() string { return "usage_tracking" }

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Ledger struct {
	db    *gorm.DB
	clock Clock
}

func NewLedger(db *gorm.DB, clock Clock) *Ledger {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Ledger{db: db, clock: clock}
}

// Record appends one immutable fact. Call it only after the billable action
// actually succeeded; a failed generation must never consume quota.
func (l *Ledger) Record(userID uint, action string) error {
	ev := UsageEvent{
		UserID:    userID,
		Action:    action,
		CreatedAt: l.clock.Now(),
	}
	return l.db.Create(&ev).Error
}

// CountThisWeek counts events for the user whose action is in actions and
// whose timestamp is within the trailing window. The window start is
// inclusive and computed at call time, never cached.
func (l *Ledger) CountThisWeek(userID uint, actions []string) (int, error) {
	windowStart := l.clock.Now().Add(-Window)

	var n int64
	err := l.db.Model(&UsageEvent{}).
		Where("user_id = ? AND action IN ? AND created_at >= ?", userID, actions, windowStart).
		Count(&n).Error
	return int(n), err
}
