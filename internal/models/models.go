package models

import "time"

// ItemStatus tracks a content item through the publish pipeline.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"   // waiting for a slot
	ItemScheduled ItemStatus = "scheduled" // committed on the platform
	ItemPublished ItemStatus = "published" // platform has made it public
)

// Channel is a publishing destination with its own calendar window.
type Channel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Name          string `gorm:"uniqueIndex"`
	Description   string `gorm:"type:text"`
	Timezone      string `gorm:"type:varchar(64)"`
	StartHour     int
	EndHour       int
	IntervalHours int
	Active        bool `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ContentItem is a finished piece of content awaiting a publish slot. The
// media itself lives on the platform already (uploaded private); ExternalID
// is the platform's identifier used when committing the slot.
type ContentItem struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	ChannelID  string     `gorm:"type:uuid;index"`
	Title      string     `gorm:"index"`
	ExternalID string     `gorm:"index"`
	Status     ItemStatus `gorm:"type:varchar(16);index;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScheduleAssignment records one committed publish slot. Assignments are an
// audit trail, not scheduler state: every allocation run starts from a fresh
// reservation snapshot.
type ScheduleAssignment struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	BatchID     string    `gorm:"type:uuid;index"`
	ChannelID   string    `gorm:"type:uuid;index"`
	ItemID      string    `gorm:"type:uuid;index"`
	PublishAt   time.Time `gorm:"index"`
	CommittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
