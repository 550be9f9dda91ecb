package models

import "time"

// Notification is a generic envelope: type names the originating event
// (comment, like, follow) and entity_id points at the related record.
type Notification struct {
	NotificationID string    `gorm:"column:notification_id;primaryKey;size:36" json:"notification_id"`
	UserID         string    `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	Type           string    `gorm:"column:type;size:50;not null" json:"type"`
	EntityID       *string   `gorm:"column:entity_id;size:36" json:"entity_id"`
	Message        string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	IsRead         bool      `gorm:"column:is_read;default:false" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
