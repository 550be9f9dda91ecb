package models

import "time"

type Collection struct {
	CollectionID string    `gorm:"column:collection_id;primaryKey;size:36" json:"collection_id"`
	UserID       string    `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	Name         string    `gorm:"column:name;size:255;not null" json:"name"`
	Description  *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Collection) TableName() string {
	return "collections"
}

type CollectionImage struct {
	CollectionID string `gorm:"column:collection_id;primaryKey;size:36" json:"collection_id"`
	ImageID      string `gorm:"column:image_id;primaryKey;size:36" json:"image_id"`
}

func (CollectionImage) TableName() string {
	return "collection_images"
}
