package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avilamfg/exhibit-backend/pkg/enums"
)

// Media captures metadata for objects uploaded to the storage bucket.
type Media struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID   *uuid.UUID      `gorm:"column:admin_id;type:uuid"`
	Kind      enums.MediaKind `gorm:"column:kind;not null"`
	ObjectKey string          `gorm:"column:object_key;not null;unique"`
	FileName  string          `gorm:"column:file_name;not null"`
	MimeType  string          `gorm:"column:mime_type;not null"`
	SizeBytes int64           `gorm:"column:size_bytes;not null"`
	URL       *string         `gorm:"column:url"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
