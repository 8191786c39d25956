package resources

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Resource struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UploaderID uuid.UUID  `gorm:"type:uuid;not null;index" json:"uploader_id"`
	SubjectID  *uuid.UUID `gorm:"type:uuid;index" json:"subject_id"`
	TopicID    *uuid.UUID `gorm:"type:uuid;index" json:"topic_id"`
	ChapterID  *uuid.UUID `gorm:"type:uuid;index" json:"chapter_id"`

	Title       string `gorm:"not null;column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	// Free text, conventionally comma separated.
	Tags       string `gorm:"column:tags" json:"tags"`
	Difficulty string `gorm:"not null;column:difficulty;default:'medium'" json:"difficulty"`

	Versions []ResourceVersion `gorm:"foreignKey:ResourceID;references:ID" json:"versions"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Resource) TableName() string { return "resource" }

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMedium
	}
	return nil
}

// ResourceVersion is immutable once stored, apart from the extraction fill-in.
type ResourceVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resource_version_number,priority:1" json:"resource_id"`
	VersionNumber int       `gorm:"not null;column:version_number;uniqueIndex:idx_resource_version_number,priority:2" json:"version_number"`

	StorageKey    string `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL       string `gorm:"column:file_url" json:"file"`
	OriginalName  string `gorm:"column:original_name" json:"original_name"`
	SizeBytes     int64  `gorm:"column:size_bytes" json:"size_bytes"`
	FileMime      string `gorm:"column:file_mime" json:"file_mime"`
	Notes         string `gorm:"column:notes" json:"notes"`
	ExtractedText string `gorm:"column:extracted_text" json:"extracted_text"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ResourceVersion) TableName() string { return "resource_version" }

func (v *ResourceVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
