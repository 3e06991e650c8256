package curriculum

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Exercise struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID uuid.UUID  `gorm:"type:uuid;column:lesson_id;not null;index:idx_exercise_lesson_id" json:"lesson_id"`
	FormatID uuid.UUID  `gorm:"type:uuid;column:format_id;not null" json:"format_id"`
	TypeID   *uuid.UUID `gorm:"type:uuid;column:type_id" json:"type_id,omitempty"`

	Question string `gorm:"column:question;type:text;not null" json:"question"`
	Solution string `gorm:"column:solution;type:text;not null" json:"solution"`
	Key      string `gorm:"column:key;type:text;not null" json:"key"`
	HasImage bool   `gorm:"column:has_image;not null;default:false" json:"has_image"`

	// Owned by the embedding backfill, never touched by import or merge.
	QuestionEmbedding *pgvector.Vector `gorm:"column:question_embedding;type:vector(1536)" json:"-"`

	// Provenance of the row as it arrived through bulk import.
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	// Populated by similarity search queries, not a real column.
	Distance *float64 `gorm:"->;-:migration" json:"distance,omitempty"`

	Lesson *Lesson       `gorm:"foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Format *Format       `gorm:"foreignKey:FormatID;references:ID" json:"format,omitempty"`
	Type   *ExerciseType `gorm:"foreignKey:TypeID;references:ID" json:"type,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	CreatedBy string         `gorm:"column:created_by;not null" json:"created_by"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	UpdatedBy string         `gorm:"column:updated_by;not null" json:"updated_by"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exercise) TableName() string { return "exercise" }
