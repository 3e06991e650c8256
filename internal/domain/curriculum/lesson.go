package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name   string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	UnitID uuid.UUID `gorm:"type:uuid;column:unit_id;not null;index:idx_lesson_unit_id" json:"unit_id"`
	Unit   *Unit     `gorm:"foreignKey:UnitID;references:ID" json:"unit,omitempty"`

	ExerciseTypes []*ExerciseType `gorm:"foreignKey:LessonID;references:ID" json:"exercise_types,omitempty"`
	Exercises     []*Exercise     `gorm:"foreignKey:LessonID;references:ID" json:"exercises,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	CreatedBy string         `gorm:"column:created_by;not null" json:"created_by"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	UpdatedBy string         `gorm:"column:updated_by;not null" json:"updated_by"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
