package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Textbook struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name    string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	GradeID uuid.UUID `gorm:"type:uuid;column:grade_id;not null;index:idx_textbook_grade_id" json:"grade_id"`
	Grade   *Grade    `gorm:"foreignKey:GradeID;references:ID" json:"grade,omitempty"`

	Units []*Unit `gorm:"foreignKey:TextbookID;references:ID" json:"units,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	CreatedBy string         `gorm:"column:created_by;not null" json:"created_by"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	UpdatedBy string         `gorm:"column:updated_by;not null" json:"updated_by"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Textbook) TableName() string { return "textbook" }
