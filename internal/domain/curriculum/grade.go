package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Grade struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;type:varchar(255);not null" json:"name"`

	Textbooks []*Textbook `gorm:"foreignKey:GradeID;references:ID" json:"textbooks,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	CreatedBy string         `gorm:"column:created_by;not null" json:"created_by"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	UpdatedBy string         `gorm:"column:updated_by;not null" json:"updated_by"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Grade) TableName() string { return "grade" }
