package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Unit struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	TextbookID uuid.UUID `gorm:"type:uuid;column:textbook_id;not null;index:idx_unit_textbook_id" json:"textbook_id"`
	Textbook   *Textbook `gorm:"foreignKey:TextbookID;references:ID" json:"textbook,omitempty"`

	Lessons []*Lesson `gorm:"foreignKey:UnitID;references:ID" json:"lessons,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	CreatedBy string         `gorm:"column:created_by;not null" json:"created_by"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	UpdatedBy string         `gorm:"column:updated_by;not null" json:"updated_by"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Unit) TableName() string { return "unit" }
