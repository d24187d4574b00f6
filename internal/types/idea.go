package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Idea is one persisted submission plus the evaluation envelope the gateway
// returned for it. The evaluation column is schemaless on purpose; only the
// client projects it into a typed view. JSON names match the original API
// (_id, user, createdAt).
type Idea struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"_id"`
	UserID     uuid.UUID      `gorm:"index;not null;column:user_id" json:"user"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title      string         `gorm:"not null;column:title" json:"title"`
	Evaluation datatypes.JSON `gorm:"column:evaluation" json:"evaluation"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Idea) TableName() string {
	return "idea"
}
