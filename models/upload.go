package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type UploadKind string

const (
	UploadEmployees UploadKind = "employees"
	UploadPayroll   UploadKind = "payroll"
)

func (k UploadKind) Valid() bool {
	return k == UploadEmployees || k == UploadPayroll
}

type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadCommitted UploadStatus = "committed"
)

// Upload is one bulk-upload batch: the raw rows as received plus the
// latest valid/error partition. Result is replaced wholesale on every
// re-validation pass, never merged.
type Upload struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
	Kind      UploadKind      `gorm:"not null;size:20" json:"kind"`
	Status    UploadStatus    `gorm:"not null;size:20;default:pending" json:"status"`
	CreatedBy uint            `gorm:"not null" json:"created_by"`
	Creator   User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	RowCount  int             `gorm:"not null" json:"row_count"`
	Rows      json.RawMessage `gorm:"type:jsonb;not null" json:"rows"`
	Result    json.RawMessage `gorm:"type:jsonb;not null" json:"result"`
}
