package model

import "time"

// Licenca represents a license held by a client, tracked for expiry
type Licenca struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	ClienteID  uint      `json:"cliente_id" gorm:"index;not null"`
	Cliente    *Cliente  `json:"cliente,omitempty"`
	Nome       string    `json:"nome" gorm:"type:varchar(255);not null"`
	Validade   time.Time `json:"validade" gorm:"index"`
	Observacao string    `json:"observacao" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
