package model

import "time"

// TipoServico represents a kind of service the company performs and the
// authority it is filed with
type TipoServico struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Nome      string    `json:"nome" gorm:"type:varchar(255);not null"`
	Orgao     *string   `json:"orgao,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
