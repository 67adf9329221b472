package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Suporte represents a billable support interaction, billed by
// hourly rate times duration
type Suporte struct {
	ID           uint             `json:"id" gorm:"primarykey"`
	ClienteID    uint             `json:"cliente_id" gorm:"index;not null"`
	Cliente      *Cliente         `json:"cliente,omitempty"`
	Descricao    string           `json:"descricao" gorm:"type:text;not null"`
	ValorHora    *decimal.Decimal `json:"valor_hora,omitempty" gorm:"type:decimal(12,2)"`
	DataSuporte  time.Time        `json:"data_suporte" gorm:"index"`
	HoraInicio   time.Time        `json:"hora_inicio"`
	HoraFim      *time.Time       `json:"hora_fim,omitempty"`
	TempoSuporte *decimal.Decimal `json:"tempo_suporte,omitempty" gorm:"type:decimal(8,2)"`
	ValorTotal   *decimal.Decimal `json:"valor_total,omitempty" gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ComputeDerived fills TempoSuporte and ValorTotal from the time window
// and hourly rate. Duration is clamped to zero when hora_fim precedes
// hora_inicio.
func (s *Suporte) ComputeDerived() {
	if s.HoraFim == nil {
		return
	}

	hours := s.HoraFim.Sub(s.HoraInicio).Hours()
	if hours < 0 {
		hours = 0
	}
	tempo := decimal.NewFromFloat(hours).Round(2)
	s.TempoSuporte = &tempo

	if s.ValorHora != nil {
		total := s.ValorHora.Mul(tempo).Round(2)
		s.ValorTotal = &total
	}
}
