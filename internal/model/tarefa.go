package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tarefa represents a billable service engagement tracked through a
// fixed lifecycle of statuses
type Tarefa struct {
	ID                uint             `json:"id" gorm:"primarykey"`
	ClienteID         uint             `json:"cliente_id" gorm:"index;not null"`
	Cliente           *Cliente         `json:"cliente,omitempty"`
	TipoServicoID     uint             `json:"tipo_servico_id" gorm:"index;not null"`
	TipoServico       *TipoServico     `json:"tipo_servico,omitempty"`
	Status            string           `json:"status" gorm:"type:varchar(50);index;not null"`
	DataInicio        time.Time        `json:"data_inicio"`
	PrazoFinal        *time.Time       `json:"prazo_final,omitempty"`
	ValorTotalServico *decimal.Decimal `json:"valor_total_servico,omitempty" gorm:"type:decimal(12,2)"`
	Observacoes       string           `json:"observacoes" gorm:"type:text"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`

	Etapas          []Etapa                 `json:"etapas,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	HistoricoStatus []HistoricoStatusTarefa `json:"historico_status,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Etapa is an ordered sub-step of a Tarefa
type Etapa struct {
	ID               uint       `json:"id" gorm:"primarykey"`
	TarefaID         uint       `json:"tarefa_id" gorm:"index;not null"`
	NomeEtapa        string     `json:"nome_etapa" gorm:"type:varchar(255);not null"`
	DataEtapa        *time.Time `json:"data_etapa,omitempty"`
	StatusEtapa      bool       `json:"status_etapa" gorm:"default:false"`
	ObservacoesEtapa string     `json:"observacoes_etapa" gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HistoricoStatusTarefa records each status transition of a Tarefa
type HistoricoStatusTarefa struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	TarefaID    uint      `json:"tarefa_id" gorm:"index;not null"`
	Status      string    `json:"status" gorm:"type:varchar(50);not null"`
	DataMudanca time.Time `json:"data_mudanca" gorm:"autoCreateTime"`
}
