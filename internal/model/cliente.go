package model

import (
	"time"
)

// Cliente represents a client of the service company
type Cliente struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Nome         string    `json:"nome" gorm:"type:varchar(255);not null"`
	RazaoSocial  string    `json:"razao_social" gorm:"type:varchar(255)"`
	CNPJ         string    `json:"cnpj" gorm:"type:varchar(18);index"`
	Telefone     string    `json:"telefone" gorm:"type:varchar(20)"`
	Email        string    `json:"email" gorm:"type:varchar(100)"`
	Endereco     string    `json:"endereco" gorm:"type:text"`
	DataCadastro time.Time `json:"data_cadastro" gorm:"autoCreateTime"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Client deletion cascades to everything the client owns.
	Tarefas  []Tarefa  `json:"tarefas,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Suportes []Suporte `json:"suportes,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Licencas []Licenca `json:"licencas,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
