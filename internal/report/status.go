package report

import "strings"

// Status is one lifecycle stage of a Tarefa.
type Status string

const (
	StatusIniciado    Status = "Iniciado"
	StatusColeta      Status = "Coleta_de_Informações"
	StatusExecucao    Status = "Execucao"
	StatusAprovacao   Status = "Aprovação_Cliente"
	StatusProtocolado Status = "Protocolado"
	StatusConcluido   Status = "Concluído"
	StatusEncerrado   Status = "Encerrado"
)

// Taxonomy is a fixed, ordered set of statuses. Consumers that enumerate
// "all statuses" for grouping must use the taxonomy's order.
type Taxonomy []Status

// DefaultTaxonomy returns the canonical lifecycle in display order.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		StatusIniciado,
		StatusColeta,
		StatusExecucao,
		StatusAprovacao,
		StatusProtocolado,
		StatusConcluido,
		StatusEncerrado,
	}
}

// normalizeStatus folds the historical spacing variants: older records
// stored "Coleta de Informações" where newer ones use underscores.
func normalizeStatus(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}

// Resolve maps a raw status string onto its taxonomy entry. It returns
// false when the value does not match any entry after normalization.
func (t Taxonomy) Resolve(raw string) (Status, bool) {
	norm := normalizeStatus(raw)
	for _, s := range t {
		if normalizeStatus(string(s)) == norm {
			return s, true
		}
	}
	return "", false
}

// Contains reports whether raw resolves to any taxonomy entry.
func (t Taxonomy) Contains(raw string) bool {
	_, ok := t.Resolve(raw)
	return ok
}
