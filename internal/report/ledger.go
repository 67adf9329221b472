package report

import (
	"fmt"
	"time"

	"gestao-service/internal/model"

	"github.com/shopspring/decimal"
)

// RowKind tags the source entity of a ledger row.
type RowKind string

const (
	RowTarefa  RowKind = "Tarefa"
	RowSuporte RowKind = "Suporte"
)

// Row is the normalized projection of a Tarefa or Suporte used by the
// combined financial report. The aggregator only sees this shape;
// entity-specific formatting lives in the mapping functions.
type Row struct {
	Kind    RowKind
	ID      uint
	Label   string
	Cliente string
	CNPJ    string
	Date    time.Time
	Prazo   *time.Time
	Amount  *decimal.Decimal
}

// Ledger is the merged financial listing with its totals.
type Ledger struct {
	Rows          []Row
	TotalTarefas  decimal.Decimal
	TotalSuportes decimal.Decimal
	TotalGeral    decimal.Decimal
}

// TarefaRow projects a service engagement onto the ledger shape.
func TarefaRow(t model.Tarefa) Row {
	label := fmt.Sprintf("Tarefa %d", t.ID)
	if t.TipoServico != nil {
		label += " - " + t.TipoServico.Nome
		if t.TipoServico.Orgao != nil && *t.TipoServico.Orgao != "" {
			label += " - " + *t.TipoServico.Orgao
		}
	}

	row := Row{
		Kind:   RowTarefa,
		ID:     t.ID,
		Label:  label,
		Date:   t.DataInicio,
		Prazo:  t.PrazoFinal,
		Amount: t.ValorTotalServico,
	}
	if t.Cliente != nil {
		row.Cliente = t.Cliente.Nome
		row.CNPJ = t.Cliente.CNPJ
	}
	return row
}

// SuporteRow projects a support ticket onto the ledger shape.
func SuporteRow(s model.Suporte) Row {
	row := Row{
		Kind:   RowSuporte,
		ID:     s.ID,
		Label:  "Suporte - " + s.Descricao,
		Date:   s.DataSuporte,
		Amount: s.ValorTotal,
	}
	if s.Cliente != nil {
		row.Cliente = s.Cliente.Nome
		row.CNPJ = s.Cliente.CNPJ
	}
	return row
}

// BuildLedger merges tasks and support tickets into one financial
// listing. When incluirSuportes is false, support rows are excluded from
// the listing and from every total, so all output formats generated from
// one request agree. Missing values count as zero.
func BuildLedger(tarefas []model.Tarefa, suportes []model.Suporte, incluirSuportes bool) Ledger {
	ledger := Ledger{
		Rows:          make([]Row, 0, len(tarefas)+len(suportes)),
		TotalTarefas:  decimal.Zero,
		TotalSuportes: decimal.Zero,
	}

	for _, t := range tarefas {
		row := TarefaRow(t)
		ledger.Rows = append(ledger.Rows, row)
		if row.Amount != nil {
			ledger.TotalTarefas = ledger.TotalTarefas.Add(*row.Amount)
		}
	}

	if incluirSuportes {
		for _, s := range suportes {
			row := SuporteRow(s)
			ledger.Rows = append(ledger.Rows, row)
			if row.Amount != nil {
				ledger.TotalSuportes = ledger.TotalSuportes.Add(*row.Amount)
			}
		}
	}

	ledger.TotalGeral = ledger.TotalTarefas.Add(ledger.TotalSuportes)
	return ledger
}
