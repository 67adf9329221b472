package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestToExcelWritesSheets(t *testing.T) {
	data, err := ToExcel([]Sheet{
		{
			Name:   "Tarefas",
			Header: []string{"ID", "Cliente", "Valor"},
			Rows: [][]any{
				{1, "ACME Ltda", "R$ 100,00"},
				{2, "Beta ME", "R$ 50,00"},
			},
		},
		{
			Name:   "Suportes",
			Header: []string{"ID", "Descrição"},
			Rows:   [][]any{{1, "Certificado"}},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Tarefas", "Suportes"}, f.GetSheetList())

	rows, err := f.GetRows("Tarefas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Cliente", "Valor"}, rows[0])
	assert.Equal(t, "ACME Ltda", rows[1][1])
}

func TestToExcelNoSheets(t *testing.T) {
	_, err := ToExcel(nil)
	assert.Error(t, err)
}

func TestTarefasHTMLSkipsEmptyGroupsAndEscapes(t *testing.T) {
	html, err := TarefasHTML(TarefasView{
		TotalRegistros: 1,
		TotalGeral:     "R$ 10,00",
		Groups: []TarefaGroupView{
			{Titulo: "Iniciado", Count: 1, Total: "R$ 10,00", Rows: []TarefaRowView{
				{ID: 1, Cliente: "A <script> B", Status: "Iniciado", Valor: "R$ 10,00"},
			}},
			{Titulo: "Execucao", Count: 0},
		},
	})
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "Iniciado (1)")
	assert.NotContains(t, s, "Execucao (0)")
	assert.NotContains(t, s, "<script>")
	assert.Contains(t, s, "&lt;script&gt;")
}

func TestClientesHTMLNestsTarefasPerCliente(t *testing.T) {
	html, err := ClientesHTML(ClientesView{
		Periodo:        "01/01/2026 até 31/01/2026",
		TotalRegistros: 2,
		Rows: []ClienteRowView{
			{
				ID: 2, Nome: "Alfa Ltda", CNPJ: "11.222.333/0001-44",
				Telefone: "—", Email: "alfa@example.com", DataCadastro: "10/01/2026",
				Tarefas: []ClienteTarefaView{
					{ID: 7, TipoServico: "Licenciamento", Status: "Iniciado", DataInicio: "12/01/2026", PrazoFinal: "—"},
				},
			},
			{
				ID: 1, Nome: "Bravo Ltda", CNPJ: "—",
				Telefone: "—", Email: "—", DataCadastro: "05/01/2026",
			},
		},
	})
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "Período: 01/01/2026 até 31/01/2026")
	assert.Contains(t, s, "Tarefas Realizadas (1)")
	assert.Contains(t, s, "Licenciamento")
	// A client without tasks gets the explicit empty marker.
	assert.Contains(t, s, "Nenhuma tarefa registrada para este cliente")
	// One separator between the two sections, none before the first.
	assert.Equal(t, 1, strings.Count(s, `class="separator"`))
}
