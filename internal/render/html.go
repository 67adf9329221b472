package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// View structs carry display-ready strings only; all aggregation and
// formatting decisions happen before rendering.

// TarefaRowView is one task line of the tasks report.
type TarefaRowView struct {
	ID          uint
	Cliente     string
	TipoServico string
	Status      string
	DataInicio  string
	PrazoFinal  string
	Valor       string
	Observacoes string
}

// TarefaGroupView is one status bucket of the tasks report.
type TarefaGroupView struct {
	Titulo string
	Count  int
	Total  string
	Rows   []TarefaRowView
}

// TarefasView is the full tasks report.
type TarefasView struct {
	Groups         []TarefaGroupView
	TotalRegistros int
	TotalGeral     string
}

// SuporteRowView is one line of the support report.
type SuporteRowView struct {
	ID         uint
	Cliente    string
	Descricao  string
	ValorTotal string
	ValorHora  string
	Data       string
	HoraInicio string
	HoraFim    string
	Tempo      string
}

// SuportesView is the full support report.
type SuportesView struct {
	Rows           []SuporteRowView
	TotalRegistros int
	TotalGeral     string
}

// ClienteTarefaView is one task line inside a client's section of the
// clients report.
type ClienteTarefaView struct {
	ID          uint
	TipoServico string
	Status      string
	DataInicio  string
	PrazoFinal  string
}

// ClienteRowView is one client section of the clients report, carrying
// the client's performed tasks.
type ClienteRowView struct {
	ID           uint
	Nome         string
	RazaoSocial  string
	CNPJ         string
	Telefone     string
	Email        string
	DataCadastro string
	Tarefas      []ClienteTarefaView
}

// ClientesView is the full clients report.
type ClientesView struct {
	Periodo        string
	Rows           []ClienteRowView
	TotalRegistros int
}

// FinanceiroRowView is one ledger line of the financial report.
type FinanceiroRowView struct {
	Tipo       string
	ID         string
	Data       string
	Cliente    string
	CNPJ       string
	Descricao  string
	PrazoFinal string
	Valor      string
	Suporte    bool
}

// FinanceiroView is the full financial report.
type FinanceiroView struct {
	Periodo         string
	IncluirSuportes bool
	TotalTarefas    string
	TotalSuportes   string
	TotalGeral      string
	Rows            []FinanceiroRowView
}

const reportCSS = `
      @page { size: A4 landscape; margin: 12mm; }
      body { font-family: Arial, sans-serif; color: #111; background: #fff; }
      h1 { text-align: center; margin: 0 0 20px; color: #000; font-size: 20px; border-bottom: 3px solid #000; padding-bottom: 10px; }
      h2 { font-size: 14px; margin: 18px 0 4px; }
      .meta { color: #666; font-size: 12px; margin-bottom: 20px; text-align: center; }
      .resumo { background: #e8e8e8; border: 2px solid #333; padding: 12px; margin: 16px 0; text-align: center; }
      .resumo-item { display: inline-block; margin: 0 20px; font-weight: bold; font-size: 14px; }
      table { width: 100%; border-collapse: collapse; margin-top: 12px; }
      th, td { border: 1px solid #999; padding: 8px 6px; font-size: 11px; }
      th { background: #d9d9d9; text-align: left; font-weight: 600; color: #000; }
      tbody tr:nth-child(even) { background: #f5f5f5; }
      tr.suporte { background: #fff8dc; }
      .text-center { text-align: center; }
      .text-right { text-align: right; }
      .total { font-weight: bold; font-size: 14px; margin-top: 16px; }
      .cliente-section { margin-top: 16px; }
      .cliente-info { font-size: 12px; color: #333; margin: 2px 0; }
      .tarefas-title { font-weight: bold; font-size: 12px; margin-top: 10px; }
      .no-tarefas { color: #666; font-style: italic; font-size: 12px; padding: 12px; text-align: center; background: #f5f5f5; border: 1px dashed #999; border-radius: 4px; margin-top: 8px; }
      .separator { height: 2px; background: #ccc; margin: 20px 0; }
`

var tarefasTmpl = template.Must(template.New("tarefas").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Relatório de Tarefas</title>
    <style>` + reportCSS + `</style>
  </head>
  <body>
    <h1>Relatório de Tarefas</h1>
    <div class="meta">Total de registros: {{.TotalRegistros}}</div>
    {{range .Groups}}{{if .Count}}
    <h2>{{.Titulo}} ({{.Count}}) — Total: {{.Total}}</h2>
    <table>
      <thead>
        <tr>
          <th style="width: 50px;">ID</th>
          <th style="width: 200px;">Cliente</th>
          <th style="width: 180px;">Tipo de Serviço</th>
          <th style="width: 120px;">Status</th>
          <th style="width: 90px;">Data Início</th>
          <th style="width: 90px;">Prazo Final</th>
          <th style="width: 100px;">Valor</th>
          <th>Observações</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}<tr>
          <td class="text-center">{{.ID}}</td>
          <td>{{.Cliente}}</td>
          <td>{{.TipoServico}}</td>
          <td>{{.Status}}</td>
          <td>{{.DataInicio}}</td>
          <td>{{.PrazoFinal}}</td>
          <td class="text-right">{{.Valor}}</td>
          <td>{{.Observacoes}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}{{end}}
    <div class="total">Total Geral: {{.TotalGeral}}</div>
  </body>
</html>`))

var suportesTmpl = template.Must(template.New("suportes").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Relatório de Suportes</title>
    <style>` + reportCSS + `</style>
  </head>
  <body>
    <h1>Relatório de Suportes</h1>
    <div class="meta">Total de registros: {{.TotalRegistros}}</div>
    <table>
      <thead>
        <tr>
          <th>ID</th>
          <th>Cliente</th>
          <th>Descrição</th>
          <th>Valor Total (R$)</th>
          <th>Valor/Hora (R$)</th>
          <th>Data</th>
          <th>Hora Início</th>
          <th>Hora Fim</th>
          <th>Tempo Total</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}<tr>
          <td>{{.ID}}</td>
          <td>{{.Cliente}}</td>
          <td>{{.Descricao}}</td>
          <td class="text-right">{{.ValorTotal}}</td>
          <td class="text-right">{{.ValorHora}}</td>
          <td>{{.Data}}</td>
          <td>{{.HoraInicio}}</td>
          <td>{{.HoraFim}}</td>
          <td>{{.Tempo}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <div class="total">Valor Total: {{.TotalGeral}}</div>
  </body>
</html>`))

var clientesTmpl = template.Must(template.New("clientes").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Relatório de Clientes</title>
    <style>` + reportCSS + `</style>
  </head>
  <body>
    <h1>Relatório de Clientes</h1>
    <div class="meta">{{if .Periodo}}Período: {{.Periodo}}<br>{{end}}Total de clientes: {{.TotalRegistros}}</div>
    {{range $i, $cliente := .Rows}}
    {{if $i}}<div class="separator"></div>{{end}}
    <div class="cliente-section">
      <h2>{{$cliente.Nome}}</h2>
      <div class="cliente-info">CNPJ: {{$cliente.CNPJ}}</div>
      <div class="cliente-info">Tel: {{$cliente.Telefone}} | Email: {{$cliente.Email}}</div>
      <div class="cliente-info">Data Cadastro: {{$cliente.DataCadastro}}</div>
      {{if $cliente.Tarefas}}
      <div class="tarefas-title">Tarefas Realizadas ({{len $cliente.Tarefas}})</div>
      <table>
        <thead>
          <tr>
            <th style="width: 50px;">ID</th>
            <th>Tipo de Serviço</th>
            <th style="width: 120px;">Status</th>
            <th style="width: 100px;">Data Início</th>
            <th style="width: 100px;">Prazo Final</th>
          </tr>
        </thead>
        <tbody>
          {{range $cliente.Tarefas}}<tr>
            <td class="text-center">{{.ID}}</td>
            <td>{{.TipoServico}}</td>
            <td>{{.Status}}</td>
            <td>{{.DataInicio}}</td>
            <td>{{.PrazoFinal}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      {{else}}
      <div class="tarefas-title">Tarefas Realizadas</div>
      <div class="no-tarefas">Nenhuma tarefa registrada para este cliente</div>
      {{end}}
    </div>
    {{end}}
  </body>
</html>`))

var financeiroTmpl = template.Must(template.New("financeiro").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Relatório Financeiro</title>
    <style>` + reportCSS + `</style>
  </head>
  <body>
    <h1>Relatório Financeiro</h1>
    <div class="meta">Período: {{.Periodo}}</div>
    <div class="resumo">
      <div class="resumo-item">Total de Serviços: {{.TotalTarefas}}</div>
      {{if .IncluirSuportes}}<div class="resumo-item">Total de Suportes: {{.TotalSuportes}}</div>
      <div class="resumo-item">Total Geral: {{.TotalGeral}}</div>{{end}}
    </div>
    <table>
      <thead>
        <tr>
          <th style="width: 70px;">ID</th>
          <th style="width: 90px;">Data</th>
          <th style="width: 200px;">Cliente</th>
          <th style="width: 130px;">CNPJ</th>
          <th>Descrição</th>
          <th style="width: 90px;">Prazo Final</th>
          <th style="width: 100px;">Valor</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}<tr{{if .Suporte}} class="suporte"{{end}}>
          <td class="text-center">{{.ID}}</td>
          <td>{{.Data}}</td>
          <td>{{.Cliente}}</td>
          <td>{{.CNPJ}}</td>
          <td>{{.Descricao}}</td>
          <td>{{.PrazoFinal}}</td>
          <td class="text-right">{{.Valor}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </body>
</html>`))

// TarefasHTML renders the tasks report markup.
func TarefasHTML(view TarefasView) ([]byte, error) {
	return execute(tarefasTmpl, view)
}

// SuportesHTML renders the support report markup.
func SuportesHTML(view SuportesView) ([]byte, error) {
	return execute(suportesTmpl, view)
}

// ClientesHTML renders the clients report markup.
func ClientesHTML(view ClientesView) ([]byte, error) {
	return execute(clientesTmpl, view)
}

// FinanceiroHTML renders the financial report markup.
func FinanceiroHTML(view FinanceiroView) ([]byte, error) {
	return execute(financeiroTmpl, view)
}

func execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
