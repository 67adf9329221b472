package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gestao-service/internal/model"
	"gestao-service/internal/render"
	"gestao-service/internal/report"
	"gestao-service/pkg/config"
	"gestao-service/pkg/database"
	"gestao-service/pkg/logger"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	formatPDF   = "pdf"
	formatExcel = "excel"

	excelMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	reportCfg   config.ReportConfig
	rendererCfg config.RendererConfig
)

// InitReports stores the report and renderer settings used by the
// report handlers
func InitReports(cfg *config.Config) {
	reportCfg = cfg.Report
	rendererCfg = cfg.Renderer
}

// RelatorioTarefas generates the tasks report grouped by status
func RelatorioTarefas(c echo.Context) error {
	log := logger.FromContext(c)

	format, err := reportFormat(c)
	if err != nil {
		return reportError(c, "tarefas", err)
	}

	filter, err := report.ParseFilter(c.QueryParams(), report.DateFieldInicio, true)
	if err != nil {
		return reportError(c, "tarefas", err)
	}

	tax := report.DefaultTaxonomy()
	if filter.Status != "" && !tax.Contains(filter.Status) {
		// Permissive policy: an unknown status matches zero records
		// instead of failing, but it is worth a warning.
		log.Warn("Report status filter outside taxonomy", zap.String("status", filter.Status))
	}

	var tarefas []model.Tarefa
	result := database.GetDB().
		Scopes(filter.Scope()).
		Preload("Cliente").
		Preload("TipoServico").
		Order("id desc").
		Limit(reportCfg.MaxRows).
		Find(&tarefas)
	if result.Error != nil {
		return reportError(c, "tarefas", fmt.Errorf("%w: %v", report.ErrDependency, result.Error))
	}

	agg := report.GroupByStatus(tax, tarefas,
		func(t model.Tarefa) string { return t.Status },
		func(t model.Tarefa) *decimal.Decimal { return t.ValorTotalServico })

	defer prometheus.TrackReportRender("tarefas", format)(time.Now())

	if format == formatExcel {
		data, err := render.ToExcel(tarefasSheets(agg))
		if err != nil {
			return reportError(c, "tarefas", fmt.Errorf("%w: %v", report.ErrDependency, err))
		}
		prometheus.RecordReportGenerated("tarefas", format)
		return sendExcel(c, "relatorio-tarefas.xlsx", data)
	}

	html, err := render.TarefasHTML(tarefasView(agg))
	if err != nil {
		return reportError(c, "tarefas", fmt.Errorf("%w: %v", report.ErrDependency, err))
	}
	data, err := renderPDF(c, html)
	if err != nil {
		return reportError(c, "tarefas", err)
	}
	prometheus.RecordReportGenerated("tarefas", format)
	return sendPDF(c, "relatorio-tarefas.pdf", data)
}

// RelatorioSuportes generates the support ticket report
func RelatorioSuportes(c echo.Context) error {
	format, err := reportFormat(c)
	if err != nil {
		return reportError(c, "suportes", err)
	}

	filter, err := report.ParseFilter(c.QueryParams(), report.DateFieldSuporte, false)
	if err != nil {
		return reportError(c, "suportes", err)
	}

	var suportes []model.Suporte
	result := database.GetDB().
		Scopes(filter.Scope()).
		Preload("Cliente").
		Order("data_suporte desc, id desc").
		Limit(reportCfg.MaxRows).
		Find(&suportes)
	if result.Error != nil {
		return reportError(c, "suportes", fmt.Errorf("%w: %v", report.ErrDependency, result.Error))
	}

	total := report.SumAmounts(suportes,
		func(s model.Suporte) *decimal.Decimal { return s.ValorTotal })

	defer prometheus.TrackReportRender("suportes", format)(time.Now())

	if format == formatExcel {
		data, err := render.ToExcel(suportesSheets(suportes, total))
		if err != nil {
			return reportError(c, "suportes", fmt.Errorf("%w: %v", report.ErrDependency, err))
		}
		prometheus.RecordReportGenerated("suportes", format)
		return sendExcel(c, "relatorio-suportes.xlsx", data)
	}

	html, err := render.SuportesHTML(suportesView(suportes, total))
	if err != nil {
		return reportError(c, "suportes", fmt.Errorf("%w: %v", report.ErrDependency, err))
	}
	data, err := renderPDF(c, html)
	if err != nil {
		return reportError(c, "suportes", err)
	}
	prometheus.RecordReportGenerated("suportes", format)
	return sendPDF(c, "relatorio-suportes.pdf", data)
}

// RelatorioClientes generates the client roster report
func RelatorioClientes(c echo.Context) error {
	format, err := reportFormat(c)
	if err != nil {
		return reportError(c, "clientes", err)
	}

	filter, err := report.ParseFilter(c.QueryParams(), report.DateFieldCadastro, false)
	if err != nil {
		return reportError(c, "clientes", err)
	}

	var clientes []model.Cliente
	result := database.GetDB().
		Scopes(filter.Scope()).
		Preload("Tarefas", func(db *gorm.DB) *gorm.DB { return db.Order("id desc") }).
		Preload("Tarefas.TipoServico").
		Order("id desc").
		Limit(reportCfg.MaxRows).
		Find(&clientes)
	if result.Error != nil {
		return reportError(c, "clientes", fmt.Errorf("%w: %v", report.ErrDependency, result.Error))
	}

	periodo := ""
	if filter.From != nil || filter.To != nil {
		periodo = render.FormatDataPtr(filter.From) + " até " + render.FormatDataPtr(filter.To)
	}

	defer prometheus.TrackReportRender("clientes", format)(time.Now())

	if format == formatExcel {
		data, err := render.ToExcel(clientesSheets(clientes))
		if err != nil {
			return reportError(c, "clientes", fmt.Errorf("%w: %v", report.ErrDependency, err))
		}
		prometheus.RecordReportGenerated("clientes", format)
		return sendExcel(c, "relatorio-clientes.xlsx", data)
	}

	html, err := render.ClientesHTML(clientesView(clientes, periodo))
	if err != nil {
		return reportError(c, "clientes", fmt.Errorf("%w: %v", report.ErrDependency, err))
	}
	data, err := renderPDF(c, html)
	if err != nil {
		return reportError(c, "clientes", err)
	}
	prometheus.RecordReportGenerated("clientes", format)
	return sendPDF(c, "relatorio-clientes.pdf", data)
}

// RelatorioFinanceiro generates the combined financial report merging
// tasks and, when requested, support tickets into one ledger
func RelatorioFinanceiro(c echo.Context) error {
	format, err := reportFormat(c)
	if err != nil {
		return reportError(c, "financeiro", err)
	}

	filter, err := report.ParseFilter(c.QueryParams(), report.DateFieldInicio, false)
	if err != nil {
		return reportError(c, "financeiro", err)
	}

	// Default window: the configured period back from today.
	now := time.Now()
	if filter.From == nil {
		from := now.Add(-reportCfg.DefaultPeriod)
		filter.From = &from
	}
	if filter.To == nil {
		filter.To = &now
	}

	incluirSuportes := c.QueryParam("incluirSuportes") == "true"

	var tarefas []model.Tarefa
	result := database.GetDB().
		Scopes(filter.Scope()).
		Where("valor_total_servico IS NOT NULL").
		Preload("Cliente").
		Preload("TipoServico").
		Order("id desc").
		Limit(reportCfg.MaxRows).
		Find(&tarefas)
	if result.Error != nil {
		return reportError(c, "financeiro", fmt.Errorf("%w: %v", report.ErrDependency, result.Error))
	}

	var suportes []model.Suporte
	if incluirSuportes {
		suporteFilter := filter
		suporteFilter.Field = report.DateFieldSuporte
		result := database.GetDB().
			Scopes(suporteFilter.Scope()).
			Where("valor_total IS NOT NULL").
			Preload("Cliente").
			Order("id desc").
			Limit(reportCfg.MaxRows).
			Find(&suportes)
		if result.Error != nil {
			return reportError(c, "financeiro", fmt.Errorf("%w: %v", report.ErrDependency, result.Error))
		}
	}

	ledger := report.BuildLedger(tarefas, suportes, incluirSuportes)
	periodo := render.FormatData(*filter.From) + " a " + render.FormatData(*filter.To)

	defer prometheus.TrackReportRender("financeiro", format)(time.Now())

	if format == formatExcel {
		data, err := render.ToExcel(financeiroSheets(ledger, incluirSuportes))
		if err != nil {
			return reportError(c, "financeiro", fmt.Errorf("%w: %v", report.ErrDependency, err))
		}
		prometheus.RecordReportGenerated("financeiro", format)
		return sendExcel(c, "relatorio-financeiro.xlsx", data)
	}

	html, err := render.FinanceiroHTML(financeiroView(ledger, periodo, incluirSuportes))
	if err != nil {
		return reportError(c, "financeiro", fmt.Errorf("%w: %v", report.ErrDependency, err))
	}
	data, err := renderPDF(c, html)
	if err != nil {
		return reportError(c, "financeiro", err)
	}
	prometheus.RecordReportGenerated("financeiro", format)
	return sendPDF(c, "relatorio-financeiro.pdf", data)
}

// --- shared plumbing ---

func reportFormat(c echo.Context) (string, error) {
	format := c.QueryParam("format")
	switch format {
	case "", formatPDF:
		return formatPDF, nil
	case formatExcel:
		return formatExcel, nil
	default:
		return "", fmt.Errorf("%w: format %q", report.ErrInvalidArgument, format)
	}
}

// renderPDF runs the out-of-process renderer under the configured
// timeout; the renderer is released on every exit path.
func renderPDF(c echo.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), rendererCfg.Timeout)
	defer cancel()

	data, err := render.ToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrDependency, err)
	}
	return data, nil
}

func sendPDF(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func sendExcel(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, excelMIME, data)
}

func reportError(c echo.Context, reportName string, err error) error {
	log := logger.FromContext(c)
	status := report.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Report generation failed", zap.String("report", reportName), zap.Error(err))
		prometheus.RecordReportError(reportName, "dependency")
	} else {
		log.Warn("Report request rejected", zap.String("report", reportName), zap.Error(err))
		prometheus.RecordReportError(reportName, "invalid_request")
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// --- view mapping ---

func clienteNome(cliente *model.Cliente) string {
	if cliente == nil {
		return render.Dash
	}
	return cliente.Nome
}

func tipoServicoNome(tipo *model.TipoServico) string {
	if tipo == nil {
		return render.Dash
	}
	return tipo.Nome
}

func tarefaRowView(t model.Tarefa) render.TarefaRowView {
	return render.TarefaRowView{
		ID:          t.ID,
		Cliente:     clienteNome(t.Cliente),
		TipoServico: tipoServicoNome(t.TipoServico),
		Status:      t.Status,
		DataInicio:  render.FormatData(t.DataInicio),
		PrazoFinal:  render.FormatDataPtr(t.PrazoFinal),
		Valor:       render.FormatMoneyPtr(t.ValorTotalServico),
		Observacoes: render.OrDash(t.Observacoes),
	}
}

func tarefasView(agg report.Aggregate[model.Tarefa]) render.TarefasView {
	view := render.TarefasView{
		TotalRegistros: agg.TotalCount,
		TotalGeral:     "R$ " + render.FormatMoney(agg.GrandTotal),
	}
	for _, g := range agg.Groups {
		group := render.TarefaGroupView{
			Titulo: string(g.Key),
			Count:  g.Count,
			Total:  "R$ " + render.FormatMoney(g.Total),
		}
		for _, t := range g.Records {
			group.Rows = append(group.Rows, tarefaRowView(t))
		}
		view.Groups = append(view.Groups, group)
	}
	return view
}

func tarefasSheets(agg report.Aggregate[model.Tarefa]) []render.Sheet {
	tarefas := render.Sheet{
		Name:   "Tarefas",
		Header: []string{"ID", "Cliente", "Tipo de Serviço", "Status", "Data Início", "Prazo Final", "Valor", "Observações"},
	}
	for _, g := range agg.Groups {
		for _, t := range g.Records {
			row := tarefaRowView(t)
			tarefas.Rows = append(tarefas.Rows, []any{
				row.ID, row.Cliente, row.TipoServico, row.Status,
				row.DataInicio, row.PrazoFinal, row.Valor, row.Observacoes,
			})
		}
	}

	resumo := render.Sheet{
		Name:   "Resumo",
		Header: []string{"Status", "Quantidade", "Total"},
	}
	for _, g := range agg.Groups {
		resumo.Rows = append(resumo.Rows, []any{string(g.Key), g.Count, "R$ " + render.FormatMoney(g.Total)})
	}
	resumo.Rows = append(resumo.Rows, []any{"Total Geral", agg.TotalCount, "R$ " + render.FormatMoney(agg.GrandTotal)})

	return []render.Sheet{tarefas, resumo}
}

func suporteRowView(s model.Suporte) render.SuporteRowView {
	row := render.SuporteRowView{
		ID:         s.ID,
		Cliente:    clienteNome(s.Cliente),
		Descricao:  s.Descricao,
		ValorTotal: render.FormatMoneyPtr(s.ValorTotal),
		ValorHora:  render.FormatMoneyPtr(s.ValorHora),
		Data:       render.FormatData(s.DataSuporte),
		HoraInicio: render.FormatHora(s.HoraInicio),
		HoraFim:    render.Dash,
		Tempo:      render.Dash,
	}
	if s.HoraFim != nil {
		row.HoraFim = render.FormatHora(*s.HoraFim)
	}
	if s.TempoSuporte != nil {
		row.Tempo = render.FormatMoney(*s.TempoSuporte) + "h"
	}
	return row
}

func suportesView(suportes []model.Suporte, total decimal.Decimal) render.SuportesView {
	view := render.SuportesView{
		TotalRegistros: len(suportes),
		TotalGeral:     "R$ " + render.FormatMoney(total),
	}
	for _, s := range suportes {
		view.Rows = append(view.Rows, suporteRowView(s))
	}
	return view
}

func suportesSheets(suportes []model.Suporte, total decimal.Decimal) []render.Sheet {
	sheet := render.Sheet{
		Name:   "Suportes",
		Header: []string{"ID", "Cliente", "Descrição", "Valor Total", "Valor/Hora", "Data", "Hora Início", "Hora Fim", "Tempo"},
	}
	for _, s := range suportes {
		row := suporteRowView(s)
		sheet.Rows = append(sheet.Rows, []any{
			row.ID, row.Cliente, row.Descricao, row.ValorTotal, row.ValorHora,
			row.Data, row.HoraInicio, row.HoraFim, row.Tempo,
		})
	}
	sheet.Rows = append(sheet.Rows, []any{"", "", "Valor Total", "R$ " + render.FormatMoney(total), "", "", "", "", ""})
	return []render.Sheet{sheet}
}

func clienteRowView(cl model.Cliente) render.ClienteRowView {
	row := render.ClienteRowView{
		ID:           cl.ID,
		Nome:         cl.Nome,
		RazaoSocial:  render.OrDash(cl.RazaoSocial),
		CNPJ:         render.FormatCNPJ(cl.CNPJ),
		Telefone:     render.OrDash(cl.Telefone),
		Email:        render.OrDash(cl.Email),
		DataCadastro: render.FormatData(cl.DataCadastro),
	}
	for _, t := range cl.Tarefas {
		row.Tarefas = append(row.Tarefas, render.ClienteTarefaView{
			ID:          t.ID,
			TipoServico: tipoServicoNome(t.TipoServico),
			Status:      t.Status,
			DataInicio:  render.FormatData(t.DataInicio),
			PrazoFinal:  render.FormatDataPtr(t.PrazoFinal),
		})
	}
	return row
}

func clientesView(clientes []model.Cliente, periodo string) render.ClientesView {
	view := render.ClientesView{Periodo: periodo, TotalRegistros: len(clientes)}
	for _, cl := range clientes {
		view.Rows = append(view.Rows, clienteRowView(cl))
	}
	return view
}

var sheetNameSanitizer = strings.NewReplacer("\\", "", "/", "", "*", "", "?", "", ":", "", "[", "", "]", "")

// clienteSheetName produces a worksheet title that excel accepts: the
// forbidden characters stripped and at most 31 characters, deduplicated
// with the client id when two clients share a name.
func clienteSheetName(cl model.Cliente, seen map[string]bool) string {
	name := sheetNameSanitizer.Replace(cl.Nome)
	if runes := []rune(name); len(runes) > 30 {
		name = string(runes[:30])
	}
	if name == "" || seen[name] {
		name = fmt.Sprintf("%s (%d)", name, cl.ID)
	}
	seen[name] = true
	return name
}

// clientesSheets builds one worksheet per client: the client's details,
// then its performed-tasks table.
func clientesSheets(clientes []model.Cliente) []render.Sheet {
	if len(clientes) == 0 {
		return []render.Sheet{{
			Name:   "Clientes",
			Header: []string{"Nenhum cliente encontrado"},
		}}
	}

	seen := make(map[string]bool, len(clientes))
	sheets := make([]render.Sheet, 0, len(clientes))
	for _, cl := range clientes {
		row := clienteRowView(cl)
		sheet := render.Sheet{Name: clienteSheetName(cl, seen)}
		sheet.Rows = append(sheet.Rows,
			[]any{strings.ToUpper(cl.Nome)},
			[]any{"CNPJ: " + row.CNPJ},
			[]any{"Tel: " + row.Telefone + " | Email: " + row.Email},
			[]any{"Data Cadastro: " + row.DataCadastro},
			[]any{},
			[]any{fmt.Sprintf("Tarefas Realizadas (%d)", len(row.Tarefas))},
			[]any{"ID", "Tipo de Serviço", "Status", "Data Início", "Prazo Final"},
		)
		for _, t := range row.Tarefas {
			sheet.Rows = append(sheet.Rows, []any{t.ID, t.TipoServico, t.Status, t.DataInicio, t.PrazoFinal})
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

func financeiroRowView(row report.Row) render.FinanceiroRowView {
	view := render.FinanceiroRowView{
		Tipo:       string(row.Kind),
		ID:         fmt.Sprintf("%d", row.ID),
		Data:       render.FormatData(row.Date),
		Cliente:    render.OrDash(row.Cliente),
		CNPJ:       render.OrDash(render.FormatCNPJ(row.CNPJ)),
		Descricao:  row.Label,
		PrazoFinal: render.FormatDataPtr(row.Prazo),
		Valor:      render.FormatMoneyPtr(row.Amount),
		Suporte:    row.Kind == report.RowSuporte,
	}
	if view.Suporte {
		view.ID = fmt.Sprintf("SUP-%d", row.ID)
	}
	return view
}

func financeiroView(ledger report.Ledger, periodo string, incluirSuportes bool) render.FinanceiroView {
	view := render.FinanceiroView{
		Periodo:         periodo,
		IncluirSuportes: incluirSuportes,
		TotalTarefas:    "R$ " + render.FormatMoney(ledger.TotalTarefas),
		TotalSuportes:   "R$ " + render.FormatMoney(ledger.TotalSuportes),
		TotalGeral:      "R$ " + render.FormatMoney(ledger.TotalGeral),
	}
	for _, row := range ledger.Rows {
		view.Rows = append(view.Rows, financeiroRowView(row))
	}
	return view
}

func financeiroSheets(ledger report.Ledger, incluirSuportes bool) []render.Sheet {
	sheet := render.Sheet{
		Name:   "Financeiro",
		Header: []string{"Tipo", "ID", "Data", "Cliente", "CNPJ", "Descrição", "Prazo Final", "Valor"},
	}
	for _, r := range ledger.Rows {
		row := financeiroRowView(r)
		sheet.Rows = append(sheet.Rows, []any{
			row.Tipo, row.ID, row.Data, row.Cliente, row.CNPJ,
			row.Descricao, row.PrazoFinal, row.Valor,
		})
	}
	sheet.Rows = append(sheet.Rows, []any{"", "", "", "", "", "", "Total de Serviços", "R$ " + render.FormatMoney(ledger.TotalTarefas)})
	if incluirSuportes {
		sheet.Rows = append(sheet.Rows, []any{"", "", "", "", "", "", "Total de Suportes", "R$ " + render.FormatMoney(ledger.TotalSuportes)})
		sheet.Rows = append(sheet.Rows, []any{"", "", "", "", "", "", "Total Geral", "R$ " + render.FormatMoney(ledger.TotalGeral)})
	}
	return []render.Sheet{sheet}
}
