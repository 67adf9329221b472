package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gestao-service/internal/model"
	"gestao-service/pkg/config"
	"gestao-service/pkg/database"
	"gestao-service/pkg/jwtutil"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	jwtutil.Initialize(&cfg.JWT)
	prometheus.InitMetrics(cfg)
	InitReports(cfg)
	os.Exit(m.Run())
}

// setupTest opens a fresh in-memory database for the test and wires it
// as the active connection. The shared cache keeps the schema visible
// across the pool's connections.
func setupTest(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func newContext(t *testing.T, e *echo.Echo, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func seedCliente(t *testing.T, nome string) model.Cliente {
	t.Helper()
	cliente := model.Cliente{Nome: nome, CNPJ: "12345678000190"}
	require.NoError(t, database.GetDB().Create(&cliente).Error)
	return cliente
}

func seedTipoServico(t *testing.T, nome string) model.TipoServico {
	t.Helper()
	tipo := model.TipoServico{Nome: nome}
	require.NoError(t, database.GetDB().Create(&tipo).Error)
	return tipo
}

func TestRegisterLoginFlow(t *testing.T) {
	e := setupTest(t)

	register := map[string]any{"name": "Ana", "email": "ana@example.com", "password": "secret1"}
	c, rec := newContext(t, e, http.MethodPost, "/auth/register", register)
	require.NoError(t, Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate email is rejected.
	c, rec = newContext(t, e, http.MethodPost, "/auth/register", register)
	require.NoError(t, Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = newContext(t, e, http.MethodPost, "/auth/login",
		map[string]any{"email": "ana@example.com", "password": "secret1"})
	require.NoError(t, Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotEmpty(t, body["token"])

	claims, err := jwtutil.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)

	c, rec = newContext(t, e, http.MethodPost, "/auth/login",
		map[string]any{"email": "ana@example.com", "password": "wrong-pass"})
	require.NoError(t, Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClienteLifecycle(t *testing.T) {
	e := setupTest(t)

	c, rec := newContext(t, e, http.MethodPost, "/api/clientes",
		map[string]any{"nome": "Empresa Alfa", "cnpj": "11222333000144"})
	require.NoError(t, CreateCliente(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	id := fmt.Sprintf("%v", created["id"])

	c, rec = newContext(t, e, http.MethodGet, "/api/clientes/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, GetCliente(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Empresa Alfa", decodeBody(t, rec)["nome"])

	c, rec = newContext(t, e, http.MethodDelete, "/api/clientes/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, DeleteCliente(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(t, e, http.MethodGet, "/api/clientes/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, GetCliente(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSuporteComputesDerived(t *testing.T) {
	e := setupTest(t)
	cliente := seedCliente(t, "Empresa Beta")

	inicio := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fim := inicio.Add(2*time.Hour + 30*time.Minute)
	c, rec := newContext(t, e, http.MethodPost, "/api/suportes", map[string]any{
		"cliente_id":  cliente.ID,
		"descricao":   "Ajuste de sistema",
		"valor_hora":  "100.00",
		"hora_inicio": inicio,
		"hora_fim":    fim,
	})
	require.NoError(t, CreateSuporte(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var suporte model.Suporte
	require.NoError(t, database.GetDB().First(&suporte).Error)
	require.NotNil(t, suporte.TempoSuporte)
	require.NotNil(t, suporte.ValorTotal)
	assert.True(t, suporte.TempoSuporte.Equal(decimal.RequireFromString("2.5")),
		"tempo = %s", suporte.TempoSuporte)
	assert.True(t, suporte.ValorTotal.Equal(decimal.RequireFromString("250")),
		"valor_total = %s", suporte.ValorTotal)
}

func TestCreateSuporteClampsNegativeWindow(t *testing.T) {
	e := setupTest(t)
	cliente := seedCliente(t, "Empresa Gama")

	inicio := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	fim := inicio.Add(-time.Hour)
	c, rec := newContext(t, e, http.MethodPost, "/api/suportes", map[string]any{
		"cliente_id":  cliente.ID,
		"descricao":   "Janela invertida",
		"valor_hora":  "80.00",
		"hora_inicio": inicio,
		"hora_fim":    fim,
	})
	require.NoError(t, CreateSuporte(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var suporte model.Suporte
	require.NoError(t, database.GetDB().First(&suporte).Error)
	require.NotNil(t, suporte.TempoSuporte)
	assert.True(t, suporte.TempoSuporte.IsZero())
	require.NotNil(t, suporte.ValorTotal)
	assert.True(t, suporte.ValorTotal.IsZero())
}

func TestCreateTarefaRejectsUnknownStatus(t *testing.T) {
	e := setupTest(t)
	cliente := seedCliente(t, "Empresa Delta")
	tipo := seedTipoServico(t, "Licenciamento")

	c, rec := newContext(t, e, http.MethodPost, "/api/tarefas", map[string]any{
		"cliente_id":      cliente.ID,
		"tipo_servico_id": tipo.ID,
		"status":          "Em_Espera",
	})
	require.NoError(t, CreateTarefa(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTarefaNormalizesStatusAndSeedsHistorico(t *testing.T) {
	e := setupTest(t)
	cliente := seedCliente(t, "Empresa Epsilon")
	tipo := seedTipoServico(t, "Alvará")

	// Spacing variant of a canonical status is accepted and normalized.
	c, rec := newContext(t, e, http.MethodPost, "/api/tarefas", map[string]any{
		"cliente_id":      cliente.ID,
		"tipo_servico_id": tipo.ID,
		"status":          "Coleta de Informações",
	})
	require.NoError(t, CreateTarefa(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var tarefa model.Tarefa
	require.NoError(t, database.GetDB().First(&tarefa).Error)
	assert.Equal(t, "Coleta_de_Informações", tarefa.Status)

	var historico []model.HistoricoStatusTarefa
	require.NoError(t, database.GetDB().Where("tarefa_id = ?", tarefa.ID).Find(&historico).Error)
	require.Len(t, historico, 1)
	assert.Equal(t, "Coleta_de_Informações", historico[0].Status)
}

func TestUpdateTarefaStatusAppendsHistorico(t *testing.T) {
	e := setupTest(t)
	cliente := seedCliente(t, "Empresa Zeta")
	tipo := seedTipoServico(t, "Vistoria")

	c, rec := newContext(t, e, http.MethodPost, "/api/tarefas", map[string]any{
		"cliente_id":      cliente.ID,
		"tipo_servico_id": tipo.ID,
		"status":          "Iniciado",
	})
	require.NoError(t, CreateTarefa(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := fmt.Sprintf("%v", decodeBody(t, rec)["id"])

	c, rec = newContext(t, e, http.MethodPut, "/api/tarefas/"+id,
		map[string]any{"status": "Execucao"})
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, UpdateTarefa(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// A non-status update must not add history entries.
	c, rec = newContext(t, e, http.MethodPut, "/api/tarefas/"+id,
		map[string]any{"observacoes": "aguardando documentos"})
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, UpdateTarefa(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var historico []model.HistoricoStatusTarefa
	require.NoError(t, database.GetDB().Order("id asc").Find(&historico).Error)
	require.Len(t, historico, 2)
	assert.Equal(t, "Iniciado", historico[0].Status)
	assert.Equal(t, "Execucao", historico[1].Status)
}

func TestListTarefasStatusFilterIsPermissive(t *testing.T) {
	e := setupTest(t)
	cliente := seedCliente(t, "Empresa Eta")
	tipo := seedTipoServico(t, "Consultoria")

	for _, status := range []string{"Iniciado", "Execucao"} {
		tarefa := model.Tarefa{
			ClienteID:     cliente.ID,
			TipoServicoID: tipo.ID,
			Status:        status,
			DataInicio:    time.Now(),
		}
		require.NoError(t, database.GetDB().Create(&tarefa).Error)
	}

	// Unknown status filter yields an empty list, not an error.
	c, rec := newContext(t, e, http.MethodGet, "/api/tarefas?status=Inexistente", nil)
	require.NoError(t, ListTarefas(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var tarefas []model.Tarefa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tarefas))
	assert.Empty(t, tarefas)

	c, rec = newContext(t, e, http.MethodGet, "/api/tarefas?status=Execucao", nil)
	require.NoError(t, ListTarefas(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tarefas))
	require.Len(t, tarefas, 1)
	assert.Equal(t, "Execucao", tarefas[0].Status)
}
