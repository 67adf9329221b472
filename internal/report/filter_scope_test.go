package report

import (
	"net/url"
	"testing"
	"time"

	"gestao-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Cliente{}, &model.TipoServico{}, &model.Tarefa{}, &model.Suporte{}))
	return db
}

func seedTarefa(t *testing.T, db *gorm.DB, clienteID uint, status string, inicio time.Time, valor *decimal.Decimal) model.Tarefa {
	t.Helper()
	tarefa := model.Tarefa{
		ClienteID:         clienteID,
		TipoServicoID:     1,
		Status:            status,
		DataInicio:        inicio,
		ValorTotalServico: valor,
	}
	require.NoError(t, db.Create(&tarefa).Error)
	return tarefa
}

func TestScopeDateRangeInclusiveBothEnds(t *testing.T) {
	db := openScopeTestDB(t)

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	seedTarefa(t, db, 1, "Iniciado", day(1), nil)                                             // on dataInicial exactly
	seedTarefa(t, db, 1, "Iniciado", day(15), nil)                                            // inside
	seedTarefa(t, db, 1, "Iniciado", time.Date(2025, 3, 31, 23, 59, 59, 999_000_000, time.UTC), nil) // end-of-day of dataFinal
	seedTarefa(t, db, 1, "Iniciado", day(0), nil)                                             // feb 28, before range
	seedTarefa(t, db, 1, "Iniciado", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), nil)        // after range

	f, err := ParseFilter(url.Values{
		"dataInicial": {"2025-03-01"},
		"dataFinal":   {"2025-03-31"},
	}, DateFieldInicio, true)
	require.NoError(t, err)

	var got []model.Tarefa
	require.NoError(t, db.Scopes(f.Scope()).Find(&got).Error)
	assert.Len(t, got, 3)
}

func TestScopeLowerBoundOnlyIsUnboundedAbove(t *testing.T) {
	db := openScopeTestDB(t)

	seedTarefa(t, db, 1, "Iniciado", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil)
	seedTarefa(t, db, 1, "Iniciado", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	seedTarefa(t, db, 1, "Iniciado", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), nil)

	f, err := ParseFilter(url.Values{"dataInicial": {"2025-01-01"}}, DateFieldInicio, true)
	require.NoError(t, err)

	var got []model.Tarefa
	require.NoError(t, db.Scopes(f.Scope()).Find(&got).Error)
	assert.Len(t, got, 2)
}

func TestScopeStatusFilterNormalizesToCanonical(t *testing.T) {
	db := openScopeTestDB(t)

	seedTarefa(t, db, 1, "Coleta_de_Informações", time.Now(), nil)
	seedTarefa(t, db, 1, "Iniciado", time.Now(), nil)

	// Spaced spelling must hit the canonical underscored rows.
	f, err := ParseFilter(url.Values{"status": {"Coleta de Informações"}}, DateFieldInicio, true)
	require.NoError(t, err)

	var got []model.Tarefa
	require.NoError(t, db.Scopes(f.Scope()).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "Coleta_de_Informações", got[0].Status)
}

func TestScopeUnknownStatusMatchesNothing(t *testing.T) {
	db := openScopeTestDB(t)
	seedTarefa(t, db, 1, "Iniciado", time.Now(), nil)

	f, err := ParseFilter(url.Values{"status": {"Inexistente"}}, DateFieldInicio, true)
	require.NoError(t, err)

	var got []model.Tarefa
	require.NoError(t, db.Scopes(f.Scope()).Find(&got).Error)
	assert.Empty(t, got)
}

func TestScopeIgnoresStatusOnStatuslessRecords(t *testing.T) {
	db := openScopeTestDB(t)

	suporte := model.Suporte{ClienteID: 1, Descricao: "Atendimento", DataSuporte: time.Now(), HoraInicio: time.Now()}
	require.NoError(t, db.Create(&suporte).Error)

	// Suportes carry no status column; a stray status parameter must not
	// leak into the query.
	f, err := ParseFilter(url.Values{"status": {"Iniciado"}}, DateFieldSuporte, false)
	require.NoError(t, err)
	assert.Empty(t, f.Status)

	var got []model.Suporte
	require.NoError(t, db.Scopes(f.Scope()).Find(&got).Error)
	assert.Len(t, got, 1)
}

func TestScopeClienteFilter(t *testing.T) {
	db := openScopeTestDB(t)
	seedTarefa(t, db, 1, "Iniciado", time.Now(), nil)
	seedTarefa(t, db, 2, "Iniciado", time.Now(), nil)

	f, err := ParseFilter(url.Values{"clienteId": {"2"}}, DateFieldInicio, true)
	require.NoError(t, err)

	var got []model.Tarefa
	require.NoError(t, db.Scopes(f.Scope()).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ClienteID)
}
