package handler

import (
	"net/http"
	"time"

	"gestao-service/internal/model"
	"gestao-service/internal/report"
	"gestao-service/pkg/database"
	"gestao-service/pkg/logger"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TarefaRequest defines the structure for task creation requests
type TarefaRequest struct {
	ClienteID         uint             `json:"cliente_id" validate:"required"`
	TipoServicoID     uint             `json:"tipo_servico_id" validate:"required"`
	Status            string           `json:"status" validate:"required"`
	DataInicio        *time.Time       `json:"data_inicio"`
	PrazoFinal        *time.Time       `json:"prazo_final"`
	ValorTotalServico *decimal.Decimal `json:"valor_total_servico"`
	Observacoes       string           `json:"observacoes"`
}

// TarefaUpdateRequest defines the structure for task update requests;
// absent fields are left untouched
type TarefaUpdateRequest struct {
	Status            *string          `json:"status"`
	PrazoFinal        *time.Time       `json:"prazo_final"`
	ValorTotalServico *decimal.Decimal `json:"valor_total_servico"`
	Observacoes       *string          `json:"observacoes"`
}

// EtapaRequest defines the structure for task sub-step creation
type EtapaRequest struct {
	NomeEtapa        string     `json:"nome_etapa" validate:"required"`
	DataEtapa        *time.Time `json:"data_etapa"`
	StatusEtapa      bool       `json:"status_etapa"`
	ObservacoesEtapa string     `json:"observacoes_etapa"`
}

// HistoricoRequest defines the structure for manual status history entries
type HistoricoRequest struct {
	Status      string     `json:"status" validate:"required"`
	DataMudanca *time.Time `json:"data_mudanca"`
}

// ListTarefas handles retrieving tasks, optionally filtered by status
func ListTarefas(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().
		Preload("Cliente").
		Preload("TipoServico").
		Order("id desc").
		Limit(100)

	if status := c.QueryParam("status"); status != "" {
		// Spacing variants of a status resolve to the canonical value;
		// values outside the taxonomy are allowed and match nothing.
		if canonical, ok := report.DefaultTaxonomy().Resolve(status); ok {
			status = string(canonical)
		} else {
			log.Warn("Status filter outside taxonomy", zap.String("status", status))
		}
		query = query.Where("status = ?", status)
	}

	var tarefas []model.Tarefa
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := query.Find(&tarefas); result.Error != nil {
		log.Error("Failed to list tasks", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve tasks"})
	}

	return c.JSON(http.StatusOK, tarefas)
}

// GetTarefa handles retrieving a single task with its full context
func GetTarefa(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var tarefa model.Tarefa
	result := database.GetDB().
		Preload("Cliente").
		Preload("TipoServico").
		Preload("Etapas").
		Preload("HistoricoStatus").
		First(&tarefa, id)
	if result.Error != nil {
		log.Warn("Task not found", zap.String("tarefa_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	return c.JSON(http.StatusOK, tarefa)
}

// CreateTarefa handles creating a new task
func CreateTarefa(c echo.Context) error {
	log := logger.FromContext(c)

	var req TarefaRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Stored statuses always hold a canonical taxonomy value.
	status, ok := report.DefaultTaxonomy().Resolve(req.Status)
	if !ok {
		log.Warn("Rejected task with unknown status", zap.String("status", req.Status))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status: " + req.Status})
	}

	inicio := time.Now()
	if req.DataInicio != nil {
		inicio = *req.DataInicio
	}

	tarefa := model.Tarefa{
		ClienteID:         req.ClienteID,
		TipoServicoID:     req.TipoServicoID,
		Status:            string(status),
		DataInicio:        inicio,
		PrazoFinal:        req.PrazoFinal,
		ValorTotalServico: req.ValorTotalServico,
		Observacoes:       req.Observacoes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tarefa).Error; err != nil {
			return err
		}
		historico := model.HistoricoStatusTarefa{
			TarefaID:    tarefa.ID,
			Status:      tarefa.Status,
			DataMudanca: time.Now(),
		}
		return tx.Create(&historico).Error
	})
	if err != nil {
		log.Error("Failed to create task", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create task"})
	}

	prometheus.RecordEntityOperation("tarefa", "create")
	log.Info("Task created",
		zap.Uint("tarefa_id", tarefa.ID),
		zap.Uint("cliente_id", tarefa.ClienteID),
		zap.String("status", tarefa.Status))
	return c.JSON(http.StatusCreated, tarefa)
}

// UpdateTarefa handles partial task updates; a status change appends a
// history entry in the same transaction
func UpdateTarefa(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req TarefaUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("tarefa_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var tarefa model.Tarefa
	if result := database.GetDB().First(&tarefa, id); result.Error != nil {
		log.Warn("Task not found for update", zap.String("tarefa_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	statusChanged := false
	if req.Status != nil {
		status, ok := report.DefaultTaxonomy().Resolve(*req.Status)
		if !ok {
			log.Warn("Rejected unknown status", zap.String("status", *req.Status))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status: " + *req.Status})
		}
		if string(status) != tarefa.Status {
			tarefa.Status = string(status)
			statusChanged = true
		}
	}
	if req.PrazoFinal != nil {
		tarefa.PrazoFinal = req.PrazoFinal
	}
	if req.ValorTotalServico != nil {
		tarefa.ValorTotalServico = req.ValorTotalServico
	}
	if req.Observacoes != nil {
		tarefa.Observacoes = *req.Observacoes
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&tarefa).Error; err != nil {
			return err
		}
		if statusChanged {
			historico := model.HistoricoStatusTarefa{
				TarefaID:    tarefa.ID,
				Status:      tarefa.Status,
				DataMudanca: time.Now(),
			}
			return tx.Create(&historico).Error
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update task", zap.String("tarefa_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update task"})
	}

	prometheus.RecordEntityOperation("tarefa", "update")
	return c.JSON(http.StatusOK, tarefa)
}

// DeleteTarefa handles deleting a task
func DeleteTarefa(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Delete(&model.Tarefa{}, id)
	if result.Error != nil {
		log.Error("Failed to delete task", zap.String("tarefa_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete task"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	prometheus.RecordEntityOperation("tarefa", "delete")
	log.Info("Task deleted", zap.String("tarefa_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted successfully"})
}

// ListEtapas handles retrieving the sub-steps of a task in creation order
func ListEtapas(c echo.Context) error {
	log := logger.FromContext(c)
	tarefaID := c.Param("id")

	var etapas []model.Etapa
	result := database.GetDB().Where("tarefa_id = ?", tarefaID).Order("id asc").Find(&etapas)
	if result.Error != nil {
		log.Error("Failed to list task steps", zap.String("tarefa_id", tarefaID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve steps"})
	}

	return c.JSON(http.StatusOK, etapas)
}

// CreateEtapa handles adding a sub-step to a task
func CreateEtapa(c echo.Context) error {
	log := logger.FromContext(c)
	tarefaID := c.Param("id")

	var tarefa model.Tarefa
	if result := database.GetDB().First(&tarefa, tarefaID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	var req EtapaRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	etapa := model.Etapa{
		TarefaID:         tarefa.ID,
		NomeEtapa:        req.NomeEtapa,
		DataEtapa:        req.DataEtapa,
		StatusEtapa:      req.StatusEtapa,
		ObservacoesEtapa: req.ObservacoesEtapa,
	}
	if result := database.GetDB().Create(&etapa); result.Error != nil {
		log.Error("Failed to create step", zap.String("tarefa_id", tarefaID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create step"})
	}

	return c.JSON(http.StatusCreated, etapa)
}

// ListHistorico handles retrieving a task's status history, newest first
func ListHistorico(c echo.Context) error {
	log := logger.FromContext(c)
	tarefaID := c.Param("id")

	var historico []model.HistoricoStatusTarefa
	result := database.GetDB().Where("tarefa_id = ?", tarefaID).Order("data_mudanca desc").Find(&historico)
	if result.Error != nil {
		log.Error("Failed to list status history", zap.String("tarefa_id", tarefaID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve history"})
	}

	return c.JSON(http.StatusOK, historico)
}

// CreateHistorico handles adding a manual status history entry
func CreateHistorico(c echo.Context) error {
	log := logger.FromContext(c)
	tarefaID := c.Param("id")

	var tarefa model.Tarefa
	if result := database.GetDB().First(&tarefa, tarefaID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	var req HistoricoRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	mudanca := time.Now()
	if req.DataMudanca != nil {
		mudanca = *req.DataMudanca
	}

	historico := model.HistoricoStatusTarefa{
		TarefaID:    tarefa.ID,
		Status:      req.Status,
		DataMudanca: mudanca,
	}
	if result := database.GetDB().Create(&historico); result.Error != nil {
		log.Error("Failed to create history entry", zap.String("tarefa_id", tarefaID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create history entry"})
	}

	return c.JSON(http.StatusCreated, historico)
}
