package handler

import (
	"net/http"
	"time"

	"gestao-service/internal/model"
	"gestao-service/pkg/database"
	"gestao-service/pkg/logger"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SuporteRequest defines the structure for support ticket creation/update
// requests. Duration and total are computed server-side, never accepted
// from the caller.
type SuporteRequest struct {
	ClienteID   uint             `json:"cliente_id" validate:"required"`
	Descricao   string           `json:"descricao" validate:"required"`
	ValorHora   *decimal.Decimal `json:"valor_hora"`
	DataSuporte *time.Time       `json:"data_suporte"`
	HoraInicio  time.Time        `json:"hora_inicio" validate:"required"`
	HoraFim     *time.Time       `json:"hora_fim"`
}

// ListSuportes handles retrieving support tickets, optionally by client
func ListSuportes(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("Cliente").Order("data_suporte desc")
	if clienteID := c.QueryParam("clienteId"); clienteID != "" {
		query = query.Where("cliente_id = ?", clienteID)
	}

	var suportes []model.Suporte
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := query.Find(&suportes); result.Error != nil {
		log.Error("Failed to list support tickets", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve support tickets"})
	}

	return c.JSON(http.StatusOK, suportes)
}

// GetSuporte handles retrieving a single support ticket
func GetSuporte(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var suporte model.Suporte
	if result := database.GetDB().Preload("Cliente").First(&suporte, id); result.Error != nil {
		log.Warn("Support ticket not found", zap.String("suporte_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "support ticket not found"})
	}

	return c.JSON(http.StatusOK, suporte)
}

// CreateSuporte handles creating a support ticket with derived billing
func CreateSuporte(c echo.Context) error {
	log := logger.FromContext(c)

	var req SuporteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	data := time.Now()
	if req.DataSuporte != nil {
		data = *req.DataSuporte
	}

	suporte := model.Suporte{
		ClienteID:   req.ClienteID,
		Descricao:   req.Descricao,
		ValorHora:   req.ValorHora,
		DataSuporte: data,
		HoraInicio:  req.HoraInicio,
		HoraFim:     req.HoraFim,
	}
	suporte.ComputeDerived()

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&suporte); result.Error != nil {
		log.Error("Failed to create support ticket", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create support ticket"})
	}

	prometheus.RecordEntityOperation("suporte", "create")
	log.Info("Support ticket created",
		zap.Uint("suporte_id", suporte.ID),
		zap.Uint("cliente_id", suporte.ClienteID))
	return c.JSON(http.StatusCreated, suporte)
}

// UpdateSuporte handles updating a support ticket, recomputing billing
func UpdateSuporte(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var suporte model.Suporte
	if result := database.GetDB().First(&suporte, id); result.Error != nil {
		log.Warn("Support ticket not found for update", zap.String("suporte_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "support ticket not found"})
	}

	var req SuporteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("suporte_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	suporte.ClienteID = req.ClienteID
	suporte.Descricao = req.Descricao
	suporte.ValorHora = req.ValorHora
	if req.DataSuporte != nil {
		suporte.DataSuporte = *req.DataSuporte
	}
	suporte.HoraInicio = req.HoraInicio
	suporte.HoraFim = req.HoraFim
	suporte.ComputeDerived()

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&suporte); result.Error != nil {
		log.Error("Failed to update support ticket", zap.String("suporte_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update support ticket"})
	}

	prometheus.RecordEntityOperation("suporte", "update")
	return c.JSON(http.StatusOK, suporte)
}

// DeleteSuporte handles deleting a support ticket
func DeleteSuporte(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Delete(&model.Suporte{}, id)
	if result.Error != nil {
		log.Error("Failed to delete support ticket", zap.String("suporte_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete support ticket"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "support ticket not found"})
	}

	prometheus.RecordEntityOperation("suporte", "delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "support ticket deleted successfully"})
}
