package handler

import (
	"net/http"

	"gestao-service/internal/model"
	"gestao-service/pkg/database"
	"gestao-service/pkg/logger"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TipoServicoRequest defines the structure for service type requests
type TipoServicoRequest struct {
	Nome  string  `json:"nome" validate:"required"`
	Orgao *string `json:"orgao"`
}

// ListTiposServico handles retrieving all service types ordered by name
func ListTiposServico(c echo.Context) error {
	log := logger.FromContext(c)

	var tipos []model.TipoServico
	if result := database.GetDB().Order("nome asc").Find(&tipos); result.Error != nil {
		log.Error("Failed to list service types", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve service types"})
	}

	return c.JSON(http.StatusOK, tipos)
}

// GetTipoServico handles retrieving a single service type
func GetTipoServico(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var tipo model.TipoServico
	if result := database.GetDB().First(&tipo, id); result.Error != nil {
		log.Warn("Service type not found", zap.String("tipo_servico_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service type not found"})
	}

	return c.JSON(http.StatusOK, tipo)
}

// CreateTipoServico handles creating a new service type
func CreateTipoServico(c echo.Context) error {
	log := logger.FromContext(c)

	var req TipoServicoRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tipo := model.TipoServico{Nome: req.Nome, Orgao: req.Orgao}
	if result := database.GetDB().Create(&tipo); result.Error != nil {
		log.Error("Failed to create service type", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create service type"})
	}

	prometheus.RecordEntityOperation("tipo_servico", "create")
	return c.JSON(http.StatusCreated, tipo)
}

// UpdateTipoServico handles updating an existing service type
func UpdateTipoServico(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var tipo model.TipoServico
	if result := database.GetDB().First(&tipo, id); result.Error != nil {
		log.Warn("Service type not found for update", zap.String("tipo_servico_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service type not found"})
	}

	var req TipoServicoRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("tipo_servico_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tipo.Nome = req.Nome
	tipo.Orgao = req.Orgao
	if result := database.GetDB().Save(&tipo); result.Error != nil {
		log.Error("Failed to update service type", zap.String("tipo_servico_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service type"})
	}

	prometheus.RecordEntityOperation("tipo_servico", "update")
	return c.JSON(http.StatusOK, tipo)
}

// DeleteTipoServico handles deleting a service type
func DeleteTipoServico(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.TipoServico{}, id)
	if result.Error != nil {
		log.Error("Failed to delete service type", zap.String("tipo_servico_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete service type"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service type not found"})
	}

	prometheus.RecordEntityOperation("tipo_servico", "delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "service type deleted successfully"})
}
