package handler

import (
	"net/http"
	"time"

	"gestao-service/internal/model"
	"gestao-service/pkg/database"
	"gestao-service/pkg/logger"
	"gestao-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LicencaRequest defines the structure for license creation/update requests
type LicencaRequest struct {
	ClienteID  uint       `json:"cliente_id" validate:"required"`
	Nome       string     `json:"nome" validate:"required"`
	Validade   *time.Time `json:"validade"`
	Observacao string     `json:"observacao"`
}

// ListLicencas handles retrieving licenses ordered by expiry
func ListLicencas(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("Cliente").Order("validade asc")
	if clienteID := c.QueryParam("clienteId"); clienteID != "" {
		query = query.Where("cliente_id = ?", clienteID)
	}

	var licencas []model.Licenca
	if result := query.Find(&licencas); result.Error != nil {
		log.Error("Failed to list licenses", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve licenses"})
	}

	return c.JSON(http.StatusOK, licencas)
}

// GetLicenca handles retrieving a single license
func GetLicenca(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var licenca model.Licenca
	if result := database.GetDB().Preload("Cliente").First(&licenca, id); result.Error != nil {
		log.Warn("License not found", zap.String("licenca_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "license not found"})
	}

	return c.JSON(http.StatusOK, licenca)
}

// CreateLicenca handles creating a new license
func CreateLicenca(c echo.Context) error {
	log := logger.FromContext(c)

	var req LicencaRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	licenca := model.Licenca{
		ClienteID:  req.ClienteID,
		Nome:       req.Nome,
		Observacao: req.Observacao,
	}
	if req.Validade != nil {
		licenca.Validade = *req.Validade
	}

	if result := database.GetDB().Create(&licenca); result.Error != nil {
		log.Error("Failed to create license", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create license"})
	}

	prometheus.RecordEntityOperation("licenca", "create")
	return c.JSON(http.StatusCreated, licenca)
}

// UpdateLicenca handles updating an existing license
func UpdateLicenca(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var licenca model.Licenca
	if result := database.GetDB().First(&licenca, id); result.Error != nil {
		log.Warn("License not found for update", zap.String("licenca_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "license not found"})
	}

	var req LicencaRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("licenca_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	licenca.ClienteID = req.ClienteID
	licenca.Nome = req.Nome
	licenca.Observacao = req.Observacao
	if req.Validade != nil {
		licenca.Validade = *req.Validade
	}

	if result := database.GetDB().Save(&licenca); result.Error != nil {
		log.Error("Failed to update license", zap.String("licenca_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update license"})
	}

	prometheus.RecordEntityOperation("licenca", "update")
	return c.JSON(http.StatusOK, licenca)
}

// DeleteLicenca handles deleting a license
func DeleteLicenca(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Licenca{}, id)
	if result.Error != nil {
		log.Error("Failed to delete license", zap.String("licenca_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete license"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "license not found"})
	}

	prometheus.RecordEntityOperation("licenca", "delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "license deleted successfully"})
}
