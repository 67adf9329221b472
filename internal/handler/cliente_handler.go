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

// ClienteRequest defines the structure for client creation/update requests
type ClienteRequest struct {
	Nome        string `json:"nome" validate:"required"`
	RazaoSocial string `json:"razao_social"`
	CNPJ        string `json:"cnpj"`
	Telefone    string `json:"telefone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Endereco    string `json:"endereco"`
}

// ListClientes handles retrieving all clients ordered by name
func ListClientes(c echo.Context) error {
	log := logger.FromContext(c)

	var clientes []model.Cliente
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().Order("nome asc").Find(&clientes)
	if result.Error != nil {
		log.Error("Failed to list clients", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve clients"})
	}

	return c.JSON(http.StatusOK, clientes)
}

// GetCliente handles retrieving a single client with its related records
func GetCliente(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var cliente model.Cliente
	result := database.GetDB().
		Preload("Tarefas").
		Preload("Suportes").
		Preload("Licencas").
		First(&cliente, id)
	if result.Error != nil {
		log.Warn("Client not found", zap.String("cliente_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	}

	return c.JSON(http.StatusOK, cliente)
}

// CreateCliente handles creating a new client
func CreateCliente(c echo.Context) error {
	log := logger.FromContext(c)

	var req ClienteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cliente := model.Cliente{
		Nome:         req.Nome,
		RazaoSocial:  req.RazaoSocial,
		CNPJ:         req.CNPJ,
		Telefone:     req.Telefone,
		Email:        req.Email,
		Endereco:     req.Endereco,
		DataCadastro: time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&cliente); result.Error != nil {
		log.Error("Failed to create client", zap.String("nome", req.Nome), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create client"})
	}

	prometheus.RecordEntityOperation("cliente", "create")
	log.Info("Client created", zap.Uint("cliente_id", cliente.ID), zap.String("nome", cliente.Nome))
	return c.JSON(http.StatusCreated, cliente)
}

// UpdateCliente handles updating an existing client
func UpdateCliente(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ClienteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("cliente_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var cliente model.Cliente
	if result := database.GetDB().First(&cliente, id); result.Error != nil {
		log.Warn("Client not found for update", zap.String("cliente_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	}

	cliente.Nome = req.Nome
	cliente.RazaoSocial = req.RazaoSocial
	cliente.CNPJ = req.CNPJ
	cliente.Telefone = req.Telefone
	cliente.Email = req.Email
	cliente.Endereco = req.Endereco

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&cliente); result.Error != nil {
		log.Error("Failed to update client", zap.String("cliente_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update client"})
	}

	prometheus.RecordEntityOperation("cliente", "update")
	return c.JSON(http.StatusOK, cliente)
}

// DeleteCliente handles deleting a client and everything it owns
func DeleteCliente(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Delete(&model.Cliente{}, id)
	if result.Error != nil {
		log.Error("Failed to delete client", zap.String("cliente_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete client"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Client not found for deletion", zap.String("cliente_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	}

	prometheus.RecordEntityOperation("cliente", "delete")
	log.Info("Client deleted", zap.String("cliente_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "client deleted successfully"})
}
