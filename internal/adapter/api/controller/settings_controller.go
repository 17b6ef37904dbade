package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/crm-atendimento/internal/settings"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// SettingsController gerencia a URL do webhook de entrada
type SettingsController struct {
	service *settings.Service
	logger  logger.Logger
}

// NewSettingsController cria uma nova instância de SettingsController
func NewSettingsController(service *settings.Service, logger logger.Logger) *SettingsController {
	return &SettingsController{
		service: service,
		logger:  logger,
	}
}

// GetInboundURL retorna a URL de entrada
// @Summary URL de entrada
// @Tags settings
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} dto.InboundURLResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /settings/inbound-url [get]
func (c *SettingsController) GetInboundURL(ctx *gin.Context) {
	url, err := c.service.InboundURL(ctx.Request.Context())
	c.respond(ctx, url, err)
}

// SetInboundURL altera a URL de entrada
// @Summary Alterar URL de entrada
// @Tags settings
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body dto.InboundURLRequest true "Nova URL"
// @Success 200 {object} dto.InboundURLResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /settings/inbound-url [put]
func (c *SettingsController) SetInboundURL(ctx *gin.Context) {
	var req dto.InboundURLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	url, err := c.service.SetInboundURL(ctx.Request.Context(), req.URL)
	c.respond(ctx, url, err)
}

// ResetInboundURL volta para a URL padrão
// @Summary Restaurar URL de entrada
// @Tags settings
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} dto.InboundURLResponse
// @Router /settings/inbound-url [delete]
func (c *SettingsController) ResetInboundURL(ctx *gin.Context) {
	url, err := c.service.ResetInboundURL(ctx.Request.Context())
	c.respond(ctx, url, err)
}

func (c *SettingsController) respond(ctx *gin.Context, url string, err error) {
	if errors.Is(err, settings.ErrInvalidURL) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "URL inválida", err.Error()))
		return
	}
	if err != nil {
		c.logger.Error("erro ao acessar configurações", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao acessar configurações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.InboundURLResponse{URL: url, DefaultURL: c.service.DefaultInboundURL()})
}
