package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/crm-atendimento/internal/chat"
	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/identifier"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// ChatController gerencia as requisições das conversas do painel
type ChatController struct {
	manager *chat.Manager
	logger  logger.Logger
}

// NewChatController cria uma nova instância de ChatController
func NewChatController(manager *chat.Manager, logger logger.Logger) *ChatController {
	return &ChatController{
		manager: manager,
		logger:  logger,
	}
}

// History carrega o histórico gravado da conversa
// @Summary Carregar histórico
// @Description Substitui a lista da conversa pelo histórico gravado, em ordem cronológica
// @Tags conversations
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Success 200 {array} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/messages [get]
func (c *ChatController) History(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	if err := session.Store.LoadHistory(ctx.Request.Context(), session.Key); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "erro ao carregar histórico", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMessageListResponse(session.Store.Messages()))
}

// State retorna o estado atual da conversa
// @Summary Estado da conversa
// @Description Mensagens, indicador de envio, arquivos em espera e avisos recentes
// @Tags conversations
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Success 200 {object} dto.ConversationStateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/state [get]
func (c *ChatController) State(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversationStateResponse(session))
}

// Send envia uma mensagem do operador ao agente
// @Summary Enviar mensagem
// @Description Aceita multipart (mensagem, file) ou JSON {mensagem}. A mensagem aparece na hora e a resposta do agente chega depois.
// @Tags conversations
// @Accept json,mpfd
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Param mensagem formData string false "Texto da mensagem"
// @Param file formData file false "Anexo"
// @Success 202 {object} dto.SendMessageResponse
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/messages [post]
func (c *ChatController) Send(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var content string
	if isMultipart(ctx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "formulário inválido", err.Error()))
			return
		}
		content = ctx.PostForm("mensagem")
		c.stage(session, form.File["file"])
	} else {
		var req dto.SendMessageRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
			return
		}
		content = req.Mensagem
	}

	id := session.Sender.Send(content, session.Key)
	if id == "" {
		ctx.JSON(http.StatusOK, dto.SendMessageResponse{Ignored: true})
		return
	}

	ctx.JSON(http.StatusAccepted, dto.SendMessageResponse{ID: id})
}

// StageFiles anexa arquivos ao próximo envio
// @Summary Anexar arquivos
// @Tags files
// @Accept mpfd
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Param file formData file true "Arquivos"
// @Success 200 {array} dto.FilePreviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/files [post]
func (c *ChatController) StageFiles(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "formulário inválido", err.Error()))
		return
	}

	c.stage(session, form.File["file"])
	ctx.JSON(http.StatusOK, dto.ToFilePreviewListResponse(session.Staging.List()))
}

// RemoveFile retira um arquivo da espera
// @Summary Remover arquivo anexado
// @Tags files
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Param fileId path string true "ID do arquivo"
// @Success 204
// @Router /conversations/{telefone}/files/{fileId} [delete]
func (c *ChatController) RemoveFile(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	session.Staging.Remove(ctx.Param("fileId"))
	ctx.Status(http.StatusNoContent)
}

// ClearFiles esvazia os arquivos em espera
// @Summary Limpar arquivos anexados
// @Tags files
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Success 204
// @Router /conversations/{telefone}/files [delete]
func (c *ChatController) ClearFiles(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	session.Staging.Clear()
	ctx.Status(http.StatusNoContent)
}

// ToggleFavorite inverte o favorito da mensagem
// @Summary Favoritar mensagem
// @Tags messages
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Param id path string true "ID da mensagem"
// @Success 200 {object} dto.FavoriteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/messages/{id}/favorite [patch]
func (c *ChatController) ToggleFavorite(ctx *gin.Context) {
	session, id, ok := c.sessionAndMessage(ctx)
	if !ok {
		return
	}

	favorite, found := session.Store.ToggleFavorite(id)
	if !found {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "mensagem não encontrada", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.FavoriteResponse{ID: id, IsFavorite: favorite})
}

// Delete exclui uma mensagem
// @Summary Excluir mensagem
// @Description A mensagem só sai da conversa depois que o banco confirma a exclusão
// @Tags messages
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Param id path string true "ID da mensagem"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/messages/{id} [delete]
func (c *ChatController) Delete(ctx *gin.Context) {
	session, id, ok := c.sessionAndMessage(ctx)
	if !ok {
		return
	}

	err := session.Store.Delete(ctx.Request.Context(), id)
	switch {
	case err == nil:
		ctx.Status(http.StatusNoContent)
	case errors.Is(err, message.ErrMessageNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "mensagem não encontrada", ""))
	case errors.Is(err, chat.ErrDeleteFailed):
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "erro ao excluir mensagem", err.Error()))
	default:
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "exclusão interrompida", err.Error()))
	}
}

// Copy copia o conteúdo da mensagem para a área de transferência do painel
// @Summary Copiar mensagem
// @Tags messages
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Param id path string true "ID da mensagem"
// @Success 200 {object} dto.CopyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/messages/{id}/copy [post]
func (c *ChatController) Copy(ctx *gin.Context) {
	session, id, ok := c.sessionAndMessage(ctx)
	if !ok {
		return
	}

	err := session.Store.CopyToClipboard(ctx.Request.Context(), id)
	if errors.Is(err, message.ErrMessageNotFound) {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "mensagem não encontrada", ""))
		return
	}
	if err != nil {
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "erro ao copiar mensagem", err.Error()))
		return
	}

	m, _ := session.Store.Get(id)
	ctx.JSON(http.StatusOK, dto.CopyResponse{ID: id, Content: m.Content})
}

// ClearHistory apaga o histórico gravado da conversa
// @Summary Apagar histórico
// @Tags conversations
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param telefone path string true "Telefone da conversa"
// @Success 200 {object} dto.ClearHistoryResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /conversations/{telefone}/history [delete]
func (c *ChatController) ClearHistory(ctx *gin.Context) {
	n, err := c.manager.ClearHistory(ctx.Request.Context(), ctx.Param("telefone"))
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, dto.ClearHistoryResponse{Deleted: n})
	case errors.Is(err, message.ErrEmptyConversationKey):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "telefone não informado", ""))
	default:
		c.logger.Error("erro ao apagar histórico", "telefone", ctx.Param("telefone"), "error", err)
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "erro ao apagar histórico", err.Error()))
	}
}

func (c *ChatController) session(ctx *gin.Context) (*chat.Session, bool) {
	session, err := c.manager.Get(ctx.Param("telefone"))
	if errors.Is(err, message.ErrEmptyConversationKey) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "telefone não informado", ""))
		return nil, false
	}
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(http.StatusServiceUnavailable, "serviço encerrando", err.Error()))
		return nil, false
	}
	return session, true
}

func (c *ChatController) sessionAndMessage(ctx *gin.Context) (*chat.Session, string, bool) {
	id := ctx.Param("id")
	if !identifier.Valid(id) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID de mensagem inválido", ""))
		return nil, "", false
	}

	session, ok := c.session(ctx)
	return session, id, ok
}

func (c *ChatController) stage(session *chat.Session, files []*multipart.FileHeader) {
	if len(files) == 0 {
		return
	}

	uploads := make([]chat.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, chat.UploadFromFileHeader(fh))
	}
	session.Staging.Stage(uploads)
	// o formulário é descartado ao fim da requisição
	session.Staging.Wait()
}

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/")
}
