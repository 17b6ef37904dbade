package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/dto"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT. Sem serviço
// configurado (desenvolvimento) as requisições passam direto.
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	if jwtService == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"Use o cabeçalho 'Authorization: Bearer <token>'",
			))
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		// Armazenar as claims no contexto
		c.Set("user_id", claims.UserID())
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)

		c.Next()
	}
}

// bearerToken lê o token do cabeçalho ou, para websocket, do parâmetro access_token
func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// GetCurrentUser obtém o usuário autenticado do contexto
func GetCurrentUser(c *gin.Context) (userID, email, role string) {
	return c.GetString("user_id"), c.GetString("user_email"), c.GetString("user_role")
}
