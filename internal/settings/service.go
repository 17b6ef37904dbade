package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

const (
	// InboundURLKey guarda a URL consultada pelo receptor
	InboundURLKey = "inbound_webhook_url"

	// InboundPath é o caminho padrão do webhook de entrada
	InboundPath = "/api/v1/webhook/inbound"
)

var ErrInvalidURL = errors.New("URL inválida")

// Service expõe as configurações do atendimento
type Service struct {
	store  Store
	origin string
	logger logger.Logger
}

// NewService cria um novo serviço de configurações. origin é o endereço
// público do serviço, usado para gerar a URL de entrada padrão.
func NewService(store Store, origin string, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		origin: strings.TrimRight(origin, "/"),
		logger: logger,
	}
}

// DefaultInboundURL retorna a URL de entrada gerada a partir da origem
func (s *Service) DefaultInboundURL() string {
	return s.origin + InboundPath
}

// InboundURL retorna a URL de entrada configurada. Na primeira leitura a
// URL padrão é gerada e gravada.
func (s *Service) InboundURL(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, InboundURLKey)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	v = s.DefaultInboundURL()
	if err := s.store.Set(ctx, InboundURLKey, v); err != nil {
		return "", err
	}
	s.logger.Info("URL de entrada gerada", "url", v)
	return v, nil
}

// SetInboundURL grava uma URL de entrada absoluta (http ou https)
func (s *Service) SetInboundURL(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	if err := s.store.Set(ctx, InboundURLKey, raw); err != nil {
		return "", err
	}
	s.logger.Info("URL de entrada alterada", "url", raw)
	return raw, nil
}

// ResetInboundURL volta para a URL padrão
func (s *Service) ResetInboundURL(ctx context.Context) (string, error) {
	if err := s.store.Delete(ctx, InboundURLKey); err != nil {
		return "", err
	}
	return s.InboundURL(ctx)
}

// PollURL é usado pelo receptor; erros resultam em URL vazia
func (s *Service) PollURL(ctx context.Context) string {
	v, err := s.InboundURL(ctx)
	if err != nil {
		s.logger.Debug("URL de entrada indisponível", "error", err)
		return ""
	}
	return v
}
