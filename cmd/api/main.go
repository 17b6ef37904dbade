package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugohenrick/crm-atendimento/internal/config"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

func main() {
	// Carregar configuração (.env incluso)
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Console: !cfg.IsProduction(),
	})

	if err := cfg.Validate(); err != nil {
		log.Error("Configuração inválida", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Criar aplicação
	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("Erro ao iniciar aplicação", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Sinal recebido, encerrando")
	case err := <-errCh:
		if err != nil {
			log.Error("Servidor parou", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Error("Erro ao encerrar servidor", "error", err)
		os.Exit(1)
	}
	log.Info("Servidor encerrado")
}
