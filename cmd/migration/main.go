package main

import (
	"flag"
	"os"

	"github.com/hugohenrick/crm-atendimento/internal/config"
	"github.com/hugohenrick/crm-atendimento/internal/infrastructure/database"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "desfaz a última migração aplicada")
	flag.Parse()

	// Carregar variáveis de ambiente
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Console: true})

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL não configurada; o SQLite cria o esquema ao abrir o banco")
		os.Exit(1)
	}

	if *down {
		if err := database.RollbackMigration(cfg.DatabaseURL); err != nil {
			log.Error("Erro ao desfazer migração", "error", err)
			os.Exit(1)
		}
		log.Info("Última migração desfeita com sucesso")
		return
	}

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		log.Error("Erro ao executar migrações", "error", err)
		os.Exit(1)
	}
	log.Info("Migrações executadas com sucesso", "version", version)
}
