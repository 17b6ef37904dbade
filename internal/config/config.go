package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne toda a configuração da aplicação
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Banco de dados
	DatabaseURL    string // Postgres; vazio usa SQLite local
	SQLitePath     string
	AutoMigrate    bool
	PersistTimeout time.Duration

	// Armazenamento de configurações (URL do webhook de entrada)
	RedisURL string

	// Webhook de saída
	OutboundWebhookURL string
	SendTimeout        time.Duration
	MaxUploadBytes     int64

	// Monitor do webhook
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
	ReceiverEnabled   bool
	PublicOrigin      string

	// Autenticação e CORS
	JWTSecretKey string
	CORSOrigins  []string
}

// Load carrega a configuração das variáveis de ambiente.
// Em desenvolvimento lê também o arquivo .env, se existir.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        databaseURLFromEnv(),
		SQLitePath:         getEnv("SQLITE_PATH", "data/atendimento.db"),
		AutoMigrate:        getBool("AUTO_MIGRATE", true),
		PersistTimeout:     getDuration("PERSIST_TIMEOUT", 10*time.Second),
		RedisURL:           os.Getenv("REDIS_URL"),
		OutboundWebhookURL: os.Getenv("OUTBOUND_WEBHOOK_URL"),
		SendTimeout:        getDuration("SEND_TIMEOUT", 30*time.Second),
		MaxUploadBytes:     getInt64("MAX_UPLOAD_BYTES", 16<<20),
		HeartbeatInterval:  getDuration("HEARTBEAT_INTERVAL", 45*time.Second),
		PollInterval:       getDuration("POLL_INTERVAL", 5*time.Second),
		ReceiverEnabled:    getBool("RECEIVER_ENABLED", false),
		PublicOrigin:       strings.TrimRight(getEnv("PUBLIC_ORIGIN", "http://localhost:8080"), "/"),
		JWTSecretKey:       os.Getenv("JWT_SECRET_KEY"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
	}

	return cfg
}

// Validate verifica as configurações obrigatórias
func (c *Config) Validate() error {
	if c.OutboundWebhookURL == "" {
		return fmt.Errorf("OUTBOUND_WEBHOOK_URL não configurada")
	}
	if c.IsProduction() && c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY é obrigatória em produção")
	}
	return nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// databaseURLFromEnv usa DATABASE_URL ou monta a URL a partir das variáveis DB_*
func databaseURLFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		host,
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "atendimento"),
		getEnv("DB_SSL_MODE", "disable"),
	)
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt64(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, entry := range strings.Split(value, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
