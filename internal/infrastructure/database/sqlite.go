package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteSchema espelha a migração do PostgreSQL com os tipos do SQLite
const sqliteSchema = `
PRAGMA busy_timeout = 5000;
CREATE TABLE IF NOT EXISTS chat_messages (
	id TEXT PRIMARY KEY,
	conversation_key TEXT NOT NULL,
	content TEXT NOT NULL,
	sender TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
	timestamp INTEGER NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	files TEXT
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_conversation ON chat_messages(conversation_key, timestamp);
`

// NewSQLiteDB abre (ou cria) o banco SQLite local e garante o schema.
// O caminho ":memory:" cria um banco em memória, usado nos testes.
func NewSQLiteDB(path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("erro ao criar diretório do banco: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco sqlite: %w", err)
	}

	if path == ":memory:" {
		// cada conexão teria seu próprio banco em memória
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao verificar banco sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao criar schema sqlite: %w", err)
	}

	return db, nil
}
