// Package migrations embute os scripts SQL do banco de mensagens.
package migrations

import "embed"

// FS contém os arquivos de migração no formato do golang-migrate
//
//go:embed *.sql
var FS embed.FS
