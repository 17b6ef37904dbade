package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Options configura a criação do logger
type Options struct {
	Level   string
	Console bool
	Output  io.Writer
}

// ZeroLogger é uma implementação de Logger sobre o zerolog
type ZeroLogger struct {
	log zerolog.Logger
}

// NewLogger cria uma nova instância de Logger com nível info em JSON no stdout
func NewLogger() Logger {
	return New(Options{Level: "info"})
}

// New cria um Logger a partir das opções informadas
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	return &ZeroLogger{
		log: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

// NewNop cria um Logger que descarta todas as mensagens
func NewNop() Logger {
	return &ZeroLogger{log: zerolog.Nop()}
}

// Zerolog devolve o zerolog de um Logger criado por New; outras
// implementações recebem um logger que descarta tudo
func Zerolog(l Logger) zerolog.Logger {
	if zl, ok := l.(*ZeroLogger); ok {
		return zl.log
	}
	return zerolog.Nop()
}

// Info registra uma mensagem de informação
func (l *ZeroLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Info(), keysAndValues).Msg(msg)
}

// Error registra uma mensagem de erro
func (l *ZeroLogger) Error(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Error(), keysAndValues).Msg(msg)
}

// Debug registra uma mensagem de debug
func (l *ZeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Debug(), keysAndValues).Msg(msg)
}

// Warn registra uma mensagem de aviso
func (l *ZeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	withFields(l.log.Warn(), keysAndValues).Msg(msg)
}

// withFields converte pares chave/valor em campos do evento.
// Uma chave sem valor é registrada sob "extra".
func withFields(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			e = e.Interface("extra", keysAndValues[i])
			break
		}

		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		switch v := keysAndValues[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
