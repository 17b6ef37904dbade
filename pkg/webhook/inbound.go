package webhook

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// InboundMessage é a carga recebida pelo webhook de entrada
type InboundMessage struct {
	Message   string `json:"message"`
	Sender    string `json:"sender,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Telefone  string `json:"telefone,omitempty"`
}

// ParseInbound decodifica a carga de entrada. Retorna false quando o corpo
// não é JSON ou não traz o campo "message" preenchido.
func ParseInbound(body []byte) (InboundMessage, bool) {
	var msg InboundMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return InboundMessage{}, false
	}
	if strings.TrimSpace(msg.Message) == "" {
		return InboundMessage{}, false
	}
	return msg, true
}

// Time interpreta o horário informado pelo agente: RFC 3339 ou epoch em
// milissegundos. Retorna false quando ausente ou inválido.
func (m InboundMessage) Time() (time.Time, bool) {
	raw := strings.TrimSpace(m.Timestamp)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms), true
	}
	return time.Time{}, false
}
