// Package webhook contém o cliente do webhook do agente: interpretação das
// respostas, mensagens recebidas e o monitor de disponibilidade.
package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// fragmentSeparator separa as mensagens fracionadas de uma mesma resposta
const fragmentSeparator = "\n\n"

// ParseResponse extrai o texto exibível da resposta bruta do webhook.
//
// Formatos aceitos, nesta ordem: lista de objetos com "message" (as partes
// não vazias são unidas por uma linha em branco), objeto com "message",
// objeto qualquer (primeira propriedade do tipo string, na ordem do
// documento) e string JSON. Qualquer outro formato, inclusive JSON inválido,
// devolve o texto original.
func ParseResponse(raw string) string {
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return raw
	}
	probe = bytes.TrimSpace(probe)
	if len(probe) == 0 {
		return raw
	}

	switch probe[0] {
	case '[':
		if text, ok := parseArray(probe); ok {
			return text
		}
	case '{':
		if text, ok := parseObject(probe); ok {
			return text
		}
	case '"':
		var s string
		if err := json.Unmarshal(probe, &s); err == nil {
			return s
		}
	}

	return raw
}

func parseArray(data json.RawMessage) (string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || len(items) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(items))
	found := false
	for _, item := range items {
		msg, ok := messageField(item)
		if !ok {
			continue
		}
		found = true
		if text := renderValue(msg); text != "" {
			parts = append(parts, text)
		}
	}
	if found {
		return strings.Join(parts, fragmentSeparator), true
	}

	// Sem "message": a lista é tratada como objeto indexado e vale o
	// primeiro elemento do tipo string.
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				return s, true
			}
		}
	}
	return "", false
}

func parseObject(data json.RawMessage) (string, bool) {
	if msg, ok := messageField(data); ok {
		return renderValue(msg), true
	}
	return firstStringProperty(data)
}

// messageField devolve o campo "message" de um objeto, se presente e não nulo
func messageField(data json.RawMessage) (json.RawMessage, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false
	}

	msg, ok := fields["message"]
	if !ok || string(bytes.TrimSpace(msg)) == "null" {
		return nil, false
	}
	return msg, true
}

// renderValue converte um valor JSON em texto: strings sem aspas, demais
// valores como JSON compacto
func renderValue(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}

// firstStringProperty percorre o objeto na ordem do documento, já que mapas
// não preservam a ordem das chaves
func firstStringProperty(data json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return "", false
	}

	for dec.More() {
		// chave
		if _, err := dec.Token(); err != nil {
			return "", false
		}

		tok, err := dec.Token()
		if err != nil {
			return "", false
		}

		switch v := tok.(type) {
		case string:
			return v, true
		case json.Delim:
			if err := skipComposite(dec); err != nil {
				return "", false
			}
		}
	}
	return "", false
}

// skipComposite consome o restante de um objeto ou lista já aberto
func skipComposite(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
