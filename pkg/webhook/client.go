package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// maxResponseBytes limita o corpo lido das respostas do webhook
const maxResponseBytes = 4 << 20

// Attachment é um arquivo enviado junto com a mensagem
type Attachment struct {
	Name string
	Type string
	Data []byte
}

// Outbound é a mensagem enviada ao webhook de saída
type Outbound struct {
	Telefone string
	Mensagem string
	Files    []Attachment
}

// StatusError indica uma resposta fora da faixa 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook respondeu com status %d", e.StatusCode)
}

// Client conversa com o webhook do agente
type Client struct {
	url  string
	http *http.Client
}

// NewClient cria um cliente para a URL de saída informada. O timeout de cada
// envio vem do contexto; httpClient nil usa um cliente padrão.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{url: url, http: httpClient}
}

// URL retorna o endereço do webhook de saída
func (c *Client) URL() string {
	return c.url
}

// Send faz o POST multipart (telefone, mensagem e um campo "file" por
// anexo) e devolve o texto já interpretado por ParseResponse
func (c *Client) Send(ctx context.Context, out Outbound) (string, error) {
	body, contentType, err := encodeMultipart(out)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro na comunicação com o webhook: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta do webhook: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return ParseResponse(string(data)), nil
}

// Heartbeat envia um HEAD leve ao webhook de saída
func (c *Client) Heartbeat(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return fmt.Errorf("erro ao criar heartbeat: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro no heartbeat: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Poll consulta a URL de entrada via GET esperando {"message": "..."}
func (c *Client) Poll(ctx context.Context, inboundURL string) (InboundMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inboundURL, nil)
	if err != nil {
		return InboundMessage{}, false, fmt.Errorf("erro ao criar consulta: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return InboundMessage{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return InboundMessage{}, false, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return InboundMessage{}, false, err
	}

	msg, ok := ParseInbound(data)
	return msg, ok, nil
}

func encodeMultipart(out Outbound) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("telefone", out.Telefone); err != nil {
		return nil, "", fmt.Errorf("erro ao montar formulário: %w", err)
	}
	if err := w.WriteField("mensagem", out.Mensagem); err != nil {
		return nil, "", fmt.Errorf("erro ao montar formulário: %w", err)
	}

	for _, f := range out.Files {
		contentType := f.Type
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("erro ao anexar arquivo: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("erro ao anexar arquivo: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("erro ao finalizar formulário: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
