package chat

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/identifier"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

// PreviewType classifica o arquivo pelo primeiro segmento do MIME type
type PreviewType string

const (
	PreviewImage    PreviewType = "image"
	PreviewVideo    PreviewType = "video"
	PreviewDocument PreviewType = "document"
)

var ErrFileTooLarge = errors.New("arquivo excede o tamanho máximo permitido")

// Upload é um arquivo selecionado pelo operador, ainda não lido
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadFromFileHeader adapta um arquivo recebido em formulário multipart
func UploadFromFileHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FilePreview é um arquivo em espera para o próximo envio
type FilePreview struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ContentType string      `json:"contentType"`
	Size        int64       `json:"size"`
	Type        PreviewType `json:"type"`
	PreviewURL  string      `json:"previewUrl"`

	file message.File
}

// Staging guarda os arquivos anexados antes do envio. Cada arquivo é lido
// em paralelo e entra na lista quando sua prévia fica pronta, portanto a
// ordem final não acompanha a ordem de seleção.
type Staging struct {
	maxBytes int64
	logger   logger.Logger

	mu    sync.Mutex
	files []FilePreview
	epoch uint64

	pending sync.WaitGroup
}

// NewStaging cria uma área de arquivos; maxBytes <= 0 não limita o tamanho
func NewStaging(maxBytes int64, logger logger.Logger) *Staging {
	return &Staging{
		maxBytes: maxBytes,
		logger:   logger,
		files:    make([]FilePreview, 0),
	}
}

// Stage lê os arquivos e gera as prévias sem bloquear o chamador
func (s *Staging) Stage(uploads []Upload) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	for _, u := range uploads {
		s.pending.Add(1)
		go func(u Upload) {
			defer s.pending.Done()

			preview, err := s.read(u)
			if err != nil {
				s.logger.Warn("Arquivo descartado", "name", u.Name, "error", err)
				return
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			// Clear ou Take durante a leitura descartam a prévia atrasada
			if s.epoch != epoch {
				return
			}
			s.files = append(s.files, preview)
		}(u)
	}
}

// Wait bloqueia até todas as prévias pendentes terminarem
func (s *Staging) Wait() {
	s.pending.Wait()
}

// Remove retira um arquivo da espera; ID desconhecido é ignorado
func (s *Staging) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.files {
		if s.files[i].ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return
		}
	}
}

// Clear esvazia a lista
func (s *Staging) Clear() {
	s.mu.Lock()
	s.files = make([]FilePreview, 0)
	s.epoch++
	s.mu.Unlock()
}

// List devolve uma cópia das prévias prontas
func (s *Staging) List() []FilePreview {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]FilePreview, len(s.files))
	copy(out, s.files)
	return out
}

// Len retorna a quantidade de arquivos prontos
func (s *Staging) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Take devolve os arquivos prontos e esvazia a lista. Arquivos ainda em
// leitura continuam chegando e ficam para o próximo envio.
func (s *Staging) Take() []message.File {
	s.mu.Lock()
	staged := s.files
	s.files = make([]FilePreview, 0)
	s.mu.Unlock()

	if len(staged) == 0 {
		return nil
	}
	out := make([]message.File, 0, len(staged))
	for _, p := range staged {
		out = append(out, p.file)
	}
	return out
}

func (s *Staging) read(u Upload) (FilePreview, error) {
	if s.maxBytes > 0 && u.Size > s.maxBytes {
		return FilePreview{}, ErrFileTooLarge
	}
	if u.Open == nil {
		return FilePreview{}, fmt.Errorf("arquivo %q sem conteúdo", u.Name)
	}

	rc, err := u.Open()
	if err != nil {
		return FilePreview{}, fmt.Errorf("erro ao abrir arquivo: %w", err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if s.maxBytes > 0 {
		r = io.LimitReader(rc, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return FilePreview{}, fmt.Errorf("erro ao ler arquivo: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return FilePreview{}, ErrFileTooLarge
	}

	contentType := u.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}
	// remove parâmetros como "; charset=utf-8" apenas da classificação
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	return FilePreview{
		ID:          identifier.New(),
		Name:        u.Name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Type:        classify(mediaType),
		PreviewURL:  "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		file: message.File{
			Name: u.Name,
			Type: contentType,
			Size: int64(len(data)),
			Data: data,
		},
	}, nil
}

func classify(contentType string) PreviewType {
	switch strings.SplitN(contentType, "/", 2)[0] {
	case "image":
		return PreviewImage
	case "video":
		return PreviewVideo
	default:
		return PreviewDocument
	}
}
