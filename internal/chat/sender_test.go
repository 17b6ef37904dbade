package chat

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
	"github.com/hugohenrick/crm-atendimento/pkg/webhook"
)

type senderFixture struct {
	repo    *memoryRepository
	store   *Store
	staging *Staging
	sender  *Sender
	effects *recordingEffects
}

func newSenderFixture(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *senderFixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo := newMemoryRepository()
	store, effects := newTestStore(t, repo)
	staging := NewStaging(0, logger.NewNop())
	sender := NewSender(store, staging, SenderConfig{
		Client:  webhook.NewClient(server.URL, server.Client()),
		Timeout: timeout,
	}, logger.NewNop())
	t.Cleanup(sender.Close)

	return &senderFixture{repo: repo, store: store, staging: staging, sender: sender, effects: effects}
}

func contents(msgs []message.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, string(m.Sender)+":"+m.Content)
	}
	return out
}

func TestSendEndToEnd(t *testing.T) {
	var telefoneRecebido, mensagemRecebida string
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		telefoneRecebido = r.FormValue("telefone")
		mensagemRecebida = r.FormValue("mensagem")
		fmt.Fprint(w, `{"message":"Oi! Como posso ajudar?"}`)
	}, time.Second)

	id := f.sender.Send("Olá", telefone)
	require.NotEmpty(t, id)
	f.sender.Wait()

	assert.Equal(t, telefone, telefoneRecebido)
	assert.Equal(t, "Olá", mensagemRecebida)
	assert.Equal(t, []string{"user:Olá", "ai:Oi! Como posso ajudar?"}, contents(f.store.Messages()))
	assert.Equal(t, id, f.store.Messages()[0].ID)
	assert.False(t, f.store.IsLoading())
	assert.Equal(t, []bool{true, false}, f.effects.loading)

	f.store.Flush()
	assert.Equal(t, 2, f.repo.len())
}

func TestSendIsOptimistic(t *testing.T) {
	release := make(chan struct{})
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, "pronto")
	}, 5*time.Second)

	f.sender.Send("Olá", telefone)

	// a mensagem do operador já está na lista antes da resposta
	assert.Equal(t, []string{"user:Olá"}, contents(f.store.Messages()))
	assert.True(t, f.store.IsLoading())

	close(release)
	f.sender.Wait()
	assert.Equal(t, []string{"user:Olá", "ai:pronto"}, contents(f.store.Messages()))
}

func TestSendRejectsBlankContent(t *testing.T) {
	var calls int32
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, time.Second)

	assert.Empty(t, f.sender.Send("   \n", telefone))
	f.sender.Wait()

	assert.Equal(t, 0, f.store.Len())
	assert.False(t, f.store.IsLoading())
	assert.Empty(t, f.store.Notifications())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSendWithOnlyFiles(t *testing.T) {
	type part struct{ name, filename, contentType, body string }
	var parts []part
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if !assert.NoError(t, err) {
			return
		}
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if !assert.NoError(t, err) {
				return
			}
			body, _ := io.ReadAll(p)
			parts = append(parts, part{p.FormName(), p.FileName(), p.Header.Get("Content-Type"), string(body)})
		}
		fmt.Fprint(w, `{"message":"recebido"}`)
	}, time.Second)

	f.staging.Stage([]Upload{upload("nota.pdf", "application/pdf", []byte("%PDF"))})
	f.staging.Wait()

	id := f.sender.Send("", telefone)
	require.NotEmpty(t, id)
	assert.Equal(t, 0, f.staging.Len(), "arquivos saem da espera no envio")
	f.sender.Wait()

	require.Len(t, parts, 3)
	assert.Equal(t, "telefone", parts[0].name)
	assert.Equal(t, telefone, parts[0].body)
	assert.Equal(t, "mensagem", parts[1].name)
	assert.Empty(t, parts[1].body)
	assert.Equal(t, part{"file", "nota.pdf", "application/pdf", "%PDF"}, parts[2])

	sent, _ := f.store.Get(id)
	assert.Equal(t, []message.FileMetadata{{Name: "nota.pdf", Type: "application/pdf", Size: 4}}, sent.Attachments)
}

func TestSendEmptyReplyAddsNothing(t *testing.T) {
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, time.Second)

	f.sender.Send("Olá", telefone)
	f.sender.Wait()

	assert.Equal(t, []string{"user:Olá"}, contents(f.store.Messages()))
	assert.False(t, f.store.IsLoading())
}

func TestSendHTTPErrorAddsFallback(t *testing.T) {
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "indisponível", http.StatusBadGateway)
	}, time.Second)

	f.sender.Send("Olá", telefone)
	f.sender.Wait()

	assert.Equal(t, []string{"user:Olá", "ai:" + FallbackReply}, contents(f.store.Messages()))
	assert.False(t, f.store.IsLoading())
	assert.Equal(t, LevelError, lastNotification(f.store).Level)
}

func TestSendTimeoutAddsFallback(t *testing.T) {
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, 50*time.Millisecond)

	f.sender.Send("Olá", telefone)
	f.sender.Wait()

	assert.Equal(t, []string{"user:Olá", "ai:" + FallbackReply}, contents(f.store.Messages()))
	assert.False(t, f.store.IsLoading())

	n := lastNotification(f.store)
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, "O agente demorou demais para responder.", n.Description)
}

func TestSendSupersedesPreviousRequest(t *testing.T) {
	var calls int32
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-r.Context().Done()
			return
		}
		fmt.Fprint(w, `{"message":"segunda resposta"}`)
	}, 5*time.Second)

	f.sender.Send("primeira", telefone)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	f.sender.Send("segunda", telefone)
	f.sender.Wait()

	assert.Equal(t, []string{"user:primeira", "user:segunda", "ai:segunda resposta"}, contents(f.store.Messages()))
	assert.False(t, f.store.IsLoading())
	for _, n := range f.store.Notifications() {
		assert.NotEqual(t, LevelError, n.Level)
	}
}

func TestSendSameContentTwice(t *testing.T) {
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)

	first := f.sender.Send("Olá", telefone)
	f.sender.Wait()
	second := f.sender.Send("Olá", telefone)
	f.sender.Wait()

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, f.store.Len())
}

func TestSenderCloseCancelsWithoutFallback(t *testing.T) {
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, 5*time.Second)

	f.sender.Send("Olá", telefone)
	f.sender.Close()

	assert.Equal(t, []string{"user:Olá"}, contents(f.store.Messages()))
	assert.False(t, f.store.IsLoading())
	assert.Empty(t, f.sender.Send("depois", telefone))
}

func TestConcurrentBlankSendsShareStagedFilesOnce(t *testing.T) {
	f := newSenderFixture(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)

	f.staging.Stage([]Upload{upload("nota.pdf", "application/pdf", []byte("%PDF"))})
	f.staging.Wait()

	ids := make(chan string, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			ids <- f.sender.Send("", telefone)
		}()
	}
	close(start)

	var sent []string
	for i := 0; i < 2; i++ {
		if id := <-ids; id != "" {
			sent = append(sent, id)
		}
	}
	f.sender.Wait()

	// só um dos envios leva o arquivo; o outro é recusado
	require.Len(t, sent, 1)
	msgs := f.store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sent[0], msgs[0].ID)
	assert.Len(t, msgs[0].Attachments, 1)
}
