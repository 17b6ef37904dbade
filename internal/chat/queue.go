package chat

import (
	"context"
	"sync"
)

// writeQueue executa as gravações de uma conversa em ordem FIFO, numa única
// goroutine, para que um favorito nunca chegue ao banco antes do insert.
type writeQueue struct {
	mu      sync.Mutex
	jobs    []func()
	running bool
	pending sync.WaitGroup
}

// Go enfileira o job sem bloquear o chamador
func (q *writeQueue) Go(job func()) {
	q.pending.Add(1)

	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	start := !q.running
	q.running = true
	q.mu.Unlock()

	if start {
		go q.drain()
	}
}

// Do enfileira o job e espera sua execução ou o cancelamento do contexto
func (q *writeQueue) Do(ctx context.Context, job func()) error {
	done := make(chan struct{})
	q.Go(func() {
		defer close(done)
		job()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait bloqueia até a fila esvaziar
func (q *writeQueue) Wait() {
	q.pending.Wait()
}

func (q *writeQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		job()
		q.pending.Done()
	}
}
