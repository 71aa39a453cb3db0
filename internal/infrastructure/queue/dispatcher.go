package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-registry/internal/pkg/metrics"
	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Writer persists a single audit event.
type Writer interface {
	Write(ctx context.Context, event domain.AuditEvent) error
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the username, so events for one user are written in order.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	writers []Writer
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger, writers ...Writer) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		writers: writers,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Stop closes their
// channels and the remaining events are written.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event without blocking. When the worker's channel is full
// or the dispatcher is stopped the event is dropped and counted.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		metrics.AuditEventsDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("action", string(event.Action)).
			Str("username", event.Username).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// Stop closes the worker channels and waits for queued events to be written.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		for _, w := range d.writers {
			// Writes use a context detached from cancellation so the queue
			// still drains during shutdown.
			if err := w.Write(context.WithoutCancel(ctx), event); err != nil {
				d.log.Error().Err(err).
					Str("action", string(event.Action)).
					Str("username", event.Username).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
