package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fissaa/marketplace-api/internal/api/metrics"
	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher moves audit trail writes off the request path. Events are
// sharded by booking id onto a fixed set of workers, so the events of one
// booking are written in the order they were recorded.
//
// It satisfies ports.BookingEventRepository: reads go straight to the
// underlying store.
type AuditDispatcher struct {
	store   ports.BookingEventRepository
	workers []chan *domain.BookingEvent
	log     zerolog.Logger

	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

var _ ports.BookingEventRepository = (*AuditDispatcher)(nil)

// NewAuditDispatcher creates a dispatcher with numWorkers shards. If
// numWorkers <= 0, defaultWorkers is used. Call Start before use.
func NewAuditDispatcher(numWorkers int, store ports.BookingEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		store:   store,
		workers: make([]chan *domain.BookingEvent, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.BookingEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They run until Stop drains the queues.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the queues and waits for pending events to be written or for
// ctx to expire, whichever comes first.
func (d *AuditDispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InsertEvent queues the event. When the shard is full or the dispatcher is
// stopped, the event is written inline instead of being dropped.
func (d *AuditDispatcher) InsertEvent(ctx context.Context, event *domain.BookingEvent) error {
	d.mu.RLock()
	if !d.closed {
		idx := d.shardIndex(event.BookingID)
		select {
		case d.workers[idx] <- event:
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
			d.mu.RUnlock()
			return nil
		default:
		}
	}
	d.mu.RUnlock()

	d.log.Warn().Str("booking_id", event.BookingID).Msg("audit queue unavailable, writing inline")
	if err := d.store.InsertEvent(ctx, event); err != nil {
		metrics.AuditWritesTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.AuditWritesTotal.WithLabelValues("inline").Inc()
	return nil
}

func (d *AuditDispatcher) ListEvents(ctx context.Context, bookingID string) ([]*domain.BookingEvent, error) {
	return d.store.ListEvents(ctx, bookingID)
}

// shardIndex maps a booking id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(bookingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan *domain.BookingEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for event := range ch {
		depth.Set(float64(len(ch)))

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.store.InsertEvent(ctx, event); err != nil {
			metrics.AuditWritesTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Str("booking_id", event.BookingID).
				Str("status", string(event.Status)).
				Int("worker_id", id).
				Msg("audit write failed")
		} else {
			metrics.AuditWritesTotal.WithLabelValues("written").Inc()
		}
		cancel()
	}
}
