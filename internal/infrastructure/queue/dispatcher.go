package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/ports"
	"github.com/fieldworks/backoffice/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

// Dispatcher routes change events to a fixed set of workers using consistent
// hashing on the record id, so the events of one record are recorded in the
// order they happened.
type Dispatcher struct {
	workers  []chan domain.ChangeEvent
	recorder ports.ChangeRecorder
	log      zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.ChangeRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.ChangeEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ChangeEvent, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. Workers run until Stop drains them.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Publish hands an event to the worker responsible for its record. It blocks
// once that worker's buffer is full. Events published after Stop are dropped.
func (d *Dispatcher) Publish(event domain.ChangeEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warn().Str("record_id", event.RecordID).Msg("dispatcher stopped, change event dropped")
		return
	}
	idx := d.shardIndex(event.RecordID)
	d.workers[idx] <- event
	metrics.ChangeEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// Stop closes the worker channels and waits until pending events are
// recorded or ctx expires.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

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

// shardIndex maps a record id deterministically to a worker index.
func (d *Dispatcher) shardIndex(recordID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recordID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.ChangeEvent) {
	defer d.wg.Done()
	depth := metrics.ChangeEventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for event := range ch {
		depth.Set(float64(len(ch)))
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := d.recorder.Record(ctx, event)
		cancel()

		metrics.ChangeEventDuration.WithLabelValues(string(event.Op)).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ChangeEventsFailedTotal.WithLabelValues(event.Resource).Inc()
			d.log.Error().Err(err).
				Str("resource", event.Resource).
				Str("record_id", event.RecordID).
				Int("worker_id", id).
				Msg("change event recording failed")
		}
	}
}
