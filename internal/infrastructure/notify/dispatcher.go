package notify

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/api/metrics"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
)

// Dispatcher routes notifications to a fixed set of workers using consistent
// hashing on the recipient address, guaranteeing per-recipient send ordering.
type Dispatcher struct {
	workers []chan ports.Notification
	mailer  ports.Mailer
	baseURL string
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used; if buffer <= 0, defaultBuffer.
func NewDispatcher(numWorkers, buffer int, mailer ports.Mailer, baseURL string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		mailer:  mailer,
		baseURL: baseURL,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify sends a notification to the worker responsible for its recipient.
// The call is non-blocking up to the channel buffer capacity.
func (d *Dispatcher) Notify(n ports.Notification) {
	idx := d.shardIndex(n.To)
	d.workers[idx] <- n
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			subject, body, err := render(n, d.baseURL)
			if err == nil {
				err = d.mailer.Send(ctx, n.To, subject, body)
			}
			if err != nil {
				metrics.NotificationsSentTotal.WithLabelValues(n.Template, "failed").Inc()
				d.log.Error().Err(err).
					Str("template", n.Template).
					Str("to", n.To).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsSentTotal.WithLabelValues(n.Template, "sent").Inc()
		}
	}
}
