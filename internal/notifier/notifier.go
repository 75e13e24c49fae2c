package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/hireloop-be/internal/events"
	"github.com/hireloop/hireloop-be/internal/notifier/storage"
	"github.com/hireloop/hireloop-be/shared/postgresql"
	"github.com/hireloop/hireloop-be/shared/rabbitmq"
)

// Config holds notifier configuration
type Config struct {
	Logger        *slog.Logger
	DBClient      *postgresql.Client
	RabbitClient  *rabbitmq.Client
	Concurrency   int
	SendTimeout   time.Duration
	PrefetchCount int
	QueueName     string
}

// eventMessage pairs a decoded event with its delivery tag for ack/nack.
type eventMessage struct {
	Event       *events.Event
	DeliveryTag uint64
}

// Notifier consumes domain events and turns them into notification rows.
type Notifier struct {
	logger        *slog.Logger
	storage       *storage.Storage
	rabbitClient  *rabbitmq.Client
	concurrency   int
	sendTimeout   time.Duration
	prefetchCount int
	queueName     string
	consumerID    string
	eventsChan    chan *eventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewNotifier creates a new notifier instance
func NewNotifier(cfg *Config) *Notifier {
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = cfg.Concurrency
	}

	return &Notifier{
		logger:        cfg.Logger,
		storage:       storage.NewStorage(cfg.DBClient.GetDB(), cfg.Logger),
		rabbitClient:  cfg.RabbitClient,
		concurrency:   cfg.Concurrency,
		sendTimeout:   cfg.SendTimeout,
		prefetchCount: prefetch,
		queueName:     cfg.QueueName,
		consumerID:    "notifier-" + uuid.New().String()[:8],
		eventsChan:    make(chan *eventMessage, cfg.Concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming events. Blocks until the context is canceled.
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notifier",
		slog.Int("concurrency", n.concurrency),
		slog.Duration("send_timeout", n.sendTimeout),
		slog.String("consumer_id", n.consumerID),
	)

	deliveries, err := n.setupConsumer(ctx)
	if err != nil {
		return err
	}

	n.spawnPool(ctx)
	n.startDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the notifier
func (n *Notifier) Stop() {
	n.logger.Info("Stopping notifier...")
	close(n.stopChan)
	n.wg.Wait()
	n.logger.Info("Notifier stopped")
}
