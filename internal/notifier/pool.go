package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// spawnPool spawns N goroutines based on concurrency configuration
func (n *Notifier) spawnPool(ctx context.Context) {
	n.logger.Info("Spawning notifier pool",
		slog.Int("concurrency", n.concurrency),
		slog.String("consumer_id", n.consumerID),
	)

	for i := 0; i < n.concurrency; i++ {
		n.wg.Add(1)
		go n.poolLoop(ctx, i)
	}
}

// poolLoop is the main processing loop for each pool goroutine
func (n *Notifier) poolLoop(ctx context.Context, workerNum int) {
	defer n.wg.Done()

	workerName := fmt.Sprintf("%s-%d", n.consumerID, workerNum)
	n.logger.Info("Notifier goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-n.stopChan:
			n.logger.Info("Notifier goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			n.logger.Info("Notifier goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg, ok := <-n.eventsChan:
			if !ok {
				return
			}

			err := n.process(ctx, msg)

			channel := n.rabbitClient.GetChannel()
			if channel == nil {
				n.logger.Error("Failed to get RabbitMQ channel for ACK/NACK",
					slog.String("worker_name", workerName),
					slog.String("kind", msg.Event.Kind),
				)
				continue
			}

			if err != nil {
				n.logger.Error("Event processing failed",
					slog.String("worker_name", workerName),
					slog.String("kind", msg.Event.Kind),
					slog.String("error", err.Error()),
				)

				requeue := shouldRequeue(err)
				if nackErr := channel.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
					n.logger.Error("Failed to NACK event",
						slog.String("worker_name", workerName),
						slog.String("error", nackErr.Error()),
					)
				} else {
					n.logger.Info("Event NACKed",
						slog.String("worker_name", workerName),
						slog.String("kind", msg.Event.Kind),
						slog.Bool("requeue", requeue),
					)
				}
			} else {
				if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
					n.logger.Error("Failed to ACK event",
						slog.String("worker_name", workerName),
						slog.String("error", ackErr.Error()),
					)
				}
			}
		}
	}
}

// shouldRequeue determines whether a failed event goes back on the queue.
// Only transient failures requeue; everything else lands in the FAILED row.
func shouldRequeue(err error) bool {
	if errors.Is(err, ErrMalformedEvent) {
		return false
	}

	var retryableErr *RetryableError
	return errors.As(err, &retryableErr)
}
