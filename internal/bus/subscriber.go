package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// Handler processes one decoded domain event. Handlers own their error
// policy: anything that goes wrong is logged inside the handler, so the
// subscription loop never sees it.
type Handler func(ctx context.Context, env *events.Envelope)

// Subscriber consumes domain events from one Kafka topic per event type
// and fans them out to a shared worker pool. A failure in one handler
// or one topic never stops consumption on the others.
type Subscriber struct {
	brokers []string
	groupID string
	workers int

	subs []subscription
}

type subscription struct {
	topic   string
	handler Handler
}

// job is one unit of work for the worker pool. The reader is carried
// along so the worker can commit the offset after the handler returns.
type job struct {
	sub    *subscription
	reader *kafka.Reader
	msg    kafka.Message
	env    *events.Envelope
}

// NewSubscriber creates a subscriber. Workers bounds how many events
// are processed concurrently across all subscriptions.
func NewSubscriber(brokers []string, groupID string, workers int) (*Subscriber, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("groupID cannot be empty")
	}
	if workers <= 0 {
		workers = 1
	}
	return &Subscriber{
		brokers: brokers,
		groupID: groupID,
		workers: workers,
	}, nil
}

// Subscribe registers a handler for an event type. Must be called
// before Run.
func (s *Subscriber) Subscribe(eventType events.Type, h Handler) {
	s.subs = append(s.subs, subscription{topic: string(eventType), handler: h})
}

// Run consumes all subscribed topics until the context is cancelled.
// It blocks; cancel the context to shut down, after which in-flight
// handlers drain before Run returns.
func (s *Subscriber) Run(ctx context.Context) error {
	if len(s.subs) == 0 {
		return fmt.Errorf("no subscriptions registered")
	}

	slog.Info("Starting event consumption",
		"topics", len(s.subs),
		"group_id", s.groupID,
		"workers", s.workers,
	)

	jobs := make(chan job, s.workers*2)

	var workerWg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerWg.Add(1)
		go s.runWorker(ctx, jobs, &workerWg)
	}

	var fetchWg sync.WaitGroup
	readers := make([]*kafka.Reader, 0, len(s.subs))
	for i := range s.subs {
		sub := &s.subs[i]
		reader := kafka.NewReader(newReaderConfig(s.brokers, sub.topic, s.groupID))
		readers = append(readers, reader)

		fetchWg.Add(1)
		go func() {
			defer fetchWg.Done()
			s.fetchLoop(ctx, sub, reader, jobs)
		}()
	}

	<-ctx.Done()

	for _, r := range readers {
		if err := r.Close(); err != nil {
			slog.Error("Error closing Kafka reader", "error", err)
		}
	}
	fetchWg.Wait()
	close(jobs)
	workerWg.Wait()

	slog.Info("Event consumption stopped")
	return nil
}

// fetchLoop reads messages from one topic and dispatches them to the
// worker pool. Decode failures are dropped with a warning and committed
// so a malformed event cannot wedge the partition.
func (s *Subscriber) fetchLoop(ctx context.Context, sub *subscription, reader *kafka.Reader, jobs chan<- job) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Failed to fetch message", "topic", sub.topic, "error", err)
			continue
		}

		env, err := events.Decode(sub.topic, msg.Value)
		if err != nil {
			slog.Warn("Dropping malformed event",
				"topic", sub.topic,
				"offset", msg.Offset,
				"error", err,
			)
			s.commit(ctx, reader, msg)
			continue
		}

		select {
		case jobs <- job{sub: sub, reader: reader, msg: msg, env: env}:
		case <-ctx.Done():
			return
		}
	}
}

// runWorker processes jobs until the channel is closed.
func (s *Subscriber) runWorker(ctx context.Context, jobs <-chan job, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		s.handleOne(ctx, j)
	}
}

// handleOne invokes the handler with panic isolation and commits the
// offset afterwards. Once accepted, an event runs to completion or to a
// logged failure; it is never abandoned mid-flight.
func (s *Subscriber) handleOne(ctx context.Context, j job) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Handler panicked",
					"topic", j.sub.topic,
					"event_type", j.env.EventType,
					"panic", r,
				)
			}
		}()
		j.sub.handler(ctx, j.env)
	}()

	s.commit(ctx, j.reader, j.msg)
}

func (s *Subscriber) commit(ctx context.Context, reader *kafka.Reader, msg kafka.Message) {
	if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		slog.Error("Failed to commit offset",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
	}
}
