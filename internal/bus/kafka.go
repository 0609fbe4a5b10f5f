package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"sugarmill-monitor/internal/logging"
)

// Kafka bridges the local bus over a broker so several monitor processes
// can share one backing store. Publishes go to the topic mapped for the
// stream, keyed by sensor id so per-sensor ordering survives partitioning.
// A reader per topic feeds consumed messages back into a local InProc bus
// where subscribers are registered.
type Kafka struct {
	local   *InProc
	writers map[string]*kafka.Writer
	readers []*kafka.Reader
	logger  *logging.Logger
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewKafka builds a bridge for the given stream-to-topic mapping.
func NewKafka(broker, groupID string, topics map[string]string, logger *logging.Logger) *Kafka {
	k := &Kafka{
		local:   NewInProc(),
		writers: make(map[string]*kafka.Writer),
		logger:  logger,
	}
	for stream, topic := range topics {
		k.writers[stream] = &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}
		k.readers = append(k.readers, kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{broker},
			GroupID: groupID,
			Topic:   topic,
		}))
	}
	return k
}

func (k *Kafka) Publish(ctx context.Context, stream, key string, payload []byte) error {
	w, ok := k.writers[stream]
	if !ok {
		return fmt.Errorf("unknown stream %q", stream)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload}); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", stream, err)
	}
	return nil
}

func (k *Kafka) Subscribe(stream string, h Handler) func() {
	return k.local.Subscribe(stream, h)
}

// Start launches one consume loop per topic. Loops run until Close.
func (k *Kafka) Start(ctx context.Context) {
	ctx, k.cancel = context.WithCancel(ctx)
	streamByTopic := make(map[string]string, len(k.writers))
	for stream, w := range k.writers {
		streamByTopic[w.Topic] = stream
	}

	for _, r := range k.readers {
		stream := streamByTopic[r.Config().Topic]
		k.wg.Add(1)
		go func(r *kafka.Reader, stream string) {
			defer k.wg.Done()
			k.logger.Infof("Kafka consumer started for %s", stream)
			for {
				msg, err := r.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					k.logger.Errorf("Read message failed on %s: %v", stream, err)
					continue
				}
				_ = k.local.Publish(ctx, stream, string(msg.Key), msg.Value)
			}
		}(r, stream)
	}
}

// Close stops the consume loops and releases broker connections.
func (k *Kafka) Close() {
	if k.cancel != nil {
		k.cancel()
	}
	for _, r := range k.readers {
		if err := r.Close(); err != nil {
			k.logger.Errorf("Reader close failed: %v", err)
		}
	}
	for _, w := range k.writers {
		if err := w.Close(); err != nil {
			k.logger.Errorf("Writer close failed: %v", err)
		}
	}
	k.wg.Wait()
}
