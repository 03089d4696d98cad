package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Producer publishes engagement events. Publishing happens off the request
// path; the internal retry loop never blocks a caller's response.
type Producer struct {
	writer     *kafka.Writer
	mu         sync.RWMutex
	closed     bool
	maxRetries int
	logger     *logrus.Logger
}

func NewProducer(brokers []string, topic string, maxRetries int, logger *logrus.Logger) *Producer {
	if logger == nil {
		logger = logrus.New()
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			MaxAttempts:  3,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  10 * time.Second,
			RequiredAcks: kafka.RequireOne,
		},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (p *Producer) Publish(ctx context.Context, event EngagementEvent) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("producer is closed")
	}
	p.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p.mu.RLock()
		if p.closed {
			p.mu.RUnlock()
			return fmt.Errorf("producer closed during publish")
		}
		p.mu.RUnlock()

		err = p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.SubjectID),
			Value: data,
			Time:  time.Now(),
		})
		if err == nil {
			p.logger.WithFields(logrus.Fields{
				"event_type": event.Type,
				"subject_id": event.SubjectID,
				"attempt":    attempt + 1,
			}).Debug("published event")
			return nil
		}

		lastErr = err
		p.logger.WithFields(logrus.Fields{
			"attempt":     attempt + 1,
			"max_retries": p.maxRetries,
			"error":       err.Error(),
			"event_type":  event.Type,
		}).Warn("failed to publish event, retrying")

		if attempt < p.maxRetries-1 {
			backoff := time.Duration(attempt+1) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("failed to publish event after %d retries: %w", p.maxRetries, lastErr)
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.writer.Close(); err != nil {
		p.logger.WithError(err).Error("error closing kafka writer")
		return err
	}
	return nil
}
