package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tipster/domain/events"
	"tipster/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	sourceService  = "tipster"
	publishTimeout = 5 * time.Second
)

// EventHandler handles an event inside this process
type EventHandler func(context.Context, events.Event) error

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher runs local handlers and then publishes the event to NATS.
// With a nil client only local handlers run.
type NATSEventPublisher struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
	mu            sync.RWMutex
	localHandlers map[events.EventType][]EventHandler
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
		localHandlers: make(map[events.EventType][]EventHandler),
	}
}

// Publish publishes an event to NATS using the mapped subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	eventType := event.Type()

	p.mu.RLock()
	handlers := p.localHandlers[eventType]
	p.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// Local handler failures never block NATS publishing
			log.WithFields(log.Fields{
				"eventType": eventType,
				"error":     err,
			}).Error("Local event handler failed")
		}
	}

	if p.natsClient == nil {
		return nil
	}

	envelopeData, err := p.envelope(event)
	if err != nil {
		return err
	}

	subject := p.subjectMapper.MapEventToSubject(event)
	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	observability.GetMetrics().RecordNATSMessagePublished(string(eventType))

	log.WithFields(log.Fields{
		"eventType": eventType,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")
	return nil
}

func (p *NATSEventPublisher) envelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// RegisterLocalHandler registers a handler invoked in-process for eventType
func (p *NATSEventPublisher) RegisterLocalHandler(eventType events.EventType, handler EventHandler) {
	p.mu.Lock()
	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
	count := len(p.localHandlers[eventType])
	p.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": count,
	}).Info("Registered local event handler")
}

// EnsureDomainEventStream ensures the stream covering every published subject exists
func (p *NATSEventPublisher) EnsureDomainEventStream() error {
	if p.natsClient == nil {
		return nil
	}
	return p.natsClient.EnsureStream(DomainEventStream, p.subjectMapper.GetAllSubjects())
}
