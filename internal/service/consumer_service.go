// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/repository/memory"
	"ai-interview-be/pkg/events"
	pkgNats "ai-interview-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the resume-indexing topic: it picks up pending
// uploads, runs them through the retrieval pipeline and announces the outcome
// on the event bus.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	retrieval IRetrievalService
	pending   *memory.PendingResumeStore
	natsPub   *pkgNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	retrieval IRetrievalService,
	pending *memory.PendingResumeStore,
	natsPub *pkgNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		retrieval: retrieval,
		pending:   pending,
		natsPub:   natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexResumeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal index message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing resume indexing for ResumeId: %s", payload.ResumeId)

	pendingResume, found := cs.pending.Get(payload.ParticipantName)
	if !found || pendingResume.ResumeId != payload.ResumeId {
		// Upload expired or superseded by a newer one; nothing to do.
		log.Printf("[WARN] Pending resume not found for %s (resume %s)", payload.ParticipantName, payload.ResumeId)
		msg.Ack()
		return
	}

	resumeId, err := uuid.Parse(payload.ResumeId)
	if err != nil {
		log.Printf("[ERROR] Malformed resume id %s: %v", payload.ResumeId, err)
		msg.Ack()
		return
	}

	participantId := ParticipantIdFor(payload.ParticipantName)

	count, err := cs.retrieval.Index(ctx, participantId, resumeId, pendingResume.Text)
	if err != nil {
		log.Printf("[ERROR] Failed to index resume %s: %v", payload.ResumeId, err)
		cs.announce(ctx, events.TypeResumeIndexFailure, payload, map[string]interface{}{"error": err.Error()})
		msg.Nack() // Retriable: embedding provider hiccup or store outage
		return
	}

	cs.pending.Remove(payload.ParticipantName)
	cs.announce(ctx, events.TypeResumeIndexed, payload, map[string]interface{}{"fragments": count})

	log.Printf("[SUCCESS] Resume indexed: %d fragments for ResumeId: %s", count, payload.ResumeId)
	msg.Ack()
}

func (cs *consumerService) announce(ctx context.Context, eventType string, payload dto.PublishIndexResumeMessage, extra map[string]interface{}) {
	if cs.natsPub == nil {
		return
	}
	extra["resume_id"] = payload.ResumeId
	evt := events.NewSessionEvent(eventType, "", payload.ParticipantName, extra)
	if err := cs.natsPub.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}
}
