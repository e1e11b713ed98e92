// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"time"

	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/mailer"
	"ai-interview-be/internal/websocket"
	"ai-interview-be/pkg/events"
	pkgNats "ai-interview-be/pkg/nats"

	"github.com/patrickmn/go-cache"
)

type INotificationService interface {
	Start()
}

// notificationService bridges the NATS event stream to connected clients and,
// when an address is known, emails the participant their feedback report.
type notificationService struct {
	natsSub *pkgNats.Subscriber
	hub     *websocket.Hub
	mail    mailer.IEmailService
	emails  *cache.Cache // participant name -> email, learned from session starts
	log     logger.ILogger
}

func NewNotificationService(
	natsSub *pkgNats.Subscriber,
	hub *websocket.Hub,
	mail mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		natsSub: natsSub,
		hub:     hub,
		mail:    mail,
		emails:  cache.New(12*time.Hour, time.Hour),
		log:     log,
	}
}

func (s *notificationService) Start() {
	if s.natsSub == nil {
		s.log.Warn("notification", "event subscriber unavailable, notifications disabled", nil)
		return
	}

	err := s.natsSub.Subscribe("events.>", "notification-worker", s.handle)
	if err != nil {
		s.log.Error("notification", "failed to subscribe to event stream", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *notificationService) handle(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	name, _ := payload["participant_name"].(string)

	switch event.EventType() {
	case events.TypeSessionStarted:
		if email, ok := payload["email"].(string); ok && email != "" {
			s.emails.Set(name, email, cache.DefaultExpiration)
		}
	case events.TypeFeedbackGenerated:
		sessionId, _ := payload["session_id"].(string)
		if email, ok := s.emails.Get(name); ok && s.mail != nil {
			if err := s.mail.SendFeedbackReport(email.(string), name, sessionId); err != nil {
				s.log.Warn("notification", "feedback email failed", map[string]interface{}{
					"session_id": sessionId, "error": err.Error(),
				})
			}
		}
	}

	if name != "" {
		s.hub.Send(ParticipantIdFor(name), websocket.Notification{
			Type:      event.EventType(),
			Data:      payload,
			Timestamp: event.Timestamp(),
		})
	}

	return nil
}
