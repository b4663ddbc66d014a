// Package notify handles outbound candidate communication: queued email
// delivery and push notifications.
package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

// Pusher sends push notifications to device tokens
type Pusher interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Service is the notification facade used by handlers and the preselection
// pipeline
type Service struct {
	queue  *EmailQueue
	pusher Pusher
	logger types.Logger
}

// NewService creates the notification service. pusher may be nil when push
// messaging is not configured.
func NewService(queue *EmailQueue, pusher Pusher) *Service {
	return &Service{
		queue:  queue,
		pusher: pusher,
		logger: logging.GetGlobalLogger(),
	}
}

// Queue exposes the underlying email queue for stats reporting
func (s *Service) Queue() *EmailQueue {
	return s.queue
}

// SendRejectionEmail queues a rejection notice for a candidate
func (s *Service) SendRejectionEmail(ctx context.Context, to, fullName, vacancyTitle, reason string) error {
	body, err := renderTemplate("rejection.html", rejectionData{
		FullName:     fullName,
		VacancyTitle: vacancyTitle,
		Reason:       reason,
	})
	if err != nil {
		return err
	}

	return s.queue.Enqueue(ctx, EmailMessage{
		To:       to,
		Subject:  fmt.Sprintf("Update on your application for %s", vacancyTitle),
		HTMLBody: body,
	})
}

// SendPostulationEmail queues an application-received notice for a candidate
func (s *Service) SendPostulationEmail(ctx context.Context, to, fullName, vacancyTitle string) error {
	body, err := renderTemplate("postulation.html", postulationData{
		FullName:     fullName,
		VacancyTitle: vacancyTitle,
	})
	if err != nil {
		return err
	}

	return s.queue.Enqueue(ctx, EmailMessage{
		To:       to,
		Subject:  fmt.Sprintf("We received your application for %s", vacancyTitle),
		HTMLBody: body,
	})
}

// SendEmail queues an arbitrary email
func (s *Service) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	return s.queue.Enqueue(ctx, EmailMessage{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// SendPush delivers a push notification to a device token. The optional data
// payload rides along for the client to act on.
func (s *Service) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if s.pusher == nil {
		return fmt.Errorf("push messaging is not configured")
	}

	id, err := s.pusher.Send(ctx, &messaging.Message{
		Token: token,
		Data:  data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}

	s.logger.Debug("Push notification sent", map[string]interface{}{
		"message_id": id,
	})
	return nil
}
