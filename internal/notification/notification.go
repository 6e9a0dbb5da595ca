// Package notification fans booking and review events out to email and Kafka.
// Delivery is best effort: every method runs after the owning transaction has
// committed, and failures are logged, never surfaced to the caller.
package notification

//go:generate go run go.uber.org/mock/mockgen -source=./notification.go -destination=./mocks/notification_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"
	"tourwise/config"
	"tourwise/infras/kafka"
	"tourwise/infras/otel"
	"tourwise/infras/smtp"
	"tourwise/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	EventBookingAccepted  = "booking.accepted"
	EventBookingAssigned  = "booking.assigned"
	EventGuideShortlisted = "booking.shortlisted"
	EventReviewCreated    = "review.created"
)

type BookingEvent struct {
	Type         string    `json:"type"`
	RequestID    string    `json:"request_id"`
	StudentID    string    `json:"student_id"`
	City         string    `json:"city"`
	TouristEmail string    `json:"tourist_email"`
	GuideEmail   string    `json:"guide_email"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type ShortlistEvent struct {
	Type        string    `json:"type"`
	RequestID   string    `json:"request_id"`
	StudentIDs  []string  `json:"student_ids"`
	GuideEmails []string  `json:"guide_emails"`
	City        string    `json:"city"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type ReviewEvent struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	StudentID  string    `json:"student_id"`
	Rating     int       `json:"rating"`
	GuideEmail string    `json:"guide_email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Notifier interface {
	BookingAccepted(ctx context.Context, event BookingEvent)
	BookingAssigned(ctx context.Context, event BookingEvent)
	GuidesShortlisted(ctx context.Context, event ShortlistEvent)
	ReviewCreated(ctx context.Context, event ReviewEvent)
}

type notifierImpl struct {
	mailer smtp.Mailer
	kafka  kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(mailer smtp.Mailer, kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		mailer: mailer,
		kafka:  kafkaClient,
		cfg:    cfg,
		otel:   otel,
	}
}

func (n *notifierImpl) BookingAccepted(ctx context.Context, event BookingEvent) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingAccepted")
	defer scope.End()

	event.Type = EventBookingAccepted

	n.publish(ctx, n.cfg.Kafka.BookingTopic, event.RequestID, event)

	subject := "Your booking is confirmed"
	body := fmt.Sprintf("Your trip request in %s has been accepted by a guide. Check the app for contact details.", event.City)
	n.email(ctx, []string{event.TouristEmail}, subject, body)

	subject = "You accepted a booking"
	body = fmt.Sprintf("You are confirmed for a trip in %s. The tourist's contact details are in the app.", event.City)
	n.email(ctx, []string{event.GuideEmail}, subject, body)
}

func (n *notifierImpl) BookingAssigned(ctx context.Context, event BookingEvent) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingAssigned")
	defer scope.End()

	event.Type = EventBookingAssigned

	n.publish(ctx, n.cfg.Kafka.BookingTopic, event.RequestID, event)

	subject := "A guide has been assigned to your trip"
	body := fmt.Sprintf("An administrator assigned a guide to your trip request in %s.", event.City)
	n.email(ctx, []string{event.TouristEmail}, subject, body)

	subject = "You have been assigned a booking"
	body = fmt.Sprintf("An administrator assigned you to a trip in %s. Check the app for details.", event.City)
	n.email(ctx, []string{event.GuideEmail}, subject, body)
}

func (n *notifierImpl) GuidesShortlisted(ctx context.Context, event ShortlistEvent) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".GuidesShortlisted")
	defer scope.End()

	event.Type = EventGuideShortlisted

	n.publish(ctx, n.cfg.Kafka.BookingTopic, event.RequestID, event)

	subject := "You were shortlisted for a trip"
	body := fmt.Sprintf("A tourist shortlisted you for a trip in %s. Open the app to accept or decline.", event.City)

	for _, email := range event.GuideEmails {
		n.email(ctx, []string{email}, subject, body)
	}
}

func (n *notifierImpl) ReviewCreated(ctx context.Context, event ReviewEvent) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".ReviewCreated")
	defer scope.End()

	event.Type = EventReviewCreated

	n.publish(ctx, n.cfg.Kafka.ReviewTopic, event.RequestID, event)

	subject := "You received a new review"
	body := fmt.Sprintf("A tourist left you a %d-star review. Your profile metrics have been updated.", event.Rating)
	n.email(ctx, []string{event.GuideEmail}, subject, body)
}

func (n *notifierImpl) publish(ctx context.Context, topic, key string, value any) {
	if !n.cfg.Kafka.Enable {
		return
	}

	err := n.kafka.SendMessages(ctx, topic, kafka.Message{Key: key, Value: value})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Str("key", key).Msg("failed to publish event")
	}
}

func (n *notifierImpl) email(ctx context.Context, to []string, subject, body string) {
	if len(to) == 0 || to[0] == constant.Empty {
		return
	}

	err := n.mailer.Send(ctx, smtp.Email{To: to, Subject: subject, Body: body})
	if err != nil {
		log.Error().Err(err).Strs("to", to).Str("subject", subject).Msg("failed to send notification email")
	}
}
