// Package notify consumes visit events and tells hosts about their visitors.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/mailer"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/events"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/metrics"
)

const handleTimeout = 15 * time.Second

// ArrivalNotifier emails the host when one of their visitors checks in.
type ArrivalNotifier struct {
	mailer mailer.Service
}

func NewArrivalNotifier(m mailer.Service) *ArrivalNotifier {
	return &ArrivalNotifier{mailer: m}
}

// Start queue-subscribes so that several notify processes share the work.
func (n *ArrivalNotifier) Start(sub events.Subscriber, queue string) error {
	err := sub.QueueSubscribe(events.VisitCheckedIn, queue, func(msg *events.Message) {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		if err := n.Handle(ctx, msg); err != nil {
			logger.ErrorContext(ctx, "arrival notification failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", events.VisitCheckedIn, err)
	}
	logger.Info("arrival notifier subscribed", "subject", events.VisitCheckedIn, "queue", queue)
	return nil
}

// Handle processes one visit.checked_in message.
func (n *ArrivalNotifier) Handle(ctx context.Context, msg *events.Message) error {
	var ev events.VisitCheckedInEvent
	if err := msg.Decode(&ev); err != nil {
		return err
	}
	if ev.HostEmail == "" {
		logger.WarnContext(ctx, "check-in event without host email", "visit_id", ev.VisitID)
		return nil
	}

	err := n.mailer.SendHostArrival(ctx, mailer.Arrival{
		HostEmail:      ev.HostEmail,
		HostName:       ev.HostName,
		VisitorName:    ev.VisitorName,
		VisitorEmail:   ev.VisitorEmail,
		VisitorCompany: ev.VisitorCompany,
		Purpose:        ev.Purpose,
		CheckInTime:    ev.CheckInTime,
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("arrival", "error").Inc()
		return fmt.Errorf("send arrival email for visit %d: %w", ev.VisitID, err)
	}
	metrics.EmailsSent.WithLabelValues("arrival", "ok").Inc()
	logger.InfoContext(ctx, "host notified of arrival", "visit_id", ev.VisitID, "host_id", ev.HostID)
	return nil
}
