package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v interface{}) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Subject, err)
	}
	return nil
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url, name string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "bytes", len(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(toMessage(msg))
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(toMessage(msg))
	})
	return err
}

func (n *NATSEventBus) Close() error {
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return err
	}
	return nil
}

func toMessage(msg *nats.Msg) *Message {
	return &Message{
		Subject:   msg.Subject,
		Data:      msg.Data,
		Timestamp: time.Now(),
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
	}
}

// ErrBusDisabled is returned by NoopBus subscriptions; nothing would ever be delivered.
var ErrBusDisabled = errors.New("event bus disabled")

// NoopBus is used when NATS is disabled or unreachable. Publishing is a no-op
// and subscribing fails with ErrBusDisabled.
type NoopBus struct{}

func (NoopBus) Publish(ctx context.Context, subject string, _ interface{}) error {
	logger.DebugContext(ctx, "Event dropped, bus disabled", "subject", subject)
	return nil
}

func (NoopBus) Subscribe(string, func(*Message)) error { return ErrBusDisabled }

func (NoopBus) QueueSubscribe(string, string, func(*Message)) error { return ErrBusDisabled }

func (NoopBus) Close() error { return nil }

// Event subjects
const (
	VisitCheckedIn         = "visit.checked_in"
	VisitCheckedOut        = "visit.checked_out"
	PreRegistrationCreated = "preregistration.created"
)

// Event payloads
type VisitCheckedInEvent struct {
	VisitID           int64     `json:"visit_id"`
	CompanyID         int64     `json:"company_id"`
	HostID            int64     `json:"host_id"`
	HostName          string    `json:"host_name"`
	HostEmail         string    `json:"host_email"`
	VisitorName       string    `json:"visitor_name"`
	VisitorEmail      string    `json:"visitor_email"`
	VisitorCompany    string    `json:"visitor_company,omitempty"`
	Purpose           string    `json:"purpose,omitempty"`
	PreRegistrationID *int64    `json:"pre_registration_id,omitempty"`
	CheckInTime       time.Time `json:"check_in_time"`
}

type VisitCheckedOutEvent struct {
	VisitID      int64     `json:"visit_id"`
	CompanyID    int64     `json:"company_id"`
	HostID       int64     `json:"host_id"`
	VisitorEmail string    `json:"visitor_email"`
	CheckOutTime time.Time `json:"check_out_time"`
}

type PreRegistrationCreatedEvent struct {
	PreRegistrationID int64  `json:"pre_registration_id"`
	CompanyID         int64  `json:"company_id"`
	HostID            int64  `json:"host_id"`
	VisitorEmail      string `json:"visitor_email"`
	VisitDate         string `json:"visit_date"`
	IsRecurring       bool   `json:"is_recurring"`
}
