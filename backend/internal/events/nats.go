package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// Publisher is the part of *nats.Conn the sink uses
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes each event as JSON on "<prefix>.<type>"
type NATSSink struct {
	pub    Publisher
	prefix string
	logger *zap.Logger
}

// NewNATSSink wraps an existing publisher
func NewNATSSink(pub Publisher, prefix string) *NATSSink {
	return &NATSSink{
		pub:    pub,
		prefix: prefix,
		logger: logger.For("nats"),
	}
}

// ConnectNATS dials url and returns the connection
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("socialgraph"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.For("nats").Warn("Disconnected from NATS", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", url, err)
	}
	return conn, nil
}

func (s *NATSSink) Name() string { return "nats" }

// Handle publishes e. Publish failures are retryable.
func (s *NATSSink) Handle(_ context.Context, e Event) error {
	msg, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	subject := SubjectFor(s.prefix, e.Type)
	if err := s.pub.Publish(subject, msg); err != nil {
		return apperrors.NewSinkFailed(s.Name(), err)
	}

	s.logger.Debug("Published event", zap.String("subject", subject))
	return nil
}

// SubjectFor returns the NATS subject an event type is published on
func SubjectFor(prefix string, t Type) string {
	if prefix == "" {
		return string(t)
	}
	return prefix + "." + string(t)
}
