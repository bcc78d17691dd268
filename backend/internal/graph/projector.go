package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"socialgraph/backend/internal/events"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// SinkName identifies the projector in logs and metrics
const SinkName = "neo4j"

// Projector mirrors accounts and follow edges into Neo4j. The mirror is
// write-only from the service's point of view.
type Projector struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// Connect opens a driver and verifies the database is reachable
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j: %w", err)
	}
	return driver, nil
}

// NewProjector creates a projector writing through driver
func NewProjector(driver neo4j.DriverWithContext) *Projector {
	return &Projector{
		driver: driver,
		logger: logger.For("graph"),
	}
}

// Name implements events.Sink
func (p *Projector) Name() string {
	return SinkName
}

// Close closes the Neo4j driver connection
func (p *Projector) Close(ctx context.Context) error {
	return p.driver.Close(ctx)
}

// Handle applies one event to the mirror. Events that do not touch accounts
// or edges are ignored.
func (p *Projector) Handle(ctx context.Context, e events.Event) error {
	st, ok := statementFor(e)
	if !ok {
		return nil
	}

	session := p.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, st.query, st.params); err != nil {
		return apperrors.NewSinkFailed(SinkName, err)
	}

	p.logger.Debug("Event projected",
		zap.String("type", string(e.Type)),
		zap.String("record_id", e.RecordID),
	)
	return nil
}

// Following returns the ids the account follows in the mirror, sorted
func (p *Projector) Following(ctx context.Context, accountID string) ([]string, error) {
	session := p.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, followingQuery, map[string]interface{}{
		"id": accountID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	ids := []string{}
	for result.Next(ctx) {
		if id, ok := result.Record().Get("id"); ok {
			if s, ok := id.(string); ok {
				ids = append(ids, s)
			}
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return ids, nil
}
