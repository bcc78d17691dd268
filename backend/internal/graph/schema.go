package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// ============================================================================
// Schema Migration
// ============================================================================

// SchemaVersion marks the applied schema in the database
const SchemaVersion = "follow_graph_v1"

var schemaSteps = []struct {
	name  string
	query string
}{
	{
		name:  "account id constraint",
		query: `CREATE CONSTRAINT account_id_unique IF NOT EXISTS FOR (a:Account) REQUIRE a.id IS UNIQUE`,
	},
	{
		name:  "follows since index",
		query: `CREATE INDEX follows_since IF NOT EXISTS FOR ()-[r:FOLLOWS]-() ON (r.since)`,
	},
}

// Migrate creates the constraints the projection relies on. It is a no-op
// when SchemaVersion is already recorded, unless force is set.
func (p *Projector) Migrate(ctx context.Context, force bool) error {
	if !force {
		applied, err := p.schemaApplied(ctx)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			p.logger.Debug("Graph schema already applied", zap.String("version", SchemaVersion))
			return nil
		}
	}

	session := p.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, step := range schemaSteps {
		if _, err := session.Run(ctx, step.query, nil); err != nil {
			return fmt.Errorf("migration step %q failed: %w", step.name, err)
		}
		p.logger.Info("Migration step completed", zap.String("name", step.name))
	}

	_, err := session.Run(ctx, `
		MERGE (m:Migration {version: $version})
		SET m.applied_at = datetime()
	`, map[string]interface{}{"version": SchemaVersion})
	if err != nil {
		return fmt.Errorf("failed to mark migration as applied: %w", err)
	}
	return nil
}

func (p *Projector) schemaApplied(ctx context.Context) (bool, error) {
	session := p.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (m:Migration {version: $version})
		RETURN m.applied_at as applied_at
	`, map[string]interface{}{"version": SchemaVersion})
	if err != nil {
		return false, err
	}
	return result.Next(ctx), nil
}
