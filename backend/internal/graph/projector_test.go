package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/model"
)

func TestStatementFor(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		event  events.Event
		query  string
		params map[string]interface{}
		ok     bool
	}{
		{
			name:   "account created",
			event:  events.Event{Type: events.TypeFor(model.KindAccount, events.ActionCreated), RecordID: "a", Timestamp: at},
			query:  mergeAccountQuery,
			params: map[string]interface{}{"id": "a", "at": "2024-03-01T12:00:00Z"},
			ok:     true,
		},
		{
			name:   "account deleted",
			event:  events.Event{Type: events.TypeFor(model.KindAccount, events.ActionDeleted), RecordID: "a", Timestamp: at},
			query:  deleteAccountQuery,
			params: map[string]interface{}{"id": "a"},
			ok:     true,
		},
		{
			name:   "follow created",
			event:  events.Event{Type: events.FollowCreated, RecordID: "a", TargetID: "b", Timestamp: at},
			query:  mergeFollowQuery,
			params: map[string]interface{}{"followerId": "a", "targetId": "b", "at": "2024-03-01T12:00:00Z"},
			ok:     true,
		},
		{
			name:   "follow deleted",
			event:  events.Event{Type: events.FollowDeleted, RecordID: "a", TargetID: "b", Timestamp: at},
			query:  deleteFollowQuery,
			params: map[string]interface{}{"followerId": "a", "targetId": "b"},
			ok:     true,
		},
		{
			name:  "post created is ignored",
			event: events.Event{Type: events.TypeFor(model.KindPost, events.ActionCreated), RecordID: "p", Timestamp: at},
		},
		{
			name:  "account updated is ignored",
			event: events.Event{Type: events.TypeFor(model.KindAccount, events.ActionUpdated), RecordID: "a", Timestamp: at},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := statementFor(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.query, st.query)
			assert.Equal(t, tt.params, st.params)
		})
	}
}

func TestProjector_Name(t *testing.T) {
	var sink events.Sink = &Projector{}
	assert.Equal(t, "neo4j", sink.Name())
}

// TestProjector_Mirror requires a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.
func TestProjector_Mirror(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	driver, err := Connect(ctx, envOr("NEO4J_URI", "bolt://localhost:7687"), envOr("NEO4J_USER", "neo4j"), envOr("NEO4J_PASSWORD", "password"))
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}
	p := NewProjector(driver)
	defer p.Close(context.Background())
	require.NoError(t, p.Migrate(ctx, false))

	ann, bo := uuid.NewString(), uuid.NewString()
	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (a:Account) WHERE a.id IN $ids DETACH DELETE a", map[string]interface{}{"ids": []string{ann, bo}})
	}()

	now := time.Now()
	created := events.TypeFor(model.KindAccount, events.ActionCreated)
	for _, e := range []events.Event{
		{Type: created, RecordID: ann, Timestamp: now},
		{Type: created, RecordID: bo, Timestamp: now},
		{Type: events.FollowCreated, RecordID: ann, TargetID: bo, Timestamp: now},
		{Type: events.FollowCreated, RecordID: ann, TargetID: bo, Timestamp: now},
	} {
		require.NoError(t, p.Handle(ctx, e))
	}

	following, err := p.Following(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, []string{bo}, following)

	require.NoError(t, p.Handle(ctx, events.Event{Type: events.FollowDeleted, RecordID: ann, TargetID: bo, Timestamp: now}))
	following, err = p.Following(ctx, ann)
	require.NoError(t, err)
	assert.Empty(t, following)

	require.NoError(t, p.Handle(ctx, events.Event{Type: events.FollowCreated, RecordID: ann, TargetID: bo, Timestamp: now}))
	require.NoError(t, p.Handle(ctx, events.Event{Type: events.TypeFor(model.KindAccount, events.ActionDeleted), RecordID: bo, Timestamp: now}))
	following, err = p.Following(ctx, ann)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
