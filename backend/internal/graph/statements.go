package graph

import (
	"time"

	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/model"
)

// ============================================================================
// Cypher Statements
// ============================================================================

const (
	mergeAccountQuery = `
		MERGE (a:Account {id: $id})
		ON CREATE SET a.created_at = datetime($at)
	`

	deleteAccountQuery = `
		MATCH (a:Account {id: $id})
		DETACH DELETE a
	`

	mergeFollowQuery = `
		MERGE (f:Account {id: $followerId})
		MERGE (t:Account {id: $targetId})
		MERGE (f)-[r:FOLLOWS]->(t)
		ON CREATE SET r.since = datetime($at)
	`

	deleteFollowQuery = `
		MATCH (:Account {id: $followerId})-[r:FOLLOWS]->(:Account {id: $targetId})
		DELETE r
	`

	followingQuery = `
		MATCH (:Account {id: $id})-[:FOLLOWS]->(t:Account)
		RETURN t.id as id
		ORDER BY id
	`
)

type statement struct {
	query  string
	params map[string]interface{}
}

// statementFor maps an event onto the Cypher that mirrors it
func statementFor(e events.Event) (statement, bool) {
	at := e.Timestamp.UTC().Format(time.RFC3339)

	switch e.Type {
	case events.TypeFor(model.KindAccount, events.ActionCreated):
		return statement{mergeAccountQuery, map[string]interface{}{
			"id": e.RecordID,
			"at": at,
		}}, true
	case events.TypeFor(model.KindAccount, events.ActionDeleted):
		return statement{deleteAccountQuery, map[string]interface{}{
			"id": e.RecordID,
		}}, true
	case events.FollowCreated:
		return statement{mergeFollowQuery, map[string]interface{}{
			"followerId": e.RecordID,
			"targetId":   e.TargetID,
			"at":         at,
		}}, true
	case events.FollowDeleted:
		return statement{deleteFollowQuery, map[string]interface{}{
			"followerId": e.RecordID,
			"targetId":   e.TargetID,
		}}, true
	default:
		return statement{}, false
	}
}
