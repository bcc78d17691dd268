package integrity

import (
	"sync"

	"go.uber.org/zap"

	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/store"
	"socialgraph/backend/pkg/logger"
)

// Enforcer performs every mutation against the DB. It checks foreign keys
// and follow-edge rules before writing and runs the account deletion cascade.
//
// writeMu serializes mutations that read one store and write another
// (profile and post creation, follow edges, account deletion) so a reference
// check cannot interleave with a cascade. Readers never take it and may see
// a cascade half way through.
type Enforcer struct {
	db      *store.DB
	emitter events.Emitter
	logger  *zap.Logger
	writeMu sync.Mutex
}

// NewEnforcer creates an Enforcer. A nil emitter discards events.
func NewEnforcer(db *store.DB, emitter events.Emitter) *Enforcer {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &Enforcer{
		db:      db,
		emitter: emitter,
		logger:  logger.For("integrity"),
	}
}

func (e *Enforcer) emit(kind model.Kind, action, id string) {
	e.emitter.Emit(events.Event{
		Type:     events.TypeFor(kind, action),
		Kind:     kind,
		RecordID: id,
	})
}

func (e *Enforcer) emitFollow(t events.Type, followerID, targetID string) {
	e.emitter.Emit(events.Event{
		Type:     t,
		Kind:     model.KindAccount,
		RecordID: followerID,
		TargetID: targetID,
	})
}

func (e *Enforcer) rejected(op string, err error, fields ...zap.Field) error {
	e.logger.Debug("Mutation rejected", append(fields, zap.String("operation", op), zap.Error(err))...)
	return err
}
