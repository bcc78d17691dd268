package integrity

import (
	"go.uber.org/zap"

	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/store"
	apperrors "socialgraph/backend/pkg/errors"
)

// ============================================================================
// Account Operations
// ============================================================================

// CreateAccount stores a new account. Follow edges in the input are ignored;
// edges are added only through SubscribeTo.
func (e *Enforcer) CreateAccount(in model.Account) (*model.Account, error) {
	in.SubscribedToAccountIDs = []string{}

	created, err := e.db.Accounts.Create(in)
	if err != nil {
		return nil, e.rejected("createAccount", err)
	}

	e.emit(model.KindAccount, events.ActionCreated, created.ID)
	return created, nil
}

// UpdateAccount merges patch into the account with id
func (e *Enforcer) UpdateAccount(id string, patch model.AccountPatch) (*model.Account, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("updateAccount", err)
	}
	if err := patch.Validate(); err != nil {
		return nil, e.rejected("updateAccount", err, zap.String("id", id))
	}

	updated := e.db.Accounts.Change(id, patch)
	if updated == nil {
		return nil, apperrors.NewNotFound(string(model.KindAccount), id)
	}

	e.emit(model.KindAccount, events.ActionUpdated, id)
	return updated, nil
}

// DeleteAccount removes the account with id after cleaning every record
// that references it. Steps run in a fixed order and are not rolled back:
// a failing step stops the cascade and leaves earlier steps applied.
func (e *Enforcer) DeleteAccount(id string) (*model.Account, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("deleteAccount", err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if !e.db.Accounts.Exists(id) {
		return nil, apperrors.NewNotFound(string(model.KindAccount), id)
	}

	for _, step := range e.cascade() {
		n, err := step.run(id)
		if err != nil {
			e.logger.Error("Cascade step failed",
				zap.String("account_id", id),
				zap.String("step", step.name),
				zap.Error(err),
			)
			return nil, err
		}
		e.logger.Info("Cascade step completed",
			zap.String("account_id", id),
			zap.String("step", step.name),
			zap.Int("affected", n),
		)
	}

	removed := e.db.Accounts.Delete(id)
	if removed == nil {
		return nil, apperrors.NewNotFound(string(model.KindAccount), id)
	}

	e.emit(model.KindAccount, events.ActionDeleted, id)
	return removed, nil
}

// ============================================================================
// Cascade
// ============================================================================

type cascadeStep struct {
	name string
	run  func(accountID string) (int, error)
}

// cascade lists the cleanup steps preceding the account removal, in order.
// Each step is idempotent: a second run finds nothing left to do.
func (e *Enforcer) cascade() []cascadeStep {
	return []cascadeStep{
		{name: "strip_follow_edges", run: e.stripFollowEdges},
		{name: "delete_posts", run: e.deletePostsOf},
		{name: "delete_profiles", run: e.deleteProfilesOf},
	}
}

func (e *Enforcer) stripFollowEdges(accountID string) (int, error) {
	followers := e.db.Accounts.FindMany(store.Where(model.FieldSubscribedToAccountIDs, accountID))

	stripped := 0
	for _, follower := range followers {
		_, err := e.db.Accounts.Modify(follower.ID, func(rec *model.Account) error {
			rec.SubscribedToAccountIDs = without(rec.SubscribedToAccountIDs, accountID)
			return nil
		})
		if apperrors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return stripped, err
		}
		stripped++
		e.emitFollow(events.FollowDeleted, follower.ID, accountID)
	}
	return stripped, nil
}

func (e *Enforcer) deletePostsOf(accountID string) (int, error) {
	deleted := 0
	for _, post := range e.db.Posts.FindMany(store.Where(model.FieldAccountID, accountID)) {
		if e.db.Posts.Delete(post.ID) != nil {
			deleted++
			e.emit(model.KindPost, events.ActionDeleted, post.ID)
		}
	}
	return deleted, nil
}

func (e *Enforcer) deleteProfilesOf(accountID string) (int, error) {
	deleted := 0
	for _, profile := range e.db.Profiles.FindMany(store.Where(model.FieldAccountID, accountID)) {
		if e.db.Profiles.Delete(profile.ID) != nil {
			deleted++
			e.emit(model.KindProfile, events.ActionDeleted, profile.ID)
		}
	}
	return deleted, nil
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
