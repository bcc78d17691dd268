package integrity

import (
	"fmt"

	"go.uber.org/zap"

	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/model"
	apperrors "socialgraph/backend/pkg/errors"
)

// ============================================================================
// Follow Edge Operations
// ============================================================================

// SubscribeTo adds the edge follower -> target and returns the updated follower.
// It rejects self-follows, unknown accounts and edges that already exist.
func (e *Enforcer) SubscribeTo(followerID, targetID string) (*model.Account, error) {
	if err := checkEdgeIDs(followerID, targetID); err != nil {
		return nil, e.rejected("subscribeTo", err)
	}
	if followerID == targetID {
		return nil, e.rejected("subscribeTo", apperrors.NewSelfFollow(followerID))
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if !e.db.Accounts.Exists(targetID) {
		return nil, e.rejected("subscribeTo",
			apperrors.NewReferenceMissing("targetId", string(model.KindAccount), targetID))
	}

	updated, err := e.db.Accounts.Modify(followerID, func(rec *model.Account) error {
		if rec.Follows(targetID) {
			return apperrors.NewConflict(fmt.Sprintf("account %s already follows %s", followerID, targetID))
		}
		rec.SubscribedToAccountIDs = append(rec.SubscribedToAccountIDs, targetID)
		return nil
	})
	if err != nil {
		return nil, e.rejected("subscribeTo", err,
			zap.String("follower_id", followerID),
			zap.String("target_id", targetID),
		)
	}

	e.emitFollow(events.FollowCreated, followerID, targetID)
	return updated, nil
}

// UnsubscribeFrom removes the edge follower -> target and returns the updated
// follower. Removing an edge that does not exist is a Conflict and changes nothing.
func (e *Enforcer) UnsubscribeFrom(followerID, targetID string) (*model.Account, error) {
	if err := checkEdgeIDs(followerID, targetID); err != nil {
		return nil, e.rejected("unsubscribeFrom", err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	updated, err := e.db.Accounts.Modify(followerID, func(rec *model.Account) error {
		if !rec.Follows(targetID) {
			return apperrors.NewConflict(fmt.Sprintf("account %s does not follow %s", followerID, targetID))
		}
		rec.SubscribedToAccountIDs = without(rec.SubscribedToAccountIDs, targetID)
		return nil
	})
	if err != nil {
		return nil, e.rejected("unsubscribeFrom", err,
			zap.String("follower_id", followerID),
			zap.String("target_id", targetID),
		)
	}

	e.emitFollow(events.FollowDeleted, followerID, targetID)
	return updated, nil
}

func checkEdgeIDs(followerID, targetID string) error {
	if err := model.CheckID("followerId", followerID); err != nil {
		return err
	}
	return model.CheckID("targetId", targetID)
}
