package integrity

import (
	"go.uber.org/zap"

	"socialgraph/backend/internal/events"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/store"
	apperrors "socialgraph/backend/pkg/errors"
)

// ============================================================================
// Profile Operations
// ============================================================================

// CreateProfile stores a profile after checking that its membership tier and
// account exist and that the account has no profile yet.
func (e *Enforcer) CreateProfile(in model.Profile) (*model.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, e.rejected("createProfile", err)
	}
	if err := model.CheckID(model.FieldAccountID, in.AccountID); err != nil {
		return nil, e.rejected("createProfile", err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if !e.db.Tiers.Exists(in.MembershipTierID) {
		return nil, e.rejected("createProfile",
			apperrors.NewReferenceMissing(model.FieldMembershipTierID, string(model.KindMembershipTier), in.MembershipTierID))
	}
	if !e.db.Accounts.Exists(in.AccountID) {
		return nil, e.rejected("createProfile",
			apperrors.NewReferenceMissing(model.FieldAccountID, string(model.KindAccount), in.AccountID))
	}
	if e.db.Profiles.FindOne(store.Predicate{Field: model.FieldAccountID, Equals: in.AccountID}) != nil {
		return nil, e.rejected("createProfile", apperrors.NewDuplicateProfile(in.AccountID))
	}

	created, err := e.db.Profiles.Create(in)
	if err != nil {
		return nil, e.rejected("createProfile", err)
	}

	e.emit(model.KindProfile, events.ActionCreated, created.ID)
	return created, nil
}

// UpdateProfile merges patch into the profile with id. A new membership tier
// must exist.
func (e *Enforcer) UpdateProfile(id string, patch model.ProfilePatch) (*model.Profile, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("updateProfile", err)
	}
	if err := patch.Validate(); err != nil {
		return nil, e.rejected("updateProfile", err, zap.String("id", id))
	}
	if patch.MembershipTierID != nil && !e.db.Tiers.Exists(*patch.MembershipTierID) {
		return nil, e.rejected("updateProfile",
			apperrors.NewReferenceMissing(model.FieldMembershipTierID, string(model.KindMembershipTier), *patch.MembershipTierID))
	}

	updated := e.db.Profiles.Change(id, patch)
	if updated == nil {
		return nil, apperrors.NewNotFound(string(model.KindProfile), id)
	}

	e.emit(model.KindProfile, events.ActionUpdated, id)
	return updated, nil
}

// DeleteProfile removes the profile with id
func (e *Enforcer) DeleteProfile(id string) (*model.Profile, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("deleteProfile", err)
	}

	removed := e.db.Profiles.Delete(id)
	if removed == nil {
		return nil, apperrors.NewNotFound(string(model.KindProfile), id)
	}

	e.emit(model.KindProfile, events.ActionDeleted, id)
	return removed, nil
}

// ============================================================================
// Post Operations
// ============================================================================

// CreatePost stores a post owned by an existing account
func (e *Enforcer) CreatePost(in model.Post) (*model.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, e.rejected("createPost", err)
	}
	if err := model.CheckID(model.FieldAccountID, in.AccountID); err != nil {
		return nil, e.rejected("createPost", err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if !e.db.Accounts.Exists(in.AccountID) {
		return nil, e.rejected("createPost",
			apperrors.NewReferenceMissing(model.FieldAccountID, string(model.KindAccount), in.AccountID))
	}

	created, err := e.db.Posts.Create(in)
	if err != nil {
		return nil, e.rejected("createPost", err)
	}

	e.emit(model.KindPost, events.ActionCreated, created.ID)
	return created, nil
}

// UpdatePost merges patch into the post with id
func (e *Enforcer) UpdatePost(id string, patch model.PostPatch) (*model.Post, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("updatePost", err)
	}
	if err := patch.Validate(); err != nil {
		return nil, e.rejected("updatePost", err, zap.String("id", id))
	}

	updated := e.db.Posts.Change(id, patch)
	if updated == nil {
		return nil, apperrors.NewNotFound(string(model.KindPost), id)
	}

	e.emit(model.KindPost, events.ActionUpdated, id)
	return updated, nil
}

// DeletePost removes the post with id
func (e *Enforcer) DeletePost(id string) (*model.Post, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("deletePost", err)
	}

	removed := e.db.Posts.Delete(id)
	if removed == nil {
		return nil, apperrors.NewNotFound(string(model.KindPost), id)
	}

	e.emit(model.KindPost, events.ActionDeleted, id)
	return removed, nil
}

// ============================================================================
// Membership Tier Operations
// ============================================================================

// CreateMembershipTier stores a new tier. Tiers are never deleted.
func (e *Enforcer) CreateMembershipTier(in model.MembershipTier) (*model.MembershipTier, error) {
	created, err := e.db.Tiers.Create(in)
	if err != nil {
		return nil, e.rejected("createMembershipTier", err)
	}

	e.emit(model.KindMembershipTier, events.ActionCreated, created.ID)
	return created, nil
}

// UpdateMembershipTier merges patch into the tier with id
func (e *Enforcer) UpdateMembershipTier(id string, patch model.MembershipTierPatch) (*model.MembershipTier, error) {
	if err := model.CheckID(model.FieldID, id); err != nil {
		return nil, e.rejected("updateMembershipTier", err)
	}
	if err := patch.Validate(); err != nil {
		return nil, e.rejected("updateMembershipTier", err, zap.String("id", id))
	}

	updated := e.db.Tiers.Change(id, patch)
	if updated == nil {
		return nil, apperrors.NewNotFound(string(model.KindMembershipTier), id)
	}

	e.emit(model.KindMembershipTier, events.ActionUpdated, id)
	return updated, nil
}
