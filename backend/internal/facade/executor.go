package facade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/store"
	apperrors "socialgraph/backend/pkg/errors"
)

// Result is the outcome of a named operation. Data is null on failure.
type Result struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data"`
	Error   string              `json:"error,omitempty"`
	Code    apperrors.ErrorType `json:"code,omitempty"`

	err error
}

// Err returns the underlying error of a failed result
func (r *Result) Err() error {
	return r.err
}

// Status maps the result onto an HTTP status code
func (r *Result) Status() int {
	if r.Success {
		return http.StatusOK
	}
	return apperrors.HTTPStatus(r.err)
}

type idArgs struct {
	ID string `json:"id"`
}

type listArgs struct {
	Where *store.Predicate `json:"where"`
}

type edgeArgs struct {
	FollowerID string `json:"followerId"`
	TargetID   string `json:"targetId"`
}

type updateAccountArgs struct {
	ID string `json:"id"`
	model.AccountPatch
}

type updateProfileArgs struct {
	ID string `json:"id"`
	model.ProfilePatch
}

type updatePostArgs struct {
	ID string `json:"id"`
	model.PostPatch
}

type updateTierArgs struct {
	ID string `json:"id"`
	model.MembershipTierPatch
}

// Execute runs the operation called name with JSON encoded args
func (f *Facade) Execute(ctx context.Context, name string, args json.RawMessage) *Result {
	start := time.Now()
	f.logger.Debug("Executing operation", zap.String("operation", name))

	data, err := f.dispatch(ctx, name, args)

	f.metrics.ObserveOperation(name, outcomeOf(err), time.Since(start))
	if err != nil {
		f.logger.Debug("Operation failed", zap.String("operation", name), zap.Error(err))
		return &Result{
			Success: false,
			Error:   err.Error(),
			Code:    apperrors.TypeOf(err),
			err:     err,
		}
	}
	return &Result{Success: true, Data: data}
}

func (f *Facade) dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	// Accounts
	case OpListAccounts:
		return withArgs(args, func(a listArgs) (any, error) { return f.ListAccounts(a.Where), nil })
	case OpGetAccount:
		return withArgs(args, func(a idArgs) (any, error) { return f.GetAccount(a.ID) })
	case OpCreateAccount:
		return withArgs(args, func(a model.Account) (any, error) { return f.CreateAccount(a) })
	case OpUpdateAccount:
		return withArgs(args, func(a updateAccountArgs) (any, error) { return f.UpdateAccount(a.ID, a.AccountPatch) })
	case OpDeleteAccount:
		return withArgs(args, func(a idArgs) (any, error) { return f.DeleteAccount(a.ID) })
	case OpSubscribeTo:
		return withArgs(args, func(a edgeArgs) (any, error) { return f.SubscribeTo(a.FollowerID, a.TargetID) })
	case OpUnsubscribeFrom:
		return withArgs(args, func(a edgeArgs) (any, error) { return f.UnsubscribeFrom(a.FollowerID, a.TargetID) })

	// Profiles
	case OpListProfiles:
		return withArgs(args, func(a listArgs) (any, error) { return f.ListProfiles(a.Where), nil })
	case OpGetProfile:
		return withArgs(args, func(a idArgs) (any, error) { return f.GetProfile(a.ID) })
	case OpCreateProfile:
		return withArgs(args, func(a model.Profile) (any, error) { return f.CreateProfile(a) })
	case OpUpdateProfile:
		return withArgs(args, func(a updateProfileArgs) (any, error) { return f.UpdateProfile(a.ID, a.ProfilePatch) })
	case OpDeleteProfile:
		return withArgs(args, func(a idArgs) (any, error) { return f.DeleteProfile(a.ID) })

	// Posts
	case OpListPosts:
		return withArgs(args, func(a listArgs) (any, error) { return f.ListPosts(a.Where), nil })
	case OpGetPost:
		return withArgs(args, func(a idArgs) (any, error) { return f.GetPost(a.ID) })
	case OpCreatePost:
		return withArgs(args, func(a model.Post) (any, error) { return f.CreatePost(a) })
	case OpUpdatePost:
		return withArgs(args, func(a updatePostArgs) (any, error) { return f.UpdatePost(a.ID, a.PostPatch) })
	case OpDeletePost:
		return withArgs(args, func(a idArgs) (any, error) { return f.DeletePost(a.ID) })

	// Membership tiers
	case OpListMembershipTiers:
		return withArgs(args, func(a listArgs) (any, error) { return f.ListMembershipTiers(a.Where), nil })
	case OpGetMembershipTier:
		return withArgs(args, func(a idArgs) (any, error) { return f.GetMembershipTier(a.ID) })
	case OpCreateMembershipTier:
		return withArgs(args, func(a model.MembershipTier) (any, error) { return f.CreateMembershipTier(a) })
	case OpUpdateMembershipTier:
		return withArgs(args, func(a updateTierArgs) (any, error) {
			return f.UpdateMembershipTier(a.ID, a.MembershipTierPatch)
		})

	// Aggregates
	case OpFullAccount:
		return withArgs(args, func(a idArgs) (any, error) { return f.FullAccount(a.ID), nil })
	case OpListFullAccounts:
		return f.ListFullAccounts(ctx)
	case OpAccountsWithFollowers:
		return f.AccountsWithFollowers(ctx)
	case OpAccountWithItsSubscriptions:
		return withArgs(args, func(a idArgs) (any, error) { return f.AccountWithItsSubscriptions(a.ID), nil })
	case OpAccountsWithSubscriptions:
		return f.AccountsWithSubscriptions(), nil

	default:
		return nil, apperrors.NewNotFound("operation", name)
	}
}

// withArgs decodes args strictly into A and calls fn. Empty args leave A zero.
func withArgs[A any](args json.RawMessage, fn func(A) (any, error)) (any, error) {
	var a A
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return nil, apperrors.NewValidationFailed("args", fmt.Sprintf("cannot decode: %v", err))
		}
	}
	out, err := fn(a)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case apperrors.IsNotFound(err):
		return metrics.OutcomeNotFound
	case apperrors.IsValidation(err), apperrors.IsConflict(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// Invoke runs name with args encoded as JSON and decodes the result data
// into out. out may be nil when the caller does not need the data.
func (f *Facade) Invoke(ctx context.Context, name string, args any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode args: %w", err)
	}

	res := f.Execute(ctx, name, raw)
	if !res.Success {
		return res.Err()
	}
	if out == nil {
		return nil
	}

	data, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return json.Unmarshal(data, out)
}
