package facade

import (
	"context"

	"go.uber.org/zap"

	"socialgraph/backend/internal/integrity"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/resolver"
	"socialgraph/backend/internal/store"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// Facade is the stable operation surface of the service. Reads go straight
// to the stores or the resolver, every mutation goes through the enforcer.
type Facade struct {
	db       *store.DB
	enforcer *integrity.Enforcer
	resolver *resolver.Resolver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// New creates a Facade. m may be nil.
func New(db *store.DB, enforcer *integrity.Enforcer, res *resolver.Resolver, m *metrics.Metrics) *Facade {
	return &Facade{
		db:       db,
		enforcer: enforcer,
		resolver: res,
		metrics:  m,
		logger:   logger.For("facade"),
	}
}

// getByID looks a record up for a read. A malformed id cannot match any
// record and is reported as NotFound.
func getByID[T any, P store.Record[T]](s *store.Store[T, P], id string) (*T, error) {
	if !model.ValidID(id) {
		return nil, apperrors.NewNotFound(string(s.Kind()), id)
	}
	rec := s.Get(id)
	if rec == nil {
		return nil, apperrors.NewNotFound(string(s.Kind()), id)
	}
	return rec, nil
}

// ============================================================================
// Accounts
// ============================================================================

func (f *Facade) ListAccounts(where *store.Predicate) []model.Account {
	return f.db.Accounts.FindMany(where)
}

func (f *Facade) GetAccount(id string) (*model.Account, error) {
	return getByID(f.db.Accounts, id)
}

func (f *Facade) CreateAccount(in model.Account) (*model.Account, error) {
	return f.enforcer.CreateAccount(in)
}

func (f *Facade) UpdateAccount(id string, patch model.AccountPatch) (*model.Account, error) {
	return f.enforcer.UpdateAccount(id, patch)
}

// DeleteAccount removes the account and everything referencing it
func (f *Facade) DeleteAccount(id string) (*model.Account, error) {
	return f.enforcer.DeleteAccount(id)
}

func (f *Facade) SubscribeTo(followerID, targetID string) (*model.Account, error) {
	return f.enforcer.SubscribeTo(followerID, targetID)
}

func (f *Facade) UnsubscribeFrom(followerID, targetID string) (*model.Account, error) {
	return f.enforcer.UnsubscribeFrom(followerID, targetID)
}

// ============================================================================
// Profiles
// ============================================================================

func (f *Facade) ListProfiles(where *store.Predicate) []model.Profile {
	return f.db.Profiles.FindMany(where)
}

func (f *Facade) GetProfile(id string) (*model.Profile, error) {
	return getByID(f.db.Profiles, id)
}

func (f *Facade) CreateProfile(in model.Profile) (*model.Profile, error) {
	return f.enforcer.CreateProfile(in)
}

func (f *Facade) UpdateProfile(id string, patch model.ProfilePatch) (*model.Profile, error) {
	return f.enforcer.UpdateProfile(id, patch)
}

func (f *Facade) DeleteProfile(id string) (*model.Profile, error) {
	return f.enforcer.DeleteProfile(id)
}

// ============================================================================
// Posts
// ============================================================================

func (f *Facade) ListPosts(where *store.Predicate) []model.Post {
	return f.db.Posts.FindMany(where)
}

func (f *Facade) GetPost(id string) (*model.Post, error) {
	return getByID(f.db.Posts, id)
}

func (f *Facade) CreatePost(in model.Post) (*model.Post, error) {
	return f.enforcer.CreatePost(in)
}

func (f *Facade) UpdatePost(id string, patch model.PostPatch) (*model.Post, error) {
	return f.enforcer.UpdatePost(id, patch)
}

func (f *Facade) DeletePost(id string) (*model.Post, error) {
	return f.enforcer.DeletePost(id)
}

// ============================================================================
// Membership tiers
// ============================================================================

func (f *Facade) ListMembershipTiers(where *store.Predicate) []model.MembershipTier {
	return f.db.Tiers.FindMany(where)
}

func (f *Facade) GetMembershipTier(id string) (*model.MembershipTier, error) {
	return getByID(f.db.Tiers, id)
}

func (f *Facade) CreateMembershipTier(in model.MembershipTier) (*model.MembershipTier, error) {
	return f.enforcer.CreateMembershipTier(in)
}

func (f *Facade) UpdateMembershipTier(id string, patch model.MembershipTierPatch) (*model.MembershipTier, error) {
	return f.enforcer.UpdateMembershipTier(id, patch)
}

// ============================================================================
// Aggregate views
// ============================================================================

func (f *Facade) FullAccount(id string) model.AccountAggregate {
	return f.resolver.FullAccount(id)
}

func (f *Facade) ListFullAccounts(ctx context.Context) ([]model.AccountAggregate, error) {
	return f.resolver.ListFullAccounts(ctx)
}

func (f *Facade) AccountsWithFollowers(ctx context.Context) ([]model.FollowersView, error) {
	return f.resolver.AccountsWithFollowers(ctx)
}

func (f *Facade) AccountWithItsSubscriptions(id string) model.SubscriptionsView {
	return f.resolver.AccountWithItsSubscriptions(id)
}

func (f *Facade) AccountsWithSubscriptions() []*model.AccountNetwork {
	return f.resolver.AccountsWithSubscriptions()
}
