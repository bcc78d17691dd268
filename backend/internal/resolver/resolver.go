package resolver

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/store"
	"socialgraph/backend/pkg/logger"
)

// DefaultConcurrency bounds how many aggregates are built in parallel
const DefaultConcurrency = 8

// Resolver builds read-only aggregate views by composing store lookups.
// It never writes. A reference that does not resolve produces an empty
// branch, never an error.
type Resolver struct {
	db          *store.DB
	concurrency int
	logger      *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithConcurrency sets the parallelism of list views
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a Resolver over db
func New(db *store.DB, opts ...Option) *Resolver {
	r := &Resolver{
		db:          db,
		concurrency: DefaultConcurrency,
		logger:      logger.For("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ============================================================================
// Account aggregate
// ============================================================================

// FullAccount joins the account with its posts, profiles and their tiers.
// When the account does not exist the base fields are absent.
func (r *Resolver) FullAccount(id string) model.AccountAggregate {
	return r.aggregate(id, r.db.Accounts.Get(id))
}

// ListFullAccounts returns FullAccount for every account in insertion order
func (r *Resolver) ListFullAccounts(ctx context.Context) ([]model.AccountAggregate, error) {
	accounts := r.db.Accounts.FindMany(nil)
	return parallelMap(ctx, r.concurrency, accounts, func(acc model.Account) model.AccountAggregate {
		return r.aggregate(acc.ID, &acc)
	})
}

func (r *Resolver) aggregate(id string, acc *model.Account) model.AccountAggregate {
	profiles := r.db.Profiles.FindMany(store.Where(model.FieldAccountID, id))

	tiers := make([]model.MembershipTier, 0, len(profiles))
	for _, p := range profiles {
		if tier := r.db.Tiers.Get(p.MembershipTierID); tier != nil {
			tiers = append(tiers, *tier)
		}
	}

	return model.AccountAggregate{
		Account:         acc,
		Posts:           r.db.Posts.FindMany(store.Where(model.FieldAccountID, id)),
		Profiles:        profiles,
		MembershipTiers: tiers,
	}
}

// ============================================================================
// Follow edges
// ============================================================================

// SubscribedTo resolves the accounts acc follows, in edge order.
// Edges to accounts that no longer exist are skipped.
func (r *Resolver) SubscribedTo(acc *model.Account) []model.Account {
	out := make([]model.Account, 0)
	if acc == nil {
		return out
	}
	for _, id := range acc.SubscribedToAccountIDs {
		if target := r.db.Accounts.Get(id); target != nil {
			out = append(out, *target)
		}
	}
	return out
}

// Followers scans every account for an edge to id
func (r *Resolver) Followers(id string) []model.Account {
	return r.db.Accounts.FindMany(store.Where(model.FieldSubscribedToAccountIDs, id))
}

// AccountsWithFollowers lists every account with its followers and their profiles
func (r *Resolver) AccountsWithFollowers(ctx context.Context) ([]model.FollowersView, error) {
	accounts := r.db.Accounts.FindMany(nil)
	return parallelMap(ctx, r.concurrency, accounts, func(acc model.Account) model.FollowersView {
		followers := r.Followers(acc.ID)

		profiles := make([]model.Profile, 0, len(followers))
		for _, f := range followers {
			profiles = append(profiles, r.db.Profiles.FindMany(store.Where(model.FieldAccountID, f.ID))...)
		}

		return model.FollowersView{
			AccountAggregate: r.aggregate(acc.ID, &acc),
			Followers:        followers,
			FollowerProfiles: profiles,
		}
	})
}

// AccountWithItsSubscriptions returns the account with the accounts it
// follows and their posts
func (r *Resolver) AccountWithItsSubscriptions(id string) model.SubscriptionsView {
	acc := r.db.Accounts.Get(id)
	followees := r.SubscribedTo(acc)

	posts := make([]model.Post, 0)
	for _, f := range followees {
		posts = append(posts, r.db.Posts.FindMany(store.Where(model.FieldAccountID, f.ID))...)
	}

	return model.SubscriptionsView{
		AccountAggregate:     r.aggregate(id, acc),
		SubscribedToAccounts: followees,
		SubscribedToPosts:    posts,
	}
}

// ============================================================================
// Two-hop view
// ============================================================================

// AccountsWithSubscriptions expands the follow graph two hops deep without
// recursing. The first pass builds a shell per account holding its direct
// followees and followers. The second pass points every edge at the shell of
// the account on the other end, so cycles terminate after one substitution.
func (r *Resolver) AccountsWithSubscriptions() []*model.AccountNetwork {
	accounts := r.db.Accounts.FindMany(nil)

	byID := make(map[string]*model.Account, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID] = &accounts[i]
	}

	// pass 1: depth-1 shells
	shells := make(map[string]*model.AccountShell, len(accounts))
	for i := range accounts {
		acc := &accounts[i]
		shell := &model.AccountShell{
			Account:              acc,
			SubscribedToAccounts: make([]model.Account, 0, len(acc.SubscribedToAccountIDs)),
			Followers:            make([]model.Account, 0),
		}
		for _, id := range acc.SubscribedToAccountIDs {
			if target, ok := byID[id]; ok {
				shell.SubscribedToAccounts = append(shell.SubscribedToAccounts, *target)
			}
		}
		for j := range accounts {
			if accounts[j].Follows(acc.ID) {
				shell.Followers = append(shell.Followers, accounts[j])
			}
		}
		shells[acc.ID] = shell
	}

	// pass 2: substitute shells for edge ids
	out := make([]*model.AccountNetwork, 0, len(accounts))
	for i := range accounts {
		acc := &accounts[i]
		shell := shells[acc.ID]
		network := &model.AccountNetwork{
			Account:              acc,
			SubscribedToAccounts: make([]*model.AccountShell, 0, len(shell.SubscribedToAccounts)),
			Followers:            make([]*model.AccountShell, 0, len(shell.Followers)),
		}
		for _, f := range shell.SubscribedToAccounts {
			network.SubscribedToAccounts = append(network.SubscribedToAccounts, shells[f.ID])
		}
		for _, f := range shell.Followers {
			network.Followers = append(network.Followers, shells[f.ID])
		}
		out = append(out, network)
	}

	r.logger.Debug("Resolved two-hop view", zap.Int("accounts", len(out)))
	return out
}

// parallelMap applies fn to every element with at most limit goroutines and
// keeps the input order
func parallelMap[In, Out any](ctx context.Context, limit int, in []In, fn func(In) Out) ([]Out, error) {
	out := make([]Out, len(in))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range in {
		idx := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out[idx] = fn(in[idx])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
