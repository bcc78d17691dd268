package store

import (
	"socialgraph/backend/internal/model"
)

type (
	// AccountStore holds accounts and their follow edges
	AccountStore = Store[model.Account, *model.Account]
	// ProfileStore holds profiles
	ProfileStore = Store[model.Profile, *model.Profile]
	// PostStore holds posts
	PostStore = Store[model.Post, *model.Post]
	// TierStore holds membership tiers
	TierStore = Store[model.MembershipTier, *model.MembershipTier]
)

// DB bundles one store per record kind. It is built once per process and
// handed to the enforcer and the resolver.
type DB struct {
	Accounts *AccountStore
	Profiles *ProfileStore
	Posts    *PostStore
	Tiers    *TierStore
}

// NewDB creates an empty DB. Options apply to all four stores.
func NewDB(opts ...Option) *DB {
	return &DB{
		Accounts: New[model.Account](model.KindAccount, opts...),
		Profiles: New[model.Profile](model.KindProfile, opts...),
		Posts:    New[model.Post](model.KindPost, opts...),
		Tiers:    New[model.MembershipTier](model.KindMembershipTier, opts...),
	}
}

// Stats reports the number of records per kind
func (db *DB) Stats() map[model.Kind]int {
	return map[model.Kind]int{
		model.KindAccount:        db.Accounts.Len(),
		model.KindProfile:        db.Profiles.Len(),
		model.KindPost:           db.Posts.Len(),
		model.KindMembershipTier: db.Tiers.Len(),
	}
}
