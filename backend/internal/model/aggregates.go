package model

// AccountAggregate joins an account with its posts, profiles and the
// membership tiers those profiles reference. Account is nil when the id
// did not resolve; the related lists are then empty.
type AccountAggregate struct {
	*Account
	Posts           []Post           `json:"posts"`
	Profiles        []Profile        `json:"profiles"`
	MembershipTiers []MembershipTier `json:"membershipTiers"`
}

// FollowersView is an account with the accounts following it and their profiles
type FollowersView struct {
	AccountAggregate
	Followers        []Account `json:"followers"`
	FollowerProfiles []Profile `json:"followerProfiles"`
}

// SubscriptionsView is an account with the accounts it follows and their posts
type SubscriptionsView struct {
	AccountAggregate
	SubscribedToAccounts []Account `json:"subscribedToAccounts"`
	SubscribedToPosts    []Post    `json:"subscribedToPosts"`
}

// AccountShell is an account with its depth-1 edges. Edges of a shell are
// plain accounts and are never expanded further.
type AccountShell struct {
	*Account
	SubscribedToAccounts []Account `json:"subscribedToAccounts"`
	Followers            []Account `json:"followers"`
}

// AccountNetwork is the two-hop view: an account whose edges point at the
// shells of its neighbours. Shells are shared between networks.
type AccountNetwork struct {
	*Account
	SubscribedToAccounts []*AccountShell `json:"subscribedToAccounts"`
	Followers            []*AccountShell `json:"followers"`
}
