package facade

// Operation names exposed to callers
const (
	// Accounts
	OpListAccounts    = "listAccounts"
	OpGetAccount      = "getAccount"
	OpCreateAccount   = "createAccount"
	OpUpdateAccount   = "updateAccount"
	OpDeleteAccount   = "deleteAccount"
	OpSubscribeTo     = "subscribeTo"
	OpUnsubscribeFrom = "unsubscribeFrom"

	// Profiles
	OpListProfiles  = "listProfiles"
	OpGetProfile    = "getProfile"
	OpCreateProfile = "createProfile"
	OpUpdateProfile = "updateProfile"
	OpDeleteProfile = "deleteProfile"

	// Posts
	OpListPosts  = "listPosts"
	OpGetPost    = "getPost"
	OpCreatePost = "createPost"
	OpUpdatePost = "updatePost"
	OpDeletePost = "deletePost"

	// Membership tiers
	OpListMembershipTiers  = "listMembershipTiers"
	OpGetMembershipTier    = "getMembershipTier"
	OpCreateMembershipTier = "createMembershipTier"
	OpUpdateMembershipTier = "updateMembershipTier"

	// Aggregates
	OpFullAccount                 = "fullAccount"
	OpListFullAccounts            = "listFullAccounts"
	OpAccountsWithFollowers       = "accountsWithFollowers"
	OpAccountWithItsSubscriptions = "accountWithItsSubscriptions"
	OpAccountsWithSubscriptions   = "accountsWithSubscriptions"
)

// Operation describes one named operation
type Operation struct {
	Name     string `json:"name"`
	Mutating bool   `json:"mutating"`
	Args     string `json:"args"`
}

var operations = []Operation{
	{Name: OpListAccounts, Args: `{"where"?: {"field", "equals"}}`},
	{Name: OpGetAccount, Args: `{"id"}`},
	{Name: OpCreateAccount, Mutating: true, Args: `{"firstName", "lastName", "email"}`},
	{Name: OpUpdateAccount, Mutating: true, Args: `{"id", "firstName"?, "lastName"?, "email"?}`},
	{Name: OpDeleteAccount, Mutating: true, Args: `{"id"}`},
	{Name: OpSubscribeTo, Mutating: true, Args: `{"followerId", "targetId"}`},
	{Name: OpUnsubscribeFrom, Mutating: true, Args: `{"followerId", "targetId"}`},

	{Name: OpListProfiles, Args: `{"where"?: {"field", "equals"}}`},
	{Name: OpGetProfile, Args: `{"id"}`},
	{Name: OpCreateProfile, Mutating: true, Args: `{"avatar", "sex", "birthday", "country", "street", "city", "membershipTierId", "accountId"}`},
	{Name: OpUpdateProfile, Mutating: true, Args: `{"id", "avatar"?, "sex"?, "birthday"?, "country"?, "street"?, "city"?, "membershipTierId"?}`},
	{Name: OpDeleteProfile, Mutating: true, Args: `{"id"}`},

	{Name: OpListPosts, Args: `{"where"?: {"field", "equals"}}`},
	{Name: OpGetPost, Args: `{"id"}`},
	{Name: OpCreatePost, Mutating: true, Args: `{"title", "content", "accountId"}`},
	{Name: OpUpdatePost, Mutating: true, Args: `{"id", "title"?, "content"?}`},
	{Name: OpDeletePost, Mutating: true, Args: `{"id"}`},

	{Name: OpListMembershipTiers, Args: `{"where"?: {"field", "equals"}}`},
	{Name: OpGetMembershipTier, Args: `{"id"}`},
	{Name: OpCreateMembershipTier, Mutating: true, Args: `{"discount", "monthPostsLimit"}`},
	{Name: OpUpdateMembershipTier, Mutating: true, Args: `{"id", "discount"?, "monthPostsLimit"?}`},

	{Name: OpFullAccount, Args: `{"id"}`},
	{Name: OpListFullAccounts, Args: `{}`},
	{Name: OpAccountsWithFollowers, Args: `{}`},
	{Name: OpAccountWithItsSubscriptions, Args: `{"id"}`},
	{Name: OpAccountsWithSubscriptions, Args: `{}`},
}

// Operations lists every operation in a stable order
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// IsMutating reports whether name changes state
func IsMutating(name string) bool {
	for _, op := range operations {
		if op.Name == name {
			return op.Mutating
		}
	}
	return false
}
