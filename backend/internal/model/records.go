package model

import (
	"slices"

	apperrors "socialgraph/backend/pkg/errors"
)

// Kind names a record kind. It doubles as the event and error vocabulary.
type Kind string

const (
	KindAccount        Kind = "account"
	KindProfile        Kind = "profile"
	KindPost           Kind = "post"
	KindMembershipTier Kind = "membership_tier"
)

// Predicate field names shared by the store, the resolver and the enforcer
const (
	FieldID                     = "id"
	FieldAccountID              = "accountId"
	FieldMembershipTierID       = "membershipTierId"
	FieldSubscribedToAccountIDs = "subscribedToAccountIds"
)

// Account is a user of the service. SubscribedToAccountIDs holds the
// accounts it follows, in the order the edges were added.
type Account struct {
	ID                     string   `json:"id" yaml:"id"`
	FirstName              string   `json:"firstName" yaml:"firstName"`
	LastName               string   `json:"lastName" yaml:"lastName"`
	Email                  string   `json:"email" yaml:"email"`
	SubscribedToAccountIDs []string `json:"subscribedToAccountIds" yaml:"subscribedToAccountIds"`
}

func (a *Account) GetID() string   { return a.ID }
func (a *Account) SetID(id string) { a.ID = id }

// FieldValue returns the value of a predicate field
func (a *Account) FieldValue(field string) (any, bool) {
	switch field {
	case FieldID:
		return a.ID, true
	case "firstName":
		return a.FirstName, true
	case "lastName":
		return a.LastName, true
	case "email":
		return a.Email, true
	case FieldSubscribedToAccountIDs:
		return a.SubscribedToAccountIDs, true
	}
	return nil, false
}

// Clone returns a deep copy
func (a *Account) Clone() Account {
	c := *a
	c.SubscribedToAccountIDs = slices.Clone(a.SubscribedToAccountIDs)
	if c.SubscribedToAccountIDs == nil {
		c.SubscribedToAccountIDs = []string{}
	}
	return c
}

// Validate checks required fields
func (a *Account) Validate() error {
	return requireAll(
		required{"firstName", a.FirstName},
		required{"lastName", a.LastName},
		required{"email", a.Email},
	)
}

// Follows reports whether the account has an edge to targetID
func (a *Account) Follows(targetID string) bool {
	return slices.Contains(a.SubscribedToAccountIDs, targetID)
}

// Profile holds personal details of an account. At most one exists per account.
type Profile struct {
	ID               string `json:"id" yaml:"id"`
	Avatar           string `json:"avatar" yaml:"avatar"`
	Sex              string `json:"sex" yaml:"sex"`
	Birthday         int    `json:"birthday" yaml:"birthday"`
	Country          string `json:"country" yaml:"country"`
	Street           string `json:"street" yaml:"street"`
	City             string `json:"city" yaml:"city"`
	MembershipTierID string `json:"membershipTierId" yaml:"membershipTierId"`
	AccountID        string `json:"accountId" yaml:"accountId"`
}

func (p *Profile) GetID() string   { return p.ID }
func (p *Profile) SetID(id string) { p.ID = id }

// FieldValue returns the value of a predicate field
func (p *Profile) FieldValue(field string) (any, bool) {
	switch field {
	case FieldID:
		return p.ID, true
	case "avatar":
		return p.Avatar, true
	case "sex":
		return p.Sex, true
	case "birthday":
		return p.Birthday, true
	case "country":
		return p.Country, true
	case "street":
		return p.Street, true
	case "city":
		return p.City, true
	case FieldMembershipTierID:
		return p.MembershipTierID, true
	case FieldAccountID:
		return p.AccountID, true
	}
	return nil, false
}

func (p *Profile) Clone() Profile { return *p }

// Validate checks required fields
func (p *Profile) Validate() error {
	return requireAll(
		required{"avatar", p.Avatar},
		required{"sex", p.Sex},
		required{"country", p.Country},
		required{"street", p.Street},
		required{"city", p.City},
		required{FieldMembershipTierID, p.MembershipTierID},
		required{FieldAccountID, p.AccountID},
	)
}

// Post is a piece of content written by an account
type Post struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	AccountID string `json:"accountId" yaml:"accountId"`
}

func (p *Post) GetID() string   { return p.ID }
func (p *Post) SetID(id string) { p.ID = id }

// FieldValue returns the value of a predicate field
func (p *Post) FieldValue(field string) (any, bool) {
	switch field {
	case FieldID:
		return p.ID, true
	case "title":
		return p.Title, true
	case "content":
		return p.Content, true
	case FieldAccountID:
		return p.AccountID, true
	}
	return nil, false
}

func (p *Post) Clone() Post { return *p }

// Validate checks required fields
func (p *Post) Validate() error {
	return requireAll(
		required{"title", p.Title},
		required{"content", p.Content},
		required{FieldAccountID, p.AccountID},
	)
}

// MembershipTier describes a subscription level referenced by profiles
type MembershipTier struct {
	ID              string `json:"id" yaml:"id"`
	Discount        int    `json:"discount" yaml:"discount"`
	MonthPostsLimit int    `json:"monthPostsLimit" yaml:"monthPostsLimit"`
}

func (t *MembershipTier) GetID() string   { return t.ID }
func (t *MembershipTier) SetID(id string) { t.ID = id }

// FieldValue returns the value of a predicate field
func (t *MembershipTier) FieldValue(field string) (any, bool) {
	switch field {
	case FieldID:
		return t.ID, true
	case "discount":
		return t.Discount, true
	case "monthPostsLimit":
		return t.MonthPostsLimit, true
	}
	return nil, false
}

func (t *MembershipTier) Clone() MembershipTier { return *t }

// Validate rejects negative limits
func (t *MembershipTier) Validate() error {
	if t.Discount < 0 {
		return apperrors.NewValidationFailed("discount", "must not be negative")
	}
	if t.MonthPostsLimit < 0 {
		return apperrors.NewValidationFailed("monthPostsLimit", "must not be negative")
	}
	return nil
}

type required struct {
	field string
	value string
}

func requireAll(fields ...required) error {
	for _, f := range fields {
		if f.value == "" {
			return apperrors.NewValidationFailed(f.field, "is required")
		}
	}
	return nil
}
