package model

import (
	apperrors "socialgraph/backend/pkg/errors"
)

// Patches are partial updates: a nil field keeps the stored value.
// Ids, accountId and follow edges are not patchable.

// AccountPatch is a partial update of an Account
type AccountPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Apply overwrites the fields present in the patch
func (p AccountPatch) Apply(a *Account) {
	setString(&a.FirstName, p.FirstName)
	setString(&a.LastName, p.LastName)
	setString(&a.Email, p.Email)
}

// Validate rejects present-but-empty required fields
func (p AccountPatch) Validate() error {
	return notBlank(
		optional{"firstName", p.FirstName},
		optional{"lastName", p.LastName},
		optional{"email", p.Email},
	)
}

// ProfilePatch is a partial update of a Profile
type ProfilePatch struct {
	Avatar           *string `json:"avatar,omitempty"`
	Sex              *string `json:"sex,omitempty"`
	Birthday         *int    `json:"birthday,omitempty"`
	Country          *string `json:"country,omitempty"`
	Street           *string `json:"street,omitempty"`
	City             *string `json:"city,omitempty"`
	MembershipTierID *string `json:"membershipTierId,omitempty"`
}

// Apply overwrites the fields present in the patch
func (p ProfilePatch) Apply(pr *Profile) {
	setString(&pr.Avatar, p.Avatar)
	setString(&pr.Sex, p.Sex)
	if p.Birthday != nil {
		pr.Birthday = *p.Birthday
	}
	setString(&pr.Country, p.Country)
	setString(&pr.Street, p.Street)
	setString(&pr.City, p.City)
	setString(&pr.MembershipTierID, p.MembershipTierID)
}

// Validate rejects present-but-empty required fields
func (p ProfilePatch) Validate() error {
	return notBlank(
		optional{"avatar", p.Avatar},
		optional{"sex", p.Sex},
		optional{"country", p.Country},
		optional{"street", p.Street},
		optional{"city", p.City},
		optional{FieldMembershipTierID, p.MembershipTierID},
	)
}

// PostPatch is a partial update of a Post
type PostPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Apply overwrites the fields present in the patch
func (p PostPatch) Apply(post *Post) {
	setString(&post.Title, p.Title)
	setString(&post.Content, p.Content)
}

// Validate rejects present-but-empty required fields
func (p PostPatch) Validate() error {
	return notBlank(
		optional{"title", p.Title},
		optional{"content", p.Content},
	)
}

// MembershipTierPatch is a partial update of a MembershipTier
type MembershipTierPatch struct {
	Discount        *int `json:"discount,omitempty"`
	MonthPostsLimit *int `json:"monthPostsLimit,omitempty"`
}

// Apply overwrites the fields present in the patch
func (p MembershipTierPatch) Apply(t *MembershipTier) {
	if p.Discount != nil {
		t.Discount = *p.Discount
	}
	if p.MonthPostsLimit != nil {
		t.MonthPostsLimit = *p.MonthPostsLimit
	}
}

// Validate rejects negative limits
func (p MembershipTierPatch) Validate() error {
	if p.Discount != nil && *p.Discount < 0 {
		return apperrors.NewValidationFailed("discount", "must not be negative")
	}
	if p.MonthPostsLimit != nil && *p.MonthPostsLimit < 0 {
		return apperrors.NewValidationFailed("monthPostsLimit", "must not be negative")
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

type optional struct {
	field string
	value *string
}

func notBlank(fields ...optional) error {
	for _, f := range fields {
		if f.value != nil && *f.value == "" {
			return apperrors.NewValidationFailed(f.field, "must not be empty")
		}
	}
	return nil
}
