package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "socialgraph/backend/pkg/errors"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAccountPatch_Apply(t *testing.T) {
	a := Account{ID: "a1", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", SubscribedToAccountIDs: []string{"b"}}

	AccountPatch{LastName: strPtr("Park")}.Apply(&a)

	assert.Equal(t, "Ann", a.FirstName)
	assert.Equal(t, "Park", a.LastName)
	assert.Equal(t, "ann@example.com", a.Email)
	assert.Equal(t, []string{"b"}, a.SubscribedToAccountIDs)
}

func TestProfilePatch_Apply(t *testing.T) {
	p := Profile{ID: "p1", Avatar: "a.png", Sex: "f", Birthday: 1990, Country: "NZ", Street: "Main", City: "Akl", MembershipTierID: "t1", AccountID: "a1"}

	ProfilePatch{Birthday: intPtr(1991), MembershipTierID: strPtr("t2")}.Apply(&p)

	assert.Equal(t, 1991, p.Birthday)
	assert.Equal(t, "t2", p.MembershipTierID)
	assert.Equal(t, "a.png", p.Avatar)
	assert.Equal(t, "a1", p.AccountID)
}

func TestMembershipTierPatch_Apply(t *testing.T) {
	tier := MembershipTier{ID: "t1", Discount: 0, MonthPostsLimit: 20}
	MembershipTierPatch{Discount: intPtr(5)}.Apply(&tier)
	assert.Equal(t, 5, tier.Discount)
	assert.Equal(t, 20, tier.MonthPostsLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"complete account", (&Account{FirstName: "Ann", LastName: "Lee", Email: "a@x"}).Validate(), false},
		{"account without email", (&Account{FirstName: "Ann", LastName: "Lee"}).Validate(), true},
		{"post without account", (&Post{Title: "t", Content: "c"}).Validate(), true},
		{"complete post", (&Post{Title: "t", Content: "c", AccountID: "a"}).Validate(), false},
		{"profile without tier", (&Profile{Avatar: "a", Sex: "f", Country: "c", Street: "s", City: "c", AccountID: "a"}).Validate(), true},
		{"negative discount", (&MembershipTier{Discount: -1}).Validate(), true},
		{"zero tier", (&MembershipTier{}).Validate(), false},
		{"blank patch value", AccountPatch{Email: strPtr("")}.Validate(), true},
		{"empty patch", AccountPatch{}.Validate(), false},
		{"negative tier patch", MembershipTierPatch{MonthPostsLimit: intPtr(-3)}.Validate(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				require.Error(t, tt.err)
				assert.True(t, apperrors.IsValidation(tt.err))
				return
			}
			assert.NoError(t, tt.err)
		})
	}
}

func TestAccount_CloneIsDeep(t *testing.T) {
	a := Account{ID: "a1", SubscribedToAccountIDs: []string{"b"}}
	c := a.Clone()
	c.SubscribedToAccountIDs[0] = "z"
	assert.Equal(t, "b", a.SubscribedToAccountIDs[0])

	empty := (&Account{ID: "a2"}).Clone()
	assert.NotNil(t, empty.SubscribedToAccountIDs)
}

func TestFieldValue(t *testing.T) {
	a := &Account{ID: "a1", SubscribedToAccountIDs: []string{"b"}}
	v, ok := a.FieldValue(FieldSubscribedToAccountIDs)
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, v)

	_, ok = a.FieldValue("nope")
	assert.False(t, ok)

	p := &Post{AccountID: "a1"}
	v, ok = p.FieldValue(FieldAccountID)
	require.True(t, ok)
	assert.Equal(t, "a1", v)
}

func TestAccountAggregate_MissingAccountOmitsBaseFields(t *testing.T) {
	agg := AccountAggregate{Posts: []Post{}, Profiles: []Profile{}, MembershipTiers: []MembershipTier{}}
	raw, err := json.Marshal(agg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts":[],"profiles":[],"membershipTiers":[]}`, string(raw))
}

func TestCheckID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"uuid", "00000000-0000-4000-8000-000000000001", true},
		{"empty", "", false},
		{"word", "basic", false},
		{"truncated", "00000000-0000-4000-8000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckID("accountId", tt.id)
			assert.Equal(t, tt.valid, err == nil)
			assert.Equal(t, tt.valid, ValidID(tt.id))
			if !tt.valid {
				assert.True(t, apperrors.IsValidation(err))
			}
		})
	}
}
