package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialgraph/backend/internal/facade"
	"socialgraph/backend/internal/integrity"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/resolver"
	"socialgraph/backend/internal/store"
)

const sample = `
membershipTiers:
  - key: basic
    discount: 0
    monthPostsLimit: 20
accounts:
  - key: ann
    firstName: Ann
    lastName: Lee
    email: ann@example.com
    follows: [bo]
    profile:
      tier: basic
      avatar: ann.png
      sex: f
      birthday: 1990
      country: NZ
      street: Queen St
      city: Auckland
    posts:
      - title: Hello
        content: First post
  - key: bo
    firstName: Bo
    lastName: Chen
    email: bo@example.com
    follows: [ann]
`

func newFacade(t *testing.T) (*facade.Facade, *store.DB) {
	t.Helper()
	db := store.NewDB(store.WithLogger(zap.NewNop()))
	return facade.New(db, integrity.NewEnforcer(db, nil), resolver.New(db), metrics.New()), db
}

func TestDefault(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []Tier{
		{Key: "basic", Discount: 0, MonthPostsLimit: 20},
		{Key: "business", Discount: 5, MonthPostsLimit: 100},
	}, f.MembershipTiers)
	assert.Empty(t, f.Accounts)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "membershipTiers:\n  - key: a\n    price: 3\n", "failed to parse YAML"},
		{"missing tier key", "membershipTiers:\n  - discount: 1\n", "membership tier key is required"},
		{"duplicate account", "accounts:\n  - key: a\n  - key: a\n", `duplicate account key "a"`},
		{"unknown follow", "accounts:\n  - key: a\n    follows: [b]\n", `follows unknown account "b"`},
		{"unknown tier", "accounts:\n  - key: a\n    profile:\n      tier: gold\n", `unknown tier "gold"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Accounts, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	fc, db := newFacade(t)

	applied, err := f.Apply(context.Background(), fc)
	require.NoError(t, err)
	require.Len(t, applied.Accounts, 2)
	require.Len(t, applied.Tiers, 1)

	ann := db.Accounts.Get(applied.Accounts["ann"])
	require.NotNil(t, ann)
	assert.Equal(t, []string{applied.Accounts["bo"]}, ann.SubscribedToAccountIDs)

	full := fc.FullAccount(ann.ID)
	require.Len(t, full.Profiles, 1)
	assert.Equal(t, applied.Tiers["basic"], full.Profiles[0].MembershipTierID)
	require.Len(t, full.MembershipTiers, 1)
	assert.Equal(t, 20, full.MembershipTiers[0].MonthPostsLimit)
	require.Len(t, full.Posts, 1)
	assert.Equal(t, "Hello", full.Posts[0].Title)

	assert.Equal(t, map[model.Kind]int{
		model.KindAccount:        2,
		model.KindProfile:        1,
		model.KindPost:           1,
		model.KindMembershipTier: 1,
	}, db.Stats())
}

type failingInvoker struct {
	failOn string
	calls  []string
}

func (f *failingInvoker) Invoke(_ context.Context, name string, _ any, _ any) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return assert.AnError
	}
	return nil
}

func TestApply_StopsOnFirstError(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	inv := &failingInvoker{failOn: facade.OpSubscribeTo}
	_, err = f.Apply(context.Background(), inv)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `account "ann" follow "bo"`)
	assert.Equal(t, []string{
		facade.OpCreateMembershipTier,
		facade.OpCreateAccount,
		facade.OpCreateAccount,
		facade.OpSubscribeTo,
	}, inv.calls)
}
