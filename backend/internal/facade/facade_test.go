package facade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialgraph/backend/internal/integrity"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/resolver"
	"socialgraph/backend/internal/store"
	apperrors "socialgraph/backend/pkg/errors"
)

const missingID = "99999999-9999-4999-8999-999999999999"

func newFacade(t *testing.T) (*Facade, *metrics.Metrics) {
	t.Helper()
	var mu sync.Mutex
	n := 0
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}
	db := store.NewDB(store.WithIDGenerator(ids), store.WithLogger(zap.NewNop()))
	m := metrics.New()
	return New(db, integrity.NewEnforcer(db, nil), resolver.New(db), m), m
}

func call(t *testing.T, f *Facade, name string, args any) *Result {
	t.Helper()
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		require.NoError(t, err)
		raw = b
	}
	return f.Execute(context.Background(), name, raw)
}

func createAccount(t *testing.T, f *Facade, first string) *model.Account {
	t.Helper()
	res := call(t, f, OpCreateAccount, map[string]string{
		"firstName": first, "lastName": "Test", "email": first + "@example.com",
	})
	require.True(t, res.Success, res.Error)
	acc, ok := res.Data.(*model.Account)
	require.True(t, ok)
	return acc
}

func TestExecute_AccountLifecycle(t *testing.T) {
	f, _ := newFacade(t)
	ann := createAccount(t, f, "Ann")

	res := call(t, f, OpGetAccount, idArgs{ID: ann.ID})
	require.True(t, res.Success)
	assert.Equal(t, ann, res.Data)

	res = call(t, f, OpUpdateAccount, map[string]string{"id": ann.ID, "email": "ann@new.example.com"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "ann@new.example.com", res.Data.(*model.Account).Email)
	assert.Equal(t, "Ann", res.Data.(*model.Account).FirstName)

	res = call(t, f, OpDeleteAccount, idArgs{ID: ann.ID})
	require.True(t, res.Success)

	res = call(t, f, OpGetAccount, idArgs{ID: ann.ID})
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Equal(t, apperrors.ErrorTypeNotFound, res.Code)
	assert.Equal(t, http.StatusNotFound, res.Status())
}

func TestExecute_IDShape(t *testing.T) {
	f, _ := newFacade(t)

	tests := []struct {
		name   string
		op     string
		args   any
		status int
	}{
		{"read with malformed id is not found", OpGetAccount, idArgs{ID: "nope"}, http.StatusNotFound},
		{"read of missing post is not found", OpGetPost, idArgs{ID: missingID}, http.StatusNotFound},
		{"delete with malformed id is rejected", OpDeletePost, idArgs{ID: "nope"}, http.StatusBadRequest},
		{"update with malformed id is rejected", OpUpdateProfile, map[string]string{"id": "nope", "city": "x"}, http.StatusBadRequest},
		{"delete of missing profile is not found", OpDeleteProfile, idArgs{ID: missingID}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, f, tt.op, tt.args)
			assert.False(t, res.Success)
			assert.Equal(t, tt.status, res.Status())
		})
	}
}

func TestExecute_RejectsUnknownArgs(t *testing.T) {
	f, _ := newFacade(t)
	ann := createAccount(t, f, "Ann")
	bo := createAccount(t, f, "Bo")

	// edges are not patchable
	res := call(t, f, OpUpdateAccount, map[string]any{"id": ann.ID, "subscribedToAccountIds": []string{bo.ID}})
	assert.False(t, res.Success)
	assert.Equal(t, apperrors.ErrorTypeValidation, res.Code)
	assert.Empty(t, f.db.Accounts.Get(ann.ID).SubscribedToAccountIDs)
}

func TestExecute_UnknownOperation(t *testing.T) {
	f, _ := newFacade(t)
	res := f.Execute(context.Background(), "dropEverything", nil)
	assert.False(t, res.Success)
	assert.True(t, apperrors.IsNotFound(res.Err()))
}

func TestExecute_FollowScenario(t *testing.T) {
	f, _ := newFacade(t)
	ann := createAccount(t, f, "Ann")
	bo := createAccount(t, f, "Bo")

	res := call(t, f, OpSubscribeTo, edgeArgs{FollowerID: ann.ID, TargetID: bo.ID})
	require.True(t, res.Success, res.Error)

	res = call(t, f, OpAccountsWithFollowers, nil)
	require.True(t, res.Success)
	views := res.Data.([]model.FollowersView)
	require.Len(t, views, 2)
	require.Len(t, views[1].Followers, 1)
	assert.Equal(t, ann.ID, views[1].Followers[0].ID)

	res = call(t, f, OpFullAccount, idArgs{ID: bo.ID})
	require.True(t, res.Success)
	assert.Equal(t, []model.Post{}, res.Data.(model.AccountAggregate).Posts)

	res = call(t, f, OpSubscribeTo, edgeArgs{FollowerID: ann.ID, TargetID: ann.ID})
	assert.Equal(t, http.StatusBadRequest, res.Status())

	res = call(t, f, OpUnsubscribeFrom, edgeArgs{FollowerID: ann.ID, TargetID: bo.ID})
	require.True(t, res.Success)
	res = call(t, f, OpUnsubscribeFrom, edgeArgs{FollowerID: ann.ID, TargetID: bo.ID})
	assert.False(t, res.Success)
	assert.Equal(t, apperrors.ErrorTypeConflict, res.Code)
}

func TestExecute_ListWithPredicate(t *testing.T) {
	f, _ := newFacade(t)
	ann := createAccount(t, f, "Ann")
	bo := createAccount(t, f, "Bo")
	for _, owner := range []*model.Account{ann, bo, ann} {
		res := call(t, f, OpCreatePost, model.Post{Title: "t", Content: "c", AccountID: owner.ID})
		require.True(t, res.Success, res.Error)
	}

	res := call(t, f, OpListPosts, map[string]any{"where": map[string]any{"field": "accountId", "equals": ann.ID}})
	require.True(t, res.Success)
	assert.Len(t, res.Data.([]model.Post), 2)

	res = call(t, f, OpListPosts, nil)
	require.True(t, res.Success)
	assert.Len(t, res.Data.([]model.Post), 3)
}

func TestExecute_ProfileScenario(t *testing.T) {
	f, _ := newFacade(t)
	ann := createAccount(t, f, "Ann")
	res := call(t, f, OpCreateMembershipTier, model.MembershipTier{Discount: 0, MonthPostsLimit: 20})
	require.True(t, res.Success)
	tier := res.Data.(*model.MembershipTier)

	profile := model.Profile{
		Avatar: "a.png", Sex: "f", Birthday: 1990, Country: "NZ", Street: "Queen St", City: "Auckland",
		MembershipTierID: missingID, AccountID: ann.ID,
	}
	res = call(t, f, OpCreateProfile, profile)
	assert.False(t, res.Success)
	assert.Equal(t, apperrors.ErrorTypeValidation, res.Code)
	assert.Empty(t, f.ListProfiles(nil))

	profile.MembershipTierID = tier.ID
	res = call(t, f, OpCreateProfile, profile)
	require.True(t, res.Success, res.Error)
	res = call(t, f, OpCreateProfile, profile)
	assert.False(t, res.Success)
	assert.Len(t, f.ListProfiles(store.Where(model.FieldAccountID, ann.ID)), 1)
}

func TestExecute_RecordsMetrics(t *testing.T) {
	f, m := newFacade(t)
	createAccount(t, f, "Ann")
	call(t, f, OpGetAccount, idArgs{ID: missingID})

	series, err := testutil.GatherAndCount(m.Registry(), "social_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)

	series, err = testutil.GatherAndCount(m.Registry(), "social_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestOperations_AllDispatch(t *testing.T) {
	f, _ := newFacade(t)
	seen := map[string]bool{}
	for _, op := range Operations() {
		assert.False(t, seen[op.Name], "duplicate %s", op.Name)
		seen[op.Name] = true

		res := f.Execute(context.Background(), op.Name, nil)
		var nf *apperrors.ErrNotFound
		if !res.Success && errors.As(res.Err(), &nf) {
			assert.NotEqual(t, "operation", nf.RecordKind, "operation %s is not dispatched", op.Name)
		}
	}
	assert.True(t, IsMutating(OpDeleteAccount))
	assert.False(t, IsMutating(OpAccountsWithSubscriptions))
	assert.False(t, IsMutating("unknown"))
}
