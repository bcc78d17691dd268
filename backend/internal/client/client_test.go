package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialgraph/backend/internal/api"
	"socialgraph/backend/internal/facade"
	"socialgraph/backend/internal/fixtures"
	"socialgraph/backend/internal/integrity"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/internal/resolver"
	"socialgraph/backend/internal/store"
	apperrors "socialgraph/backend/pkg/errors"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := store.NewDB(store.WithLogger(zap.NewNop()))
	m := metrics.New()
	f := facade.New(db, integrity.NewEnforcer(db, nil), resolver.New(db), m)
	srv := httptest.NewServer(api.NewRouter(f, m, zap.NewNop(), false))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Invoke(t *testing.T) {
	c := New(newServer(t).URL + "/")
	ctx := context.Background()

	var ann model.Account
	err := c.Invoke(ctx, facade.OpCreateAccount, map[string]string{
		"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com",
	}, &ann)
	require.NoError(t, err)
	assert.NotEmpty(t, ann.ID)

	var got model.Account
	require.NoError(t, c.Invoke(ctx, facade.OpGetAccount, map[string]string{"id": ann.ID}, &got))
	assert.Equal(t, ann, got)

	err = c.Invoke(ctx, facade.OpSubscribeTo, map[string]string{"followerId": ann.ID, "targetId": ann.ID}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	var remote *Error
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadRequest, remote.Status)
}

func TestClient_NotFound(t *testing.T) {
	c := New(newServer(t).URL)
	_, err := c.Call(context.Background(), "getPost", json.RawMessage(`{"id":"missing"}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestClient_Operations(t *testing.T) {
	c := New(newServer(t).URL)
	ops, err := c.Operations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, facade.Operations(), ops)
}

func TestClient_AppliesFixture(t *testing.T) {
	c := New(newServer(t).URL)
	ctx := context.Background()

	f, err := fixtures.Default()
	require.NoError(t, err)
	applied, err := f.Apply(ctx, c)
	require.NoError(t, err)
	assert.Len(t, applied.Tiers, 2)

	var tiers []model.MembershipTier
	require.NoError(t, c.Invoke(ctx, facade.OpListMembershipTiers, nil, &tiers))
	assert.Len(t, tiers, 2)
}

func TestClient_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Call(context.Background(), "listAccounts", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
