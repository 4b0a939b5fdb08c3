package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
	"github.com/example/finstinct-storefront/internal/infrastructure/store/mocks"
)

const testProfile = "profile-1"

func int64p(v int64) *int64 { return &v }

func newTestSessionStore(t *testing.T) (*Store, *mocks.MockStore) {
	t.Helper()
	ms := mocks.NewMockStore()
	s, err := Open(context.Background(), store.NewProfile(ms, testProfile), zap.NewNop())
	require.NoError(t, err)
	return s, ms
}

// ============================================
// Normalize Tests
// ============================================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		resp       backend.LoginResponse
		wantID     int64
		wantUserID int64
		wantName   string
		wantErr    error
	}{
		{
			name:   "top-level id without userId",
			resp:   backend.LoginResponse{Token: "t", ID: int64p(42), Name: "Ann"},
			wantID: 42, wantName: "Ann",
		},
		{
			name:       "userId wins over id but user keeps its own id",
			resp:       backend.LoginResponse{Token: "t", UserID: int64p(7), ID: int64p(42)},
			wantID:     42,
			wantUserID: 7,
		},
		{
			name:   "nested user object",
			resp:   backend.LoginResponse{Token: "t", User: &backend.User{ID: 9, Name: "Bo"}},
			wantID: 9, wantName: "Bo",
		},
		{
			name:   "userId with nested user lacking id",
			resp:   backend.LoginResponse{Token: "t", UserID: int64p(5), User: &backend.User{Name: "Cy"}},
			wantID: 5, wantName: "Cy",
		},
		{
			name:    "missing token",
			resp:    backend.LoginResponse{ID: int64p(42)},
			wantErr: ErrInvalidLoginPayload,
		},
		{
			name:    "missing id",
			resp:    backend.LoginResponse{Token: "t"},
			wantErr: ErrInvalidLoginPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := Normalize(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			wantUserID := tt.wantUserID
			if wantUserID == 0 {
				wantUserID = tt.wantID
			}
			assert.Equal(t, wantUserID, sess.UserID)
			assert.Equal(t, tt.wantID, sess.User.ID)
			assert.Equal(t, tt.wantName, sess.User.Name)
			assert.Equal(t, "t", sess.Token)
		})
	}
}

// ============================================
// Store Tests
// ============================================

func TestStore_LoginPersists(t *testing.T) {
	s, ms := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, backend.LoginResponse{Token: "tok", ID: int64p(42)}))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, int64(42), s.UserID())
	assert.Equal(t, "tok", s.Token())
	require.Len(t, ms.SetCalls, 1)
	assert.Equal(t, store.KeyUser, ms.SetCalls[0].Key)

	reloaded, err := Open(ctx, store.NewProfile(ms, testProfile), zap.NewNop())
	require.NoError(t, err)
	sess, ok := reloaded.Current()
	require.True(t, ok)
	assert.Equal(t, int64(42), sess.UserID)
}

func TestStore_LoginReplacesWholesale(t *testing.T) {
	s, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, backend.LoginResponse{Token: "a", User: &backend.User{ID: 1, Role: backend.RoleAdmin}}))
	require.NoError(t, s.Login(ctx, backend.LoginResponse{Token: "b", ID: int64p(2)}))

	sess, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", sess.Token)
	assert.Equal(t, int64(2), sess.UserID)
	assert.False(t, s.IsAdmin())
}

func TestStore_InvalidLoginKeepsExistingSession(t *testing.T) {
	s, _ := newTestSessionStore(t)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, backend.LoginResponse{Token: "a", ID: int64p(1)}))

	err := s.Login(ctx, backend.LoginResponse{})
	assert.ErrorIs(t, err, ErrInvalidLoginPayload)
	assert.Equal(t, int64(1), s.UserID())
}

func TestStore_Logout(t *testing.T) {
	s, ms := newTestSessionStore(t)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, backend.LoginResponse{Token: "a", ID: int64p(1)}))

	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, s.UserID())
	assert.Empty(t, s.Token())
	_, ok := ms.Value(testProfile, store.KeyUser)
	assert.False(t, ok)
}

func TestStore_IsAdmin(t *testing.T) {
	s, _ := newTestSessionStore(t)
	assert.False(t, s.IsAdmin())

	require.NoError(t, s.Login(context.Background(), backend.LoginResponse{Token: "a", User: &backend.User{ID: 1, Role: backend.RoleAdmin}}))
	assert.True(t, s.IsAdmin())
}

func TestOpen_MalformedStartsEmpty(t *testing.T) {
	ms := mocks.NewMockStore()
	ms.SetData(testProfile, store.KeyUser, `not json`)
	core, logs := observer.New(zapcore.WarnLevel)

	s, err := Open(context.Background(), store.NewProfile(ms, testProfile), zap.New(core))
	require.NoError(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 1, logs.FilterMessage("discarding malformed session").Len())
}

func TestOpen_IncompleteStoredSessionIgnored(t *testing.T) {
	ms := mocks.NewMockStore()
	ms.SetData(testProfile, store.KeyUser, `{"user":{"id":1},"token":""}`)

	s, err := Open(context.Background(), store.NewProfile(ms, testProfile), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
}

func TestOpen_StoreError(t *testing.T) {
	ms := mocks.NewMockStore()
	ms.GetErr = errors.New("timeout")

	_, err := Open(context.Background(), store.NewProfile(ms, testProfile), zap.NewNop())
	assert.ErrorContains(t, err, "timeout")
}
