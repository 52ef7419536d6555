package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, inbound string) (string, string) {
		t.Helper()
		var fromCtx string
		handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCtx = requestid.FromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if inbound != "" {
			req.Header.Set(requestid.Header, inbound)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return fromCtx, rec.Header().Get(requestid.Header)
	}

	t.Run("generates id", func(t *testing.T) {
		t.Parallel()
		ctxID, echoed := serve(t, "")
		require.NotEmpty(t, ctxID)
		assert.Equal(t, ctxID, echoed)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err)
	})

	t.Run("reuses valid inbound id", func(t *testing.T) {
		t.Parallel()
		ctxID, echoed := serve(t, "trace-abc_123")
		assert.Equal(t, "trace-abc_123", ctxID)
		assert.Equal(t, "trace-abc_123", echoed)
	})

	t.Run("replaces malformed id", func(t *testing.T) {
		t.Parallel()
		ctxID, _ := serve(t, "bad id\n")
		assert.NotEqual(t, "bad id\n", ctxID)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err)
	})
}

func TestFromContextMissing(t *testing.T) {
	t.Parallel()
	assert.Empty(t, requestid.FromContext(t.Context()))
}
