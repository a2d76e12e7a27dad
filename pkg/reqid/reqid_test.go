package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockroom/pkg/reqid"
)

func serve(header string) (ctxID string, rec *httptest.ResponseRecorder) {
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec
}

func TestGeneratesUUID(t *testing.T) {
	id, rec := serve("")

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, rec.Header().Get(reqid.Header))
}

func TestReusesUpstreamID(t *testing.T) {
	id, rec := serve("gateway-123")

	assert.Equal(t, "gateway-123", id)
	assert.Equal(t, "gateway-123", rec.Header().Get(reqid.Header))
}

func TestRejectsOversizedOrBinaryIDs(t *testing.T) {
	for _, bad := range []string{strings.Repeat("a", 200), "has space", "tab\tid"} {
		id, _ := serve(bad)
		assert.NotEqual(t, bad, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
}
