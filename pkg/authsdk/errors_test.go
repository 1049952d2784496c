package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrUserNotFound.WriteError(w)
	}))
	t.Cleanup(srv.Close)

	_, err := NewSDKClient(srv.URL).StartLogin(context.Background(), "ghost")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, ErrorCodeUserNotFound, apiErr.Code)
	require.Equal(t, "user not found", apiErr.Description)
}

func TestParseErrorResponseFallback(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusBadGateway}
	err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestSessionSendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	s := NewSDKClient(srv.URL + "/").NewSession("tok-123")
	require.NoError(t, s.DeletePasskey(context.Background(), "abc/def"))
	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "/auth/passkeys/abc%2Fdef", gotPath)
}
