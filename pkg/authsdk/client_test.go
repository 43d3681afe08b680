package authsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestRequestOTPRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/request-otp", r.URL.Path)

		var body authsdk.RequestOTPRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "0712345678", body.Phone)

		authsdk.RateLimited(42).WriteError(w)
	}))
	t.Cleanup(srv.Close)

	_, err := authsdk.NewSDKClient(srv.URL).RequestOTP(context.Background(), "0712345678")

	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeRateLimited, apiErr.Code)
	require.Equal(t, 42, apiErr.RetryAfter)
}

func TestSessionSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		switch r.URL.Path {
		case "/v1/auth/me":
			_ = json.NewEncoder(w).Encode(authsdk.AccountResponse{Account: authsdk.AccountInfo{ID: "acc-1", Name: "User"}})
		case "/v1/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	me, err := client.Session("tok").Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "acc-1", me.Account.ID)
	require.NoError(t, client.Session("tok").Logout(ctx))

	_, err = client.Session("other").Me(ctx)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, apiErr.Code)
}

func TestSuspendedErrorCarriesUntil(t *testing.T) {
	until := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		authsdk.AccountSuspended(&until).WriteError(w)
	}))
	t.Cleanup(srv.Close)

	_, err := authsdk.NewSDKClient(srv.URL).Login(context.Background(), "0712345678", "123456")

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.NotNil(t, apiErr.SuspendedUntil)
	require.True(t, until.Equal(*apiErr.SuspendedUntil))
}

func TestNonJSONErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := authsdk.NewSDKClient(srv.URL).GetLiveness(context.Background())

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
