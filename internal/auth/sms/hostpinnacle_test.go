package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostPinnacleSender_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body hostPinnacleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "254712345678", body.To)
		assert.Equal(t, "hello", body.Message)
		assert.Equal(t, DefaultSenderID, body.SenderID)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	s := NewHostPinnacleSender(server.URL, "test-key", "", server.Client())
	require.NoError(t, s.Send(context.Background(), "254712345678", "hello"))
	assert.Equal(t, DriverHostPinnacle, s.Name())
}

func TestHostPinnacleSender_SendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	s := NewHostPinnacleSender(server.URL, "wrong", "SAUTI", server.Client())
	err := s.Send(context.Background(), "254712345678", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestHostPinnacleSender_Defaults(t *testing.T) {
	s := NewHostPinnacleSender("", "key", "", nil)
	assert.Equal(t, DefaultHostPinnacleURL, s.apiURL)
	assert.Equal(t, DefaultSenderID, s.senderID)
	assert.Equal(t, defaultTimeout, s.httpClient.Timeout)
}

func TestNew(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DriverLog, s.Name())
	require.NoError(t, s.Send(context.Background(), "254712345678", "hello"))

	_, err = New(Config{Driver: DriverHostPinnacle})
	require.Error(t, err)

	s, err = New(Config{Driver: DriverHostPinnacle, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DriverHostPinnacle, s.Name())

	_, err = New(Config{Driver: "carrier-pigeon"})
	require.ErrorIs(t, err, ErrUnknownDriver)
}
