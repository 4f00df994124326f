package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEncodesQuery(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.Send(context.Background(), "+1555000111", "apikey123", `Code "AB" was just used!`))

	require.NotNil(t, got)
	assert.Equal(t, "+1555000111", got.Get("phone"))
	assert.Equal(t, "apikey123", got.Get("apikey"))
	assert.Equal(t, `Code "AB" was just used!`, got.Get("text"))
}

func TestSendRejectsMissingCredentials(t *testing.T) {
	c := New("http://127.0.0.1:1")
	assert.Error(t, c.Send(context.Background(), "", "key", "msg"))
	assert.Error(t, c.Send(context.Background(), "+1555", "", "msg"))
}

func TestSendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := New(server.URL).Send(context.Background(), "+1555", "key", "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestThrottleAlertOncePerWindow(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	c := New(server.URL)

	c.ThrottleAlert("+1555", "key", "10.0.0.1", "/api/verify-code")
	c.ThrottleAlert("+1555", "key", "10.0.0.1", "/api/verify-code")
	assert.Equal(t, 1, hits)

	// distinct ip/path pairs alert independently
	c.ThrottleAlert("+1555", "key", "10.0.0.2", "/api/verify-code")
	assert.Equal(t, 2, hits)
}

func TestThrottleAlertWindowExpiry(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	c := New(server.URL)
	c.throttleD = 10 * time.Millisecond

	c.ThrottleAlert("+1555", "key", "10.0.0.1", "/api/files")
	time.Sleep(20 * time.Millisecond)
	c.ThrottleAlert("+1555", "key", "10.0.0.1", "/api/files")
	assert.Equal(t, 2, hits)
}
