package httpcache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name string
		req  func() *http.Request
		want string
	}{
		{
			name: "plain GET",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "http://api.example.com/coins/markets", nil)
			},
			want: "api.example.com/coins/markets/GET",
		},
		{
			name: "root path and default port",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "https://api.example.com:443/", nil)
			},
			want: "api.example.com/GET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateKey(tt.req())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateKeyDistinguishesRequests(t *testing.T) {
	base := func() *http.Request {
		return httptest.NewRequest(http.MethodGet, "http://api.example.com/coins?ids=bitcoin", nil)
	}
	baseKey, err := GenerateKey(base())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(baseKey, "api.example.com/coins/GET_q"))

	again, err := GenerateKey(base())
	require.NoError(t, err)
	assert.Equal(t, baseKey, again, "keys are stable")

	otherQuery := httptest.NewRequest(http.MethodGet, "http://api.example.com/coins?ids=ethereum", nil)
	key, err := GenerateKey(otherQuery)
	require.NoError(t, err)
	assert.NotEqual(t, baseKey, key)

	withHeader := base()
	withHeader.Header.Set("Accept", "application/json")
	key, err = GenerateKey(withHeader)
	require.NoError(t, err)
	assert.Contains(t, key, "_h")

	ignoredHeader := base()
	ignoredHeader.Header.Set("X-Request-Id", "42")
	key, err = GenerateKey(ignoredHeader)
	require.NoError(t, err)
	assert.Equal(t, baseKey, key)
}

func TestGenerateKeyRestoresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://api.example.com/search", strings.NewReader(`{"q":"btc"}`))

	key, err := GenerateKey(req)
	require.NoError(t, err)
	assert.Contains(t, key, "POST_b")

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"q":"btc"}`, string(body))
}
