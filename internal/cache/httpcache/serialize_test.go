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

func TestSerializeDeserialize(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(http.StatusTeapot)
	_, _ = rec.WriteString(`{"bitcoin":{"usd":50000}}`)
	resp := rec.Result()

	data, err := Serialize(resp)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Prefix))

	// the original response stays readable
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"bitcoin":{"usd":50000}}`, string(body))

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/simple/price", nil)
	got, err := Deserialize(data, req)
	require.NoError(t, err)
	defer func() { _ = got.Body.Close() }()

	assert.Equal(t, http.StatusTeapot, got.StatusCode)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Same(t, req, got.Request)
	body, err = io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"bitcoin":{"usd":50000}}`, string(body))
}

func TestDeserializeRejectsForeignData(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("short"), []byte("HTTP/1.1 200 OK\r\n\r\n")} {
		_, err := Deserialize(data, nil)
		assert.ErrorIs(t, err, ErrNotResponse)
	}
}
