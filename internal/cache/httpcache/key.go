// Package httpcache derives storage keys for HTTP requests and encodes responses for storage
package httpcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
)

// KeyHeaders are the request headers that select a distinct response
var KeyHeaders = []string{"Accept", "Accept-Encoding", "Accept-Language", "Content-Type"}

func shortHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:8]
}

// GenerateKey builds host/path/METHOD[_q<hash>][_h<hash>][_b<hash>] from the
// request's query, selected headers and body. The body is restored after reading.
func GenerateKey(request *http.Request) (string, error) {
	headersStr := ""
	for _, k := range KeyHeaders {
		if v := request.Header.Values(k); len(v) > 0 {
			headersStr += k + ":" + strings.Join(v, ",") + "\n"
		}
	}

	var bodyBytes []byte
	if request.Body != nil && request.Body != http.NoBody {
		var err error
		bodyBytes, err = io.ReadAll(request.Body)
		if err != nil {
			return "", fmt.Errorf("reading request body: %w", err)
		}
		if err := request.Body.Close(); err != nil {
			return "", fmt.Errorf("closing request body: %w", err)
		}
		request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	host := request.URL.Host
	if host == "" {
		host = request.Host
	}
	host = strings.TrimSuffix(strings.TrimSuffix(host, ":80"), ":443")
	parts := []string{host}
	if p := strings.Trim(request.URL.Path, "/"); p != "" {
		parts = append(parts, p)
	}

	filename := request.Method
	if request.URL.RawQuery != "" {
		filename += "_q" + shortHash([]byte(request.URL.RawQuery))
	}
	if headersStr != "" {
		filename += "_h" + shortHash([]byte(headersStr))
	}
	if len(bodyBytes) > 0 {
		filename += "_b" + shortHash(bodyBytes)
	}
	parts = append(parts, filename)

	return path.Join(parts...), nil
}
