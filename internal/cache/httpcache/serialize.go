package httpcache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
)

// Prefix marks a stored response
const Prefix = "---HTTP-RESPONSE---\n"

// ErrNotResponse is returned when decoding data that was not written by Serialize
var ErrNotResponse = errors.New("not a stored HTTP response")

// Serialize dumps resp, body included, behind Prefix.
// The body is read fully and replaced so resp stays usable.
func Serialize(resp *http.Response) ([]byte, error) {
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		resp.ContentLength = int64(len(body))
		resp.TransferEncoding = nil
	}

	b, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return nil, fmt.Errorf("dumping response: %w", err)
	}
	return append([]byte(Prefix), b...), nil
}

// Deserialize rebuilds a response written by Serialize
func Deserialize(b []byte, req *http.Request) (*http.Response, error) {
	if !bytes.HasPrefix(b, []byte(Prefix)) {
		return nil, ErrNotResponse
	}

	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b[len(Prefix):])), req)
	if err != nil {
		return nil, fmt.Errorf("reading stored response: %w", err)
	}
	return resp, nil
}
