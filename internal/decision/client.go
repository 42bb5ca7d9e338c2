package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is where the analysis backend listens by default
const DefaultBaseURL = "http://localhost:8080"

// ErrServerUnreachable is returned when the backend could not be reached at all
var ErrServerUnreachable = errors.New("analysis server unreachable")

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	// Message is the "message" field of the error body, if any
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("analysis failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis failed with status %d", e.StatusCode)
}

// Client calls the backend analysis endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze validates req and performs exactly one GET /api/v1/decision
func (c *Client) Analyze(ctx context.Context, req Request) (*AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", req.Symbol)
	query.Set("minutes", strconv.Itoa(req.Minutes))

	requ, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/decision?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requ.Header.Set("Accept", "application/json")

	logrus.Infof("Requesting analysis for %s over %d minutes", req.Symbol, req.Minutes)
	resp, err := c.httpClient.Do(requ)
	if err != nil {
		logrus.Errorf("Error fetching analysis: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
		logrus.Errorf("Error fetching analysis: %v", apiErr)
		return nil, apiErr
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	return &result, nil
}

// errorMessage extracts {"message": "..."} from an error body
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) != nil {
		return ""
	}
	return payload.Message
}

// Describe turns an Analyze error into the text shown to the user
func (c *Client) Describe(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrServerUnreachable):
		return "Unable to connect to the server. Please ensure the backend is running on " + c.baseURL
	case HorizonMessage(err) != "":
		return HorizonMessage(err)
	case errors.Is(err, ErrInvalidRequest):
		return strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": ")
	default:
		return "Failed to fetch analysis. Please try again."
	}
}
