// Package clients calls sibling services over their HTTP API.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/web"
)

const DefaultTimeout = 5 * time.Second

type UnexpectedStatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (err UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s %s: %s", err.StatusCode, err.Method, err.URL, err.Message)
}

type baseClient struct {
	baseURL    string
	httpClient *http.Client
}

func newBaseClient(baseURL string, httpClient *http.Client) baseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return baseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// get calls the endpoint once on behalf of the caller in ctx. A non-200 status
// is passed to mapStatus, which may return a domain error for it.
func (c baseClient) get(ctx context.Context, path string, dst any, mapStatus func(status int) error) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(web.HeaderUser, authcontext.GetSubject(ctx))
	req.Header.Set(web.HeaderRole, authcontext.GetRole(ctx))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		if mappedErr := mapStatus(res.StatusCode); mappedErr != nil {
			return mappedErr
		}

		return &UnexpectedStatusError{
			Method:     http.MethodGet,
			URL:        endpoint,
			StatusCode: res.StatusCode,
			Message:    readErrorMessage(res.Body),
		}
	}

	err = json.NewDecoder(res.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func readErrorMessage(body io.Reader) string {
	var errRes web.ErrorResponse

	err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&errRes)
	if err != nil {
		return ""
	}

	return errRes.Message
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
