package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"taskboard/internal/apperr"
)

// HTTPSource queries a remote directory endpoint that answers
// GET <base>?q=<query> with a JSON array of Person records. The client
// timeout is the caller-imposed bound on the external call; a timeout is a
// retryable ExternalUnavailable, never retried here.
type HTTPSource struct {
	name    string
	baseURL string
	client  *http.Client
}

func NewHTTPSource(name, baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string {
	return s.name
}

func (s *HTTPSource) Search(ctx context.Context, query string) ([]Person, error) {
	reqURL := fmt.Sprintf("%s?q=%s", s.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.External("directory source unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.External(fmt.Sprintf("directory source returned %d", resp.StatusCode), nil)
	}

	var people []Person
	if err := json.NewDecoder(resp.Body).Decode(&people); err != nil {
		return nil, apperr.External("directory source returned malformed payload", err)
	}
	return people, nil
}
