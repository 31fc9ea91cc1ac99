package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/nhle/teamspace/internal/model"
)

// HTTPDirectory resolves users against a remote identity service. All
// calls pass through a circuit breaker so a flapping identity service
// degrades add-member operations instead of piling up blocked requests.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPDirectory creates a directory client for the identity service
// at baseURL.
func NewHTTPDirectory(baseURL string, timeout time.Duration, log *logrus.Logger) *HTTPDirectory {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "identity-directory",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Infof("circuit breaker %q changed from %s to %s", name, from.String(), to.String())
		},
	})

	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// LookupUsername implements Directory. A 404 from the identity service
// maps to model.ErrNotFound and does not count as a breaker failure.
func (d *HTTPDirectory) LookupUsername(ctx context.Context, username string) (*User, error) {
	reqURL := fmt.Sprintf("%s/users/by-username/%s", d.baseURL, url.PathEscape(username))

	result, err := d.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building identity request: %w", err)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling identity service: %w", err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			var u User
			if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
				return nil, fmt.Errorf("decoding identity response: %w", err)
			}
			return &u, nil
		case http.StatusNotFound:
			// Absent users are an expected answer, not a failure.
			return (*User)(nil), nil
		default:
			return nil, fmt.Errorf("identity service returned %s", resp.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	u := result.(*User)
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", username, model.ErrNotFound)
	}
	return u, nil
}
