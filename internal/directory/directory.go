// Package directory is the narrow client for the external user profile
// store. The ledger only consumes the display name, at join time.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Profile struct {
	Name          string  `json:"name"`
	MonthlySalary float64 `json:"monthly_salary"`
	RiskTolerance string  `json:"risk_tolerance"`
}

type Resolver interface {
	ResolveMember(ctx context.Context, memberID string) (Profile, error)
}

// Client resolves members against the profile store's HTTP API.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) ResolveMember(ctx context.Context, memberID string) (Profile, error) {
	u := fmt.Sprintf("%s/users/%s", c.base, url.PathEscape(memberID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("directory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("directory lookup %q: %w", memberID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("directory lookup %q: status %d", memberID, resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("directory decode: %w", err)
	}
	return p, nil
}

// Static is a map-backed resolver for tests and runs without a configured
// directory.
type Static map[string]Profile

func (s Static) ResolveMember(_ context.Context, memberID string) (Profile, error) {
	p, ok := s[memberID]
	if !ok {
		return Profile{}, fmt.Errorf("member %q not in directory", memberID)
	}
	return p, nil
}
