package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PublicProfile holds the display fields the identity provider exposes for
// a user.
type PublicProfile struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Bio      string `json:"bio"`
}

// Directory looks up public profile fields by external identity id.
type Directory interface {
	PublicProfile(ctx context.Context, externalID string) (*PublicProfile, error)
}

// HTTPDirectory talks to the identity provider's public profile endpoint.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory creates a directory client for the given base URL.
func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// PublicProfile fetches the display profile for an external identity.
func (d *HTTPDirectory) PublicProfile(ctx context.Context, externalID string) (*PublicProfile, error) {
	url := fmt.Sprintf("%s/users/%s", d.baseURL, externalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity directory: unexpected status %d", resp.StatusCode)
	}

	var profile PublicProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

var _ Directory = (*HTTPDirectory)(nil)
