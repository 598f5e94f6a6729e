package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joy095/taxibooking/config"
	"golang.org/x/oauth2"
)

const (
	CanvaAuthURL    = "https://www.canva.com/oauth2/authorize"
	CanvaTokenURL   = "https://www.canva.com/oauth2/token"
	CanvaAPIBaseURL = "https://api.canva.com/rest/v1"

	maxDesignsBody = 5 << 20 // 5 MB
)

var canvaScopes = []string{"design:read", "asset:read"}

// ErrUnauthorized means the design service rejected the access token.
var ErrUnauthorized = errors.New("design service rejected the access token")

// DesignClientWrapper is the part of the design service the controllers use.
// It lets tests swap in a fake.
type DesignClientWrapper interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchDesigns returns the raw list response and its content type.
	FetchDesigns(ctx context.Context, accessToken string) ([]byte, string, error)
}

// CanvaClient talks to the Canva OAuth endpoints and REST API.
type CanvaClient struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

type CanvaOption func(*CanvaClient)

// WithCanvaEndpoints overrides the provider URLs, mostly for tests.
func WithCanvaEndpoints(authURL, tokenURL, apiBaseURL string) CanvaOption {
	return func(c *CanvaClient) {
		c.oauth.Endpoint.AuthURL = authURL
		c.oauth.Endpoint.TokenURL = tokenURL
		c.apiBaseURL = strings.TrimRight(apiBaseURL, "/")
	}
}

func WithHTTPClient(hc *http.Client) CanvaOption {
	return func(c *CanvaClient) { c.httpClient = hc }
}

// NewCanvaClient creates a client from the design configuration.
func NewCanvaClient(cfg config.DesignConfig, opts ...CanvaOption) *CanvaClient {
	c := &CanvaClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       canvaScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   CanvaAuthURL,
				TokenURL:  CanvaTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL: CanvaAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthURL builds the authorization redirect for the given state.
func (c *CanvaClient) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (c *CanvaClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return tok, nil
}

func (c *CanvaClient) FetchDesigns(ctx context.Context, accessToken string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/designs", nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create designs request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch designs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDesignsBody))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read designs response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, "", ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, "", fmt.Errorf("failed to fetch designs: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return body, contentType, nil
}
