package capes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CapeType is the enumerated tag of a cape asset. The catalog schema may
// grow new variants; unknown tags are rejected with UnknownCapeTypeError
// rather than passed through silently.
type CapeType string

const CapeTypeContributor CapeType = "CONTRIBUTOR"

type UnknownCapeTypeError struct {
	Value string
}

func (e *UnknownCapeTypeError) Error() string {
	return fmt.Sprintf("unknown cape type %q", e.Value)
}

func (t *CapeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch CapeType(s) {
	case CapeTypeContributor:
		*t = CapeType(s)
		return nil
	default:
		return &UnknownCapeTypeError{Value: s}
	}
}

// Color carries the decorative cape colors. The values are opaque strings
// and never interpreted.
type Color struct {
	Primary string `json:"primary"`
	Border  string `json:"border"`
}

// Cape is one cosmetic cape record from the catalog.
type Cape struct {
	CapeUUID   string   `json:"capeUuid"`
	PlayerUUID string   `json:"playerUuid"`
	Type       CapeType `json:"type"`
	Color      Color    `json:"color"`
}

// User is one entry of the remote catalog. The id is numeric in the wire
// format but never used arithmetically, so it stays a json.Number.
type User struct {
	ID        json.Number `json:"id"`
	Capes     []Cape      `json:"capes"`
	IsPremium bool        `json:"isPremium"`
}

type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.StatusCode)
}

// Client fetches the remote cape catalog.
type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(httpClient *http.Client, url string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, url: url}
}

// Fetch retrieves and decodes the full catalog. It returns either the
// complete parsed list or an error, never partial results.
func (c *Client) Fetch(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return users, nil
}
