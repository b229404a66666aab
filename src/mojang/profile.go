package mojang

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoTextures      = errors.New("profile has no textures property")
	ErrNoSkin          = errors.New("profile has no skin")
)

// Profile is the resolved player identity: display name plus skin image URL.
type Profile struct {
	ID      string
	Name    string
	SkinURL string
}

type sessionProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"properties"`
}

// texturesDocument is the base64-decoded payload of the "textures" property.
type texturesDocument struct {
	Textures struct {
		Skin struct {
			URL string `json:"url"`
		} `json:"SKIN"`
	} `json:"textures"`
}

// Client looks up player profiles against the Mojang session server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Lookup resolves a player UUID to a display name and skin URL. The id may
// be dashed or undashed; the session server is always queried undashed.
func (c *Client) Lookup(ctx context.Context, playerID string) (Profile, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid player id %q: %w", playerID, err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, hex.EncodeToString(id[:]))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to create profile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to fetch profile for %s: %w", playerID, err)
	}
	defer resp.Body.Close()

	// The session server answers 204 for unknown UUIDs, 404 for malformed ones.
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, playerID)
	}
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("unexpected status %d for profile %s", resp.StatusCode, playerID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile body for %s: %w", playerID, err)
	}

	var sp sessionProfile
	if err := json.Unmarshal(body, &sp); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile for %s: %w", playerID, err)
	}
	if sp.Name == "" {
		return Profile{}, fmt.Errorf("%w: empty name for %s", ErrProfileNotFound, playerID)
	}

	skinURL, err := extractSkinURL(sp)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", playerID, err)
	}

	return Profile{ID: sp.ID, Name: sp.Name, SkinURL: skinURL}, nil
}

func extractSkinURL(sp sessionProfile) (string, error) {
	for _, prop := range sp.Properties {
		if prop.Name != "textures" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(prop.Value)
		if err != nil {
			return "", fmt.Errorf("failed to decode textures property: %w", err)
		}
		var doc texturesDocument
		if err := json.Unmarshal(decoded, &doc); err != nil {
			return "", fmt.Errorf("failed to decode textures document: %w", err)
		}
		if doc.Textures.Skin.URL == "" {
			return "", ErrNoSkin
		}
		return doc.Textures.Skin.URL, nil
	}
	return "", ErrNoTextures
}
