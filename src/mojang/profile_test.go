package mojang

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPlayerID = "069a79f4-44e9-4726-a5be-fca90e38aaf5"

func texturesProperty(t *testing.T, skinURL string) string {
	t.Helper()
	doc := map[string]any{
		"profileId":   "069a79f444e94726a5befca90e38aaf5",
		"profileName": "Notch",
		"textures":    map[string]any{},
	}
	if skinURL != "" {
		doc["textures"] = map[string]any{
			"SKIN": map[string]any{"url": skinURL},
		}
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(data)
}

func newProfileServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL)
}

func TestLookup_ResolvesNameAndSkin(t *testing.T) {
	var requestedPath string
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		fmt.Fprintf(w, `{"id": "069a79f444e94726a5befca90e38aaf5", "name": "Notch", "properties": [
			{"name": "textures", "value": %q}
		]}`, texturesProperty(t, "https://textures.example/notch.png"))
	})

	profile, err := client.Lookup(context.Background(), testPlayerID)
	require.NoError(t, err)
	require.Equal(t, "Notch", profile.Name)
	require.Equal(t, "https://textures.example/notch.png", profile.SkinURL)

	// The session server is queried with the undashed form of the UUID.
	require.Equal(t, "/069a79f444e94726a5befca90e38aaf5", requestedPath)
}

func TestLookup_AcceptsUndashedID(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": "069a79f444e94726a5befca90e38aaf5", "name": "Notch", "properties": [
			{"name": "textures", "value": %q}
		]}`, texturesProperty(t, "https://textures.example/notch.png"))
	})

	profile, err := client.Lookup(context.Background(), "069a79f444e94726a5befca90e38aaf5")
	require.NoError(t, err)
	require.Equal(t, "Notch", profile.Name)
}

func TestLookup_NotFound(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.Lookup(context.Background(), testPlayerID)
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLookup_MissingSkin(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": "069a79f444e94726a5befca90e38aaf5", "name": "Notch", "properties": [
			{"name": "textures", "value": %q}
		]}`, texturesProperty(t, ""))
	})

	_, err := client.Lookup(context.Background(), testPlayerID)
	require.ErrorIs(t, err, ErrNoSkin)
}

func TestLookup_MissingTexturesProperty(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "069a79f444e94726a5befca90e38aaf5", "name": "Notch", "properties": []}`)
	})

	_, err := client.Lookup(context.Background(), testPlayerID)
	require.ErrorIs(t, err, ErrNoTextures)
}

func TestLookup_InvalidPlayerID(t *testing.T) {
	requested := false
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
	})

	_, err := client.Lookup(context.Background(), "not-a-uuid")
	require.Error(t, err)
	require.False(t, requested)
}

func TestLookup_UnexpectedStatus(t *testing.T) {
	client := newProfileServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Lookup(context.Background(), testPlayerID)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrProfileNotFound)
}
