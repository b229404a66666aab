package capes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
	{
		"id": 1.0,
		"isPremium": true,
		"capes": [
			{
				"capeUuid": "c1",
				"playerUuid": "p1",
				"type": "CONTRIBUTOR",
				"color": {"primary": "#fff", "border": "#000"}
			}
		]
	},
	{
		"id": 2.5,
		"isPremium": false,
		"capes": [
			{
				"capeUuid": "c2",
				"playerUuid": "p2",
				"type": "CONTRIBUTOR",
				"color": {"primary": "#abc", "border": "#def"}
			},
			{
				"capeUuid": "c3",
				"playerUuid": "p3",
				"type": "CONTRIBUTOR",
				"color": {"primary": "#123", "border": "#456"}
			}
		]
	}
]`

func newCatalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DecodesCatalog(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, sampleCatalog)
	client := NewClient(srv.Client(), srv.URL)

	users, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.Equal(t, "1.0", users[0].ID.String())
	require.True(t, users[0].IsPremium)
	require.Len(t, users[0].Capes, 1)
	require.Equal(t, "c1", users[0].Capes[0].CapeUUID)
	require.Equal(t, "p1", users[0].Capes[0].PlayerUUID)
	require.Equal(t, CapeTypeContributor, users[0].Capes[0].Type)
	require.Equal(t, "#fff", users[0].Capes[0].Color.Primary)
	require.Equal(t, "#000", users[0].Capes[0].Color.Border)

	require.False(t, users[1].IsPremium)
	require.Len(t, users[1].Capes, 2)
}

func TestFetch_UnknownCapeType(t *testing.T) {
	body := `[{"id": 1, "isPremium": false, "capes": [
		{"capeUuid": "c1", "playerUuid": "p1", "type": "FOUNDER", "color": {"primary": "#fff", "border": "#000"}}
	]}]`
	srv := newCatalogServer(t, http.StatusOK, body)
	client := NewClient(srv.Client(), srv.URL)

	_, err := client.Fetch(context.Background())
	require.Error(t, err)

	var unknownErr *UnknownCapeTypeError
	require.ErrorAs(t, err, &unknownErr)
	require.Equal(t, "FOUNDER", unknownErr.Value)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := newCatalogServer(t, http.StatusInternalServerError, "boom")
	client := NewClient(srv.Client(), srv.URL)

	_, err := client.Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, `{"not": "an array"}`)
	client := NewClient(srv.Client(), srv.URL)

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
}

func TestFetch_Idempotent(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, sampleCatalog)
	client := NewClient(srv.Client(), srv.URL)

	first, err := client.Fetch(context.Background())
	require.NoError(t, err)
	second, err := client.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestFetch_TransportError(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, sampleCatalog)
	url := srv.URL
	srv.Close()

	client := NewClient(nil, url)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
}
