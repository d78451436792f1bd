package siteprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token")
}

func TestGetSiteBySlugNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/sites/contoso.example.com:/sites/acme", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
	})

	site, err := client.GetSiteBySlug(context.Background(), "contoso.example.com", "acme")
	require.NoError(t, err)
	assert.Nil(t, site)
}

func TestGetSiteBySlugFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Site{ID: "site-1", WebURL: "https://x/sites/acme", DisplayName: "Acme", Slug: "acme"})
	})

	site, err := client.GetSiteBySlug(context.Background(), "h", "acme")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "site-1", site.ID)
	assert.Equal(t, "acme", site.Slug)
}

func TestCreateSiteConflictFallsBackToLookup(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusBadRequest} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(status)
		})

		site, err := client.CreateSite(context.Background(), "h", "acme", "Acme", "desc", "owner@x.se")
		require.NoError(t, err)
		assert.Nil(t, site)
	}
}

func TestCreateSitePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "acme", body["name"])
		assert.Equal(t, "Acme AB", body["displayName"])
		assert.Equal(t, "owner@x.se", body["owner"])
		_ = json.NewEncoder(w).Encode(Site{ID: "site-9", Slug: "acme"})
	})

	site, err := client.CreateSite(context.Background(), "h", "acme", "Acme AB", "desc", "owner@x.se")
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "site-9", site.ID)
}

func TestDeleteSiteNotFoundIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, client.DeleteSite(context.Background(), "gone"))
}

func TestListChildrenNotFoundIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	items, err := client.ListChildren(context.Background(), "site-1", "Dokument/Arkiv")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestErrorBodyIsPreserved(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"accessDenied"}}`))
	})

	_, err := client.GetSiteBySlug(context.Background(), "h", "acme")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "accessDenied")
	assert.Contains(t, err.Error(), "accessDenied")
}

func TestEnsureFolderWalksLeftToRight(t *testing.T) {
	var requests []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			// Only the first segment exists.
			if r.URL.Path == "/v1.0/sites/site-1/drive/root:/Dokument" {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"id":"f1","name":"Dokument"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":"new"}`))
	})

	err := client.EnsureFolder(context.Background(), "site-1", "Dokument/Arkiv/Projekt")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /v1.0/sites/site-1/drive/root:/Dokument",
		"GET /v1.0/sites/site-1/drive/root:/Dokument/Arkiv",
		"POST /v1.0/sites/site-1/drive/root:/Dokument:/children",
		"GET /v1.0/sites/site-1/drive/root:/Dokument/Arkiv/Projekt",
		"POST /v1.0/sites/site-1/drive/root:/Dokument/Arkiv:/children",
	}, requests)
}
