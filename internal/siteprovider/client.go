package siteprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 8 << 10

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) GetSiteBySlug(ctx context.Context, hostname, slug string) (*Site, error) {
	path := fmt.Sprintf("/v1.0/sites/%s:/sites/%s", hostname, url.PathEscape(slug))
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, apiError(resp)
	}

	var site Site
	if err := json.NewDecoder(resp.Body).Decode(&site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (c *Client) CreateSite(ctx context.Context, hostname, slug, displayName, description, ownerEmail string) (*Site, error) {
	body := map[string]any{
		"name":        slug,
		"displayName": displayName,
		"description": description,
		"owner":       ownerEmail,
		"siteCollection": map[string]any{
			"hostname": hostname,
		},
	}
	resp, err := c.do(ctx, http.MethodPost, "/v1.0/sites", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict, resp.StatusCode == http.StatusBadRequest:
		return nil, nil
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, apiError(resp)
	}

	var site Site
	if err := json.NewDecoder(resp.Body).Decode(&site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (c *Client) DeleteSite(ctx context.Context, siteID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/v1.0/sites/"+url.PathEscape(siteID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	return nil
}

func (c *Client) ListChildren(ctx context.Context, siteID, path string) ([]Item, error) {
	var reqPath string
	if strings.Trim(path, "/") == "" {
		reqPath = fmt.Sprintf("/v1.0/sites/%s/drive/root/children", url.PathEscape(siteID))
	} else {
		reqPath = fmt.Sprintf("/v1.0/sites/%s/drive/root:/%s:/children", url.PathEscape(siteID), escapePath(path))
	}

	resp, err := c.do(ctx, http.MethodGet, reqPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []Item{}, nil
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, apiError(resp)
	}

	var payload struct {
		Value []Item `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Value, nil
}

func (c *Client) DeleteItem(ctx context.Context, siteID, itemID string) error {
	reqPath := fmt.Sprintf("/v1.0/sites/%s/drive/items/%s", url.PathEscape(siteID), url.PathEscape(itemID))
	resp, err := c.do(ctx, http.MethodDelete, reqPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	return nil
}

func (c *Client) EnsureFolder(ctx context.Context, siteID, path string) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}

	walked := make([]string, 0, len(segments))
	for _, segment := range segments {
		parent := strings.Join(walked, "/")
		walked = append(walked, segment)

		exists, err := c.folderExists(ctx, siteID, strings.Join(walked, "/"))
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := c.createFolder(ctx, siteID, parent, segment); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) folderExists(ctx context.Context, siteID, path string) (bool, error) {
	reqPath := fmt.Sprintf("/v1.0/sites/%s/drive/root:/%s", url.PathEscape(siteID), escapePath(path))
	resp, err := c.do(ctx, http.MethodGet, reqPath, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= http.StatusMultipleChoices:
		return false, apiError(resp)
	}
	return true, nil
}

func (c *Client) createFolder(ctx context.Context, siteID, parent, name string) error {
	var reqPath string
	if parent == "" {
		reqPath = fmt.Sprintf("/v1.0/sites/%s/drive/root/children", url.PathEscape(siteID))
	} else {
		reqPath = fmt.Sprintf("/v1.0/sites/%s/drive/root:/%s:/children", url.PathEscape(siteID), escapePath(parent))
	}

	body := map[string]any{
		"name":                              name,
		"folder":                            map[string]any{},
		"@microsoft.graph.conflictBehavior": "replace",
	}
	resp, err := c.do(ctx, http.MethodPost, reqPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
}

func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func escapePath(path string) string {
	segments := splitPath(path)
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
