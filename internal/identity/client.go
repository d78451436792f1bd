package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL  string
	token    string
	pageSize int
	client   *http.Client
}

func NewClient(baseURL, token string, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    strings.TrimSpace(token),
		pageSize: pageSize,
		client:   &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) ListAccounts(ctx context.Context, pageToken string) ([]Account, string, error) {
	values := url.Values{}
	values.Set("pageSize", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		values.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/accounts?"+values.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", readError(resp)
	}

	var payload struct {
		Accounts      []Account `json:"accounts"`
		NextPageToken string    `json:"nextPageToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", err
	}
	return payload.Accounts, payload.NextPageToken, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/accounts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return readError(resp)
	}
	return nil
}

func readError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	return fmt.Errorf("identity directory returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
