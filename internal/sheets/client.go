// Package sheets talks to the Google Sheets v4 REST API and layers the
// offline cache underneath it so the tool keeps working when the sheet is
// unreachable.
package sheets

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

	"golang.org/x/oauth2/google"

	"github.com/iranzi17/ibc-15kv-reporting/internal/config"
)

const (
	scope          = "https://www.googleapis.com/auth/spreadsheets"
	defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
)

// Client is a minimal Google Sheets v4 values client. Only values.get and
// values.append are used.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sheetID    string
}

// NewClient builds a client authenticated with the service-account blob from
// the credentials. The oauth2 transport handles token refresh.
func NewClient(ctx context.Context, creds *config.Credentials, sheetID string) (*Client, error) {
	if !creds.HasGoogle() {
		return nil, fmt.Errorf("no Google service-account credentials configured")
	}
	jwtCfg, err := google.JWTConfigFromJSON(creds.GoogleRaw, scope)
	if err != nil {
		return nil, fmt.Errorf("service-account credentials rejected: %w", err)
	}

	httpClient := jwtCfg.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		sheetID:    sheetID,
	}, nil
}

// valueRange mirrors the Sheets values payload. Cells come back as untyped
// JSON values under FORMATTED_VALUE rendering; everything is stringified.
type valueRange struct {
	Range  string  `json:"range,omitempty"`
	Values [][]any `json:"values,omitempty"`
}

// Values fetches a range, e.g. "Reports!A2:N".
func (c *Client) Values(ctx context.Context, rangeSpec string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/values/%s", c.baseURL, c.sheetID, url.PathEscape(rangeSpec))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets values.get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("values.get", resp)
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("sheets values.get: decode: %w", err)
	}

	rows := make([][]string, len(vr.Values))
	for i, raw := range vr.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = stringify(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// Append appends rows after the last data row of the named range, letting the
// sheet interpret values the way a typing user would.
func (c *Client) Append(ctx context.Context, rangeSpec string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	body, err := json.Marshal(valueRange{Values: values})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED",
		c.baseURL, c.sheetID, url.PathEscape(rangeSpec))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets values.append: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError("values.append", resp)
	}
	return nil
}

func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("sheets %s: status %d: %s", op, resp.StatusCode, msg)
}

func stringify(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
