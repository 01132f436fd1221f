// Package congress fetches roll-call vote records from the congress.gov
// v3 API and the chamber vote documents it links to (House Clerk EVS XML,
// Senate LIS XML).
package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openfloor/rollcall/internal/matrix"
)

// DefaultBaseURL is the congress.gov API root.
const DefaultBaseURL = "https://api.congress.gov/v3"

// actionsPageSize is the max page size the actions endpoint accepts.
const actionsPageSize = 250

// Client wraps the congress.gov API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a congress.gov API client. An empty baseURL falls
// back to DefaultBaseURL; a zero timeout falls back to 30s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// doRequest makes a GET request. The API key travels as a query
// parameter on api.congress.gov URLs; vote XML lives on the chamber
// sites and needs no key.
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "rollcall-votes-matrix")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// congress.gov throttles per key; surface the reset window
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		resp.Body.Close()
		return nil, fmt.Errorf("rate limit exceeded, retry after: %s", retryAfter)
	}

	return resp, nil
}

// readAndClose decodes a JSON body and closes it. Use in paginated loops
// instead of defer resp.Body.Close() to avoid leaking connections.
func readAndClose(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// readErrorAndClose reads an error body and closes it.
func readErrorAndClose(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("congress API error %d: %s", resp.StatusCode, string(body))
}

// Action is one entry from a bill's actions list.
type Action struct {
	Text          string         `json:"text"`
	Type          string         `json:"type"`
	ActionDate    string         `json:"actionDate"`
	RecordedVotes []RecordedVote `json:"recordedVotes"`
}

// RecordedVote links an action to its chamber vote document.
type RecordedVote struct {
	Chamber    string `json:"chamber"` // "House" or "Senate"
	RollNumber int    `json:"rollNumber"`
	URL        string `json:"url"`
	Date       string `json:"date"`
}

// actionsResponse is the actions endpoint payload. Older responses nest
// the list under "data".
type actionsResponse struct {
	Actions []Action `json:"actions"`
	Data    struct {
		Actions []Action `json:"actions"`
	} `json:"data"`
}

func (r *actionsResponse) actions() []Action {
	if len(r.Actions) > 0 {
		return r.Actions
	}
	return r.Data.Actions
}

// BillActions fetches the bill's full actions list, paginating with
// limit+offset (capped at 40 pages, far beyond any real actions list).
func (c *Client) BillActions(ctx context.Context, bill matrix.BillID) ([]Action, error) {
	var all []Action

	for page := 0; page < 40; page++ {
		params := url.Values{}
		params.Set("format", "json")
		params.Set("api_key", c.apiKey)
		params.Set("limit", strconv.Itoa(actionsPageSize))
		params.Set("offset", strconv.Itoa(page*actionsPageSize))

		endpoint := fmt.Sprintf("%s/bill/%d/%s/%d/actions?%s",
			c.baseURL, bill.Congress, bill.Type, bill.Number, params.Encode())

		resp, err := c.doRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return nil, fmt.Errorf("bill %s not found", bill)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, readErrorAndClose(resp)
		}

		var payload actionsResponse
		if err := readAndClose(resp, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode actions for %s: %w", bill, err)
		}

		pageActions := payload.actions()
		all = append(all, pageActions...)

		if len(pageActions) < actionsPageSize {
			break
		}
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no actions returned for %s", bill)
	}

	return all, nil
}

// FetchRollCall downloads a roll call's vote document and parses it into
// validated vote records for the bill.
func (c *Client) FetchRollCall(ctx context.Context, bill matrix.BillID, rc RollCall) ([]matrix.VoteRecord, error) {
	resp, err := c.doRequest(ctx, rc.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vote document error %d for %s: %s", resp.StatusCode, rc.URL, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vote document: %w", err)
	}

	switch rc.Chamber {
	case "House":
		return parseHouseRollCall(data, bill, rc.RollNumber)
	case "Senate":
		return parseSenateRollCall(data, bill, rc.RollNumber)
	}
	return nil, fmt.Errorf("unknown chamber %q on roll call %d", rc.Chamber, rc.RollNumber)
}

// FetchBillVotes fetches the latest roll call in each requested chamber
// and returns the combined vote records. A bill whose requested chambers
// have no recorded votes returns *NoRollCallError; the caller decides
// whether that still earns the bill a matrix column.
func (c *Client) FetchBillVotes(ctx context.Context, bill matrix.BillID, chamber Chamber) ([]matrix.VoteRecord, error) {
	actions, err := c.BillActions(ctx, bill)
	if err != nil {
		return nil, err
	}

	rolls := LatestRollCalls(actions, chamber)
	if len(rolls) == 0 {
		return nil, &NoRollCallError{Bill: bill, Chamber: chamber}
	}

	var records []matrix.VoteRecord
	for _, rc := range rolls {
		parsed, err := c.FetchRollCall(ctx, bill, rc)
		if err != nil {
			return nil, fmt.Errorf("roll call %d (%s) for %s: %w", rc.RollNumber, rc.Chamber, bill, err)
		}
		records = append(records, parsed...)
	}

	return records, nil
}
