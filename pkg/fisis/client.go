// Package fisis is a client for the FSS FISIS OpenAPI, the upstream source
// of statement figures. It fetches statisticsInfoSearch rows and flattens
// the per-column values into fact rows. Responses are EUC-KR encoded XML.
package fisis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/fisight/fisight/pkg/facts"
)

// DefaultBaseURL is the production FISIS OpenAPI endpoint.
const DefaultBaseURL = "https://fisis.fss.or.kr/openapi"

const statisticsInfoPath = "/statisticsInfoSearch.xml"

// successCode is the FISIS result code of a successful request.
const successCode = "000"

// Sentinel errors for FISIS request failures.
var (
	// ErrHTTPStatus indicates a non-200 response from the API.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrAPIResult indicates the API answered with a non-success result
	// code (bad auth key, unknown list, malformed period).
	ErrAPIResult = errors.New("api result error")
)

// Client talks to the FISIS OpenAPI. The zero value is not usable; use
// NewClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. to set timeouts or
// inject a test transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a non-production endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewClient returns a client authenticated with the given FISIS key.
func NewClient(authKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		authKey:    authKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Query describes one statisticsInfoSearch request: one entity, one list,
// one term over a month range. AccountCds, when non-empty, keeps only rows
// for those accounts; ColumnIDs selects which figure columns become facts.
type Query struct {
	FinanceCd  string
	ListNo     string
	Term       string
	StartMonth string
	EndMonth   string
	AccountCds []string
	ColumnIDs  []string
}

// FetchFacts requests one query's rows and flattens each XML row into one
// fact per requested column. A blank or unparseable figure carries NaN (an
// absent value), preserving the "no data" vs "zero" distinction downstream.
func (c *Client) FetchFacts(ctx context.Context, q Query) (facts.Table, error) {
	env, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	if env.Code != successCode {
		return nil, fmt.Errorf("fisis: %w: code=%s message=%s", ErrAPIResult, env.Code, env.Message)
	}

	wanted := make(map[string]struct{}, len(q.AccountCds))
	for _, cd := range q.AccountCds {
		wanted[cd] = struct{}{}
	}

	out := make(facts.Table, 0, len(env.Rows)*len(q.ColumnIDs))

	for _, row := range env.Rows {
		fields := row.toMap()

		accountCd := strings.TrimSpace(fields["account_cd"])
		if len(wanted) > 0 && accountCd != "" {
			if _, ok := wanted[accountCd]; !ok {
				continue
			}
		}

		financeCd := strings.TrimSpace(fields["finance_cd"])
		if financeCd == "" {
			financeCd = q.FinanceCd
		}

		for _, colID := range q.ColumnIDs {
			out = append(out, facts.Row{
				ListNo:    q.ListNo,
				FinanceCd: facts.CanonFinanceCd(financeCd),
				BaseMonth: strings.TrimSpace(fields["base_month"]),
				AccountCd: accountCd,
				ColumnID:  colID,
				Value:     parseValue(fields[colID]),
			})
		}
	}

	return out, nil
}

func (c *Client) get(ctx context.Context, q Query) (*envelope, error) {
	params := url.Values{
		"lang":        {"kr"},
		"auth":        {c.authKey},
		"financeCd":   {q.FinanceCd},
		"listNo":      {q.ListNo},
		"term":        {q.Term},
		"startBaseMm": {q.StartMonth},
		"endBaseMm":   {q.EndMonth},
	}

	reqURL := c.baseURL + statisticsInfoPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fisis: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fisis: request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fisis: %w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	// The API serves EUC-KR regardless of the declared charset.
	body := transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("fisis: decode response: %w", err)
	}

	return env, nil
}

// parseValue converts a reported figure to float64, NaN for blank or
// non-numeric text. Thousands separators occur in some lists.
func parseValue(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return v
}
