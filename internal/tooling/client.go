package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"modx/internal/logger"
)

const DefaultAPIVersion = "60.0"

var ToolingLogs = logger.PackageLogger("tooling", "🔧 TOOLING")

// RESTClient talks to an org over the REST and Tooling APIs using a bearer
// access token.
type RESTClient struct {
	instanceURL string
	apiVersion  string
	token       string
	r           *req.Req
	limiter     *rate.Limiter
}

type Option func(*RESTClient)

// WithAPIVersion pins the "vNN.0" segment of every request path.
func WithAPIVersion(version string) Option {
	return func(c *RESTClient) {
		if version != "" {
			c.apiVersion = strings.TrimPrefix(version, "v")
		}
	}
}

// WithHTTPClient swaps the underlying http.Client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) {
		c.r.SetClient(hc)
	}
}

// WithRateLimit caps outgoing requests per second so polling stays under
// the org's API allowance.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *RESTClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func NewRESTClient(instanceURL, accessToken string, opts ...Option) (*RESTClient, error) {
	if instanceURL == "" {
		return nil, ErrNoInstanceURL
	}
	c := &RESTClient{
		instanceURL: strings.TrimRight(instanceURL, "/"),
		apiVersion:  DefaultAPIVersion,
		token:       accessToken,
		r:           req.New(),
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIVersion is the version used in request paths, without the "v".
func (c *RESTClient) APIVersion() string {
	return c.apiVersion
}

func (c *RESTClient) dataPath() string {
	return "/services/data/v" + c.apiVersion
}

func (c *RESTClient) toolingPath() string {
	return c.dataPath() + "/tooling"
}

func (c *RESTClient) do(ctx context.Context, method, path string, query req.QueryParam, body any) (int, []byte, error) {
	header := req.Header{
		"Authorization": "Bearer " + c.token,
		"Accept":        "application/json",
	}
	var payload interface{}
	if body != nil {
		payload = req.BodyJSON(body)
	}
	return c.send(ctx, method, path, header, query, payload)
}

func (c *RESTClient) send(ctx context.Context, method, path string, header req.Header, query req.QueryParam, payload interface{}) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	args := []interface{}{ctx, header}
	if query != nil {
		args = append(args, query)
	}
	if payload != nil {
		args = append(args, payload)
	}

	ToolingLogs.Debug("%s %s", method, path)
	resp, err := c.r.Do(method, c.instanceURL+path, args...)
	if err != nil {
		return 0, nil, fmt.Errorf("tooling: %s %s: %w", method, path, err)
	}
	data, err := resp.ToBytes()
	if err != nil {
		return 0, nil, fmt.Errorf("tooling: reading %s %s response: %w", method, path, err)
	}
	return resp.Response().StatusCode, data, nil
}

func apiError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Status: status, Method: method, Path: path, Body: string(body)}
	if gjson.ValidBytes(body) && gjson.ParseBytes(body).IsArray() {
		_ = json.Unmarshal(body, &e.Errors)
	}
	return e
}

// validationErrors reports whether a 400 body is the platform's error list
// for a rejected write, which callers treat as an unsuccessful SaveResult
// rather than a transport fault.
func validationErrors(status int, body []byte) (SaveResult, bool) {
	if status != http.StatusBadRequest || !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return SaveResult{}, false
	}
	var errs []FieldError
	if err := json.Unmarshal(body, &errs); err != nil {
		return SaveResult{}, false
	}
	return SaveResult{Errors: errs, ErrorsRaw: json.RawMessage(bytes.TrimSpace(body))}, true
}

func (c *RESTClient) Create(ctx context.Context, sobject string, fields any) (SaveResult, error) {
	path := c.toolingPath() + "/sobjects/" + sobject + "/"
	status, body, err := c.do(ctx, http.MethodPost, path, nil, fields)
	if err != nil {
		return SaveResult{}, err
	}
	if res, ok := validationErrors(status, body); ok {
		return res, nil
	}
	if status < 200 || status >= 300 {
		return SaveResult{}, apiError(http.MethodPost, path, status, body)
	}

	var res SaveResult
	if err := json.Unmarshal(body, &res); err != nil {
		return SaveResult{}, fmt.Errorf("tooling: decoding create %s: %w", sobject, err)
	}
	if errs := gjson.GetBytes(body, "errors"); errs.IsArray() {
		res.ErrorsRaw = json.RawMessage(errs.Raw)
	}
	return res, nil
}

func (c *RESTClient) Update(ctx context.Context, sobject, id string, fields any) (SaveResult, error) {
	path := c.toolingPath() + "/sobjects/" + sobject + "/" + id
	status, body, err := c.do(ctx, http.MethodPatch, path, nil, fields)
	if err != nil {
		return SaveResult{}, err
	}
	if res, ok := validationErrors(status, body); ok {
		res.ID = id
		return res, nil
	}
	if status < 200 || status >= 300 {
		return SaveResult{}, apiError(http.MethodPatch, path, status, body)
	}
	return SaveResult{ID: id, Success: true}, nil
}

func (c *RESTClient) get(ctx context.Context, path, soql string) ([]byte, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, req.QueryParam{"q": soql}, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(http.MethodGet, path, status, body)
	}
	return body, nil
}

func (c *RESTClient) ToolingQuery(ctx context.Context, soql string, out any) error {
	body, err := c.get(ctx, c.toolingPath()+"/query/", soql)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tooling: decoding query result: %w", err)
	}
	return nil
}

func (c *RESTClient) Query(ctx context.Context, soql string, out any) error {
	body, err := c.get(ctx, c.dataPath()+"/query/", soql)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tooling: decoding query result: %w", err)
	}
	return nil
}

func (c *RESTClient) Find(ctx context.Context, sobject string, fields []string, where map[string]string, out any) error {
	body, err := c.get(ctx, c.toolingPath()+"/query/", SelectWhere(sobject, fields, where))
	if err != nil {
		return err
	}
	records := gjson.GetBytes(body, "records")
	if !records.Exists() {
		return fmt.Errorf("tooling: find %s: response has no records field", sobject)
	}
	if err := json.Unmarshal([]byte(records.Raw), out); err != nil {
		return fmt.Errorf("tooling: decoding %s records: %w", sobject, err)
	}
	return nil
}
