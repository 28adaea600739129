package tooling

import (
	"context"
	"encoding/json"
)

// Client is the slice of the platform REST API the deploy commands rely on.
// Tooling calls go to /tooling; Query hits the data API.
type Client interface {
	Create(ctx context.Context, sobject string, fields any) (SaveResult, error)
	Update(ctx context.Context, sobject, id string, fields any) (SaveResult, error)
	// Find selects fields from sobject where every key equals its value.
	// Records are decoded into out, which must be a pointer to a slice.
	Find(ctx context.Context, sobject string, fields []string, where map[string]string, out any) error
	ToolingQuery(ctx context.Context, soql string, out any) error
	Query(ctx context.Context, soql string, out any) error
	// MetadataCall sends one Metadata API operation and decodes the
	// operation's response element into out.
	MetadataCall(ctx context.Context, request, out any) error
}

// FieldError is one entry of the error list the platform returns for a
// rejected create or update.
type FieldError struct {
	StatusCode string   `json:"statusCode,omitempty" xml:"statusCode"`
	ErrorCode  string   `json:"errorCode,omitempty"`
	Message    string   `json:"message" xml:"message"`
	Fields     []string `json:"fields,omitempty" xml:"fields"`
}

// SaveResult mirrors the {id, success, errors} shape of sobject writes.
type SaveResult struct {
	ID      string       `json:"id"`
	Success bool         `json:"success"`
	Errors  []FieldError `json:"errors"`

	// ErrorsRaw is the error array exactly as the server sent it.
	ErrorsRaw json.RawMessage `json:"-"`
}

// ErrorsJSON returns the error list the way it came off the wire. Results
// built in memory fall back to encoding Errors.
func (r SaveResult) ErrorsJSON() string {
	if len(r.ErrorsRaw) > 0 {
		return string(r.ErrorsRaw)
	}
	errs := r.Errors
	if errs == nil {
		errs = []FieldError{}
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return "[]"
	}
	return string(data)
}

type QueryResult[T any] struct {
	TotalSize      int    `json:"totalSize"`
	Done           bool   `json:"done"`
	NextRecordsURL string `json:"nextRecordsUrl,omitempty"`
	Records        []T    `json:"records"`
}

// AsyncRequest is a ContainerAsyncRequest record as returned by the
// poll query.
type AsyncRequest struct {
	ID            string         `json:"Id"`
	State         string         `json:"State"`
	ErrorMsg      string         `json:"ErrorMsg,omitempty"`
	DeployDetails *DeployDetails `json:"DeployDetails,omitempty"`
}

// Failures returns the component failures, or nil when there are none.
func (r *AsyncRequest) Failures() []ComponentFailure {
	if r == nil || r.DeployDetails == nil {
		return nil
	}
	return r.DeployDetails.ComponentFailures
}

type DeployDetails struct {
	ComponentFailures  []ComponentFailure `json:"componentFailures"`
	ComponentSuccesses []ComponentSuccess `json:"componentSuccesses,omitempty"`
}

type ComponentFailure struct {
	LineNumber    int    `json:"lineNumber"`
	ColumnNumber  int    `json:"columnNumber"`
	Problem       string `json:"problem"`
	ProblemType   string `json:"problemType,omitempty"`
	FullName      string `json:"fullName,omitempty"`
	ComponentType string `json:"componentType,omitempty"`
}

type ComponentSuccess struct {
	FullName      string `json:"fullName"`
	ComponentType string `json:"componentType,omitempty"`
	ID            string `json:"id,omitempty"`
}

// Record is the minimal shape every sobject lookup returns.
type Record struct {
	ID string `json:"Id"`
}
