// Package toolingtest provides a scripted, recording tooling.Client for
// tests of code that talks to an org.
package toolingtest

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"

	"modx/internal/tooling"
)

// Call is one recorded Create or Update.
type Call struct {
	SObject string
	ID      string
	Fields  map[string]any
}

type FindCall struct {
	SObject string
	Fields  []string
	Where   map[string]string
}

// Fake implements tooling.Client. Unscripted creates and updates succeed;
// creates get ids of the form "<SObject>-<n>".
type Fake struct {
	mu sync.Mutex

	CreateResults map[string]tooling.SaveResult
	CreateErrs    map[string]error
	UpdateResults map[string]tooling.SaveResult

	// Found holds the records Find returns per sobject.
	Found map[string][]map[string]any

	// States are handed out one per ToolingQuery; the last one repeats.
	States     []string
	Failures   []tooling.ComponentFailure
	ToolingErr error

	// Namespace is returned by the Organization query; nil means none.
	Namespace *string
	QueryErr  error

	// MetadataResponse is the XML of the operation's response element.
	MetadataResponse string
	MetadataErr      error

	Creates        []Call
	Updates        []Call
	Finds          []FindCall
	ToolingQueries []string
	MetadataCalls  []any
}

func New() *Fake {
	return &Fake{
		CreateResults: map[string]tooling.SaveResult{},
		CreateErrs:    map[string]error{},
		UpdateResults: map[string]tooling.SaveResult{},
		Found:         map[string][]map[string]any{},
	}
}

var _ tooling.Client = (*Fake)(nil)

func fieldsOf(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func (f *Fake) Create(_ context.Context, sobject string, fields any) (tooling.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Creates = append(f.Creates, Call{SObject: sobject, Fields: fieldsOf(fields)})
	if err := f.CreateErrs[sobject]; err != nil {
		return tooling.SaveResult{}, err
	}
	if res, ok := f.CreateResults[sobject]; ok {
		return res, nil
	}
	return tooling.SaveResult{ID: fmt.Sprintf("%s-%d", sobject, len(f.Creates)), Success: true}, nil
}

func (f *Fake) Update(_ context.Context, sobject, id string, fields any) (tooling.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates = append(f.Updates, Call{SObject: sobject, ID: id, Fields: fieldsOf(fields)})
	if res, ok := f.UpdateResults[sobject]; ok {
		return res, nil
	}
	return tooling.SaveResult{ID: id, Success: true}, nil
}

func (f *Fake) Find(_ context.Context, sobject string, fields []string, where map[string]string, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Finds = append(f.Finds, FindCall{SObject: sobject, Fields: fields, Where: where})
	recs := f.Found[sobject]
	if recs == nil {
		recs = []map[string]any{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *Fake) ToolingQuery(_ context.Context, soql string, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ToolingQueries = append(f.ToolingQueries, soql)
	if f.ToolingErr != nil {
		return f.ToolingErr
	}
	result := tooling.QueryResult[tooling.AsyncRequest]{Done: true, Records: []tooling.AsyncRequest{}}
	if len(f.States) > 0 {
		state := f.States[0]
		if len(f.States) > 1 {
			f.States = f.States[1:]
		}
		rec := tooling.AsyncRequest{ID: "1dr000000000001", State: state}
		if !strings.EqualFold(state, "Queued") && len(f.Failures) > 0 {
			rec.DeployDetails = &tooling.DeployDetails{ComponentFailures: f.Failures}
		}
		result.TotalSize = 1
		result.Records = append(result.Records, rec)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *Fake) Query(_ context.Context, _ string, out any) error {
	if f.QueryErr != nil {
		return f.QueryErr
	}
	body := `{"totalSize":1,"done":true,"records":[{"NamespacePrefix":null}]}`
	if f.Namespace != nil {
		body = fmt.Sprintf(`{"totalSize":1,"done":true,"records":[{"NamespacePrefix":%q}]}`, *f.Namespace)
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *Fake) MetadataCall(_ context.Context, request, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MetadataCalls = append(f.MetadataCalls, request)
	if f.MetadataErr != nil {
		return f.MetadataErr
	}
	if f.MetadataResponse == "" {
		return nil
	}
	return xml.Unmarshal([]byte(f.MetadataResponse), out)
}

// CreatesOf returns the recorded creates for one sobject.
func (f *Fake) CreatesOf(sobject string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Creates {
		if c.SObject == sobject {
			out = append(out, c)
		}
	}
	return out
}

// UpdatesOf returns the recorded updates for one sobject.
func (f *Fake) UpdatesOf(sobject string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Updates {
		if c.SObject == sobject {
			out = append(out, c)
		}
	}
	return out
}
