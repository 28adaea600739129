// Package bundle saves Aura and Lightning web component bundles. Unlike
// classes and pages these are written directly as sobjects, one record per
// file, without a metadata container.
package bundle

import (
	"context"
	"fmt"

	"modx/internal/deploy"
	"modx/internal/logger"
	"modx/internal/source"
	"modx/internal/tooling"
)

var BundleLogs = logger.PackageLogger("bundle", "📦 BUNDLE")

// FileResult is the outcome of writing one file of a bundle.
type FileResult struct {
	File    string
	Mode    deploy.Mode
	Success bool
	Errors  []tooling.FieldError
}

type Result struct {
	Bundle   string
	BundleID string
	// Mode says whether the bundle record itself was created.
	Mode  deploy.Mode
	Files []FileResult
	// Error is set when the bundle record could not be created.
	Error string
}

// Success is true when the bundle exists and every file was written.
func (r *Result) Success() bool {
	if r == nil || r.Error != "" || r.BundleID == "" {
		return false
	}
	for _, f := range r.Files {
		if !f.Success {
			return false
		}
	}
	return true
}

// Failed lists the files the server rejected.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if !f.Success {
			out = append(out, f)
		}
	}
	return out
}

type base struct {
	client     tooling.Client
	resolver   *deploy.Resolver
	apiVersion float64
}

func newBase(client tooling.Client, apiVersion float64) base {
	if apiVersion == 0 {
		apiVersion = deploy.DefaultAPIVersion
	}
	return base{client: client, resolver: deploy.NewResolver(client), apiVersion: apiVersion}
}

// prepare reads the bundle files and looks up the bundle id.
func (b base) prepare(ctx context.Context, sobject string, bun source.Bundle) ([]source.File, string, error) {
	files, err := bun.ReadAll(ctx)
	if err != nil {
		return nil, "", err
	}
	ns, err := b.resolver.ResolveNamespace(ctx)
	if err != nil {
		return nil, "", err
	}
	id, err := b.resolver.ResolveBundle(ctx, sobject, bun.Name, ns)
	if err != nil {
		return nil, "", err
	}
	return files, id, nil
}

func (b base) write(ctx context.Context, sobject, existingID string, create, update any) (FileResult, error) {
	var (
		res tooling.SaveResult
		err error
		fr  FileResult
	)
	if existingID != "" {
		fr.Mode = deploy.ModeUpdated
		res, err = b.client.Update(ctx, sobject, existingID, update)
	} else {
		fr.Mode = deploy.ModeCreated
		res, err = b.client.Create(ctx, sobject, create)
	}
	if err != nil {
		return fr, fmt.Errorf("writing %s: %w", sobject, err)
	}
	fr.Success = res.Success
	fr.Errors = res.Errors
	return fr, nil
}
