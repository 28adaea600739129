package bundle

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"

	"modx/internal/deploy"
	"modx/internal/source"
	"modx/internal/tooling"
)

type lwcSource struct {
	AsByteArray string `json:"asByteArray"`
}

type lwcResource struct {
	FilePath string    `json:"filePath"`
	Source   lwcSource `json:"source"`
}

type lwcResources struct {
	LwcResource []lwcResource `json:"lwcResource"`
}

type lwcMetadata struct {
	MasterLabel      string       `json:"masterLabel"`
	Description      string       `json:"description"`
	APIVersion       float64      `json:"apiVersion"`
	IsExposed        bool         `json:"isExposed"`
	IsExplicitImport bool         `json:"isExplicitImport"`
	LwcResources     lwcResources `json:"lwcResources"`
}

type lwcResourceRecord struct {
	ID       string `json:"Id"`
	FilePath string `json:"FilePath"`
}

// LWCFilePath is the server-side key of a resource: lwc/<bundle>/<file>.
func LWCFilePath(bundle, file string) string {
	return "lwc/" + bundle + "/" + file
}

func lwcFormat(file string) string {
	return strings.TrimPrefix(filepath.Ext(file), ".")
}

type LWCDeployer struct {
	base
}

func NewLWCDeployer(client tooling.Client, apiVersion float64) *LWCDeployer {
	return &LWCDeployer{base: newBase(client, apiVersion)}
}

func (d *LWCDeployer) Deploy(ctx context.Context, bun source.Bundle) (*Result, error) {
	files, bundleID, err := d.prepare(ctx, "LightningComponentBundle", bun)
	if err != nil {
		return nil, err
	}
	result := &Result{Bundle: bun.Name, BundleID: bundleID, Mode: deploy.ModeUpdated}

	if bundleID == "" {
		return d.create(ctx, bun, files, result)
	}

	var recs []lwcResourceRecord
	if err := d.client.Find(ctx, "LightningComponentResource", []string{"Id", "FilePath"},
		map[string]string{"LightningComponentBundleId": bundleID}, &recs); err != nil {
		return nil, err
	}
	existing := make(map[string]string, len(recs))
	for _, r := range recs {
		existing[r.FilePath] = r.ID
	}

	for _, f := range files {
		path := LWCFilePath(bun.Name, f.Name)
		fr, err := d.write(ctx, "LightningComponentResource", existing[path],
			map[string]any{
				"LightningComponentBundleId": bundleID,
				"FilePath":                   path,
				"Format":                     lwcFormat(f.Name),
				"Source":                     string(f.Body),
			},
			map[string]any{"Source": string(f.Body)},
		)
		if err != nil {
			return nil, err
		}
		fr.File = f.Name
		result.Files = append(result.Files, fr)
	}
	return result, nil
}

// create sends the whole bundle in one request; the server requires at
// least the component's js and meta files to be present.
func (d *LWCDeployer) create(ctx context.Context, bun source.Bundle, files []source.File, result *Result) (*Result, error) {
	md := lwcMetadata{
		MasterLabel: bun.Name,
		Description: "A LWC Bundle",
		APIVersion:  d.apiVersion,
	}
	for _, f := range files {
		md.LwcResources.LwcResource = append(md.LwcResources.LwcResource, lwcResource{
			FilePath: LWCFilePath(bun.Name, f.Name),
			Source:   lwcSource{AsByteArray: base64.StdEncoding.EncodeToString(f.Body)},
		})
	}

	res, err := d.client.Create(ctx, "LightningComponentBundle", map[string]any{
		"FullName": bun.Name,
		"Metadata": md,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		result.Error = res.ErrorsJSON()
		return result, nil
	}
	result.BundleID = res.ID
	result.Mode = deploy.ModeCreated
	for _, f := range files {
		result.Files = append(result.Files, FileResult{File: f.Name, Mode: deploy.ModeCreated, Success: true})
	}
	return result, nil
}
