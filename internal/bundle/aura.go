package bundle

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"modx/internal/deploy"
	"modx/internal/source"
	"modx/internal/tooling"
)

// DefType maps an Aura file to its AuraDefinition DefType and Format.
// Unknown files return an empty DefType.
func DefType(fileName string) (defType, format string) {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	stem := strings.ToLower(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	switch ext {
	case "app":
		defType = "APPLICATION"
	case "cmp":
		defType = "COMPONENT"
	case "auradoc":
		defType = "DOCUMENTATION"
	case "css":
		defType = "STYLE"
	case "evt":
		defType = "EVENT"
	case "design":
		defType = "DESIGN"
	case "svg":
		defType = "SVG"
	case "tokens":
		defType = "TOKENS"
	case "intf":
		defType = "INTERFACE"
	case "js":
		switch {
		case strings.HasSuffix(stem, "controller"):
			defType = "CONTROLLER"
		case strings.HasSuffix(stem, "helper"):
			defType = "HELPER"
		case strings.HasSuffix(stem, "renderer"):
			defType = "RENDERER"
		}
	}
	if defType == "" {
		return "", ""
	}
	switch ext {
	case "js":
		format = "JS"
	case "css":
		format = "CSS"
	default:
		format = "XML"
	}
	return defType, format
}

// Markup definitions must exist before the server accepts controllers and
// styles for a fresh bundle.
var defOrder = map[string]int{
	"APPLICATION": 0, "COMPONENT": 0, "EVENT": 0, "INTERFACE": 0, "TOKENS": 0,
}

func defRank(defType string) int {
	if r, ok := defOrder[defType]; ok {
		return r
	}
	return 1
}

type auraDefinition struct {
	ID      string `json:"Id"`
	DefType string `json:"DefType"`
}

type AuraDeployer struct {
	base
}

func NewAuraDeployer(client tooling.Client, apiVersion float64) *AuraDeployer {
	return &AuraDeployer{base: newBase(client, apiVersion)}
}

func (d *AuraDeployer) Deploy(ctx context.Context, bun source.Bundle) (*Result, error) {
	files, bundleID, err := d.prepare(ctx, "AuraDefinitionBundle", bun)
	if err != nil {
		return nil, err
	}
	result := &Result{Bundle: bun.Name, BundleID: bundleID, Mode: deploy.ModeUpdated}

	existing := map[string]string{}
	if bundleID == "" {
		res, err := d.client.Create(ctx, "AuraDefinitionBundle", map[string]any{
			"DeveloperName": bun.Name,
			"MasterLabel":   bun.Name,
			"Description":   bun.Name,
			"ApiVersion":    d.apiVersion,
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
	} else {
		var defs []auraDefinition
		if err := d.client.Find(ctx, "AuraDefinition", []string{"Id", "DefType"},
			map[string]string{"AuraDefinitionBundleId": bundleID}, &defs); err != nil {
			return nil, err
		}
		for _, def := range defs {
			existing[def.DefType] = def.ID
		}
	}

	type pending struct {
		file    source.File
		defType string
		format  string
	}
	var work []pending
	for _, f := range files {
		defType, format := DefType(f.Name)
		if defType == "" {
			BundleLogs.Debug("skipping %s: not an aura definition", f.Name)
			continue
		}
		work = append(work, pending{file: f, defType: defType, format: format})
	}
	sort.SliceStable(work, func(i, j int) bool { return defRank(work[i].defType) < defRank(work[j].defType) })

	for _, w := range work {
		fr, err := d.write(ctx, "AuraDefinition", existing[w.defType],
			map[string]any{
				"AuraDefinitionBundleId": result.BundleID,
				"DefType":                w.defType,
				"Format":                 w.format,
				"Source":                 string(w.file.Body),
			},
			map[string]any{"Source": string(w.file.Body)},
		)
		if err != nil {
			return nil, err
		}
		fr.File = w.file.Name
		result.Files = append(result.Files, fr)
	}
	return result, nil
}
