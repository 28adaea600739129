// Package metadata runs Metadata API operations that have no tooling
// sobject equivalent.
package metadata

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"modx/internal/logger"
	"modx/internal/tooling"
)

var MetadataLogs = logger.PackageLogger("metadata", "🏷️ METADATA")

var ErrMissingName = errors.New("metadata: type, old name and new name are all required")

type renameRequest struct {
	XMLName     xml.Name `xml:"renameMetadata"`
	Type        string   `xml:"type"`
	OldFullName string   `xml:"oldFullName"`
	NewFullName string   `xml:"newFullName"`
}

// SaveResult is the result element of a Metadata API write.
type SaveResult struct {
	FullName string               `xml:"fullName" json:"fullName"`
	Success  bool                 `xml:"success" json:"success"`
	Errors   []tooling.FieldError `xml:"errors" json:"errors,omitempty"`
}

// Messages flattens the error list for display.
func (r *SaveResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.StatusCode != "" {
			out = append(out, e.StatusCode+": "+e.Message)
			continue
		}
		out = append(out, e.Message)
	}
	return out
}

type renameResponse struct {
	Result SaveResult `xml:"result"`
}

// Rename changes the full name of a metadata component, e.g. a
// CustomObject. A refused rename is reported in the result, not as an
// error.
func Rename(ctx context.Context, client tooling.Client, metadataType, oldName, newName string) (*SaveResult, error) {
	if metadataType == "" || oldName == "" || newName == "" {
		return nil, ErrMissingName
	}
	MetadataLogs.Debug("renaming %s %s to %s", metadataType, oldName, newName)

	var resp renameResponse
	err := client.MetadataCall(ctx, renameRequest{
		Type:        metadataType,
		OldFullName: oldName,
		NewFullName: newName,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("renaming %s %s: %w", metadataType, oldName, err)
	}
	return &resp.Result, nil
}
