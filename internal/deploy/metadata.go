package deploy

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Metadata is the envelope the server needs to create an artifact that
// does not exist yet. It is read from the "-meta.xml" sidecar.
type Metadata struct {
	Label       string  `xml:"label" json:"label,omitempty"`
	Description string  `xml:"description" json:"description,omitempty"`
	Status      string  `xml:"status" json:"status,omitempty"`
	APIVersion  float64 `xml:"-" json:"apiVersion,omitempty"`
}

// sidecar matches any root element; only the children we care about are read.
type sidecar struct {
	Label       string `xml:"label"`
	Description string `xml:"description"`
	Status      string `xml:"status"`
	APIVersion  string `xml:"apiVersion"`
}

// ParseMetadata decodes a "-meta.xml" document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var sc sidecar
	if err := xml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing metadata xml: %w", err)
	}
	md := &Metadata{
		Label:       strings.TrimSpace(sc.Label),
		Description: strings.TrimSpace(sc.Description),
		Status:      strings.TrimSpace(sc.Status),
	}
	if v := strings.TrimSpace(sc.APIVersion); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing metadata xml: invalid apiVersion %q", v)
		}
		md.APIVersion = f
	}
	return md, nil
}

// envelope fills the create-path metadata with defaults the server rejects
// when absent.
func envelope(kind Kind, name string, md *Metadata, apiVersion float64) *Metadata {
	out := Metadata{}
	if md != nil {
		out = *md
	}
	if out.APIVersion == 0 {
		out.APIVersion = apiVersion
	}
	if kind.Labelled && out.Label == "" {
		out.Label = name
	}
	if !kind.Labelled {
		out.Label = ""
	}
	return &out
}
