// Package staticresource saves files and zipped folders from the static
// resource folder as StaticResource records.
package staticresource

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	DefaultFolder       = "staticresources"
	DefaultCacheControl = "private"
)

var ErrNotInResourceFolder = errors.New("path is not inside the resource folder")

// Target is what a path under the resource folder deploys as. Dir is set
// when the resource is a folder that gets zipped; otherwise File is.
type Target struct {
	Name string
	Dir  string
	File string
}

func (t Target) IsArchive() bool {
	return t.Dir != ""
}

// Locate maps path to its resource. The first segment after the resource
// folder decides: "staticresources/app/js/main.js" deploys the whole "app"
// folder, "staticresources/logo.png" deploys the file as "logo".
func Locate(path, folder string) (Target, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	slashed := filepath.ToSlash(path)
	marker := strings.TrimSuffix(filepath.ToSlash(folder), "/") + "/"
	idx := folderIndex(slashed, marker)
	if idx < 0 {
		return Target{}, fmt.Errorf("%w: %s not under %q", ErrNotInResourceFolder, path, folder)
	}
	rest := slashed[idx+len(marker):]
	first, _, _ := strings.Cut(rest, "/")
	name, _, _ := strings.Cut(first, ".")
	if name == "" {
		return Target{}, fmt.Errorf("%w: %s names no resource", ErrNotInResourceFolder, path)
	}
	if first == name {
		return Target{Name: name, Dir: filepath.FromSlash(slashed[:idx+len(marker)] + name)}, nil
	}
	return Target{Name: name, File: path}, nil
}

// folderIndex finds the last occurrence of marker that starts a path
// segment, so "mystaticresources/" does not match "staticresources/".
func folderIndex(path, marker string) int {
	end := len(path)
	for {
		idx := strings.LastIndex(path[:end], marker)
		if idx <= 0 || path[idx-1] == '/' {
			return idx
		}
		end = idx + len(marker) - 1
	}
}
