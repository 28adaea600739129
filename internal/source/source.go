// Package source reads artifacts from a project checkout.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const SidecarSuffix = "-meta.xml"

// Name strips the directory and the given extension from path:
// "classes/Foo.cls" → "Foo".
func Name(path, ext string) string {
	base := filepath.Base(path)
	if ext != "" && strings.HasSuffix(base, ext) {
		return strings.TrimSuffix(base, ext)
	}
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// File is one source file read from disk.
type File struct {
	Path string
	Name string
	Body []byte
}

// ReadArtifact reads a single source file and, when present, its
// "-meta.xml" sidecar. A missing sidecar yields a nil slice.
func ReadArtifact(path string) (body, sidecar []byte, err error) {
	body, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	sidecar, err = os.ReadFile(path + SidecarSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return body, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path+SidecarSuffix, err)
	}
	return body, sidecar, nil
}

// Bundle is a component directory such as aura/myCmp or lwc/myCmp.
type Bundle struct {
	Dir   string
	Name  string
	Files []string
}

// ResolveBundle accepts either the bundle directory or one file inside it.
// A directory deploys every regular file in it; a file deploys only itself.
func ResolveBundle(path string) (Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("resolving bundle %s: %w", path, err)
	}
	if !info.IsDir() {
		dir := filepath.Dir(path)
		return Bundle{Dir: dir, Name: filepath.Base(dir), Files: []string{filepath.Base(path)}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("listing bundle %s: %w", path, err)
	}
	b := Bundle{Dir: path, Name: filepath.Base(filepath.Clean(path))}
	for _, e := range entries {
		if e.Type().IsRegular() {
			b.Files = append(b.Files, e.Name())
		}
	}
	sort.Strings(b.Files)
	if len(b.Files) == 0 {
		return Bundle{}, fmt.Errorf("bundle %s has no files", path)
	}
	return b, nil
}

// ReadAll reads every file of the bundle concurrently. The result keeps
// the order of b.Files.
func (b Bundle) ReadAll(ctx context.Context) ([]File, error) {
	files := make([]File, len(b.Files))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range b.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := filepath.Join(b.Dir, name)
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			files[i] = File{Path: p, Name: name, Body: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
