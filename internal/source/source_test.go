package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Foo", Name("force-app/classes/Foo.cls", ".cls"))
	assert.Equal(t, "AccountTrigger", Name("/x/AccountTrigger.trigger", ".trigger"))
	assert.Equal(t, "page", Name("page.page", ".cls"))
	assert.Equal(t, "logo", Name("logo", ""))
}

func TestReadArtifactWithAndWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	cls := filepath.Join(dir, "Foo.cls")
	write(t, cls, "public class Foo {}")

	body, side, err := ReadArtifact(cls)
	require.NoError(t, err)
	assert.Equal(t, "public class Foo {}", string(body))
	assert.Nil(t, side)

	write(t, cls+SidecarSuffix, "<ApexClass/>")
	_, side, err = ReadArtifact(cls)
	require.NoError(t, err)
	assert.Equal(t, "<ApexClass/>", string(side))

	_, _, err = ReadArtifact(filepath.Join(dir, "Missing.cls"))
	assert.Error(t, err)
}

func TestResolveBundleFromDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lwc", "hello")
	write(t, filepath.Join(dir, "hello.js"), "export default class Hello {}")
	write(t, filepath.Join(dir, "hello.html"), "<template></template>")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "__tests__"), 0o755))

	b, err := ResolveBundle(dir)
	require.NoError(t, err)
	assert.Equal(t, "hello", b.Name)
	assert.Equal(t, []string{"hello.html", "hello.js"}, b.Files)

	files, err := b.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "hello.html", files[0].Name)
	assert.Equal(t, "<template></template>", string(files[0].Body))
	assert.Equal(t, "export default class Hello {}", string(files[1].Body))
}

func TestResolveBundleFromFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "aura", "myCmp")
	file := filepath.Join(dir, "myCmpController.js")
	write(t, file, "({})")

	b, err := ResolveBundle(file)
	require.NoError(t, err)
	assert.Equal(t, "myCmp", b.Name)
	assert.Equal(t, []string{"myCmpController.js"}, b.Files)
}

func TestResolveBundleEmptyDir(t *testing.T) {
	_, err := ResolveBundle(t.TempDir())
	assert.ErrorContains(t, err, "has no files")
}
