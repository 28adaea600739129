package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesNo(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("yes\n\nn\n"), &out, false)

	ok, err := p.YesNo("Continue?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.YesNo("Continue?", true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.ConfirmOverwrite("modx.yml")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Overwrite modx.yml? [y/N]")
}

func TestNonInteractiveUsesDefault(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("y\n"), &out, true)
	ok, err := p.ConfirmOverwrite("modx.yml")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}
