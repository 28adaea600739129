package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modx/internal/tooling"
	"modx/internal/tooling/toolingtest"
)

func TestResolveNamespace(t *testing.T) {
	fc := toolingtest.New()
	r := NewResolver(fc)

	ns, err := r.ResolveNamespace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", ns)

	acme := "acme"
	fc.Namespace = &acme
	ns, err = r.ResolveNamespace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", ns)
}

func TestResolveNamespaceError(t *testing.T) {
	fc := toolingtest.New()
	fc.QueryErr = tooling.ErrUnauthorized
	_, err := NewResolver(fc).ResolveNamespace(context.Background())
	assert.True(t, errors.Is(err, tooling.ErrUnauthorized))
}

func TestResolveIdentity(t *testing.T) {
	fc := toolingtest.New()
	fc.Found["ApexTrigger"] = []map[string]any{{"Id": "01q000000000001"}, {"Id": "01q000000000002"}}
	r := NewResolver(fc)

	id, err := r.ResolveIdentity(context.Background(), "ApexTrigger", "AccountTrigger", "acme")
	require.NoError(t, err)
	assert.Equal(t, "01q000000000001", id)
	assert.Equal(t, map[string]string{"Name": "AccountTrigger", "NamespacePrefix": "acme"}, fc.Finds[0].Where)

	id, err = r.ResolveIdentity(context.Background(), "ApexClass", "Missing", "")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestResolveBundleUsesDeveloperName(t *testing.T) {
	fc := toolingtest.New()
	_, err := NewResolver(fc).ResolveBundle(context.Background(), "AuraDefinitionBundle", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DeveloperName": "hello", "NamespacePrefix": ""}, fc.Finds[0].Where)
}
