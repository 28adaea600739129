package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"modx/internal/auth"
	"modx/internal/config"
	"modx/internal/deploy"
	"modx/internal/tooling"
	"modx/internal/tooling/toolingtest"
)

type harness struct {
	fc       *toolingtest.Fake
	project  string
	home     string
	settings *config.Settings
}

func setup(t *testing.T) *harness {
	t.Helper()
	keyring.MockInit()
	h := &harness{fc: toolingtest.New(), project: t.TempDir(), home: t.TempDir()}

	prevDirs, prevClient := workDirs, newClient
	workDirs = func() (string, string, error) { return h.project, h.home, nil }
	newClient = func(s *config.Settings) (tooling.Client, error) {
		h.settings = s
		return h.fc, nil
	}
	t.Cleanup(func() {
		workDirs, newClient = prevDirs, prevClient
		resetFlags(rootCmd)
	})
	return h
}

// resetFlags puts every flag back to its default so one test's flags do
// not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// login registers alias dev with a stored token.
func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, config.SetOrg(h.home, "dev", config.Org{InstanceURL: "https://dev.my.example.com"}))
	require.NoError(t, auth.NewTokenStore().Save("dev", "00Dtoken"))
}

func (h *harness) write(t *testing.T, rel, body string) string {
	t.Helper()
	path := filepath.Join(h.project, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(args ...string) (string, error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestDeployApexCreated(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.fc.States = []string{deploy.StateCompleted}
	path := h.write(t, "classes/Foo.cls", "public class Foo {}")
	h.write(t, "classes/Foo.cls-meta.xml", "<ApexClass><apiVersion>59.0</apiVersion><status>Active</status></ApexClass>")

	out, err := execute("deploy", "apex", "-p", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Apex Class Successfully Created ✔")

	require.NotNil(t, h.settings)
	assert.Equal(t, "00Dtoken", h.settings.AccessToken)
	assert.Equal(t, "https://dev.my.example.com", h.settings.InstanceURL)

	members := h.fc.CreatesOf("ApexClassMember")
	require.Len(t, members, 1)
	assert.Equal(t, "Foo", members[0].Fields["FullName"])
	assert.Equal(t, map[string]any{"status": "Active", "apiVersion": 59.0}, members[0].Fields["Metadata"])
}

func TestDeployTriggerFailureShowsTable(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.fc.Found["ApexTrigger"] = []map[string]any{{"Id": "01q000000000001"}}
	h.fc.States = []string{deploy.StateFailed}
	h.fc.Failures = []tooling.ComponentFailure{{LineNumber: 3, ColumnNumber: 7, Problem: "Unexpected token 'x'."}}
	path := h.write(t, "triggers/AccountTrigger.trigger", "trigger AccountTrigger on Account (before insert) { x }")

	out, err := execute("deploy", "trigger", "-p", path)
	assert.ErrorIs(t, err, ErrDeployFailed)
	assert.Contains(t, out, "Error Description")
	assert.Contains(t, out, "Unexpected token 'x'.")
	assert.Contains(t, out, "Trigger Save Failed ✖")

	members := h.fc.CreatesOf("ApexTriggerMember")
	require.Len(t, members, 1)
	assert.Equal(t, "01q000000000001", members[0].Fields["ContentEntityId"])
}

func TestDeployContainerRejectedShowsErrorTable(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.fc.CreateResults["MetadataContainer"] = tooling.SaveResult{}
	path := h.write(t, "pages/Home.page", "<apex:page/>")

	out, err := execute("deploy", "vf", "-p", path)
	assert.ErrorIs(t, err, ErrDeployFailed)
	assert.Contains(t, out, deploy.ContainerCreationFailed)
	assert.Contains(t, out, "Visualforce Page Save Failed ✖")
}

func TestDeployJSONOutput(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.fc.Found["ApexComponent"] = []map[string]any{{"Id": "099000000000001"}}
	h.fc.States = []string{deploy.StateQueued, deploy.StateCompleted}
	path := h.write(t, "components/Badge.component", "<apex:component/>")
	h.write(t, "modx.yml", "deploy:\n  pollInterval: 1ms\n")

	out, err := execute("deploy", "vfcomponent", "-p", path, "--json")
	require.NoError(t, err)

	var got sourceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Success)
	assert.Equal(t, deploy.ModeUpdated, got.Mode)
	assert.Equal(t, "vfcomponent", got.Kind)
	assert.Equal(t, "Badge", got.Name)
	assert.Equal(t, deploy.StateCompleted, got.State)
	assert.Len(t, h.fc.ToolingQueries, 2)
}

func TestDeployWithoutLogin(t *testing.T) {
	h := setup(t)
	require.NoError(t, config.SetOrg(h.home, "dev", config.Org{InstanceURL: "https://dev.my.example.com"}))
	path := h.write(t, "classes/Foo.cls", "public class Foo {}")

	_, err := execute("deploy", "apex", "-p", path)
	assert.ErrorIs(t, err, auth.ErrNoCredentials)
	assert.Empty(t, h.fc.Creates)
}

func TestDeployUnknownTargetOrg(t *testing.T) {
	h := setup(t)
	h.login(t)
	path := h.write(t, "classes/Foo.cls", "public class Foo {}")

	_, err := execute("deploy", "apex", "-p", path, "-u", "prod")
	assert.ErrorIs(t, err, config.ErrUnknownOrg)
}

func TestDeployLWCBundle(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.write(t, "lwc/hello/hello.js", "export default class Hello {}")
	h.write(t, "lwc/hello/hello.js-meta.xml", "<LightningComponentBundle/>")

	out, err := execute("deploy", "lwc", "-p", filepath.Join(h.project, "lwc", "hello"))
	require.NoError(t, err)
	assert.Contains(t, out, "Lightning Web Component Successfully Created ✔")
	assert.Len(t, h.fc.CreatesOf("LightningComponentBundle"), 1)
}

func TestDeployStaticResource(t *testing.T) {
	h := setup(t)
	h.login(t)
	path := h.write(t, "staticresources/theme.css", ".a{}")

	out, err := execute("deploy", "staticresource", "-p", path, "-c", "public")
	require.NoError(t, err)
	assert.Contains(t, out, "StaticResource theme Successfully Created ✔")

	creates := h.fc.CreatesOf("StaticResource")
	require.Len(t, creates, 1)
	assert.Equal(t, "public", creates[0].Fields["CacheControl"])
	assert.Equal(t, "text/css", creates[0].Fields["ContentType"])
}

func TestOrgLoginWithPipedToken(t *testing.T) {
	h := setup(t)
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("00Dpiped\n"), 0o600))
	f, err := os.Open(tokenFile)
	require.NoError(t, err)
	defer f.Close()
	prev := stdin
	stdin = f
	t.Cleanup(func() { stdin = prev })

	out, err := execute("org", "login", "-a", "dev", "--instance-url", "https://dev.my.example.com/")
	require.NoError(t, err)
	assert.Contains(t, out, "Authorized")

	tok, err := auth.NewTokenStore().Load("dev")
	require.NoError(t, err)
	assert.Equal(t, "00Dpiped", tok)

	user, err := config.LoadUser(h.home)
	require.NoError(t, err)
	assert.Equal(t, "dev", user.DefaultOrg)
	assert.Equal(t, "https://dev.my.example.com", user.Orgs["dev"].InstanceURL)

	out, err = execute("org", "display", "--json")
	require.NoError(t, err)
	var shown orgOutput
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "dev", shown.Alias)
	assert.True(t, shown.Connected)

	_, err = execute("org", "logout", "-a", "dev")
	require.NoError(t, err)
	_, err = auth.NewTokenStore().Load("dev")
	assert.ErrorIs(t, err, auth.ErrNoCredentials)
}

func TestMetadataRename(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.fc.MetadataResponse = `<renameMetadataResponse><result><fullName>Invoice__c</fullName><success>true</success></result></renameMetadataResponse>`

	out, err := execute("metadata", "rename", "-t", "CustomObject", "-o", "Bill__c", "-n", "Invoice__c")
	require.NoError(t, err)
	assert.Contains(t, out, "CustomObject Bill__c is successfully Renamed to Invoice__c ✔")
	assert.Len(t, h.fc.MetadataCalls, 1)
}

func TestMetadataRenameRefused(t *testing.T) {
	h := setup(t)
	h.login(t)
	h.fc.MetadataResponse = `<renameMetadataResponse><result><errors><message>no such object</message><statusCode>INVALID_CROSS_REFERENCE_KEY</statusCode></errors><success>false</success></result></renameMetadataResponse>`

	out, err := execute("metadata", "rename", "-t", "CustomObject", "-o", "Nope__c", "-n", "Still__c", "--json")
	assert.ErrorIs(t, err, ErrDeployFailed)

	var got renameOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Success)
	assert.Equal(t, []string{"INVALID_CROSS_REFERENCE_KEY: no such object"}, got.Errors)
}

func TestInitWithDefaults(t *testing.T) {
	h := setup(t)
	_, err := execute("init", "--yes", "-u", "dev")
	require.NoError(t, err)

	cfg, err := config.LoadProject(h.project)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.DefaultOrg)
	assert.Equal(t, config.DefaultResourceFolder, cfg.StaticResources.Folder)
}
