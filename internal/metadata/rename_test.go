package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modx/internal/tooling"
	"modx/internal/tooling/toolingtest"
)

func TestRenameSendsOldAndNewNames(t *testing.T) {
	fc := toolingtest.New()
	fc.MetadataResponse = `<renameMetadataResponse><result><fullName>Invoice__c</fullName><success>true</success></result></renameMetadataResponse>`

	res, err := Rename(context.Background(), fc, "CustomObject", "Bill__c", "Invoice__c")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Invoice__c", res.FullName)

	require.Len(t, fc.MetadataCalls, 1)
	assert.Equal(t, renameRequest{Type: "CustomObject", OldFullName: "Bill__c", NewFullName: "Invoice__c"}, fc.MetadataCalls[0])
}

func TestRenameRefusedIsAResult(t *testing.T) {
	fc := toolingtest.New()
	fc.MetadataResponse = `<renameMetadataResponse><result>
		<errors><message>Cannot rename standard profile</message><statusCode>FIELD_INTEGRITY_EXCEPTION</statusCode></errors>
		<fullName>Admin</fullName><success>false</success>
	</result></renameMetadataResponse>`

	res, err := Rename(context.Background(), fc, "Profile", "Admin", "Boss")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"FIELD_INTEGRITY_EXCEPTION: Cannot rename standard profile"}, res.Messages())
}

func TestRenameTransportError(t *testing.T) {
	fc := toolingtest.New()
	fc.MetadataErr = tooling.ErrUnauthorized

	_, err := Rename(context.Background(), fc, "CustomObject", "A__c", "B__c")
	assert.ErrorIs(t, err, tooling.ErrUnauthorized)
}

func TestRenameRequiresNames(t *testing.T) {
	_, err := Rename(context.Background(), toolingtest.New(), "CustomObject", "", "B__c")
	assert.ErrorIs(t, err, ErrMissingName)
}
