package dataconfig_test

import (
	"testing"

	"github.com/enlightendev/dataconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaAction_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		action dataconfig.SchemaAction
		valid  bool
	}{
		{name: "none is valid", action: dataconfig.SchemaNone, valid: true},
		{name: "validate is valid", action: dataconfig.SchemaValidate, valid: true},
		{name: "update is valid", action: dataconfig.SchemaUpdate, valid: true},
		{name: "create is valid", action: dataconfig.SchemaCreate, valid: true},
		{name: "create-drop is valid", action: dataconfig.SchemaCreateDrop, valid: true},
		{name: "empty action is invalid", action: "", valid: false},
		{name: "random string is invalid", action: "drop-everything", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.action.IsValid())
		})
	}
}

func TestSchemaAction_Destructive(t *testing.T) {
	assert.False(t, dataconfig.SchemaNone.Destructive())
	assert.False(t, dataconfig.SchemaValidate.Destructive())
	assert.False(t, dataconfig.SchemaUpdate.Destructive())
	assert.True(t, dataconfig.SchemaCreate.Destructive())
	assert.True(t, dataconfig.SchemaCreateDrop.Destructive())
}

func TestParseSchemaAction(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    dataconfig.SchemaAction
		wantErr bool
	}{
		{name: "empty means none", input: "", want: dataconfig.SchemaNone},
		{name: "validate", input: "validate", want: dataconfig.SchemaValidate},
		{name: "mixed case and spaces", input: "  Update ", want: dataconfig.SchemaUpdate},
		{name: "create-drop", input: "create-drop", want: dataconfig.SchemaCreateDrop},
		{name: "unknown", input: "create-only", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dataconfig.ParseSchemaAction(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid schema action")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
