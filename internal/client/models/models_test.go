package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_UnmarshalEnvelope(t *testing.T) {
	var p Page[User]
	payload := `{"items":[{"firstname":"Ana","lastname":"Cruz","role":"user","groups":["hr"]}],"total":42}`

	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	require.Len(t, p.Items, 1)
	assert.Equal(t, 42, p.Total)
	assert.Equal(t, "Ana", p.Items[0].Firstname)
}

func TestPage_UnmarshalBareArray(t *testing.T) {
	var p Page[Group]
	payload := `[{"_id":"1","name":"hr"},{"_id":"2","name":"ops"}]`

	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	require.Len(t, p.Items, 2)
	assert.Equal(t, 2, p.Total, "bare array degrades to client-count pagination")
}

func TestPage_EnvelopeWithoutTotal(t *testing.T) {
	var p Page[Group]
	payload := `{"items":[{"name":"hr"}]}`

	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	assert.Equal(t, 1, p.Total)
}

func TestFileSummary_Title(t *testing.T) {
	f := FileSummary{OriginalName: "statement.pdf"}
	assert.Equal(t, "statement.pdf", f.Title())

	f.DisplayName = "August Statement"
	assert.Equal(t, "August Statement", f.Title())
}

func TestIdentity_IsAdmin(t *testing.T) {
	assert.False(t, (*Identity)(nil).IsAdmin())
	assert.False(t, (&Identity{Role: RoleUser}).IsAdmin())
	assert.True(t, (&Identity{Role: RoleAdmin}).IsAdmin())
}
