package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var schema struct {
		Title      string                    `json:"title"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "posixid Configuration", schema.Title)
	assert.Contains(t, schema.Properties, "source")
	assert.Contains(t, schema.Properties, "groups")
	assert.Contains(t, schema.Properties, "logging")
}
