package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMeta_DecodesIntoTypedStruct(t *testing.T) {
	type pluginMeta struct {
		Hash    string `meta:"hash"`
		Version int    `meta:"version"`
	}

	var out pluginMeta
	err := DecodeMeta(map[string]any{"hash": "abc123", "version": "3"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "abc123", out.Hash)
	assert.Equal(t, 3, out.Version, "WeaklyTypedInput must coerce the string \"3\" into an int")
}

func TestDecodeMeta_ErrorsOnNonPointerOut(t *testing.T) {
	type pluginMeta struct {
		Hash string `meta:"hash"`
	}
	err := DecodeMeta(map[string]any{"hash": "abc"}, pluginMeta{})
	assert.Error(t, err, "mapstructure requires a pointer result")
}
