package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"user", "create"},
		{"user", "delete"},
		{"activity", "add"},
		{"activity", "list"},
		{"activity", "delete"},
		{"migrate"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestActivityDeleteRejectsBadID(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_STORE", "redis")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"activity", "delete", "abc"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid activity id "abc"`)
}

func TestActivityAddRequiresName(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"activity", "add"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}
