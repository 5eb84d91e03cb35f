package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"createuser", "--username", "alice"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"password" not set`)
}

func TestRootListsSubcommands(t *testing.T) {
	cmd := newRootCmd()

	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "initdb")
	assert.Contains(t, names, "createuser")
}
