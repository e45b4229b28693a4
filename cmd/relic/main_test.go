package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandAll(t *testing.T) {
	everything := []string{"ec2", "ebs", "s3", "eip", "snapshots"}

	assert.Equal(t, everything, expandAll(nil, everything))
	assert.Equal(t, everything, expandAll([]string{"all"}, everything))
	assert.Equal(t, []string{"ec2", "s3"}, expandAll([]string{"ec2", "s3"}, everything))
	assert.Nil(t, expandAll([]string{"all"}, nil))
}

func TestRootCmdWiring(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "scan")
	assert.Contains(t, names, "watch")
	assert.Equal(t, version, root.Version)

	scan, _, err := root.Find([]string{"scan"})
	require.NoError(t, err)
	for _, flag := range []string{"regions", "services", "workers", "format", "output", "no-cost"} {
		assert.NotNil(t, scan.Flags().Lookup(flag), flag)
	}
}
