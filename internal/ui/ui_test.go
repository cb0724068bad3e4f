package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	Table(&buf, []string{"ID", "NODES"}, [][]string{
		{"abc", "2"},
		{"de", "10"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID   NODES", lines[0])
	assert.Equal(t, "abc  2", lines[2])
	assert.Equal(t, "de   10", lines[3])
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID"}, nil)
	assert.Empty(t, buf.String())
}
