package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageCount(t *testing.T) {
	out := bytes.NewBufferString("Producer:       LibreOffice\nPages:          12\nEncrypted:      no\n")
	pages, err := parsePageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 12, pages)

	_, err = parsePageCount(bytes.NewBufferString("Producer: x\n"))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Meeting\nFriday", cleanText("  Meeting\r\n\x00Friday\ufffd\f"))
}
