package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "scrapbook.example", extractOriginHost("https://scrapbook.example"))
	assert.Equal(t, "localhost:3000", extractOriginHost("http://localhost:3000"))
	assert.Equal(t, "not a url", extractOriginHost("not a url"))
}

func TestMatchOriginPattern(t *testing.T) {
	assert.True(t, matchOriginPattern("scrapbook.example", "scrapbook.example"))
	assert.True(t, matchOriginPattern("*.scrapbook.example", "admin.scrapbook.example"))
	assert.False(t, matchOriginPattern("*.scrapbook.example", "evil.example"))
	assert.True(t, matchOriginPattern("localhost:*", "localhost:3000"))
	assert.False(t, matchOriginPattern("localhost:*", "remotehost:3000"))
}
