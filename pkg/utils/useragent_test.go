package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 " +
	"(KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"

func TestParseUserAgent(t *testing.T) {
	info := ParseUserAgent(iphoneUA, "ko-KR,ko;q=0.9,en;q=0.8")
	require.NotNil(t, info)

	assert.Equal(t, "Phone", info.Device)
	assert.Equal(t, "iOS 17.2", info.OS)
	assert.Equal(t, "ko-KR", info.Locale)
}

func TestParseUserAgent_Unknown(t *testing.T) {
	assert.Nil(t, ParseUserAgent("", ""))
	assert.Equal(t, "", ClientDevice(""))
}

func TestClientDevice(t *testing.T) {
	assert.Equal(t, "Phone (iOS 17.2)", ClientDevice(iphoneUA))
}
