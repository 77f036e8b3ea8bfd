package formatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/9049480440/vk-hashtag-monitor/pkg/formatter"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-42, "-42"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatter.FormatNumber(tt.in))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "3.46%", formatter.FormatPercent(3.456))
	assert.Equal(t, "0.00%", formatter.FormatPercent(0))
	assert.Equal(t, "100.00%", formatter.FormatPercent(100))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `\#tag \(2025\)`, formatter.EscapeMarkdownV2("#tag (2025)"))
	assert.Equal(t, "plain text", formatter.EscapeMarkdownV2("plain text"))
	assert.Equal(t, `a\.b\_c\*d`, formatter.EscapeMarkdownV2("a.b_c*d"))
}
