package contentkind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected Kind
	}{
		{name: "empty", input: nil, expected: Text},
		{name: "plain text", input: []byte("total 12\ndrwxr-xr-x 2 user user 4096 .\n"), expected: Text},
		{name: "colour codes are text", input: []byte("\x1b[31merror\x1b[0m: failed\n"), expected: Text},
		{name: "null byte", input: []byte("abc\x00def"), expected: Binary},
		{name: "invalid utf8", input: []byte{0xff, 0xfe, 0x41}, expected: Binary},
		{name: "single bell is text", input: []byte("build done\a\n"), expected: Text},
		{name: "mostly control characters", input: []byte{0x01, 0x02, 0x03, 'a', 0x04}, expected: Binary},
		{name: "single header only", input: []byte("# Title\n"), expected: Text},
		{
			name:     "header and list",
			input:    []byte("# Title\n\n- one\n- two\n"),
			expected: Markdown,
		},
		{
			name:     "code block and link",
			input:    []byte("See [docs](https://example.com)\n```go\nfmt.Println()\n```\n"),
			expected: Markdown,
		},
		{
			name:     "bold and blockquote",
			input:    []byte("> quoted\n**strong**\n"),
			expected: Markdown,
		},
		{
			name:     "ordered list and header",
			input:    []byte("## Steps\n1. first\n2. second\n"),
			expected: Markdown,
		},
		{name: "hash without space", input: []byte("#include <stdio.h>\n- item\n"), expected: Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Classify(tt.input))
		})
	}
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no escapes", input: "plain", expected: "plain"},
		{name: "sgr", input: "\x1b[1;32mok\x1b[0m", expected: "ok"},
		{name: "cursor movement", input: "a\x1b[2Kb\x1b[10;5Hc", expected: "abc"},
		{name: "private mode", input: "\x1b[?1049hscreen\x1b[?1049l", expected: "screen"},
		{name: "osc title bel", input: "\x1b]0;title\x07prompt$ ", expected: "prompt$ "},
		{name: "osc hyperlink st", input: "\x1b]8;;http://x\x1b\\link\x1b]8;;\x1b\\", expected: "link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, StripANSI(tt.input))
		})
	}
}
