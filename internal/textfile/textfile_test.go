package textfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func encodeUTF16(t *testing.T, s string, bom unicode.BOMPolicy) []byte {
	t.Helper()
	out, err := unicode.UTF16(unicode.LittleEndian, bom).NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestDecodeLines(t *testing.T) {
	text := "[ 2024.01.01 12:00:00 ] Pilot One > hello\r\n[ 2024.01.01 12:00:05 ] Pilot Two > ?500\r\n"
	want := []string{
		"[ 2024.01.01 12:00:00 ] Pilot One > hello",
		"[ 2024.01.01 12:00:05 ] Pilot Two > ?500",
	}

	tests := []struct {
		name     string
		data     []byte
		encs     []Encoding
		wantEnc  string
		wantLine []string
	}{
		{
			name:     "utf-16 with bom",
			data:     encodeUTF16(t, text, unicode.UseBOM),
			encs:     ChatLogEncodings,
			wantEnc:  "utf-16",
			wantLine: want,
		},
		{
			name:     "utf-16 without bom",
			data:     encodeUTF16(t, text, unicode.IgnoreBOM),
			encs:     ChatLogEncodings,
			wantEnc:  "utf-16",
			wantLine: want,
		},
		{
			name:     "plain utf-8",
			data:     []byte(text),
			encs:     ChatLogEncodings,
			wantEnc:  "utf-8",
			wantLine: want,
		},
		{
			name:     "utf-8 signature is stripped",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("Pilot One\n")...),
			encs:     PlainEncodings,
			wantEnc:  "utf-8",
			wantLine: []string{"Pilot One"},
		},
		{
			name:     "cp1252 fallback",
			data:     []byte("Ren\xe9 Pilot\n"),
			encs:     PlainEncodings,
			wantEnc:  "cp1252",
			wantLine: []string{"René Pilot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLines(tt.data, tt.encs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnc, got.Encoding)
			assert.Equal(t, tt.wantLine, got.Lines)
		})
	}
}

func TestDecodeLines_Empty(t *testing.T) {
	_, err := DecodeLines(nil, ChatLogEncodings)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Local_20240101_120000.txt")
	require.NoError(t, os.WriteFile(path, encodeUTF16(t, "a\nb\n", unicode.UseBOM), 0644))

	got, err := ReadLines(path, ChatLogEncodings)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Lines)

	_, err = ReadLines(filepath.Join(dir, "missing.txt"), ChatLogEncodings)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLastLine(t *testing.T) {
	line, ok := LastLine([]string{"first", "second", "", "   "})
	assert.True(t, ok)
	assert.Equal(t, "second", line)

	_, ok = LastLine([]string{"", " "})
	assert.False(t, ok)
}
