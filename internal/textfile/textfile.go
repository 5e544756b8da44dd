// Package textfile reads small text files whose encoding is not known up front.
package textfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable is returned when no encoding in the list produced any text.
var ErrUndecodable = errors.New("no encoding produced output")

// Encoding is one entry of an ordered fallback list.
type Encoding struct {
	Name   string
	decode func([]byte) (string, bool)
}

var (
	UTF16       = Encoding{Name: "utf-16", decode: decodeUTF16}
	UTF8        = Encoding{Name: "utf-8", decode: decodeUTF8}
	UTF8Sig     = Encoding{Name: "utf-8-sig", decode: decodeUTF8Sig}
	Windows1252 = Encoding{Name: "cp1252", decode: decodeWith(charmap.Windows1252)}
	Latin1      = Encoding{Name: "iso-8859-1", decode: decodeWith(charmap.ISO8859_1)}
)

// ChatLogEncodings is the order used for game client chat logs, which are written as UTF-16.
var ChatLogEncodings = []Encoding{UTF16, UTF8, UTF8Sig, Windows1252, Latin1}

// PlainEncodings is the order used for hand-edited files such as the admin list.
var PlainEncodings = []Encoding{UTF8, UTF8Sig, Windows1252, Latin1}

// Result holds the decoded lines and the encoding that produced them.
type Result struct {
	Lines    []string
	Encoding string
}

// ReadLines reads path and decodes it with the first encoding in encs that yields output.
func ReadLines(path string, encs []Encoding) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeLines(data, encs)
}

// DecodeLines is ReadLines without the file access.
func DecodeLines(data []byte, encs []Encoding) (Result, error) {
	for _, enc := range encs {
		text, ok := enc.decode(data)
		if !ok {
			continue
		}
		lines := splitLines(text)
		if len(lines) == 0 {
			continue
		}
		return Result{Lines: lines, Encoding: enc.Name}, nil
	}
	return Result{}, ErrUndecodable
}

// LastLine returns the final line that is not blank, trimmed.
func LastLine(lines []string) (string, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, true
		}
	}
	return "", false
}

func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func decodeWith(enc encoding.Encoding) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			return "", false
		}
		return string(out), true
	}
}

func decodeUTF16(b []byte) (string, bool) {
	var order unicode.Endianness
	switch {
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		order = unicode.LittleEndian
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
		order = unicode.BigEndian
	default:
		little, ok := nulLayout(b)
		if !ok {
			return "", false
		}
		order = unicode.BigEndian
		if little {
			order = unicode.LittleEndian
		}
	}
	return decodeWith(unicode.UTF16(order, unicode.UseBOM))(b)
}

// nulLayout reports whether b looks like BOM-less UTF-16 and, if so, whether
// it is little endian. Mostly-ASCII UTF-16 has a zero in every other byte.
func nulLayout(b []byte) (little, ok bool) {
	if len(b) > 4096 {
		b = b[:4096]
	}
	pairs := len(b) / 2
	if pairs == 0 {
		return false, false
	}
	var even, odd int
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 {
			even++
		}
		if b[i+1] == 0 {
			odd++
		}
	}
	if odd*4 < pairs && even*4 < pairs {
		return false, false
	}
	return odd >= even, true
}

func decodeUTF8(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func decodeUTF8Sig(b []byte) (string, bool) {
	if !bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return "", false
	}
	return decodeWith(unicode.UTF8BOM)(b)
}
