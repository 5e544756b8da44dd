package collector

import (
	"regexp"
	"strings"
)

// UnknownTimestamp is used for lines whose grammar has no timestamp.
const UnknownTimestamp = "unknown"

// Message is a parsed chat line
type Message struct {
	Timestamp string
	Speaker   string
	Content   string
}

// Regular expressions for chat line grammars, in priority order
var (
	// [ 2024.01.01 12:00:00 ] Pilot One > message
	spacedAngleRegex  = regexp.MustCompile(`^\[ ([\d.]+ [\d:]+) \] ([^>]+) > (.+)`)
	// [ 2024.01.01 12:00:00 ] Pilot One: message
	spacedColonRegex  = regexp.MustCompile(`^\[ ([\d.]+ [\d:]+) \] ([^:]+): (.+)`)
	// [2024.01.01 12:00:00] Pilot One > message
	compactAngleRegex = regexp.MustCompile(`^\[([\d.]+ [\d:]+)\] ([^>]+) > (.+)`)
	// Pilot One > message
	bareAngleRegex    = regexp.MustCompile(`^([^>]+) > (.+)`)

	timestampedGrammars = []*regexp.Regexp{spacedAngleRegex, spacedColonRegex, compactAngleRegex}
)

// NormalizeLine cleans up a raw chat log line: NUL bytes are removed and
// whitespace runs inside the timestamp bracket and the message body collapse
// to single spaces, giving "[ <timestamp> ] <rest>". Lines without a usable
// bracket pair are returned with only the NULs removed.
func NormalizeLine(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\x00", "")
	cleaned = strings.TrimPrefix(cleaned, "\ufeff")

	open := strings.IndexByte(cleaned, '[')
	if open == -1 {
		return cleaned
	}
	end := strings.IndexByte(cleaned[open:], ']')
	if end == -1 {
		return cleaned
	}
	end += open
	if strings.IndexByte(cleaned[open+1:end], '[') != -1 {
		return cleaned
	}
	if gt := strings.IndexByte(cleaned, '>'); gt != -1 && gt < end {
		return cleaned
	}

	timestamp := collapseSpaces(cleaned[open+1 : end])
	rest := collapseSpaces(cleaned[end+1:])
	return strings.TrimRight("[ "+timestamp+" ] "+rest, " ")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseMessage matches a normalized line against the known chat grammars.
// Lines that match none of them are not chat messages; ok is false.
func ParseMessage(line string) (msg Message, ok bool) {
	for _, re := range timestampedGrammars {
		if match := re.FindStringSubmatch(line); match != nil {
			return newMessage(match[1], match[2], match[3])
		}
	}

	if match := bareAngleRegex.FindStringSubmatch(line); match != nil {
		return newMessage(UnknownTimestamp, match[1], match[2])
	}

	return Message{}, false
}

func newMessage(timestamp, speaker, content string) (Message, bool) {
	msg := Message{
		Timestamp: timestamp,
		Speaker:   strings.TrimSpace(speaker),
		Content:   strings.TrimSpace(content),
	}
	if msg.Speaker == "" || msg.Content == "" {
		return Message{}, false
	}
	return msg, true
}
