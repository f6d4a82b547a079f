// Package codeframe renders the lines of a source text around an offset range,
// with carets marking the range.
package codeframe

import (
	"strconv"
	"strings"
)

// contextLines is the number of lines printed before and after the range.
const contextLines = 2

type line struct {
	text string
	// eolLen is the length of the line terminator, 0 for the last line.
	eolLen int
}

func splitLines(source string) []line {
	var lines []line
	for {
		i := strings.IndexByte(source, '\n')
		if i < 0 {
			return append(lines, line{text: source})
		}
		text, eol := source[:i], 1
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], 2
		}
		lines = append(lines, line{text: text, eolLen: eol})
		source = source[i+1:]
	}
}

// Generate returns the code frame for the byte range [start, end) of source.
// Offsets are clamped to the source; an empty string is returned when start
// is after end.
func Generate(source string, start, end int) string {
	start = clamp(start, len(source))
	end = clamp(end, len(source))
	if start > end {
		return ""
	}

	lines := splitLines(source)
	var out []string
	count := 0
	for i := range lines {
		count += len(lines[i].text) + lines[i].eolLen
		if count < start {
			continue
		}
		for j := i - contextLines; j <= i+contextLines || end > count; j++ {
			if j < 0 {
				continue
			}
			if j >= len(lines) {
				break
			}
			out = append(out, gutter(j+1)+lines[j].text)
			lineLen := len(lines[j].text)
			eolLen := lines[j].eolLen
			switch {
			case j == i:
				pad := start - (count - (lineLen + eolLen))
				length := end - start
				if end > count {
					length = lineLen - pad
				}
				out = append(out, "   |  "+strings.Repeat(" ", pad)+strings.Repeat("^", max(1, length)))
			case j > i:
				if end > count {
					length := max(min(end-count, lineLen), 1)
					out = append(out, "   |  "+strings.Repeat("^", length))
				}
				count += lineLen + eolLen
			}
		}
		break
	}
	return strings.Join(out, "\n")
}

func gutter(n int) string {
	num := strconv.Itoa(n)
	return num + strings.Repeat(" ", max(3-len(num), 0)) + "|  "
}

func clamp(v, upper int) int {
	return max(0, min(v, upper))
}
