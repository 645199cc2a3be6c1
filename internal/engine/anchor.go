package engine

import (
	"regexp"
	"strings"
)

// occurrences returns the start offsets of non-overlapping occurrences of needle.
func occurrences(corpus, needle string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	for from := 0; from <= len(corpus)-len(needle); {
		i := strings.Index(corpus[from:], needle)
		if i < 0 {
			break
		}
		out = append(out, from+i)
		from += i + len(needle)
	}
	return out
}

// coveredBy reports whether [pos, pos+n) lies inside one of the spans of length
// width starting at starts.
func coveredBy(pos, n int, starts []int, width int) bool {
	for _, s := range starts {
		if s <= pos && pos+n <= s+width {
			return true
		}
	}
	return false
}

// anchorPattern compiles a literal anchor so that every run of whitespace in it
// matches any non-empty run of whitespace in the corpus.
func anchorPattern(literal string) *regexp.Regexp {
	fields := strings.Fields(literal)
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return regexp.MustCompile(strings.Join(quoted, `\s+`))
}

// findOpen returns the offset of the first open delimiter at or after from. A
// statement terminator before it means the anchor was a declaration, not a body.
func findOpen(corpus string, from int, open byte) int {
	for i := from; i < len(corpus); i++ {
		switch corpus[i] {
		case open:
			return i
		case ';':
			return -1
		}
	}
	return -1
}

// matchClose returns the offset of the delimiter closing the one at openIdx, or
// -1 when the corpus ends first. String and char literals and comments are
// skipped so braces inside them do not count.
func matchClose(corpus string, openIdx int, open, close byte) int {
	depth := 0
	for i := openIdx; i < len(corpus); i++ {
		c := corpus[i]
		switch {
		case c == '"' || c == '\'':
			i = skipQuoted(corpus, i, c)
		case c == '/' && i+1 < len(corpus) && corpus[i+1] == '/':
			nl := strings.IndexByte(corpus[i:], '\n')
			if nl < 0 {
				return -1
			}
			i += nl
		case c == '/' && i+1 < len(corpus) && corpus[i+1] == '*':
			end := strings.Index(corpus[i+2:], "*/")
			if end < 0 {
				return -1
			}
			i += end + 3
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func skipQuoted(corpus string, i int, quote byte) int {
	for j := i + 1; j < len(corpus); j++ {
		switch corpus[j] {
		case '\\':
			j++
		case quote, '\n':
			return j
		}
	}
	return len(corpus)
}
