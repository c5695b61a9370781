package core

import (
	"fmt"
	"strings"
)

// Line is a single source line with its exact terminator
type Line struct {
	Num    int    // 1-based line number
	Offset int64  // byte offset of the first character
	Text   string // line content without the terminator
	EOL    string // "\n", "\r\n" or "" for a final unterminated line
}

// Trimmed returns the line content without surrounding whitespace
func (l Line) Trimmed() string {
	return strings.TrimSpace(l.Text)
}

// IsTrivia reports whether the line is blank or a comment
func (l Line) IsTrivia() bool {
	t := l.Trimmed()
	return t == "" || t[0] == '#'
}

// Indent returns the leading whitespace of the line
func (l Line) Indent() string {
	return l.Text[:len(l.Text)-len(strings.TrimLeft(l.Text, " \t"))]
}

// SplitLines splits source text into lines, keeping each line's terminator.
// Concatenating Text+EOL of every returned line yields src again.
func SplitLines(src string) []Line {
	var lines []Line
	var offset int64
	num := 1
	for len(src) > 0 {
		i := strings.IndexByte(src, '\n')
		var line Line
		if i < 0 {
			line = Line{Num: num, Offset: offset, Text: src}
			src = ""
		} else {
			text := src[:i]
			eol := "\n"
			if strings.HasSuffix(text, "\r") {
				text = text[:len(text)-1]
				eol = "\r\n"
			}
			line = Line{Num: num, Offset: offset, Text: text, EOL: eol}
			src = src[i+1:]
		}
		lines = append(lines, line)
		offset += int64(len(line.Text) + len(line.EOL))
		num++
	}
	return lines
}

// Token is a whitespace-separated word or a quoted string
type Token struct {
	Text   string // token text; quoted tokens include their quotes
	Quoted bool
	Pos    int // byte position within the input
}

// Fields splits s into tokens. Quoted strings may contain whitespace and
// backslash escapes. An unterminated quote is an error.
func Fields(s string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}

		start := i
		if c == '"' {
			i++
			closed := false
			for i < len(s) {
				if s[i] == '\\' && i+1 < len(s) {
					i += 2
					continue
				}
				if s[i] == '"' {
					i++
					closed = true
					break
				}
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string at position %d", start)
			}
			toks = append(toks, Token{Text: s[start:i], Quoted: true, Pos: start})
			continue
		}

		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		toks = append(toks, Token{Text: s[start:i], Pos: start})
	}
	return toks, nil
}

// SplitKey splits a trimmed line into its first word and the remainder
func SplitKey(line string) (key, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

// Quote returns s as a quoted string, escaping quotes, backslashes and braces
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\', '{', '}':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote strips the surrounding quotes of a quoted token and resolves
// backslash escapes. Input without quotes is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
