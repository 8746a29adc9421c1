package sun

import "strings"

const formatIndent = "  "

// FormatSource normalizes line endings, strips trailing whitespace and
// re-indents every block body by two spaces. Lines that continue a string
// literal are left exactly as written. Source that fails to tokenize is
// returned unchanged along with the LexError.
func FormatSource(source string) (string, error) {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var (
		lead     = make(map[int]TokenType)
		delta    = make(map[int]int)
		keepHead = make(map[int]bool)
		keepTail = make(map[int]bool)
	)
	l := newLexer(normalized)
	for {
		tok := l.NextToken()
		if tok.Type == tokenIllegal {
			return source, lexError(normalized, tok)
		}
		if tok.Type == tokenEOF {
			break
		}
		line := tok.Pos.Line
		if _, seen := lead[line]; !seen {
			lead[line] = tok.Type
		}
		switch {
		case opensBlock(tok.Type):
			delta[line]++
		case closesBlock(tok.Type):
			delta[line]--
		case tok.Type == tokenString:
			end := l.lastLine()
			for n := line; n < end; n++ {
				keepTail[n] = true
				keepHead[n+1] = true
			}
		}
	}

	lines := strings.Split(normalized, "\n")
	out := make([]string, 0, len(lines))
	depth := 0
	for i, line := range lines {
		n := i + 1
		if !keepTail[n] {
			line = strings.TrimRight(line, " \t")
		}
		if keepHead[n] {
			out = append(out, line)
			depth = max(depth+delta[n], 0)
			continue
		}
		line = strings.TrimLeft(line, " \t")
		tt, ok := lead[n]
		if !ok {
			out = append(out, line)
			continue
		}

		level := depth
		if closesBlock(tt) || tt == tokenElse {
			level = max(level-1, 0)
		}
		out = append(out, strings.Repeat(formatIndent, level)+line)
		depth = max(depth+delta[n], 0)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n", nil
}

func opensBlock(tt TokenType) bool {
	switch tt {
	case tokenIf, tokenLoop, tokenWhile, tokenFunction, tokenStart:
		return true
	}
	return false
}

func closesBlock(tt TokenType) bool {
	switch tt {
	case tokenEndIf, tokenLoopEnd, tokenWhileEnd, tokenEnd:
		return true
	}
	return false
}

// OpenBlocks counts the blocks source opens without closing. Input that does
// not tokenize counts as complete.
func OpenBlocks(source string) int {
	tokens, err := Tokenize(source)
	if err != nil {
		return 0
	}
	depth := 0
	for _, tok := range tokens {
		switch {
		case opensBlock(tok.Type):
			depth++
		case closesBlock(tok.Type):
			depth--
		}
	}
	return max(depth, 0)
}
