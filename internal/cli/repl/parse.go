package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ref names another dictionary in the session.
type ref string

var errUnterminated = errors.New("unterminated quoted string")

// tokenize splits a line on whitespace. Quoted tokens keep their quotes
// so that parseValue can tell '1' from 1.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote byte
	escaped := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			cur.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
		case ch == ' ' || ch == '\t':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			if ch == '\'' || ch == '"' {
				quote = ch
			}
			cur.WriteByte(ch)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errUnterminated
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// parseValue converts one token to a value.
func parseValue(tok string) (any, error) {
	if n := len(tok); n >= 2 && (tok[0] == '\'' || tok[0] == '"') && tok[n-1] == tok[0] {
		return unquote(tok[1:n-1]), nil
	}
	switch tok {
	case "None":
		return nil, nil
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	}
	if strings.HasPrefix(tok, "@") && len(tok) > 1 {
		return ref(tok[1:]), nil
	}
	if i, err := strconv.Atoi(tok); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return tok, nil
}

// unquote resolves backslash escapes inside a quoted token.
func unquote(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
