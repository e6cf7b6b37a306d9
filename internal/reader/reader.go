// Package reader implements the mal tokenizer and recursive-descent parser:
// text in, a single types.Value (typically a *types.List) out.
package reader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-mal/mal/internal/types"
)

// tokenRe recognizes, in order of preference within each match: "~@", any
// of the single special characters, a (possibly unterminated) double-quoted
// string, a ";" line comment, or a run of non-whitespace/non-special
// characters. Whitespace and commas act as separators: they are matched by
// the leading [\s,]* outside the capture group, and tokenize keeps only the
// captured text.
var tokenRe = regexp.MustCompile(`[\s,]*(~@|[\[\]{}()'` + "`" + `~^@]|"(?:\\.|[^\\"])*"?|;.*|[^\s\[\]{}('"` + "`" + `,;)]*)`)

// Reader holds a token list and a read cursor.
type Reader struct {
	tokens []string
	pos    int
}

// New tokenizes input and returns a Reader positioned at the first token.
func New(input string) *Reader {
	return &Reader{tokens: tokenize(input)}
}

func tokenize(input string) []string {
	matches := tokenRe.FindAllStringSubmatch(input, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tok := m[1]
		if tok == "" || strings.HasPrefix(tok, ";") {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Peek returns the current token without consuming it, or "" at end of
// input.
func (r *Reader) Peek() string {
	if r.pos >= len(r.tokens) {
		return ""
	}
	return r.tokens[r.pos]
}

// Next returns the current token and advances the cursor.
func (r *Reader) Next() string {
	tok := r.Peek()
	r.pos++
	return tok
}

// ReadStr tokenizes and parses a single form from input.
func ReadStr(input string) (types.Value, error) {
	r := New(input)
	if r.Peek() == "" {
		return types.NilValue, nil
	}
	return r.ReadForm()
}

var wrapSymbols = map[string]string{
	"'":   "quote",
	"`":   "quasiquote",
	"~":   "unquote",
	"~@":  "splice-unquote",
	"@":   "deref",
}

// ReadForm dispatches on the next token.
func (r *Reader) ReadForm() (types.Value, error) {
	switch tok := r.Peek(); tok {
	case "(":
		r.Next()
		items, err := r.readSeq(")")
		if err != nil {
			return nil, err
		}
		return &types.List{Items: items}, nil
	case "[":
		r.Next()
		items, err := r.readSeq("]")
		if err != nil {
			return nil, err
		}
		return &types.Vector{Items: items}, nil
	case "{":
		r.Next()
		items, err := r.readSeq("}")
		if err != nil {
			return nil, err
		}
		return &types.Map{Items: items}, nil
	case ")", "]", "}":
		r.Next()
		return types.NilValue, nil
	case "^":
		r.Next()
		meta, err := r.ReadForm()
		if err != nil {
			return nil, err
		}
		target, err := r.ReadForm()
		if err != nil {
			return nil, err
		}
		return types.NewList(types.Symbol{Value: "with-meta"}, target, meta), nil
	case "'", "`", "~", "~@", "@":
		r.Next()
		inner, err := r.ReadForm()
		if err != nil {
			return nil, err
		}
		return types.NewList(types.Symbol{Value: wrapSymbols[tok]}, inner), nil
	default:
		r.Next()
		return readAtom(tok), nil
	}
}

// readSeq reads forms until it sees closer or runs out of tokens
// (tolerant of a missing closer), consuming the closer if present.
func (r *Reader) readSeq(closer string) ([]types.Value, error) {
	var items []types.Value
	for {
		tok := r.Peek()
		if tok == "" {
			return items, nil
		}
		if tok == closer {
			r.Next()
			return items, nil
		}
		form, err := r.ReadForm()
		if err != nil {
			return nil, err
		}
		items = append(items, form)
	}
}

func readAtom(tok string) types.Value {
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return types.Int{Value: i}
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return types.Float{Value: f}
	}
	switch tok {
	case "true":
		return types.True
	case "false":
		return types.False
	case "nil":
		return types.NilValue
	}
	if strings.HasPrefix(tok, `"`) {
		return types.String{Value: unescapeString(tok)}
	}
	if strings.HasPrefix(tok, ":") {
		return types.Keyword{Value: tok}
	}
	return types.Symbol{Value: tok}
}

// unescapeString strips the surrounding quotes (tolerating a missing
// closing quote) and unescapes \n, \t, \\ and \<c> for any other <c>.
func unescapeString(tok string) string {
	body := tok[1:]
	if strings.HasSuffix(body, `"`) {
		body = body[:len(body)-1]
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(body[i])
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
