// Package printer formats types.Value as text: the inverse of the reader.
package printer

import (
	"strconv"
	"strings"

	"github.com/go-mal/mal/internal/types"
)

// PrStr renders v as text. When readable is true, strings are quoted and
// escaped so the result round-trips through the reader; when false,
// strings are emitted verbatim (the mode `println`/`str` use).
func PrStr(v types.Value, readable bool) string {
	var sb strings.Builder
	write(&sb, v, readable)
	return sb.String()
}

func write(sb *strings.Builder, v types.Value, readable bool) {
	switch x := v.(type) {
	case types.Nil:
		sb.WriteString("nil")
	case types.Int:
		sb.WriteString(strconv.FormatInt(x.Value, 10))
	case types.Float:
		sb.WriteString(strconv.FormatFloat(x.Value, 'g', -1, 64))
	case types.Bool:
		sb.WriteString(strconv.FormatBool(x.Value))
	case types.String:
		writeString(sb, x.Value, readable)
	case types.Symbol:
		sb.WriteString(x.Value)
	case types.Keyword:
		sb.WriteString(x.Value)
	case *types.List:
		writeSeq(sb, x.Items, "(", ")", readable)
	case *types.Vector:
		writeSeq(sb, x.Items, "[", "]", readable)
	case *types.Map:
		writeSeq(sb, x.Items, "{", "}", readable)
	case *types.Atom:
		sb.WriteString("(atom ")
		write(sb, x.Deref(), readable)
		sb.WriteString(")")
	case *types.Error:
		sb.WriteString(x.Message)
	case *types.Function:
		writeFunction(sb, x.Name, x.IsMacro)
	case *types.TCOFunction:
		writeFunction(sb, "", x.IsMacro)
	default:
		sb.WriteString("#<unknown>")
	}
}

func writeFunction(sb *strings.Builder, name string, isMacro bool) {
	if isMacro {
		sb.WriteString("#<macro")
	} else {
		sb.WriteString("#<function")
	}
	if name != "" {
		sb.WriteString(" ")
		sb.WriteString(name)
	}
	sb.WriteString(">")
}

func writeSeq(sb *strings.Builder, items []types.Value, open, close string, readable bool) {
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(" ")
		}
		write(sb, item, readable)
	}
	sb.WriteString(close)
}

func writeString(sb *strings.Builder, s string, readable bool) {
	if !readable {
		sb.WriteString(s)
		return
	}
	sb.WriteString(`"`)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(`"`)
}
