package migrate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotMigratable marks a line that names a logging call but does not have the
// shape the rewrite understands. Such lines pass through unchanged.
var ErrNotMigratable = errors.New("not a migratable statement")

// Call is a recognised single-line logging call:
//
//	<indent><severity>("TOKEN") << a << b;
//	<indent><severity>() << "TOKEN" << a << b;
type Call struct {
	Indent   string
	Severity string
	Token    string
	Args     []string
	Trailing string // a "// ..." comment after the terminator
}

// CallParser recognises calls to a fixed set of severity emitters.
type CallParser struct {
	re *regexp.Regexp
}

var tokenLiteralRe = regexp.MustCompile(`^"\s*(\w+)\s*"$`)

func NewCallParser(severities []string) *CallParser {
	return &CallParser{
		re: regexp.MustCompile(`^(\s*)(.*?)\b(` + alternation(severities) + `)\s*\(([^()]*)\)([^;]*);\s*(//.*)?$`),
	}
}

// Parse extracts the token and argument chain from line.
func (p *CallParser) Parse(line string) (Call, error) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return Call{}, fmt.Errorf("%w: no complete call", ErrNotMigratable)
	}
	indent, prefix, severity, inner, chain, trailing := m[1], m[2], m[3], strings.TrimSpace(m[4]), strings.TrimSpace(m[5]), m[6]
	if prefix != "" {
		return Call{}, fmt.Errorf("%w: code before %s", ErrNotMigratable, severity)
	}

	var operands []string
	if chain != "" {
		if !strings.HasPrefix(chain, "<<") {
			return Call{}, fmt.Errorf("%w: unexpected %q after %s(...)", ErrNotMigratable, chain, severity)
		}
		for _, op := range splitChain(chain)[1:] {
			if op == "" {
				return Call{}, fmt.Errorf("%w: empty operand", ErrNotMigratable)
			}
			operands = append(operands, op)
		}
	}

	call := Call{Indent: indent, Severity: severity, Trailing: trailing}
	switch {
	case inner != "":
		tm := tokenLiteralRe.FindStringSubmatch(inner)
		if tm == nil {
			return Call{}, fmt.Errorf("%w: %s argument is not a quoted token", ErrNotMigratable, severity)
		}
		call.Token = tm[1]
		call.Args = operands
	case len(operands) > 0:
		tm := tokenLiteralRe.FindStringSubmatch(operands[0])
		if tm == nil {
			return Call{}, fmt.Errorf("%w: first operand is not a quoted token", ErrNotMigratable)
		}
		call.Token = tm[1]
		call.Args = operands[1:]
	default:
		return Call{}, fmt.Errorf("%w: no quoted token", ErrNotMigratable)
	}
	return call, nil
}

// splitChain splits on "<<" outside parentheses and string literals. The first
// element is whatever precedes the first operator.
func splitChain(chain string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(chain); i++ {
		c := chain[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case depth == 0 && c == '<' && i+1 < len(chain) && chain[i+1] == '<':
			parts = append(parts, strings.TrimSpace(chain[start:i]))
			i++
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(chain[start:]))
}
