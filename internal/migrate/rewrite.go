package migrate

import (
	"fmt"
	"strings"

	"mdbconv/internal/config"
)

// Rewriter renders replacement statements.
type Rewriter struct {
	cfg config.RewriteConfig
}

func NewRewriter(cfg config.RewriteConfig) Rewriter {
	return Rewriter{cfg: cfg}
}

// Declaration is the line that declares the message variable.
func (r Rewriter) Declaration() string {
	return r.cfg.Declaration
}

// Statement builds the message from template and the call's arguments, then
// emits it with the call's severity. An empty template yields an empty message.
//
//	mdb_message = QString("tmpl").arg(a).arg(b); qCritical() << mdb_message;
func (r Rewriter) Statement(call Call, template string) string {
	var b strings.Builder
	b.WriteString(call.Indent)
	fmt.Fprintf(&b, "%s = %s(%s)", r.cfg.Variable, r.cfg.Constructor, template)
	for _, arg := range call.Args {
		fmt.Fprintf(&b, ".%s(%s)", r.cfg.ArgMethod, arg)
	}
	b.WriteString(terminator)
	fmt.Fprintf(&b, " %s() << %s%s", call.Severity, r.cfg.Variable, terminator)
	if call.Trailing != "" {
		b.WriteString(" ")
		b.WriteString(call.Trailing)
	}
	return b.String()
}
