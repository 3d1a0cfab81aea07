package parse

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/andrewchambers/cparse/ast"
)

type tracer struct {
	l *log.Logger
}

// NewTracer returns an Observer that logs every reduction to w, one line
// per node.
func NewTracer(w io.Writer) Observer {
	return &tracer{l: log.New(w, "", 0)}
}

func (t *tracer) Reduced(rule string, n ast.Node) {
	t.l.Printf("%s: %s %s", n.GetPos(), rule, strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."))
}
