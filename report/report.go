// Package report formats parse errors for people, showing the offending
// source line with a caret under the error column.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andrewchambers/cparse/lex"
	"github.com/andrewchambers/cparse/parse"
)

// tabWidth is the width a tab is expanded to.
const tabWidth = 4

// Write writes err to w followed, when err carries a position, by the
// line of src holding it and a caret line. The line is found by byte
// offset, so positions moved by line markers still point at the right
// text.
func Write(w io.Writer, err error, src string) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, err)
	fmt.Fprintln(w, "")
	off, ok := errorOffset(err)
	if !ok || off > len(src) {
		return
	}
	b := bufio.NewReader(strings.NewReader(src))
	start := 0
	for {
		text, err := b.ReadString('\n')
		end := start + len(text)
		if off < end || err != nil {
			text = strings.TrimRight(text, "\r\n")
			fmt.Fprintln(w, strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth)))
			fmt.Fprintln(w, strings.Repeat(" ", caretOffset(text, off-start))+"^")
			return
		}
		start = end
	}
}

func errorOffset(err error) (int, bool) {
	var perr *parse.Error
	if errors.As(err, &perr) {
		return perr.Pos.Offset, perr.Pos.Line > 0
	}
	var lerr lex.ErrorLoc
	if errors.As(err, &lerr) {
		return lerr.Pos.Offset, lerr.Pos.Line > 0
	}
	return 0, false
}

// caretOffset is the display width of the first n bytes of text.
func caretOffset(text string, n int) int {
	width := 0
	for i, v := range text {
		if i >= n {
			break
		}
		switch v {
		case '\t':
			width += tabWidth
		default:
			width += 1
		}
	}
	return width
}
