package lex

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"modernc.org/token"
)

// Lexer turns preprocessed C source into tokens, one token per call to Next.
// It does not know about typedef names, every identifier is reported as
// IDENT and the parser reclassifies it.
type Lexer struct {
	src  string
	file *token.File
	// Offset of the next rune to read.
	off int
	// Offset before the last read, used to unread a single rune.
	lastOff   int
	markedOff int
	lastChar  rune
	// At the beginning on line not including whitespace.
	bol bool
	// Set to true if we have hit the end of file.
	eof bool
	// Token produced by the current step of the state machine.
	tok *Token

	err    error
	errTok *Token
}

type breakout struct{}

// New returns a lexer over src.
// fname is used for error messages when showing the source location.
// No preprocessing is done, line markers emitted by a preprocessor are
// honoured so positions refer to the original files.
func New(fname string, src string) *Lexer {
	lx := new(Lexer)
	lx.src = src
	lx.file = token.NewFile(fname, len(src))
	lx.bol = true
	return lx
}

// Next returns the next token. Once an error has been returned, every
// later call returns the same error.
func (lx *Lexer) Next() (tok *Token, err error) {
	if lx.err != nil {
		return lx.errTok, lx.err
	}
	defer func() {
		if e := recover(); e != nil {
			_ = e.(*breakout) // Will re-panic if not a breakout.
			tok = lx.errTok
			err = lx.err
		}
	}()
	lx.tok = nil
	for lx.tok == nil {
		lx.lexOne()
	}
	return lx.tok, nil
}

// Filename is the file the lexer is currently in, as set by the last line
// marker, or the name it was created with.
func (lx *Lexer) Filename() string {
	return lx.position(lx.off).File
}

func (lx *Lexer) position(off int) FilePos {
	p := lx.file.PositionFor(lx.file.Pos(off), true)
	return FilePos{
		File:   p.Filename,
		Line:   p.Line,
		Col:    p.Column,
		Offset: off,
	}
}

func (lx *Lexer) markPos() {
	lx.markedOff = lx.off
}

func (lx *Lexer) sendTok(kind TokenKind, val string) {
	var tok Token
	tok.Kind = kind
	tok.Val = val
	tok.Pos = lx.position(lx.markedOff)
	lx.bol = false
	lx.tok = &tok
}

func (lx *Lexer) unreadRune() {
	lx.off = lx.lastOff
	if lx.lastChar == '\n' {
		lx.bol = false
	}
}

func (lx *Lexer) readRune() (rune, bool) {
	lx.lastOff = lx.off
	if lx.off >= len(lx.src) {
		lx.eof = true
		lx.lastChar = 0
		return 0, true
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += w
	if r == '\n' {
		lx.file.AddLine(lx.off)
		lx.bol = true
	}
	lx.lastChar = r
	return r, false
}

func (lx *Lexer) peekRune() rune {
	if lx.off >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
	return r
}

func (lx *Lexer) Error(e string) {
	pos := lx.position(lx.lastOff)
	lx.err = ErrWithLoc(errors.New(e), pos)
	lx.errTok = &Token{Kind: ERROR, Val: e, Pos: pos}
	//recover exits the lexer cleanly
	panic(&breakout{})
}

func (lx *Lexer) lexOne() {
	bol := lx.bol
	lx.markPos()
	first, eof := lx.readRune()
	if eof {
		lx.sendTok(EOF, "")
		return
	}
	switch {
	case first == 'L' && (lx.peekRune() == '\'' || lx.peekRune() == '"'):
		if lx.peekRune() == '\'' {
			lx.readCChar("L", WCHAR_CONSTANT)
		} else {
			lx.readCString("L", WSTRING)
		}
	case isAlpha(first) || first == '_':
		lx.unreadRune()
		lx.readIdentOrKeyword()
	case isNumeric(first):
		lx.unreadRune()
		lx.readConstantIntOrFloat(false)
	case isWhiteSpace(first):
		lx.unreadRune()
		lx.skipWhiteSpace()
	default:
		switch first {
		case '#':
			if bol {
				lx.readDirective()
			} else {
				lx.sendTok(HASH, "#")
			}
		case '!':
			second, _ := lx.readRune()
			switch second {
			case '=':
				lx.sendTok(NEQ, "!=")
			default:
				lx.unreadRune()
				lx.sendTok(NOT, "!")
			}
		case '?':
			lx.sendTok(QUESTION, "?")
		case ':':
			lx.sendTok(COLON, ":")
		case '\'':
			lx.unreadRune()
			lx.readCChar("", CHAR_CONSTANT)
		case '"':
			lx.unreadRune()
			lx.readCString("", STRING)
		case '(':
			lx.sendTok(LPAREN, "(")
		case ')':
			lx.sendTok(RPAREN, ")")
		case '{':
			lx.sendTok(LBRACE, "{")
		case '}':
			lx.sendTok(RBRACE, "}")
		case '[':
			lx.sendTok(LBRACK, "[")
		case ']':
			lx.sendTok(RBRACK, "]")
		case '<':
			second, _ := lx.readRune()
			switch second {
			case '<':
				third, _ := lx.readRune()
				if third == '=' {
					lx.sendTok(SHL_ASSIGN, "<<=")
				} else {
					lx.unreadRune()
					lx.sendTok(SHL, "<<")
				}
			case '=':
				lx.sendTok(LEQ, "<=")
			default:
				lx.unreadRune()
				lx.sendTok(LSS, "<")
			}
		case '>':
			second, _ := lx.readRune()
			switch second {
			case '>':
				third, _ := lx.readRune()
				if third == '=' {
					lx.sendTok(SHR_ASSIGN, ">>=")
				} else {
					lx.unreadRune()
					lx.sendTok(SHR, ">>")
				}
			case '=':
				lx.sendTok(GEQ, ">=")
			default:
				lx.unreadRune()
				lx.sendTok(GTR, ">")
			}
		case '+':
			second, _ := lx.readRune()
			switch second {
			case '+':
				lx.sendTok(INC, "++")
			case '=':
				lx.sendTok(ADD_ASSIGN, "+=")
			default:
				lx.unreadRune()
				lx.sendTok(ADD, "+")
			}
		case '.':
			if strings.HasPrefix(lx.src[lx.off:], "..") {
				lx.off += 2
				lx.sendTok(ELLIPSIS, "...")
				break
			}
			if isNumeric(lx.peekRune()) {
				lx.readConstantIntOrFloat(true)
			} else {
				lx.sendTok(PERIOD, ".")
			}
		case '~':
			lx.sendTok(BNOT, "~")
		case '^':
			second, _ := lx.readRune()
			switch second {
			case '=':
				lx.sendTok(XOR_ASSIGN, "^=")
			default:
				lx.unreadRune()
				lx.sendTok(XOR, "^")
			}
		case '-':
			second, _ := lx.readRune()
			switch second {
			case '>':
				lx.sendTok(ARROW, "->")
			case '-':
				lx.sendTok(DEC, "--")
			case '=':
				lx.sendTok(SUB_ASSIGN, "-=")
			default:
				lx.unreadRune()
				lx.sendTok(SUB, "-")
			}
		case ',':
			lx.sendTok(COMMA, ",")
		case '*':
			second, _ := lx.readRune()
			switch second {
			case '=':
				lx.sendTok(MUL_ASSIGN, "*=")
			default:
				lx.unreadRune()
				lx.sendTok(MUL, "*")
			}
		case '\\':
			r, _ := lx.readRune()
			if r == '\r' {
				r, _ = lx.readRune()
			}
			if r == '\n' {
				break
			}
			lx.Error("misplaced '\\'")
		case '/':
			second, _ := lx.readRune()
			switch second {
			case '*':
				for {
					c, eof := lx.readRune()
					if eof {
						lx.Error("unclosed comment")
					}
					if c == '*' {
						closeBar, eof := lx.readRune()
						if eof {
							lx.Error("unclosed comment")
						}
						if closeBar == '/' {
							break
						}
						//Unread so that we dont lose a '*' before the '/'.
						lx.unreadRune()
					}
				}
			case '/':
				for {
					c, eof := lx.readRune()
					if c == '\n' || eof {
						break
					}
				}
			case '=':
				lx.sendTok(QUO_ASSIGN, "/=")
			default:
				lx.unreadRune()
				lx.sendTok(QUO, "/")
			}
		case '%':
			second, _ := lx.readRune()
			switch second {
			case '=':
				lx.sendTok(REM_ASSIGN, "%=")
			default:
				lx.unreadRune()
				lx.sendTok(REM, "%")
			}
		case '|':
			second, _ := lx.readRune()
			switch second {
			case '|':
				lx.sendTok(LOR, "||")
			case '=':
				lx.sendTok(OR_ASSIGN, "|=")
			default:
				lx.unreadRune()
				lx.sendTok(OR, "|")
			}
		case '&':
			second, _ := lx.readRune()
			switch second {
			case '&':
				lx.sendTok(LAND, "&&")
			case '=':
				lx.sendTok(AND_ASSIGN, "&=")
			default:
				lx.unreadRune()
				lx.sendTok(AND, "&")
			}
		case '=':
			second, _ := lx.readRune()
			switch second {
			case '=':
				lx.sendTok(EQL, "==")
			default:
				lx.unreadRune()
				lx.sendTok(ASSIGN, "=")
			}
		case ';':
			lx.sendTok(SEMICOLON, ";")
		default:
			lx.Error(fmt.Sprintf("illegal character %q", first))
		}
	}
}

// readDirective handles a line starting with '#'. Line markers left by the
// preprocessor are absorbed, #pragma becomes a PRAGMA token and any other
// directive is passed on for the parser to reject.
func (lx *Lexer) readDirective() {
	lx.skipLineSpace()
	r := lx.peekRune()
	switch {
	case isNumeric(r):
		lx.readLineMarker()
	case isAlpha(r):
		var buff bytes.Buffer
		for isValidIdentTail(lx.peekRune()) {
			c, _ := lx.readRune()
			buff.WriteRune(c)
		}
		directive := buff.String()
		switch directive {
		case "line":
			lx.skipLineSpace()
			if !isNumeric(lx.peekRune()) {
				lx.Error("invalid #line directive")
			}
			lx.readLineMarker()
		case "pragma":
			lx.skipLineSpace()
			lx.sendTok(PRAGMA, strings.TrimSpace(lx.readRestOfLine()))
		default:
			lx.readRestOfLine()
			lx.sendTok(DIRECTIVE, directive)
		}
	default:
		// Null directive.
		lx.readRestOfLine()
	}
}

// readLineMarker reads `N "file" flags...` and makes the next line N of file.
func (lx *Lexer) readLineMarker() {
	var buff bytes.Buffer
	for isNumeric(lx.peekRune()) {
		c, _ := lx.readRune()
		buff.WriteRune(c)
	}
	line, err := strconv.Atoi(buff.String())
	if err != nil {
		lx.Error("invalid line number in line marker")
	}
	fname := lx.position(lx.off).File
	lx.skipLineSpace()
	if lx.peekRune() == '"' {
		lx.readRune()
		buff.Reset()
		for {
			c, eof := lx.readRune()
			if eof || c == '\n' {
				lx.Error("unterminated file name in line marker")
			}
			if c == '"' {
				break
			}
			buff.WriteRune(c)
		}
		fname = buff.String()
	}
	lx.readRestOfLine()
	if !lx.eof {
		lx.file.AddLineInfo(lx.off, fname, line)
	}
}

func (lx *Lexer) readRestOfLine() string {
	var buff bytes.Buffer
	for {
		c, eof := lx.readRune()
		if eof || c == '\n' {
			break
		}
		buff.WriteRune(c)
	}
	return buff.String()
}

func (lx *Lexer) skipLineSpace() {
	for {
		r := lx.peekRune()
		if r != ' ' && r != '\t' {
			return
		}
		lx.readRune()
	}
}

func (lx *Lexer) readIdentOrKeyword() {
	var buff bytes.Buffer
	lx.markPos()
	first, _ := lx.readRune()
	if !isValidIdentStart(first) {
		panic("internal error")
	}
	buff.WriteRune(first)
	for {
		b, eof := lx.readRune()
		if !eof && isValidIdentTail(b) {
			buff.WriteRune(b)
		} else {
			lx.unreadRune()
			str := buff.String()
			tokType, ok := keywordLUT[str]
			if !ok {
				tokType = IDENT
			}
			lx.sendTok(tokType, str)
			break
		}
	}
}

func (lx *Lexer) skipWhiteSpace() {
	for {
		r, eof := lx.readRune()
		if eof || !isWhiteSpace(r) {
			lx.unreadRune()
			break
		}
	}
}

// Due to the 1 character lookahead we need this bool
func (lx *Lexer) readConstantIntOrFloat(startedWithPeriod bool) {
	var buff bytes.Buffer
	const (
		START = iota
		SECOND
		HEX
		BIN
		DEC
		FLOAT_START
		HEX_FLOAT
		FLOAT_AFTER_E
		FLOAT_AFTER_E_SIGN
		INT_TAIL
		FLOAT_TAIL
		END
	)
	var tokType TokenKind
	var state int
	if startedWithPeriod {
		state = FLOAT_START
		tokType = FLOAT_CONSTANT
		buff.WriteRune('.')
	} else {
		state = START
		tokType = INT_CONSTANT
	}
	for state != END {
		r, eof := lx.readRune()
		if eof {
			state = END
			break
		}
		switch state {
		case START:
			if !isNumeric(r) {
				lx.Error("internal error")
			}
			buff.WriteRune(r)
			state = SECOND
		case SECOND:
			leadingZero := buff.String() == "0"
			if (r == 'x' || r == 'X') && leadingZero {
				state = HEX
				buff.WriteRune(r)
			} else if (r == 'b' || r == 'B') && leadingZero {
				state = BIN
				buff.WriteRune(r)
			} else if isNumeric(r) {
				state = DEC
				buff.WriteRune(r)
			} else {
				state = lx.decimalTail(r, &buff, &tokType, DEC, INT_TAIL, FLOAT_START, FLOAT_AFTER_E, END)
			}
		case DEC:
			if isNumeric(r) {
				buff.WriteRune(r)
			} else {
				state = lx.decimalTail(r, &buff, &tokType, DEC, INT_TAIL, FLOAT_START, FLOAT_AFTER_E, END)
			}
		case HEX:
			if isHexDigit(r) {
				buff.WriteRune(r)
				break
			}
			switch r {
			case 'l', 'L', 'u', 'U':
				state = INT_TAIL
				buff.WriteRune(r)
			case '.':
				state = HEX_FLOAT
				tokType = FLOAT_CONSTANT
				buff.WriteRune(r)
			case 'p', 'P':
				state = FLOAT_AFTER_E
				tokType = FLOAT_CONSTANT
				buff.WriteRune(r)
			default:
				if isValidIdentStart(r) {
					lx.Error("invalid constant int")
				}
				state = END
			}
		case BIN:
			switch r {
			case '0', '1':
				buff.WriteRune(r)
			case 'l', 'L', 'u', 'U':
				state = INT_TAIL
				buff.WriteRune(r)
			default:
				if isValidIdentTail(r) {
					lx.Error("invalid constant int")
				}
				state = END
			}
		case INT_TAIL:
			switch r {
			case 'l', 'L', 'u', 'U':
				buff.WriteRune(r)
			default:
				if isValidIdentTail(r) {
					lx.Error("invalid constant int")
				}
				state = END
			}
		case FLOAT_START:
			if isNumeric(r) {
				buff.WriteRune(r)
				break
			}
			switch r {
			case 'e', 'E':
				state = FLOAT_AFTER_E
				buff.WriteRune(r)
			case 'l', 'L', 'f', 'F':
				state = FLOAT_TAIL
				buff.WriteRune(r)
			default:
				if isValidIdentStart(r) {
					lx.Error("invalid floating point constant")
				}
				state = END
			}
		case HEX_FLOAT:
			if isHexDigit(r) {
				buff.WriteRune(r)
			} else if r == 'p' || r == 'P' {
				state = FLOAT_AFTER_E
				buff.WriteRune(r)
			} else {
				lx.Error("invalid hex float constant - expected exponent")
			}
		case FLOAT_AFTER_E:
			if r == '-' || r == '+' || isNumeric(r) {
				state = FLOAT_AFTER_E_SIGN
				buff.WriteRune(r)
			} else {
				lx.Error("invalid float constant - expected number or sign after exponent")
			}
		case FLOAT_AFTER_E_SIGN:
			if isNumeric(r) {
				buff.WriteRune(r)
				break
			}
			switch r {
			case 'l', 'L', 'f', 'F':
				buff.WriteRune(r)
				state = FLOAT_TAIL
			default:
				if isValidIdentStart(r) {
					lx.Error("invalid float constant")
				}
				state = END
			}
		case FLOAT_TAIL:
			switch r {
			case 'l', 'L', 'f', 'F':
				buff.WriteRune(r)
			default:
				if isValidIdentStart(r) {
					lx.Error("invalid float constant")
				}
				state = END
			}
		default:
			lx.Error("internal error")
		}
	}
	lx.unreadRune()
	if msg := checkConstant(tokType, buff.String()); msg != "" {
		lx.lastOff = lx.markedOff
		lx.Error(msg)
	}
	lx.sendTok(tokType, buff.String())
}

var intSuffixes = map[string]bool{
	"":    true,
	"u":   true,
	"l":   true,
	"ll":  true,
	"ul":  true,
	"lu":  true,
	"ull": true,
	"llu": true,
}

// checkConstant validates a complete numeric constant, returning an error
// message or "".
func checkConstant(kind TokenKind, val string) string {
	s := strings.ToLower(val)
	if kind == INT_CONSTANT {
		digits := s
		suffix := ""
		if i := strings.IndexAny(s, "ul"); i >= 0 {
			digits, suffix = s[:i], s[i:]
		}
		if !intSuffixes[suffix] {
			return "invalid constant int"
		}
		switch {
		case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0b"):
			if len(digits) == 2 {
				return "invalid constant int"
			}
		case len(digits) > 1 && digits[0] == '0':
			if strings.Trim(digits, "01234567") != "" {
				return "invalid octal constant"
			}
		}
		return ""
	}
	hex := strings.HasPrefix(s, "0x")
	// In a hex float an f before the exponent is a digit.
	if n := len(s); n > 0 && strings.IndexByte("fl", s[n-1]) >= 0 && (!hex || strings.Contains(s, "p")) {
		s = s[:n-1]
	}
	mantissa, exp := s, ""
	expMark := "e"
	if hex {
		mantissa = s[2:]
		expMark = "p"
	}
	if i := strings.Index(mantissa, expMark); i >= 0 {
		mantissa, exp = mantissa[:i], mantissa[i+1:]
		if exp != "" && (exp[0] == '+' || exp[0] == '-') {
			exp = exp[1:]
		}
		if exp == "" || strings.Trim(exp, "0123456789") != "" {
			return "invalid floating point constant"
		}
	} else if hex {
		return "invalid hex float constant - expected exponent"
	}
	digitSet := "0123456789"
	if hex {
		digitSet = "0123456789abcdef"
	}
	if strings.Count(mantissa, ".") > 1 || strings.Trim(strings.Replace(mantissa, ".", "", 1), digitSet) != "" || mantissa == "." || mantissa == "" {
		return "invalid floating point constant"
	}
	return ""
}

// decimalTail handles a non-digit after the digits of a decimal constant.
func (lx *Lexer) decimalTail(r rune, buff *bytes.Buffer, tokType *TokenKind, dec, intTail, floatStart, afterE, end int) int {
	switch r {
	case 'l', 'L', 'u', 'U':
		buff.WriteRune(r)
		return intTail
	case 'e', 'E':
		*tokType = FLOAT_CONSTANT
		buff.WriteRune(r)
		return afterE
	case '.':
		*tokType = FLOAT_CONSTANT
		buff.WriteRune(r)
		return floatStart
	}
	if isValidIdentStart(r) {
		lx.Error("invalid constant int")
	}
	return end
}

func (lx *Lexer) readCString(prefix string, kind TokenKind) {
	const (
		START = iota
		MID
		ESCAPED
		END
	)
	var buff bytes.Buffer
	var state int
	buff.WriteString(prefix)
	for state != END {
		r, eof := lx.readRune()
		if eof {
			lx.Error("eof in string literal")
		}
		switch state {
		case START:
			if r != '"' {
				lx.Error("internal error")
			}
			buff.WriteRune(r)
			state = MID
		case MID:
			switch r {
			case '\\':
				state = ESCAPED
			case '"':
				buff.WriteRune(r)
				state = END
			case '\n':
				lx.Error("newline in string literal")
			default:
				buff.WriteRune(r)
			}
		case ESCAPED:
			switch r {
			case '\r':
				// empty
			case '\n':
				state = MID
			default:
				buff.WriteRune('\\')
				buff.WriteRune(r)
				state = MID
			}
		}
	}
	lx.sendTok(kind, buff.String())
}

func (lx *Lexer) readCChar(prefix string, kind TokenKind) {
	const (
		START = iota
		MID
		ESCAPED
		END
	)
	var buff bytes.Buffer
	var state int
	buff.WriteString(prefix)
	for state != END {
		r, eof := lx.readRune()
		if eof {
			lx.Error("eof in char literal")
		}
		switch state {
		case START:
			if r != '\'' {
				lx.Error("internal error")
			}
			buff.WriteRune(r)
			state = MID
		case MID:
			switch r {
			case '\\':
				state = ESCAPED
			case '\'':
				if buff.Len() == len(prefix)+1 {
					lx.Error("empty char literal")
				}
				buff.WriteRune(r)
				state = END
			case '\n':
				lx.Error("newline in char literal")
			default:
				buff.WriteRune(r)
			}
		case ESCAPED:
			switch r {
			case '\r':
				// empty
			case '\n':
				state = MID
			default:
				buff.WriteRune('\\')
				buff.WriteRune(r)
				state = MID
			}
		}
	}
	lx.sendTok(kind, buff.String())
}

func isValidIdentTail(b rune) bool {
	return isValidIdentStart(b) || isNumeric(b) || b == '$'
}

func isValidIdentStart(b rune) bool {
	return b == '_' || isAlpha(b)
}

func isAlpha(b rune) bool {
	if b >= 'a' && b <= 'z' {
		return true
	}
	if b >= 'A' && b <= 'Z' {
		return true
	}
	return false
}

func isWhiteSpace(b rune) bool {
	return b == ' ' || b == '\r' || b == '\n' || b == '\t' || b == '\f' || b == '\v'
}

func isNumeric(b rune) bool {
	if b >= '0' && b <= '9' {
		return true
	}
	return false
}

func isHexDigit(b rune) bool {
	return isNumeric(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
