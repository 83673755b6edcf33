package parser

import (
	"bytes"

	"github.com/standardbeagle/stylecheck/internal/syntax"
)

type lexKind uint8

const (
	lexWord lexKind = iota // identifier, keyword, #directive or @attribute
	lexPunct
	lexNewline
	lexLiteral // string or number
	lexComment
)

// lexeme is the structure builder's view of the token stream.
type lexeme struct {
	kind    lexKind
	off     int
	end     int
	keyword bool
	text    string
}

type interpolation struct {
	multiline bool
	hashes    int
	parens    int
}

// swiftScanner classifies Swift source into syntax tokens and lexemes in a
// single pass. It never fails: unterminated strings and comments run to the
// end of the line or file.
type swiftScanner struct {
	src     []byte
	pos     int
	tokens  []syntax.Token
	lexemes []lexeme
	interp  []interpolation
}

func scanSwift(src []byte) *swiftScanner {
	s := &swiftScanner{src: src}
	s.run()
	return s
}

func (s *swiftScanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *swiftScanner) emit(tag syntax.Tag, start, end int) {
	if end > start {
		s.tokens = append(s.tokens, syntax.Token{Tag: tag, Offset: start, Length: end - start})
	}
}

func (s *swiftScanner) lex(kind lexKind, start, end int, keyword bool) {
	l := lexeme{kind: kind, off: start, end: end, keyword: keyword}
	if kind == lexWord || kind == lexPunct {
		l.text = string(s.src[start:end])
	}
	s.lexemes = append(s.lexemes, l)
}

func (s *swiftScanner) run() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.lex(lexNewline, s.pos, s.pos+1, false)
			s.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.lineComment()
		case c == '/' && s.peek(1) == '*':
			s.blockComment()
		case c == '"':
			s.stringLiteral(s.pos, 0)
		case c == '#' && (s.peek(1) == '"' || s.peek(1) == '#'):
			s.rawString()
		case c == '#' && isIdentStart(s.peek(1)):
			s.directive()
		case c == '@' && isIdentStart(s.peek(1)):
			start := s.pos
			s.pos++
			s.skipIdent()
			s.emit(syntax.TagAttribute, start, s.pos)
			s.lex(lexWord, start, s.pos, false)
		case c == '`':
			s.escapedIdent()
		case c == '$' && (isIdentByte(s.peek(1))):
			start := s.pos
			s.pos++
			s.skipIdent()
			s.emit(syntax.TagIdentifier, start, s.pos)
			s.lex(lexWord, start, s.pos, false)
		case isDigit(c):
			s.number()
		case isIdentStart(c):
			s.word()
		default:
			s.punct(c)
		}
	}
}

func (s *swiftScanner) punct(c byte) {
	if n := len(s.interp); n > 0 {
		top := &s.interp[n-1]
		switch c {
		case '(':
			top.parens++
		case ')':
			top.parens--
			if top.parens == 0 {
				st := *top
				s.interp = s.interp[:n-1]
				start := s.pos
				s.pos++
				s.stringBody(start, st.multiline, st.hashes)
				return
			}
		}
	}
	s.lex(lexPunct, s.pos, s.pos+1, false)
	s.pos++
}

func (s *swiftScanner) lineComment() {
	start := s.pos
	end := bytes.IndexByte(s.src[start:], '\n')
	if end < 0 {
		end = len(s.src)
	} else {
		end += start
	}
	text := s.src[start:end]

	switch {
	case bytes.HasPrefix(text, []byte("///")):
		s.emit(syntax.TagDocComment, start, end)
		s.docFields(start, text)
	case isMarkComment(text):
		s.emit(syntax.TagCommentMark, start, end)
	default:
		s.emit(syntax.TagComment, start, end)
	}
	s.urls(start, text)
	s.lex(lexComment, start, end, false)
	s.pos = end
}

func isMarkComment(text []byte) bool {
	body := bytes.TrimLeft(text[2:], " \t")
	return bytes.HasPrefix(body, []byte("MARK:"))
}

func (s *swiftScanner) blockComment() {
	start := s.pos
	s.pos += 2
	depth := 1
	for s.pos < len(s.src) && depth > 0 {
		switch {
		case s.src[s.pos] == '/' && s.peek(1) == '*':
			depth++
			s.pos += 2
		case s.src[s.pos] == '*' && s.peek(1) == '/':
			depth--
			s.pos += 2
		default:
			s.pos++
		}
	}
	text := s.src[start:s.pos]
	if bytes.HasPrefix(text, []byte("/**")) && !bytes.HasPrefix(text, []byte("/**/")) {
		s.emit(syntax.TagDocComment, start, s.pos)
		s.docFields(start, text)
	} else {
		s.emit(syntax.TagComment, start, s.pos)
	}
	s.urls(start, text)
	s.lex(lexComment, start, s.pos, false)
}

var docFieldMarkers = [][]byte{[]byte("- parameter"), []byte("- parameters:"), []byte("- returns:"), []byte("- throws:")}

// docFields tags "- parameter x:" style callouts inside a doc comment.
func (s *swiftScanner) docFields(base int, text []byte) {
	lower := bytes.ToLower(text)
	for _, marker := range docFieldMarkers {
		from := 0
		for {
			i := bytes.Index(lower[from:], marker)
			if i < 0 {
				break
			}
			at := from + i + 2 // skip "- "
			end := at + bytes.IndexAny(lower[at:], " :\n")
			if end < at {
				end = len(text)
			}
			s.emit(syntax.TagDocCommentField, base+at, base+end)
			from = end
		}
	}
}

// urls tags links inside a comment.
func (s *swiftScanner) urls(base int, text []byte) {
	for _, span := range urlSpans(text) {
		s.emit(syntax.TagCommentURL, base+span[0], base+span[1])
	}
}

// urlSpans finds scheme://rest runs in comment text.
func urlSpans(text []byte) [][2]int {
	var spans [][2]int
	from := 0
	for {
		i := bytes.Index(text[from:], []byte("://"))
		if i < 0 {
			return spans
		}
		at := from + i
		start := at
		for start > 0 && isLetter(text[start-1]) {
			start--
		}
		end := at + 3
		for end < len(text) && !isSpace(text[end]) {
			end++
		}
		if start < at {
			spans = append(spans, [2]int{start, end})
		}
		from = end
	}
}

func (s *swiftScanner) rawString() {
	start := s.pos
	hashes := 0
	for s.pos < len(s.src) && s.src[s.pos] == '#' {
		hashes++
		s.pos++
	}
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		// stray '#'
		s.pos = start
		s.lex(lexPunct, s.pos, s.pos+1, false)
		s.pos++
		return
	}
	s.stringLiteral(start, hashes)
}

// stringLiteral starts at the opening quote (after any raw-string hashes).
func (s *swiftScanner) stringLiteral(start, hashes int) {
	multiline := bytes.HasPrefix(s.src[s.pos:], []byte(`"""`))
	if multiline {
		s.pos += 3
	} else {
		s.pos++
	}
	s.stringBody(start, multiline, hashes)
}

// stringBody scans string content from s.pos; start is where the token
// being emitted begins. On "\(" the scanner returns to code mode and
// resumes the string when the interpolation's parentheses balance.
func (s *swiftScanner) stringBody(start int, multiline bool, hashes int) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\n' && !multiline {
			break
		}
		if c == '\\' && s.hasHashes(s.pos+1, hashes) {
			p := s.pos + 1 + hashes
			if p < len(s.src) && s.src[p] == '(' {
				s.emit(syntax.TagString, start, p+1)
				s.lex(lexLiteral, start, p+1, false)
				s.pos = p + 1
				s.interp = append(s.interp, interpolation{multiline: multiline, hashes: hashes, parens: 1})
				return
			}
			s.pos = p + 1
			continue
		}
		if c == '"' {
			quote := 1
			if multiline {
				quote = 3
			}
			if bytes.HasPrefix(s.src[s.pos:], []byte(`"""`)[:quote]) && s.hasHashes(s.pos+quote, hashes) {
				s.pos += quote + hashes
				s.emit(syntax.TagString, start, s.pos)
				s.lex(lexLiteral, start, s.pos, false)
				return
			}
		}
		s.pos++
	}
	// unterminated
	s.emit(syntax.TagString, start, s.pos)
	s.lex(lexLiteral, start, s.pos, false)
}

func (s *swiftScanner) hasHashes(at, n int) bool {
	if at+n > len(s.src) {
		return false
	}
	for i := 0; i < n; i++ {
		if s.src[at+i] != '#' {
			return false
		}
	}
	return true
}

func (s *swiftScanner) directive() {
	start := s.pos
	s.pos++
	s.skipIdent()
	name := string(s.src[start+1 : s.pos])
	if buildConfigDirectives[name] {
		s.emit(syntax.TagBuildConfig, start, s.pos)
	} else {
		s.emit(syntax.TagKeyword, start, s.pos)
	}
	s.lex(lexWord, start, s.pos, false)
}

func (s *swiftScanner) escapedIdent() {
	start := s.pos
	end := bytes.IndexByte(s.src[start+1:], '`')
	if end < 0 || bytes.IndexByte(s.src[start+1:start+1+end], '\n') >= 0 {
		s.lex(lexPunct, start, start+1, false)
		s.pos++
		return
	}
	s.pos = start + 1 + end + 1
	s.emit(syntax.TagIdentifier, start, s.pos)
	s.lex(lexWord, start, s.pos, false)
}

func (s *swiftScanner) word() {
	start := s.pos
	s.skipIdent()
	text := string(s.src[start:s.pos])
	afterDot := start > 0 && s.src[start-1] == '.'

	switch {
	case swiftKeywords[text] && !afterDot:
		s.emit(syntax.TagKeyword, start, s.pos)
		s.lex(lexWord, start, s.pos, true)
		return
	case text[0] >= 'A' && text[0] <= 'Z':
		s.emit(syntax.TagTypeIdentifier, start, s.pos)
	default:
		s.emit(syntax.TagIdentifier, start, s.pos)
	}
	s.lex(lexWord, start, s.pos, false)
}

func (s *swiftScanner) number() {
	start := s.pos
	hex := s.src[s.pos] == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X')
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isIdentByte(c):
			s.pos++
		case c == '.' && isDigit(s.peek(1)):
			s.pos++
		case (c == '+' || c == '-') && !hex && s.pos > start && (s.src[s.pos-1] == 'e' || s.src[s.pos-1] == 'E'):
			s.pos++
		default:
			s.emit(syntax.TagNumber, start, s.pos)
			s.lex(lexLiteral, start, s.pos, false)
			return
		}
	}
	s.emit(syntax.TagNumber, start, s.pos)
	s.lex(lexLiteral, start, s.pos, false)
}

func (s *swiftScanner) skipIdent() {
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || isLetter(c) || c >= 0x80
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
