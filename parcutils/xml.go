// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  xml.go
//
// ==========================================================================

package parcutils

import (
	"bytes"
	"html"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// XML token type
const (
	NOTAG = iota
	STARTTAG
	SELFTAG
	STOPTAG
	CONTENTTAG
	CDATATAG
	COMMENTTAG
	DOCTYPETAG
	PROCESSTAG
	ISCLOSED
)

// XMLToken is the unit of XML parsing. Name holds the element name for tags,
// or the text of content, CDATA, comment, DOCTYPE, and processing sections.
// Attr holds the raw attribute string of a start or self-closing tag.
type XMLToken struct {
	Tag  int
	Name string
	Attr string
	Line int
}

// 65536 appears to be the maximum number of characters presented to io.Reader
// when input is piped from stdin. An additional 16384 bytes are reserved for
// copying the previous remainder to the beginning of the buffer.
const xmlBufSize = 65536 + 16384

// XMLTokenizer is a forward-only pull parser. Input is read in large blocks
// that are trimmed back to the last right angle bracket, with the excluded
// characters prepended to the next block, so that most tokens are found
// without crossing a block boundary. Tokens that do cross are handled by
// appending the next block to the unconsumed text.
type XMLTokenizer struct {
	in        io.Reader
	buffer    []byte
	remainder string
	isClosed  bool
	started   bool

	// unconsumed text begins at idx
	text string
	idx  int
	line int

	err error
}

// NewXMLTokenizer returns a tokenizer reading from the given stream
func NewXMLTokenizer(in io.Reader) *XMLTokenizer {

	return &XMLTokenizer{
		in:     in,
		buffer: make([]byte, xmlBufSize),
		line:   1,
	}
}

// Line returns the current line number
func (t *XMLTokenizer) Line() int {

	return t.line
}

// nextBuffer reads one buffer, trims back to the right-most > character, and
// retains the remainder for prepending in the next call. It also signals if
// there was no > character, so that the caller continues reading a large
// content string.
func (t *XMLTokenizer) nextBuffer() ([]byte, bool, bool) {

	if t.isClosed {
		return nil, false, true
	}

	// prepend previous remainder to beginning of buffer
	m := copy(t.buffer, t.remainder)
	t.remainder = ""
	if m > 16384 {
		// previous remainder is larger than reserved section,
		// write and signal the need to continue reading
		return t.buffer[:m], true, false
	}

	n, err := t.in.Read(t.buffer[m:])
	if err != nil {
		if err != io.EOF {
			// non-conforming implementations of io.Reader may return mangled data on non-EOF errors
			t.err = errors.Wrapf(ErrTokenizer, "read failed near line %d: %s", t.line, err.Error())
			t.isClosed = true
			return nil, false, true
		}
		t.isClosed = true
	}
	if n < 0 {
		// reality check - non-conforming implementations of io.Reader may return -1
		n = 0
	}

	bufr := t.buffer[:n+m]

	if t.isClosed {
		if len(bufr) == 0 {
			return nil, false, true
		}
		// final block is sent in full, an unterminated tail is reported by the tokenizer
		return bufr, false, false
	}

	// safe to back up on UTF-8 rune array when looking for a 7-bit ASCII character
	pos := bytes.LastIndexByte(bufr, '>')
	if pos > -1 {
		pos++
		t.remainder = string(bufr[pos:])
		return bufr[:pos], false, false
	}

	// no > found, signal need to continue reading long content
	return bufr, true, false
}

// nextBlock reads buffers, concatenating if necessary to place long element
// content into a single string
func (t *XMLTokenizer) nextBlock() (string, bool) {

	line, cont, closed := t.nextBuffer()
	if closed {
		return "", false
	}

	if !cont {
		return string(line), true
	}

	var buff bytes.Buffer

	for {
		buff.Write(line)
		if !cont {
			break
		}
		line, cont, closed = t.nextBuffer()
		if closed {
			break
		}
	}

	return buff.String(), true
}

// more appends the next block to the unconsumed text, returning false at end of input
func (t *XMLTokenizer) more() bool {

	if t.err != nil {
		return false
	}

	blk, ok := t.nextBlock()
	if !ok {
		return false
	}

	if !t.started {
		t.started = true
		// trim leading byte order mark
		blk = strings.TrimPrefix(blk, "\ufeff")
	}

	t.text = t.text[t.idx:] + blk
	t.idx = 0

	return true
}

// need makes at least n unconsumed characters available
func (t *XMLTokenizer) need(n int) bool {

	for len(t.text)-t.idx < n {
		if !t.more() {
			return false
		}
	}

	return true
}

// hasPrefix checks the unconsumed text, reading ahead if necessary
func (t *XMLTokenizer) hasPrefix(pfx string) bool {

	return t.need(len(pfx)) && strings.HasPrefix(t.text[t.idx:], pfx)
}

// find returns the offset of pat relative to the start of unconsumed text,
// searching from offset from and reading ahead as needed
func (t *XMLTokenizer) find(from int, pat string) int {

	for {
		if t.idx+from <= len(t.text) {
			pos := strings.Index(t.text[t.idx+from:], pat)
			if pos >= 0 {
				return from + pos
			}
		}
		// resume where a match could still begin
		scanned := len(t.text) - t.idx - len(pat) + 1
		if scanned > from {
			from = scanned
		}
		if !t.more() {
			return -1
		}
	}
}

// advance consumes n characters, keeping track of line numbers
func (t *XMLTokenizer) advance(n int) {

	t.line += strings.Count(t.text[t.idx:t.idx+n], "\n")
	t.idx += n
}

func (t *XMLTokenizer) fail(line int, format string, params ...interface{}) (XMLToken, error) {

	if t.err == nil {
		params = append(params, line)
		t.err = errors.Wrapf(ErrTokenizer, format+", line %d", params...)
	}

	return XMLToken{Tag: ISCLOSED, Line: line}, t.err
}

// Next returns the next token. An ISCLOSED token with a nil error signals
// the end of input. Whitespace-only content is not reported.
func (t *XMLTokenizer) Next() (XMLToken, error) {

	for {
		if t.err != nil {
			return XMLToken{Tag: ISCLOSED, Line: t.line}, t.err
		}

		// skip past leading blanks
		for t.idx < len(t.text) && inBlank[t.text[t.idx]] {
			if t.text[t.idx] == '\n' {
				t.line++
			}
			t.idx++
		}

		if t.idx >= len(t.text) {
			if !t.more() {
				return XMLToken{Tag: ISCLOSED, Line: t.line}, t.err
			}
			continue
		}

		if t.text[t.idx] == '<' {
			return t.nextTag()
		}

		return t.nextContent()
	}
}

// nextContent returns text up to the next element, trimmed and decoded
func (t *XMLTokenizer) nextContent() (XMLToken, error) {

	line := t.line

	pos := strings.IndexByte(t.text[t.idx:], '<')
	for pos < 0 {
		if !t.more() {
			return t.fail(line, "text not followed by an element")
		}
		pos = strings.IndexByte(t.text[t.idx:], '<')
	}

	str := t.text[t.idx : t.idx+pos]
	t.advance(pos)

	if !utf8.ValidString(str) {
		return t.fail(line, "invalid UTF-8 in element content")
	}

	str = strings.TrimSpace(str)
	if strings.IndexByte(str, '&') >= 0 {
		str = html.UnescapeString(str)
	}

	return XMLToken{Tag: CONTENTTAG, Name: str, Line: line}, nil
}

// nextTag dispatches on the character following the left angle bracket
func (t *XMLTokenizer) nextTag() (XMLToken, error) {

	line := t.line

	if !t.need(2) {
		return t.fail(line, "unterminated element")
	}

	ch := t.text[t.idx+1]

	switch {
	case ch == '/':
		end := t.find(2, ">")
		if end < 0 {
			return t.fail(line, "unterminated end element")
		}
		name := strings.TrimSpace(t.text[t.idx+2 : t.idx+end])
		t.advance(end + 1)
		if name == "" {
			return t.fail(line, "end element without name")
		}
		return XMLToken{Tag: STOPTAG, Name: name, Line: line}, nil
	case ch == '!':
		if t.hasPrefix("<!--") {
			return t.section(COMMENTTAG, 4, "-->", line)
		}
		if t.hasPrefix("<![CDATA[") {
			return t.section(CDATATAG, 9, "]]>", line)
		}
		if t.hasPrefix("<!DOCTYPE") {
			return t.doctype(line)
		}
		return t.fail(line, "unrecognized markup declaration")
	case ch == '?':
		return t.section(PROCESSTAG, 2, "?>", line)
	case inFirst[ch]:
		return t.startTag(line)
	default:
	}

	return t.fail(line, "unexpected character '%c' after left angle bracket", ch)
}

// section returns the contents of a COMMENT, CDATA, or processing instruction
func (t *XMLTokenizer) section(tag, skip int, stop string, line int) (XMLToken, error) {

	end := t.find(skip, stop)
	if end < 0 {
		return t.fail(line, "unterminated %s section", sectionName(tag))
	}

	str := t.text[t.idx+skip : t.idx+end]
	t.advance(end + len(stop))

	if tag == CDATATAG {
		if !utf8.ValidString(str) {
			return t.fail(line, "invalid UTF-8 in CDATA section")
		}
	} else {
		str = strings.TrimSpace(str)
	}

	return XMLToken{Tag: tag, Name: str, Line: line}, nil
}

// doctype skips an internal subset, which may itself contain angle brackets
func (t *XMLTokenizer) doctype(line int) (XMLToken, error) {

	const skip = 9

	pos := skip
	depth := 0

	for {
		if t.idx+pos >= len(t.text) {
			if !t.more() {
				return t.fail(line, "unterminated DOCTYPE")
			}
			continue
		}
		ch := t.text[t.idx+pos]
		if ch == '[' {
			depth++
		} else if ch == ']' {
			depth--
		} else if ch == '>' && depth <= 0 {
			break
		}
		pos++
	}

	str := strings.TrimSpace(t.text[t.idx+skip : t.idx+pos])
	t.advance(pos + 1)

	return XMLToken{Tag: DOCTYPETAG, Name: str, Line: line}, nil
}

// startTag reads an element name and its attribute string
func (t *XMLTokenizer) startTag(line int) (XMLToken, error) {

	// read element name
	pos := 1
	for {
		if t.idx+pos >= len(t.text) {
			if !t.more() {
				return t.fail(line, "unterminated element")
			}
			continue
		}
		if !inElement[t.text[t.idx+pos]] {
			break
		}
		pos++
	}

	name := t.text[t.idx+1 : t.idx+pos]

	// attributes run to the first right angle bracket outside of quotes
	start := pos
	var quote byte

	for {
		if t.idx+pos >= len(t.text) {
			if !t.more() {
				return t.fail(line, "unterminated element <%s>", name)
			}
			continue
		}
		ch := t.text[t.idx+pos]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
		} else if ch == '"' || ch == '\'' {
			quote = ch
		} else if ch == '>' {
			break
		} else if ch == '<' {
			return t.fail(line, "unexpected left angle bracket in element <%s>", name)
		}
		pos++
	}

	first := t.text[t.idx+start]
	atr := strings.TrimSpace(t.text[t.idx+start : t.idx+pos])
	t.advance(pos + 1)

	tag := STARTTAG
	if strings.HasSuffix(atr, "/") {
		tag = SELFTAG
		atr = strings.TrimSpace(atr[:len(atr)-1])
	}

	if atr != "" && !inBlank[first] {
		return t.fail(line, "unexpected character '%c' after element name <%s>", first, name)
	}

	if !utf8.ValidString(atr) {
		return t.fail(line, "invalid UTF-8 in attributes of <%s>", name)
	}

	return XMLToken{Tag: tag, Name: name, Attr: atr, Line: line}, nil
}

func sectionName(tag int) string {

	switch tag {
	case COMMENTTAG:
		return "comment"
	case CDATATAG:
		return "CDATA"
	case PROCESSTAG:
		return "processing instruction"
	default:
	}

	return "markup"
}

// ParseAttributes produces name/value pairs in successive slots, with entity
// references in values decoded. An attribute without a value gets an empty one.
func ParseAttributes(attrb string) []string {

	if attrb == "" {
		return nil
	}

	unescape := func(str string) string {
		if strings.IndexByte(str, '&') >= 0 {
			return html.UnescapeString(str)
		}
		return str
	}

	var arry []string

	attlen := len(attrb)
	idx := 0

	skipBlanks := func() {
		for idx < attlen && inBlank[attrb[idx]] {
			idx++
		}
	}

	for idx < attlen {

		skipBlanks()
		if idx >= attlen {
			break
		}

		start := idx
		for idx < attlen && attrb[idx] != '=' && !inBlank[attrb[idx]] {
			idx++
		}
		name := attrb[start:idx]

		skipBlanks()
		if idx >= attlen || attrb[idx] != '=' {
			arry = append(arry, name, "")
			continue
		}

		// skip past equal sign
		idx++
		skipBlanks()
		if idx >= attlen {
			arry = append(arry, name, "")
			break
		}

		quote := attrb[idx]
		if quote != '"' && quote != '\'' {
			// unquoted value runs to the next blank
			start = idx
			for idx < attlen && !inBlank[attrb[idx]] {
				idx++
			}
			arry = append(arry, name, unescape(attrb[start:idx]))
			continue
		}

		// skip past leading quote
		idx++
		start = idx
		for idx < attlen && attrb[idx] != quote {
			idx++
		}
		val := attrb[start:idx]
		if idx < attlen {
			// skip past trailing quote
			idx++
		}

		arry = append(arry, name, unescape(val))
	}

	return arry
}
