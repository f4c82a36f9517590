package parcutils

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
)

type stringTable struct {
	input    string
	expected string
}

func stringTestMatch(t *testing.T, name string, proc func(str string) string, data []stringTable) {

	for _, test := range data {
		actual := proc(test.input)
		if actual != test.expected {
			t.Errorf("%s(%s) = %s, expected %s", name, test.input, actual, test.expected)
		}
	}
}

var tokenLabel = map[int]string{
	STARTTAG:   "start",
	SELFTAG:    "self",
	STOPTAG:    "stop",
	CONTENTTAG: "text",
	CDATATAG:   "cdata",
	COMMENTTAG: "comment",
	DOCTYPETAG: "doctype",
	PROCESSTAG: "pi",
}

// renderTokens lists tokens separated by vertical bars, or ERROR
func renderTokens(tkzr *XMLTokenizer) string {

	var arry []string

	for {
		tkn, err := tkzr.Next()
		if err != nil {
			return "ERROR"
		}
		if tkn.Tag == ISCLOSED {
			break
		}
		str := tokenLabel[tkn.Tag] + ":" + tkn.Name
		if tkn.Attr != "" {
			str += "[" + tkn.Attr + "]"
		}
		arry = append(arry, str)
	}

	return strings.Join(arry, "|")
}

func tokenize(str string) string {

	return renderTokens(NewXMLTokenizer(strings.NewReader(str)))
}

func TestXMLTokenizer(t *testing.T) {

	stringTestMatch(t, "XMLTokenizer,",
		tokenize,
		[]stringTable{
			{`<a x="1">hi</a>`, `start:a[x="1"]|text:hi|stop:a`},
			{`<a/>`, `self:a`},
			{`<a x='p>q' />`, `self:a[x='p>q']`},
			{`<r>A &amp; B &lt;3</r>`, `start:r|text:A & B <3|stop:r`},
			{`<r><!-- note --><![CDATA[ x<y ]]></r>`, `start:r|comment:note|cdata: x<y |stop:r`},
			{`<?xml version="1.0"?><r/>`, `pi:xml version="1.0"|self:r`},
			{`<!DOCTYPE r [<!ENTITY e "v">]><r/>`, `doctype:r [<!ENTITY e "v">]|self:r`},
			{"\ufeff<r/>", `self:r`},
			{"<r>\n  <s/>\n</r>", `start:r|self:s|stop:r`},
			{"<r>\n  AB\n  CD\n</r>", "start:r|text:AB\n  CD|stop:r"},
			{`<u:r xmlns:u="http://uniprot.org/uniparc"></u:r >`, `start:u:r[xmlns:u="http://uniprot.org/uniparc"]|stop:u:r`},
			{"", ""},
			{"  \n ", ""},
		})
}

func TestXMLTokenizerErrors(t *testing.T) {

	stringTestMatch(t, "XMLTokenizer,",
		tokenize,
		[]stringTable{
			{"<r>text", "ERROR"},
			{"<r", "ERROR"},
			{"<r><!-- x</r>", "ERROR"},
			{"<r>\xff</r>", "ERROR"},
			{"<1r/>", "ERROR"},
			{"</>", "ERROR"},
			{"<r x<y/>", "ERROR"},
			{"<r>&</r", "ERROR"},
		})

	tkzr := NewXMLTokenizer(strings.NewReader("<r>\n<s>\ntext"))
	var err error
	for err == nil {
		var tkn XMLToken
		tkn, err = tkzr.Next()
		if err == nil && tkn.Tag == ISCLOSED {
			t.Fatalf("unterminated text reached end of input without error")
		}
	}
	if !errors.Is(err, ErrTokenizer) {
		t.Errorf("error %v does not wrap ErrTokenizer", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %v does not report line 3", err)
	}
}

func TestXMLTokenizerLines(t *testing.T) {

	tkzr := NewXMLTokenizer(strings.NewReader("<a>\n<b>\n<!-- one\ntwo -->\n</b>\n</a>"))

	expected := []struct {
		name string
		line int
	}{
		{"a", 1},
		{"b", 2},
		{"one\ntwo", 3},
		{"b", 5},
		{"a", 6},
	}

	for _, exp := range expected {
		tkn, err := tkzr.Next()
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if tkn.Name != exp.name || tkn.Line != exp.line {
			t.Errorf("token %s at line %d, expected %s at line %d", tkn.Name, tkn.Line, exp.name, exp.line)
		}
	}
}

func TestXMLTokenizerBlocks(t *testing.T) {

	// content much larger than one block, with a large remainder after the first read
	residues := strings.Repeat("ACDEFGHIKL", 20000)
	doc := `<entry><sequence length="200000">` + residues + `</sequence><accession>X1</accession></entry>`

	tkzr := NewXMLTokenizer(strings.NewReader(doc))
	var text string
	for {
		tkn, err := tkzr.Next()
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if tkn.Tag == ISCLOSED {
			break
		}
		if tkn.Tag == CONTENTTAG && text == "" {
			text = tkn.Name
		}
	}
	if text != residues {
		t.Errorf("content length %d, expected %d", len(text), len(residues))
	}

	// reading one byte at a time crosses a block boundary inside every token
	small := `<?xml version="1.0"?><r a="x &gt; y"><!-- c --><s>AB&amp;CD</s><t/><![CDATA[q]]></r>`
	expected := tokenize(small)
	actual := renderTokens(NewXMLTokenizer(iotest.OneByteReader(strings.NewReader(small))))
	if actual != expected {
		t.Errorf("one byte reader produced %s, expected %s", actual, expected)
	}
}

func TestParseAttributes(t *testing.T) {

	stringTestMatch(t, "ParseAttributes,",
		func(str string) string { return strings.Join(ParseAttributes(str), "|") },
		[]stringTable{
			{`type="PDB" id="1ABC"`, "type|PDB|id|1ABC"},
			{`a='x y'  b = "z"`, "a|x y|b|z"},
			{`name="A &amp; B" id="&#73;PR1"`, "name|A & B|id|IPR1"},
			{`checked x=1`, "checked||x|1"},
			{`v=""`, "v|"},
			{`q='say "hi"'`, `q|say "hi"`},
			{"", ""},
		})
}
