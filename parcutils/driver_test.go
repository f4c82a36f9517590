package parcutils

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

type memFile struct {
	bytes.Buffer
	closed bool
}

func (m *memFile) Close() error {

	m.closed = true
	return nil
}

// memTableSet opens every table in memory, keyed by file name
func memTableSet(t *testing.T, cmp Compression, fasta bool) (*TableSet, map[string]*memFile) {

	t.Helper()

	files := make(map[string]*memFile)

	ts, err := NewTableSet(func(name string) (io.WriteCloser, error) {
		fl := &memFile{}
		files[name] = fl
		return fl, nil
	}, cmp, fasta)
	if err != nil {
		t.Fatalf("unable to create tables: %v", err)
	}

	return ts, files
}

func quietOptions() Options {

	opts := DefaultOptions()
	opts.Quiet = true

	return opts
}

// convertXML runs the parser over a document and returns table contents keyed by table name
func convertXML(t *testing.T, doc string, opts Options) (map[string]string, int, error) {

	t.Helper()

	ts, files := memTableSet(t, NOCOMPRESS, opts.Fasta)

	count, err := Run(strings.NewReader(doc), ts, opts)

	if cerr := ts.Close(); cerr != nil {
		t.Fatalf("unable to close tables: %v", cerr)
	}

	res := make(map[string]string)
	for name, fl := range files {
		if !fl.closed {
			t.Errorf("%s was not closed", name)
		}
		res[strings.TrimSuffix(name, ".tsv")] = fl.String()
	}

	return res, count, err
}

const sampleEntry = `<?xml version="1.0" encoding="UTF-8"?>
<uniparc xmlns="http://uniprot.org/uniparc">
<entry dataset="uniparc">
  <accession>X1</accession>
  <dbReference type="PDB" id="1ABC" version_i="1" active="Y" version="1" created="2003-03-12" last="2023-01-01">
    <property type="chain" value="A"/>
  </dbReference>
  <signatureSequenceMatch database="Pfam" id="PF00001">
    <ipr name="GPCR, rhodopsin-like" id="IPR000276"/>
    <lcn start="10" end="20"/>
    <lcn start="30" end="40"/>
  </signatureSequenceMatch>
  <sequence length="4" checksum="Z">AB
CD</sequence>
</entry>
<copyright>
Copyrighted by the UniProt Consortium
</copyright>
</uniparc>
`

func TestRunSampleEntry(t *testing.T) {

	tables, count, err := convertXML(t, sampleEntry, quietOptions())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, expected 1", count)
	}

	if len(tables) != NumTables {
		t.Errorf("%d tables, expected %d", len(tables), NumTables)
	}

	expected := map[string]string{
		"uniparc":            "X1\tABCD\t4\tZ\n",
		"uniparc_xref":       "X1\t1\tPDB\t1ABC\t1\tY\t1\t2003-03-12\t2023-01-01\n",
		"uniparc_xref2chain": "X1\t1\tchain\t1\n",
		"chain":              "X1\tchain\t1\t1ABCA\n",
		"uniparc_domain": "X1\tPfam\tPF00001\tGPCR, rhodopsin-like\tIPR000276\t10\t20\n" +
			"X1\tPfam\tPF00001\tGPCR, rhodopsin-like\tIPR000276\t30\t40\n",
	}

	for name, actual := range tables {
		if actual != expected[name] {
			t.Errorf("table %s = %q, expected %q", name, actual, expected[name])
		}
	}
}

func TestRunCrossReferenceProperties(t *testing.T) {

	doc := `<uniparc>
<entry>
<accession>X2</accession>
<dbReference type="EMBL" id="A1" active="N"><property type="protein_name" value="p"/></dbReference>
<dbReference type="EMBL" id="A2" active="Y"><property type="protein_name" value="q"/><property type="protein_name" value="p"/></dbReference>
<dbReference type="EMBL" id="A3" active="Y"><property type="protein_name" value="q"/><property type="NCBI_taxonomy_id" value="9606"/></dbReference>
</entry>
<entry>
<accession>X3</accession>
<dbReference type="EMBL" id="B1" active="Y"><property type="protein_name" value="p"/><property type="gene_name" value="a&#9;b"/></dbReference>
</entry>
</uniparc>`

	tables, count, err := convertXML(t, doc, quietOptions())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}

	expected := map[string]string{
		"uniparc": "X2\t\t0\t\nX3\t\t0\t\n",
		"uniparc_xref": "X2\t1\tEMBL\tA2\t\tY\t\t\t\n" +
			"X2\t2\tEMBL\tA3\t\tY\t\t\t\n" +
			"X3\t1\tEMBL\tB1\t\tY\t\t\t\n",
		"uniparc_xref2protein_name": "X2\t1\tprotein_name\t1\n" +
			"X2\t1\tprotein_name\t2\n" +
			"X2\t2\tprotein_name\t1\n" +
			"X3\t1\tprotein_name\t1\n",
		"protein_name": "X2\tprotein_name\t1\tq\n" +
			"X2\tprotein_name\t2\tp\n" +
			"X3\tprotein_name\t1\tp\n",
		"uniparc_xref2ncbi_taxonomy_id": "X2\t2\tncbi_taxonomy_id\t1\n",
		"ncbi_taxonomy_id":              "X2\tncbi_taxonomy_id\t1\t9606\n",
		"uniparc_xref2gene_name":        "X3\t1\tgene_name\t1\n",
		"gene_name":                     "X3\tgene_name\t1\ta b\n",
	}

	for name, actual := range tables {
		if actual != expected[name] {
			t.Errorf("table %s = %q, expected %q", name, actual, expected[name])
		}
	}
}

func TestRunSparseEntries(t *testing.T) {

	stringTestMatch(t, "Run,",
		func(str string) string {
			tables, _, err := convertXML(t, str, quietOptions())
			if err != nil {
				return "ERROR"
			}
			return tables["uniparc"]
		},
		[]stringTable{
			{"<uniparc><entry></entry></uniparc>", "\t\t0\t\n"},
			{"<uniparc><entry/><entry/></uniparc>", "\t\t0\t\n\t\t0\t\n"},
			{"<uniparc><entry><sequence>MK</sequence></entry></uniparc>", "\tMK\t0\t\n"},
			{"<uniparc><entry><accession>X1</accession><other>text</other></entry></uniparc>", "X1\t\t0\t\n"},
			{"<uniparc><!-- none --></uniparc>", ""},
			{"", ""},
		})
}

func TestRunFailures(t *testing.T) {

	for _, test := range []struct {
		name     string
		doc      string
		sentinel error
		count    int
		uniparc  string
	}{
		{"truncated", "<uniparc><entry><accession>X1</accession>", ErrTruncated, 1, ""},
		{"truncated after entry", "<uniparc><entry><accession>X1</accession></entry><entry>", ErrTruncated, 2, "X1\t\t0\t\n"},
		{"mismatch", "<uniparc><entry><accession>X1</sequence></entry></uniparc>", ErrNesting, 1, ""},
		{"entry mismatch", "<uniparc><entry><accession>X1</entry></uniparc>", ErrNesting, 1, "X1\t\t0\t\n"},
		{"extra end", "<uniparc></uniparc></uniparc>", ErrNesting, 0, ""},
		{"tokenizer", "<uniparc><entry><accession>X1\xff</accession></entry></uniparc>", ErrTokenizer, 1, ""},
		{"reannotated", `<uniparc><entry><signatureSequenceMatch database="Pfam" id="PF1"><ipr name="a" id="IPR1"/><ipr name="a" id="IPR1"/></signatureSequenceMatch></entry></uniparc>`, ErrReannotated, 1, ""},
		{"zero span", `<uniparc><entry><signatureSequenceMatch database="Pfam" id="PF1"><lcn start="0" end="3"/></signatureSequenceMatch></entry></uniparc>`, ErrZeroSpan, 1, ""},
		{"not pdb", `<uniparc><entry><dbReference type="EMBL" id="E1" active="Y"><property type="chain" value="A"/></dbReference></entry></uniparc>`, ErrNotPDB, 1, ""},
		{"unknown category", `<uniparc><entry><dbReference type="EMBL" id="E1" active="Y"><property type="color" value="red"/></dbReference></entry></uniparc>`, ErrUnknownCategory, 1, ""},
		{"bad length", `<uniparc><entry><sequence length="-1">M</sequence></entry></uniparc>`, ErrBadNumber, 1, ""},
	} {
		tables, count, err := convertXML(t, test.doc, quietOptions())
		if !errors.Is(err, test.sentinel) {
			t.Errorf("%s returned %v, expected %v", test.name, err, test.sentinel)
		}
		if count != test.count {
			t.Errorf("%s count = %d, expected %d", test.name, count, test.count)
		}
		if tables["uniparc"] != test.uniparc {
			t.Errorf("%s uniparc = %q, expected %q", test.name, tables["uniparc"], test.uniparc)
		}
	}
}

func TestRunLimit(t *testing.T) {

	// input after the limit is never read, so the open entry is not an error
	doc := "<uniparc><entry><accession>A</accession></entry><entry><accession>B</accession></entry><entry><accession>C</accession>"

	opts := quietOptions()
	opts.Limit = 2

	tables, count, err := convertXML(t, doc, opts)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}
	if tables["uniparc"] != "A\t\t0\t\nB\t\t0\t\n" {
		t.Errorf("uniparc = %q", tables["uniparc"])
	}
}

func TestRunDiagnostics(t *testing.T) {

	doc := "<uniparc>" + strings.Repeat("<entry><foo/><foo/><bar>x</bar></entry>", 5) + "</uniparc>"

	var wrn warnings
	var progress []int

	opts := DefaultOptions()
	opts.ProgressEvery = 2
	opts.Warn = wrn.warn
	opts.Progress = func(count int) {
		progress = append(progress, count)
	}

	_, count, err := convertXML(t, doc, opts)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, expected 5", count)
	}
	if len(progress) != 2 || progress[0] != 2 || progress[1] != 4 {
		t.Errorf("progress notes = %v, expected [2 4]", progress)
	}
	if len(wrn) != 2 {
		t.Errorf("%d warnings, expected 2: %v", len(wrn), wrn)
	}

	var all warnings
	opts.Verbose = true
	opts.Warn = all.warn
	opts.Progress = func(count int) {}

	if _, _, err = convertXML(t, doc, opts); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(all) != 15 {
		t.Errorf("%d verbose warnings, expected 15", len(all))
	}

	var none warnings
	opts.Quiet = true
	opts.Warn = none.warn
	opts.Progress = func(count int) {
		t.Errorf("progress note %d printed in quiet mode", count)
	}

	if _, _, err = convertXML(t, doc, opts); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(none) != 0 {
		t.Errorf("%d warnings in quiet mode, expected 0", len(none))
	}
}

func TestRunVerify(t *testing.T) {

	doc := `<uniparc>
<entry><accession>OK</accession><sequence length="4" checksum="6AAEBF0DB0000000">ABCD</sequence></entry>
<entry><accession>BAD</accession><sequence length="5" checksum="0000000000000000">ABCD</sequence></entry>
<entry><accession>NONE</accession><sequence>ABCD</sequence></entry>
</uniparc>`

	var wrn warnings

	opts := DefaultOptions()
	opts.Verify = true
	opts.Warn = wrn.warn

	ts, _ := memTableSet(t, NOCOMPRESS, false)
	prsr := NewParser(strings.NewReader(doc), ts, opts)

	count, err := prsr.Run()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	ts.Close()

	if count != 3 {
		t.Errorf("count = %d, expected 3", count)
	}
	if prsr.Mismatches() != 1 {
		t.Errorf("Mismatches() = %d, expected 1", prsr.Mismatches())
	}
	if len(wrn) != 2 {
		t.Errorf("%d warnings, expected 2: %v", len(wrn), wrn)
	}
}

func TestRunFASTA(t *testing.T) {

	opts := quietOptions()
	opts.Fasta = true

	tables, _, err := convertXML(t, sampleEntry, opts)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if tables["uniparc.fasta"] != ">X1 length=4 checksum=Z\nABCD\n" {
		t.Errorf("uniparc.fasta = %q", tables["uniparc.fasta"])
	}
}
