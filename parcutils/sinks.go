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
// File Name:  sinks.go
//
// ==========================================================================

package parcutils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Table identifies one output channel
type Table int

// fixed tables, followed by one junction and one dictionary table per property category
const (
	UNIPARC Table = iota
	UNIPARCXREF
	UNIPARCDOMAIN
	numFixedTables
)

// NumTables is the size of the output channel set
const NumTables = int(numFixedTables) + 2*int(NumCategories)

// JunctionTable returns the cross-reference to property table of a category
func JunctionTable(cat Category) Table {

	return numFixedTables + Table(cat)
}

// DictionaryTable returns the value table of a category
func DictionaryTable(cat Category) Table {

	return numFixedTables + Table(NumCategories) + Table(cat)
}

func (t Table) String() string {

	switch {
	case t == UNIPARC:
		return "uniparc"
	case t == UNIPARCXREF:
		return "uniparc_xref"
	case t == UNIPARCDOMAIN:
		return "uniparc_domain"
	case t >= numFixedTables && t < numFixedTables+Table(NumCategories):
		return "uniparc_xref2" + Category(t-numFixedTables).String()
	case t >= numFixedTables+Table(NumCategories) && int(t) < NumTables:
		return Category(t - numFixedTables - Table(NumCategories)).String()
	default:
	}

	return "unknown"
}

// Compression selects the codec applied to every output file
type Compression int

// output codecs
const (
	NOCOMPRESS Compression = iota
	GZIPCOMPRESS
	ZSTDCOMPRESS
	LZ4COMPRESS
)

// ParseCompression accepts none, gzip, zstd, or lz4
func ParseCompression(str string) (Compression, error) {

	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "none", "plain":
		return NOCOMPRESS, nil
	case "gzip", "gz":
		return GZIPCOMPRESS, nil
	case "zstd", "zst":
		return ZSTDCOMPRESS, nil
	case "lz4":
		return LZ4COMPRESS, nil
	default:
	}

	return NOCOMPRESS, errors.Errorf("unrecognized compression '%s'", str)
}

func (c Compression) String() string {

	switch c {
	case GZIPCOMPRESS:
		return "gzip"
	case ZSTDCOMPRESS:
		return "zstd"
	case LZ4COMPRESS:
		return "lz4"
	default:
	}

	return "none"
}

// Suffix returns the file name extension added by the codec
func (c Compression) Suffix() string {

	switch c {
	case GZIPCOMPRESS:
		return ".gz"
	case ZSTDCOMPRESS:
		return ".zst"
	case LZ4COMPRESS:
		return ".lz4"
	default:
	}

	return ""
}

// newCompressor wraps a byte sink with the selected codec
func newCompressor(w io.Writer, cmp Compression) (io.WriteCloser, error) {

	switch cmp {
	case GZIPCOMPRESS:
		zpr, err := pgzip.NewWriterLevel(w, pgzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		if err = zpr.SetConcurrency(blockSize, numProcs); err != nil {
			return nil, err
		}
		return zpr, nil
	case ZSTDCOMPRESS:
		// many tables are open at once, so each encoder runs a single stream
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	case LZ4COMPRESS:
		return lz4.NewWriter(w), nil
	default:
	}

	return nil, nil
}

// tableSink is a buffered writer over an optionally compressed byte sink
type tableSink struct {
	name string
	file io.WriteCloser
	cmpr io.WriteCloser
	wrtr *bufio.Writer
	rows int
}

func openSink(name string, open func(string) (io.WriteCloser, error), cmp Compression) (*tableSink, error) {

	fl, err := open(name + cmp.Suffix())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", name+cmp.Suffix())
	}

	snk := &tableSink{name: name, file: fl}

	var out io.Writer = fl

	cmpr, err := newCompressor(fl, cmp)
	if err != nil {
		fl.Close()
		return nil, errors.Wrapf(err, "unable to create %s compressor for %s", cmp.String(), name)
	}
	if cmpr != nil {
		snk.cmpr = cmpr
		out = cmpr
	}

	snk.wrtr = bufio.NewWriterSize(out, 65536)

	return snk, nil
}

func (s *tableSink) close() error {

	var fe firstError

	fe.add(s.wrtr.Flush())
	if s.cmpr != nil {
		fe.add(s.cmpr.Close())
	}
	fe.add(s.file.Close())

	if fe.err != nil {
		return errors.Wrapf(fe.err, "unable to close %s", s.name)
	}

	return nil
}

// TableSet owns one sink per table, plus an optional FASTA sink. It is
// written from a single goroutine.
type TableSet struct {
	sinks [NumTables]*tableSink
	fasta *tableSink
}

// NewTableSet opens every table through the given function, which receives
// the file name including any codec suffix
func NewTableSet(open func(name string) (io.WriteCloser, error), cmp Compression, fasta bool) (*TableSet, error) {

	ts := &TableSet{}

	for i := 0; i < NumTables; i++ {
		snk, err := openSink(Table(i).String()+".tsv", open, cmp)
		if err != nil {
			ts.Close()
			return nil, err
		}
		ts.sinks[i] = snk
	}

	if fasta {
		snk, err := openSink("uniparc.fasta", open, cmp)
		if err != nil {
			ts.Close()
			return nil, err
		}
		ts.fasta = snk
	}

	return ts, nil
}

// CreateTables creates the base directory and opens one file per table
func CreateTables(basedir string, cmp Compression, fasta bool) (*TableSet, error) {

	if basedir == "" {
		basedir = "."
	}

	if err := os.MkdirAll(basedir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "unable to create directory %s", basedir)
	}

	return NewTableSet(func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(basedir, name))
	}, cmp, fasta)
}

// noTabs replaces embedded tabs and line breaks so each row stays on one line
func noTabs(str string) string {

	if !strings.ContainsAny(str, "\t\r\n") {
		return str
	}

	return strings.Map(func(c rune) rune {
		if c == '\t' || c == '\r' || c == '\n' {
			return ' '
		}
		return c
	}, str)
}

// WriteRow writes one tab-delimited row
func (ts *TableSet) WriteRow(tbl Table, fields ...string) error {

	if tbl < 0 || int(tbl) >= NumTables || ts.sinks[tbl] == nil {
		return errors.Errorf("table %d is not open", int(tbl))
	}

	snk := ts.sinks[tbl]
	wrtr := snk.wrtr

	for i, fld := range fields {
		if i > 0 {
			wrtr.WriteByte('\t')
		}
		wrtr.WriteString(noTabs(fld))
	}

	// bufio.Writer retains the first failure, so checking the last write is sufficient
	if err := wrtr.WriteByte('\n'); err != nil {
		return errors.Wrapf(err, "unable to write %s row", snk.name)
	}

	snk.rows++

	return nil
}

// WriteFASTA writes one sequence record when the FASTA sink is open
func (ts *TableSet) WriteFASTA(seq SequenceRecord) error {

	if ts.fasta == nil || seq.Residues == "" {
		return nil
	}

	if err := FormatFASTA(ts.fasta.wrtr, seq, 60); err != nil {
		return errors.Wrapf(err, "unable to write %s record", ts.fasta.name)
	}

	ts.fasta.rows++

	return nil
}

// Rows returns the number of rows written to a table
func (ts *TableSet) Rows(tbl Table) int {

	if tbl < 0 || int(tbl) >= NumTables || ts.sinks[tbl] == nil {
		return 0
	}

	return ts.sinks[tbl].rows
}

// Close flushes and closes every sink, returning the first failure
func (ts *TableSet) Close() error {

	var fe firstError

	for i, snk := range ts.sinks {
		if snk != nil {
			fe.add(snk.close())
			ts.sinks[i] = nil
		}
	}

	if ts.fasta != nil {
		fe.add(ts.fasta.close())
		ts.fasta = nil
	}

	return fe.err
}
