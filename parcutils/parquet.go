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
// File Name:  parquet.go
//
// ==========================================================================

package parcutils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/parquet-go/parquet-go"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// typed Parquet schemas, one per table shape

// UniparcRow is the Parquet form of a uniparc row
type UniparcRow struct {
	EntryID  string `parquet:"entry_id"`
	Residues string `parquet:"residues"`
	Length   int64  `parquet:"length"`
	Checksum string `parquet:"checksum"`
}

// XRefRow is the Parquet form of a uniparc_xref row
type XRefRow struct {
	EntryID  string `parquet:"entry_id"`
	Index    int64  `parquet:"xref_index"`
	DBType   string `parquet:"db_type"`
	DBID     string `parquet:"db_id"`
	VersionI string `parquet:"version_increment"`
	Active   string `parquet:"active_flag"`
	Version  string `parquet:"version"`
	Created  string `parquet:"created"`
	Last     string `parquet:"last_updated"`
}

// DomainRow is the Parquet form of a uniparc_domain row
type DomainRow struct {
	EntryID      string `parquet:"entry_id"`
	Database     string `parquet:"database"`
	DatabaseID   string `parquet:"database_id"`
	InterProName string `parquet:"interpro_name"`
	InterProID   string `parquet:"interpro_id"`
	Start        int64  `parquet:"domain_start"`
	End          int64  `parquet:"domain_end"`
}

// JunctionRow is the Parquet form of a cross-reference to property row
type JunctionRow struct {
	EntryID   string `parquet:"entry_id"`
	XRefIndex int64  `parquet:"xref_index"`
	Category  string `parquet:"category"`
	Surrogate int64  `parquet:"surrogate"`
}

// DictionaryRow is the Parquet form of a property value row
type DictionaryRow struct {
	EntryID   string `parquet:"entry_id"`
	Category  string `parquet:"category"`
	Surrogate int64  `parquet:"surrogate"`
	Value     string `parquet:"value"`
}

// rows per Parquet write call
const parquetBatch = 8192

func parseInt(str string) (int64, error) {

	num, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBadNumber, "'%s'", str)
	}

	return num, nil
}

func parseUniparcRow(cols []string) (UniparcRow, error) {

	num, err := parseInt(cols[2])
	return UniparcRow{EntryID: cols[0], Residues: cols[1], Length: num, Checksum: cols[3]}, err
}

func parseXRefRow(cols []string) (XRefRow, error) {

	num, err := parseInt(cols[1])
	return XRefRow{
		EntryID:  cols[0],
		Index:    num,
		DBType:   cols[2],
		DBID:     cols[3],
		VersionI: cols[4],
		Active:   cols[5],
		Version:  cols[6],
		Created:  cols[7],
		Last:     cols[8],
	}, err
}

func parseDomainRow(cols []string) (DomainRow, error) {

	start, err := parseInt(cols[5])
	if err != nil {
		return DomainRow{}, err
	}
	end, err := parseInt(cols[6])
	return DomainRow{
		EntryID:      cols[0],
		Database:     cols[1],
		DatabaseID:   cols[2],
		InterProName: cols[3],
		InterProID:   cols[4],
		Start:        start,
		End:          end,
	}, err
}

func parseJunctionRow(cols []string) (JunctionRow, error) {

	idx, err := parseInt(cols[1])
	if err != nil {
		return JunctionRow{}, err
	}
	sur, err := parseInt(cols[3])
	return JunctionRow{EntryID: cols[0], XRefIndex: idx, Category: cols[2], Surrogate: sur}, err
}

func parseDictionaryRow(cols []string) (DictionaryRow, error) {

	sur, err := parseInt(cols[2])
	return DictionaryRow{EntryID: cols[0], Category: cols[1], Surrogate: sur, Value: cols[3]}, err
}

// convertRows streams tab-delimited rows into a zstd-compressed Parquet file
func convertRows[T any](inp io.Reader, out io.Writer, numFlds int, parse func([]string) (T, error)) (int, error) {

	wrtr := parquet.NewGenericWriter[T](out, parquet.Compression(&parquet.Zstd))

	batch := make([]T, 0, parquetBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := wrtr.Write(batch)
		batch = batch[:0]
		return err
	}

	scanr := bufio.NewScanner(inp)

	// override scanner limit to allow reading of titin protein sequences
	const bufferSize = 1024 * 1024
	buf := make([]byte, bufferSize)
	scanr.Buffer(buf, 64*bufferSize)

	row := 0

	for scanr.Scan() {

		line := scanr.Text()

		row++

		cols := strings.Split(line, "\t")
		if len(cols) != numFlds {
			return row, errors.Errorf("mismatched columns in row %d, found %d, expected %d", row, len(cols), numFlds)
		}

		rec, err := parse(cols)
		if err != nil {
			return row, errors.Wrapf(err, "row %d", row)
		}

		batch = append(batch, rec)

		if len(batch) >= parquetBatch {
			if err = flush(); err != nil {
				return row, err
			}
		}
	}

	if err := scanr.Err(); err != nil {
		return row, err
	}

	if err := flush(); err != nil {
		return row, err
	}

	return row, wrtr.Close()
}

// ConvertTable writes one table's rows, read from inp, to out in Parquet format
func ConvertTable(tbl Table, inp io.Reader, out io.Writer) (int, error) {

	switch {
	case tbl == UNIPARC:
		return convertRows(inp, out, 4, parseUniparcRow)
	case tbl == UNIPARCXREF:
		return convertRows(inp, out, 9, parseXRefRow)
	case tbl == UNIPARCDOMAIN:
		return convertRows(inp, out, 7, parseDomainRow)
	case tbl >= numFixedTables && tbl < numFixedTables+Table(NumCategories):
		return convertRows(inp, out, 4, parseJunctionRow)
	case tbl >= numFixedTables+Table(NumCategories) && int(tbl) < NumTables:
		return convertRows(inp, out, 4, parseDictionaryRow)
	default:
	}

	return 0, errors.Errorf("table %d is not defined", int(tbl))
}

// tableReader decodes a table file according to its suffix
type tableReader struct {
	io.Reader
	closers []io.Closer
}

func (r *tableReader) Close() error {

	var fe firstError

	// close decoders before the underlying file
	for i := len(r.closers) - 1; i >= 0; i-- {
		fe.add(r.closers[i].Close())
	}

	return fe.err
}

// OpenTable opens a table file written with any supported compression
func OpenTable(fname string) (io.ReadCloser, error) {

	fl, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	rdr := &tableReader{Reader: fl, closers: []io.Closer{fl}}

	switch {
	case strings.HasSuffix(fname, ".gz"):
		zpr, err := pgzip.NewReader(fl)
		if err != nil {
			fl.Close()
			return nil, errors.Wrapf(err, "unable to decompress %s", fname)
		}
		rdr.Reader = zpr
		rdr.closers = append(rdr.closers, zpr)
	case strings.HasSuffix(fname, ".zst"):
		dec, err := zstd.NewReader(fl)
		if err != nil {
			fl.Close()
			return nil, errors.Wrapf(err, "unable to decompress %s", fname)
		}
		zrc := dec.IOReadCloser()
		rdr.Reader = zrc
		rdr.closers = append(rdr.closers, zrc)
	case strings.HasSuffix(fname, ".lz4"):
		rdr.Reader = lz4.NewReader(fl)
	default:
	}

	return rdr, nil
}

// FindTable returns the path of a table file in dir, whatever its compression
func FindTable(dir string, tbl Table) (string, bool) {

	for _, cmp := range []Compression{NOCOMPRESS, GZIPCOMPRESS, ZSTDCOMPRESS, LZ4COMPRESS} {
		fname := filepath.Join(dir, tbl.String()+".tsv"+cmp.Suffix())
		if fi, err := os.Stat(fname); err == nil && !fi.IsDir() {
			return fname, true
		}
	}

	return "", false
}

// ConvertToParquet writes <table>.parquet next to every table file found in
// dir, and returns the number of tables converted
func ConvertToParquet(dir string, report func(name string, rows int)) (int, error) {

	converted := 0

	for i := 0; i < NumTables; i++ {

		tbl := Table(i)

		fname, ok := FindTable(dir, tbl)
		if !ok {
			continue
		}

		inp, err := OpenTable(fname)
		if err != nil {
			return converted, errors.Wrapf(err, "unable to open %s", fname)
		}

		oname := filepath.Join(dir, tbl.String()+".parquet")
		out, err := os.Create(oname)
		if err != nil {
			inp.Close()
			return converted, errors.Wrapf(err, "unable to create %s", oname)
		}

		wrtr := bufio.NewWriterSize(out, 1024*1024)

		rows, err := ConvertTable(tbl, inp, wrtr)

		var fe firstError
		fe.add(err)
		fe.add(wrtr.Flush())
		fe.add(out.Close())
		fe.add(inp.Close())

		if fe.err != nil {
			return converted, errors.Wrapf(fe.err, "unable to convert %s", fname)
		}

		if report != nil {
			report(tbl.String(), rows)
		}

		converted++
	}

	return converted, nil
}
