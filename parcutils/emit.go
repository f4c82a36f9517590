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
// File Name:  emit.go
//
// ==========================================================================

package parcutils

import (
	"strconv"
)

// Emit writes every row of the completed entry. Each row is attempted even
// after an earlier failure, and the first failure is returned.
func (e *Entry) Emit(ts *TableSet) error {

	e.stamp()

	var fe firstError

	seq := &e.Sequence
	id := seq.EntryID

	fe.add(ts.WriteRow(UNIPARC, id, seq.Residues, strconv.FormatUint(uint64(seq.Length), 10), seq.Checksum))

	for i := range e.XRefs {
		xref := &e.XRefs[i]
		fe.add(ts.WriteRow(UNIPARCXREF, xref.EntryID, strconv.FormatUint(xref.Index, 10),
			xref.DBType, xref.DBID, xref.VersionI, xref.Active, xref.Version, xref.Created, xref.Last))
	}

	for c := Category(0); c < NumCategories; c++ {
		tbl := &e.Properties[c]
		name := c.String()

		for _, lnk := range tbl.Links() {
			fe.add(ts.WriteRow(JunctionTable(c), lnk.EntryID, strconv.FormatUint(lnk.XRefIndex, 10),
				name, strconv.FormatUint(lnk.Surrogate, 10)))
		}

		for _, pv := range tbl.Values() {
			fe.add(ts.WriteRow(DictionaryTable(c), id, name, strconv.FormatUint(pv.Surrogate, 10), pv.Value))
		}
	}

	for i := range e.Domains {
		dom := &e.Domains[i]
		fe.add(ts.WriteRow(UNIPARCDOMAIN, dom.EntryID, dom.Database, dom.DatabaseID,
			dom.InterProName, dom.InterProID,
			strconv.FormatUint(uint64(dom.Start), 10), strconv.FormatUint(uint64(dom.End), 10)))
	}

	fe.add(ts.WriteFASTA(e.Sequence))

	return fe.err
}
