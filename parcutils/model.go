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
// File Name:  model.go
//
// ==========================================================================

package parcutils

// SequenceRecord holds the one sequence of an entry. Fields stay empty when
// the corresponding elements are absent, and a row is still written.
type SequenceRecord struct {
	EntryID  string
	Residues string
	Length   uint32
	Checksum string
}

// CrossReference is an active link to a record in an external database.
// Index is dense over kept references within the entry, starting at 1.
type CrossReference struct {
	EntryID  string
	Index    uint64
	DBType   string
	DBID     string
	VersionI string
	Active   string
	Version  string
	Created  string
	Last     string
}

// XRefProperty joins a cross-reference to an interned property value
type XRefProperty struct {
	EntryID   string
	XRefIndex uint64
	Category  Category
	Surrogate uint64
}

// PropertyValue is one dictionary row of a property category
type PropertyValue struct {
	Surrogate uint64
	Value     string
}

// DomainMatch records a signature database match, with at most one InterPro
// annotation and a single location span. A match with several locations is
// represented by one DomainMatch per span.
type DomainMatch struct {
	EntryID      string
	Database     string
	DatabaseID   string
	InterProName string
	InterProID   string
	Start        uint32
	End          uint32
}
