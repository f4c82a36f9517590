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
// File Name:  handlers.go
//
// ==========================================================================

package parcutils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SetAccession records the entry identifier
func (e *Entry) SetAccession(text string) {

	e.Sequence.EntryID = strings.TrimSpace(text)
}

// SetSequenceAttributes reads length and checksum from a sequence element
func (e *Entry) SetSequenceAttributes(attrs []string) error {

	for i := 0; i+1 < len(attrs); i += 2 {
		name, val := attrs[i], attrs[i+1]
		switch name {
		case "length":
			num, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
			if err != nil {
				return errors.Wrapf(ErrBadNumber, "sequence length '%s' in entry %s", val, e.Sequence.EntryID)
			}
			e.Sequence.Length = uint32(num)
		case "checksum":
			e.Sequence.Checksum = val
		default:
			e.note.once("Unexpected attribute '%s' in <sequence>", name)
		}
	}

	return nil
}

// AppendResidues adds sequence text, removing the line breaks and indentation of wrapped lines
func (e *Entry) AppendResidues(text string) {

	if strings.IndexFunc(text, isBlankRune) < 0 {
		e.Sequence.Residues += text
		return
	}

	e.Sequence.Residues += strings.Map(func(c rune) rune {
		if isBlankRune(c) {
			return -1
		}
		return c
	}, text)
}

func isBlankRune(c rune) bool {

	return c < 128 && inBlank[c]
}

// AddCrossReference builds a cross-reference from a dbReference element. It
// is kept only when active is "Y", and only kept references consume an index.
// The return value reports whether it was kept.
func (e *Entry) AddCrossReference(attrs []string) bool {

	e.sawXRef = true

	var xref CrossReference

	for i := 0; i+1 < len(attrs); i += 2 {
		name, val := attrs[i], attrs[i+1]
		switch name {
		case "type":
			xref.DBType = val
		case "id":
			xref.DBID = val
		case "version_i":
			xref.VersionI = val
		case "active":
			xref.Active = val
		case "version":
			xref.Version = val
		case "created":
			xref.Created = val
		case "last":
			xref.Last = val
		default:
			e.note.once("Unexpected attribute '%s' in <dbReference>", name)
		}
	}

	if xref.Active != "Y" {
		e.current = -1
		return false
	}

	xref.EntryID = e.Sequence.EntryID
	xref.Index = uint64(len(e.XRefs) + 1)
	e.XRefs = append(e.XRefs, xref)
	e.current = len(e.XRefs) - 1

	return true
}

// AddProperty interns a property value of the given cross-reference and
// records the junction row. A nil cross-reference means the enclosing
// reference was dropped, and the property is skipped.
func (e *Entry) AddProperty(xref *CrossReference, attrs []string) error {

	if xref == nil {
		if !e.sawXRef {
			e.note.once("Property outside of <dbReference> in entry %s skipped", e.Sequence.EntryID)
		}
		return nil
	}

	typ := ""
	value := ""

	for i := 0; i+1 < len(attrs); i += 2 {
		name, val := attrs[i], attrs[i+1]
		switch name {
		case "type":
			typ = val
		case "value":
			value = val
		default:
			e.note.once("Unexpected attribute '%s' in <property>", name)
		}
	}

	cat, ok := CategoryFromType(typ)
	if !ok {
		return errors.Wrapf(ErrUnknownCategory, "'%s' in entry %s", typ, e.Sequence.EntryID)
	}

	if cat == CHAIN {
		if xref.DBType != "PDB" {
			return errors.Wrapf(ErrNotPDB, "%s %s in entry %s", xref.DBType, xref.DBID, e.Sequence.EntryID)
		}
		value = xref.DBID + value
	}

	tbl := &e.Properties[cat]
	sur := tbl.Intern(value)
	tbl.Link(xref.Index, sur, cat)

	return nil
}

// AddSignatureMatch starts a new domain match
func (e *Entry) AddSignatureMatch(attrs []string) {

	var dom DomainMatch

	for i := 0; i+1 < len(attrs); i += 2 {
		name, val := attrs[i], attrs[i+1]
		switch name {
		case "database":
			dom.Database = val
		case "id":
			dom.DatabaseID = val
		default:
			e.note.once("Unexpected attribute '%s' in <signatureSequenceMatch>", name)
		}
	}

	dom.EntryID = e.Sequence.EntryID
	e.Domains = append(e.Domains, dom)
}

// AddInterPro annotates the most recent domain match, which must not already be annotated
func (e *Entry) AddInterPro(attrs []string) error {

	if len(e.Domains) == 0 {
		return errors.Wrapf(ErrNoDomain, "<ipr> in entry %s", e.Sequence.EntryID)
	}

	top := &e.Domains[len(e.Domains)-1]
	if top.InterProName != "" || top.InterProID != "" {
		return errors.Wrapf(ErrReannotated, "%s %s in entry %s", top.Database, top.DatabaseID, e.Sequence.EntryID)
	}

	iprName := ""
	iprID := ""

	for i := 0; i+1 < len(attrs); i += 2 {
		name, val := attrs[i], attrs[i+1]
		switch name {
		case "name":
			iprName = val
		case "id":
			iprID = val
		default:
			e.note.once("Unexpected attribute '%s' in <ipr>", name)
		}
	}

	if iprName == "" || iprID == "" {
		return errors.Wrapf(ErrEmptyInterPro, "%s %s in entry %s", top.Database, top.DatabaseID, e.Sequence.EntryID)
	}

	top.InterProName = iprName
	top.InterProID = iprID

	return nil
}

// AddLocation sets the span of the most recent domain match. The first span
// fills it in place; each later span appends a copy carrying the new span.
func (e *Entry) AddLocation(attrs []string) error {

	if len(e.Domains) == 0 {
		return errors.Wrapf(ErrNoDomain, "<lcn> in entry %s", e.Sequence.EntryID)
	}

	var start, end uint32

	parse := func(name, val string) (uint32, error) {
		num, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
		if err != nil {
			return 0, errors.Wrapf(ErrBadNumber, "location %s '%s' in entry %s", name, val, e.Sequence.EntryID)
		}
		return uint32(num), nil
	}

	for i := 0; i+1 < len(attrs); i += 2 {
		name, val := attrs[i], attrs[i+1]
		var err error
		switch name {
		case "start":
			start, err = parse(name, val)
		case "end":
			end, err = parse(name, val)
		default:
			e.note.once("Unexpected attribute '%s' in <lcn>", name)
		}
		if err != nil {
			return err
		}
	}

	if start == 0 || end == 0 {
		return errors.Wrapf(ErrZeroSpan, "start %d end %d in entry %s", start, end, e.Sequence.EntryID)
	}

	top := &e.Domains[len(e.Domains)-1]
	if top.Start == 0 && top.End == 0 {
		top.Start = start
		top.End = end
		return nil
	}

	dom := *top
	dom.Start = start
	dom.End = end
	e.Domains = append(e.Domains, dom)

	return nil
}
