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
// File Name:  entry.go
//
// ==========================================================================

package parcutils

import (
	"fmt"
)

// notifier sends tolerable-input diagnostics, each distinct message once unless verbose
type notifier struct {
	warn    func(format string, params ...interface{})
	verbose bool
	seen    map[string]bool
}

func (n *notifier) once(format string, params ...interface{}) {

	if n == nil || n.warn == nil {
		return
	}

	if !n.verbose {
		key := fmt.Sprintf(format, params...)
		if n.seen[key] {
			return
		}
		if n.seen == nil {
			n.seen = make(map[string]bool)
		}
		n.seen[key] = true
	}

	n.warn(format, params...)
}

// Entry accumulates the working set of the entry currently being read. It
// is reset at each entry start and flushed at the matching end.
type Entry struct {
	Sequence   SequenceRecord
	XRefs      []CrossReference
	Properties [NumCategories]PropertyTable
	Domains    []DomainMatch

	// position of the most recently kept cross-reference, -1 after a dropped one
	current int
	sawXRef bool

	note *notifier
}

// NewEntry returns an empty accumulator. Diagnostics for unexpected
// attributes and skipped properties go to warn, which may be nil.
func NewEntry(warn func(format string, params ...interface{}), verbose bool) *Entry {

	return &Entry{
		current: -1,
		note:    &notifier{warn: warn, verbose: verbose},
	}
}

// Reset empties the accumulator for the next entry
func (e *Entry) Reset() {

	e.Sequence = SequenceRecord{}
	e.XRefs = e.XRefs[:0]
	for i := range e.Properties {
		e.Properties[i].Reset()
	}
	e.Domains = e.Domains[:0]
	e.current = -1
	e.sawXRef = false
}

// CurrentXRef returns the property attachment target, or nil if the most
// recent cross-reference was dropped or none has been seen
func (e *Entry) CurrentXRef() *CrossReference {

	if e.current < 0 || e.current >= len(e.XRefs) {
		return nil
	}

	return &e.XRefs[e.current]
}

// stamp copies the accession into every row of the entry
func (e *Entry) stamp() {

	id := e.Sequence.EntryID

	for i := range e.XRefs {
		e.XRefs[i].EntryID = id
	}
	for i := range e.Properties {
		links := e.Properties[i].links
		for j := range links {
			links[j].EntryID = id
		}
	}
	for i := range e.Domains {
		e.Domains[i].EntryID = id
	}
}
