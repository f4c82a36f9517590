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
// File Name:  driver.go
//
// ==========================================================================

package parcutils

import (
	"io"

	"github.com/pkg/errors"
)

// text destination selector
const (
	noText = iota
	accessionText
	sequenceText
)

// elements that need no handler and draw no diagnostic
var passElements = map[string]bool{
	"uniparc":   true,
	"copyright": true,
}

// Parser drives the tokenizer, dispatches elements to the entry handlers,
// and flushes each completed entry to the tables
type Parser struct {
	opts Options
	tbls *TableSet
	tkzr *XMLTokenizer

	entry *Entry
	stack []string
	field int

	count      int
	flushed    int
	mismatches int
	stopped    bool

	note *notifier
}

// NewParser prepares a conversion of one input stream
func NewParser(in io.Reader, tbls *TableSet, opts Options) *Parser {

	if opts.Warn == nil {
		opts.Warn = DisplayWarning
	}
	if opts.Progress == nil {
		opts.Progress = func(count int) {
			DisplayNote("Processed %s", CountNoun(count, "entry"))
		}
	}

	note := &notifier{warn: opts.Warn, verbose: opts.Verbose}
	if opts.Quiet {
		note.warn = nil
	}

	return &Parser{
		opts:  opts,
		tbls:  tbls,
		tkzr:  NewXMLTokenizer(in),
		entry: &Entry{current: -1, note: note},
		note:  note,
	}
}

// Count returns the number of entries seen
func (p *Parser) Count() int {

	return p.count
}

// Mismatches returns the number of entries that failed verification
func (p *Parser) Mismatches() int {

	return p.mismatches
}

// Run consumes the input to completion, to the entry limit, or to the first
// fatal error. The number of entries seen is returned in every case.
func (p *Parser) Run() (int, error) {

	for !p.stopped {

		tkn, err := p.tkzr.Next()
		if err != nil {
			return p.count, err
		}

		switch tkn.Tag {
		case STARTTAG:
			err = p.start(tkn)
		case SELFTAG:
			err = p.start(tkn)
			if err == nil {
				err = p.end(tkn)
			}
		case STOPTAG:
			err = p.end(tkn)
		case CONTENTTAG, CDATATAG:
			p.text(tkn.Name)
		case ISCLOSED:
			if len(p.stack) != 0 {
				return p.count, errors.Wrapf(ErrTruncated, "%d open elements, innermost <%s>, at line %d",
					len(p.stack), p.stack[len(p.stack)-1], tkn.Line)
			}
			return p.count, nil
		default:
			// comments, DOCTYPE, and processing instructions are ignored
		}

		if err != nil {
			return p.count, err
		}
	}

	return p.count, nil
}

// start pushes an element and dispatches to its handler
func (p *Parser) start(tkn XMLToken) error {

	p.stack = append(p.stack, tkn.Name)

	e := p.entry

	switch tkn.Name {
	case "entry":
		e.Reset()
		p.count++
		p.field = noText
	case "accession":
		p.field = accessionText
	case "sequence":
		p.field = sequenceText
		return e.SetSequenceAttributes(ParseAttributes(tkn.Attr))
	case "dbReference":
		e.AddCrossReference(ParseAttributes(tkn.Attr))
	case "property":
		return e.AddProperty(e.CurrentXRef(), ParseAttributes(tkn.Attr))
	case "signatureSequenceMatch":
		e.AddSignatureMatch(ParseAttributes(tkn.Attr))
	case "ipr":
		return e.AddInterPro(ParseAttributes(tkn.Attr))
	case "lcn":
		return e.AddLocation(ParseAttributes(tkn.Attr))
	default:
		if !passElements[tkn.Name] {
			p.note.once("Unrecognized element <%s> ignored", tkn.Name)
		}
	}

	return nil
}

// end pops an element, which must match the top of the stack. A completed
// entry is flushed before the check.
func (p *Parser) end(tkn XMLToken) error {

	if tkn.Name == "entry" {
		if err := p.flush(); err != nil {
			return err
		}
	}

	if len(p.stack) == 0 {
		return errors.Wrapf(ErrNesting, "</%s> without start element at line %d", tkn.Name, tkn.Line)
	}

	top := p.stack[len(p.stack)-1]
	if top != tkn.Name {
		return errors.Wrapf(ErrNesting, "</%s> closes <%s> at line %d", tkn.Name, top, tkn.Line)
	}
	p.stack = p.stack[:len(p.stack)-1]

	switch tkn.Name {
	case "accession", "sequence":
		p.field = noText
	default:
	}

	return nil
}

// text routes content to the accession or residues field
func (p *Parser) text(str string) {

	switch p.field {
	case accessionText:
		p.entry.SetAccession(str)
	case sequenceText:
		p.entry.AppendResidues(str)
	default:
	}
}

// flush emits the completed entry, with optional verification, progress, and limit checks
func (p *Parser) flush() error {

	e := p.entry

	if p.opts.Verify {
		if problems := VerifySequence(e.Sequence); len(problems) > 0 {
			p.mismatches++
			if !p.opts.Quiet {
				for _, str := range problems {
					p.opts.Warn("Entry %s %s", e.Sequence.EntryID, str)
				}
			}
		}
	}

	if err := e.Emit(p.tbls); err != nil {
		return err
	}

	p.flushed++

	if p.opts.ProgressEvery > 0 && p.flushed%p.opts.ProgressEvery == 0 && !p.opts.Quiet {
		p.opts.Progress(p.flushed)
	}

	if p.opts.Limit > 0 && p.flushed >= p.opts.Limit {
		// remaining input is intentionally left unread
		p.stopped = true
	}

	return nil
}

// Run converts one UniParc XML stream into the given tables
func Run(in io.Reader, tbls *TableSet, opts Options) (int, error) {

	prsr := NewParser(in, tbls, opts)

	return prsr.Run()
}
