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
// File Name:  errors.go
//
// ==========================================================================

package parcutils

import (
	"github.com/pkg/errors"
)

// Fatal conditions. Each indicates input that violates the assumed UniParc
// grammar, and processing stops at the first one. Returned errors wrap these
// values with position and identifier details, so test with errors.Is.
var (
	ErrTokenizer       = errors.New("unable to tokenize XML")
	ErrNesting         = errors.New("mismatched end element")
	ErrTruncated       = errors.New("truncated input")
	ErrBadNumber       = errors.New("non-numeric attribute value")
	ErrUnknownCategory = errors.New("unknown property type")
	ErrNotPDB          = errors.New("chain property outside PDB cross-reference")
	ErrNoDomain        = errors.New("annotation without signature match")
	ErrReannotated     = errors.New("signature match already has InterPro annotation")
	ErrEmptyInterPro   = errors.New("empty InterPro name or identifier")
	ErrZeroSpan        = errors.New("zero domain location")
)

// firstError remembers the first of a series of errors, so that independent
// writes can all be attempted before the failure is reported
type firstError struct {
	err error
}

func (f *firstError) add(err error) {

	if err != nil && f.err == nil {
		f.err = err
	}
}
