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
// File Name:  fasta.go
//
// ==========================================================================

package parcutils

import (
	"io"
	"strconv"
	"strings"
)

// FormatFASTA writes a sequence record with a defline carrying its length and
// checksum attributes, followed by residue lines of the specified width
func FormatFASTA(w io.Writer, seq SequenceRecord, width int) error {

	if seq.Residues == "" {
		return nil
	}

	if width < 1 || width > 100 {
		// default width is 60 characters per line
		width = 60
	}

	var buffer strings.Builder

	buffer.WriteString(">")
	if seq.EntryID != "" {
		buffer.WriteString(seq.EntryID)
	} else {
		buffer.WriteString("unknown")
	}
	if seq.Length != 0 {
		buffer.WriteString(" length=")
		buffer.WriteString(strconv.FormatUint(uint64(seq.Length), 10))
	}
	if seq.Checksum != "" {
		buffer.WriteString(" checksum=")
		buffer.WriteString(seq.Checksum)
	}
	buffer.WriteString("\n")

	sequence := seq.Residues

	for sequence != "" {

		mx := len(sequence)
		if mx > width {
			mx = width
		}
		item := sequence[:mx]
		sequence = sequence[mx:]
		buffer.WriteString(strings.ToUpper(item))
		buffer.WriteString("\n")
	}

	_, err := io.WriteString(w, buffer.String())

	return err
}
