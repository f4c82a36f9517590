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
// File Name:  verify.go
//
// ==========================================================================

package parcutils

import (
	"fmt"
	"hash/crc64"
	"strings"
	"unicode/utf8"
)

var crcTable = crc64.MakeTable(crc64.ISO)

// CRC64 returns the UniProt-style checksum of a sequence, sixteen uppercase
// hexadecimal digits. The register starts at zero with no final inversion,
// unlike crc64.Checksum, hence the complements around Update.
func CRC64(residues string) string {

	crc := ^crc64.Update(^uint64(0), crcTable, []byte(residues))

	return fmt.Sprintf("%016X", crc)
}

// VerifySequence compares the declared length and checksum of a sequence
// with its residues, returning a description of each disagreement. Absent
// attributes are not checked.
func VerifySequence(seq SequenceRecord) []string {

	var problems []string

	if seq.Length != 0 {
		count := utf8.RuneCountInString(seq.Residues)
		if uint32(count) != seq.Length {
			problems = append(problems, fmt.Sprintf("length %d differs from %d residues", seq.Length, count))
		}
	}

	if seq.Checksum != "" {
		declared := strings.ToUpper(strings.TrimSpace(seq.Checksum))
		declared = strings.TrimPrefix(declared, "CRC-")
		declared = strings.TrimPrefix(declared, "CRC64-")
		computed := CRC64(seq.Residues)
		if declared != computed {
			problems = append(problems, fmt.Sprintf("checksum %s differs from computed %s", seq.Checksum, computed))
		}
	}

	return problems
}
