package parcutils

import (
	"strings"
	"testing"
)

func TestCRC64(t *testing.T) {

	stringTestMatch(t, "CRC64,",
		CRC64,
		[]stringTable{
			{"", "0000000000000000"},
			{"A", "6DB0000000000000"},
			{"ABCD", "6AAEBF0DB0000000"},
			{"MKTAYIAKQRQISFVKSHFSRQ", "B0947C4BDFFF1FE5"},
		})
}

func TestVerifySequence(t *testing.T) {

	stringTestMatch(t, "VerifySequence,",
		func(str string) string {
			// residues, length, checksum
			flds := strings.Split(str, ",")
			var num uint32
			for _, ch := range flds[1] {
				num = num*10 + uint32(ch-'0')
			}
			problems := VerifySequence(SequenceRecord{Residues: flds[0], Length: num, Checksum: flds[2]})
			if len(problems) == 0 {
				return "OK"
			}
			return strings.Join(problems, "; ")
		},
		[]stringTable{
			{"ABCD,4,6AAEBF0DB0000000", "OK"},
			{"ABCD,4,6aaebf0db0000000", "OK"},
			{"ABCD,4,CRC-6AAEBF0DB0000000", "OK"},
			{"ABCD,0,", "OK"},
			{"ABCD,5,", "length 5 differs from 4 residues"},
			{"ABCD,4,6AAEBF0DB0000001", "checksum 6AAEBF0DB0000001 differs from computed 6AAEBF0DB0000000"},
		})
}
