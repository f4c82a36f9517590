package parcutils

import (
	"strings"
	"testing"
)

func TestFormatFASTA(t *testing.T) {

	stringTestMatch(t, "FormatFASTA,",
		func(str string) string {
			var buffer strings.Builder
			FormatFASTA(&buffer, SequenceRecord{EntryID: "UPI1", Residues: str, Length: uint32(len(str)), Checksum: "C"}, 0)
			return buffer.String()
		},
		[]stringTable{
			{"mkta", ">UPI1 length=4 checksum=C\nMKTA\n"},
			{strings.Repeat("A", 60), ">UPI1 length=60 checksum=C\n" + strings.Repeat("A", 60) + "\n"},
			{strings.Repeat("A", 61), ">UPI1 length=61 checksum=C\n" + strings.Repeat("A", 60) + "\nA\n"},
			{"", ""},
		})

	var buffer strings.Builder
	FormatFASTA(&buffer, SequenceRecord{Residues: "ACDEFGHIKL"}, 4)
	if buffer.String() != ">unknown\nACDE\nFGHI\nKL\n" {
		t.Errorf("FormatFASTA width 4 = %q", buffer.String())
	}
}
