package parcutils

import (
	"strconv"
	"testing"
)

func TestCountNoun(t *testing.T) {

	stringTestMatch(t, "CountNoun,",
		func(str string) string {
			num, _ := strconv.Atoi(str)
			return CountNoun(num, "entry")
		},
		[]stringTable{
			{"0", "0 entries"},
			{"1", "1 entry"},
			{"2", "2 entries"},
			{"1234567", "1,234,567 entries"},
		})
}

func TestSetTunings(t *testing.T) {

	defer SetTunings(0, 0, 0)

	SetTunings(1, 1, 1)
	procs, blk, gogc := GetTunings()
	if procs != 1 || blk != 1024*1024 || gogc != 200 {
		t.Errorf("GetTunings() = %d, %d, %d, expected 1, 1048576, 200", procs, blk, gogc)
	}

	SetTunings(0, 262144, 400)
	procs, blk, gogc = GetTunings()
	if procs < 1 || blk != 262144 || gogc != 400 {
		t.Errorf("GetTunings() = %d, %d, %d", procs, blk, gogc)
	}
}
