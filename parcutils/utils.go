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
// File Name:  utils.go
//
// ==========================================================================

package parcutils

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gedex/inflector"
	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParcVersion is the current uniparc2tsv release number
const ParcVersion = "1.2"

// severity labels for messages sent to stderr, colorized only on terminals
var (
	errorLabel = color.New(color.FgRed, color.Bold, color.ReverseVideo)
	warnLabel  = color.New(color.FgRed, color.Bold)
	noteLabel  = color.New(color.FgBlue, color.Bold)
)

// PERFORMANCE PARAMETERS

// performance tuning variables
var (
	nCPU      int
	numProcs  int
	blockSize int
	goGc      int
)

// program execution timer
var (
	startTime time.Time
)

// number formatting with thousands separators
var printer = message.NewPrinter(language.English)

// DisplayError prints an error message to stderr
func DisplayError(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)
	fmt.Fprintf(color.Error, "\n%s %s\n", errorLabel.Sprint(" ERROR: "), str)
}

// DisplayWarning prints a warning message to stderr
func DisplayWarning(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)
	fmt.Fprintf(color.Error, "%s %s\n", warnLabel.Sprint("WARNING:"), str)
}

// DisplayNote prints an informational message to stderr
func DisplayNote(format string, params ...interface{}) {

	str := fmt.Sprintf(format, params...)
	fmt.Fprintf(color.Error, "%s %s\n", noteLabel.Sprint("NOTE:"), str)
}

// FormatCount returns a number with English thousands separators
func FormatCount(num int) string {

	return printer.Sprintf("%d", num)
}

// CountNoun returns the count followed by the singular or plural form of the noun
func CountNoun(num int, noun string) string {

	if num != 1 {
		noun = inflector.Pluralize(noun)
	}

	return FormatCount(num) + " " + noun
}

// GetNumericArg returns an integer argument, reporting an error if no remaining arguments
func GetNumericArg(args []string, name string, zer, min, max int) int {

	if len(args) < 2 {
		DisplayError("%s is missing", name)
		os.Exit(1)
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		DisplayError("%s (%s) is not an integer", name, args[1])
		os.Exit(1)
	}

	// special case for argument value of 0
	if value < 1 {
		return zer
	}
	// limit value to between specified minimum and maximum
	if value < min && min > 0 {
		return min
	}
	if value > max && max > 0 {
		return max
	}
	return value
}

// GetStringArg returns a string argument, reporting an error if no remaining arguments
func GetStringArg(args []string, name string) string {

	if len(args) < 2 {
		DisplayError("%s is missing", name)
		os.Exit(1)
	}
	return args[1]
}

// SetTunings sets performance parameters
func SetTunings(nmProcs, blkSize, gogc int) {

	if gogc < 50 || gogc > 1000 {
		gogc = 200
	}

	goGc = gogc

	nCPU = runtime.NumCPU()
	if nCPU < 1 {
		nCPU = 1
	}

	// compression threads default to the number of physical cores
	if nmProcs < 1 {
		nmProcs = nCPU
		if cpuid.CPU.ThreadsPerCore > 1 {
			cores := nCPU / cpuid.CPU.ThreadsPerCore
			if cores > 0 {
				nmProcs = cores
			}
		}
	}

	if nmProcs > nCPU {
		nmProcs = nCPU
	}

	numProcs = nmProcs

	// pgzip block size, in bytes
	if blkSize < 65536 || blkSize > 16*1024*1024 {
		blkSize = 1024 * 1024
	}

	blockSize = blkSize

	debug.SetGCPercent(goGc)
}

// GetTunings returns performance parameter values
func GetTunings() (nmProcs, blkSize, gogc int) {

	return numProcs, blockSize, goGc
}

// PrintDuration prints processing rate and program duration
func PrintDuration(name string, recordCount int) {

	stopTime := time.Now()
	duration := stopTime.Sub(startTime)
	seconds := float64(duration.Nanoseconds()) / 1e9

	prec := 3
	if seconds >= 100 {
		prec = 1
	} else if seconds >= 10 {
		prec = 2
	}

	if recordCount > 0 {
		fmt.Fprintf(os.Stderr, "\nProcessed %s in %.*f seconds", CountNoun(recordCount, name), prec, seconds)
	} else {
		fmt.Fprintf(os.Stderr, "\nProcessing completed in %.*f seconds", prec, seconds)
	}

	if seconds >= 0.001 && recordCount > 0 {
		rate := int(float64(recordCount) / seconds)
		fmt.Fprintf(os.Stderr, " (%s/second)", CountNoun(rate, name))
	}

	fmt.Fprintf(os.Stderr, "\n\n")
}

// PrintStats prints processor, memory, and tuning parameters
func PrintStats() {

	fmt.Fprintf(os.Stderr, "Thrd %d\n", nCPU)
	if cpuid.CPU.ThreadsPerCore > 0 {
		fmt.Fprintf(os.Stderr, "Core %d\n", nCPU/cpuid.CPU.ThreadsPerCore)
	}
	if cpuid.CPU.LogicalCores > 0 {
		fmt.Fprintf(os.Stderr, "Sock %d\n", nCPU/cpuid.CPU.LogicalCores)
	}
	fmt.Fprintf(os.Stderr, "Mmry %d\n", memory.TotalMemory()/(1024*1024*1024))

	fmt.Fprintf(os.Stderr, "Proc %d\n", numProcs)
	fmt.Fprintf(os.Stderr, "Blck %d\n", blockSize)
	fmt.Fprintf(os.Stderr, "Gogc %d\n", goGc)

	fi, err := os.Stdin.Stat()
	if err == nil {
		mode := fi.Mode().String()
		fmt.Fprintf(os.Stderr, "Mode %s\n", mode)
	}

	fmt.Fprintf(os.Stderr, "\n")
}

// PrintMemory reports current heap usage, useful for confirming per-entry memory bounds
func PrintMemory() {

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	fmt.Fprintf(os.Stderr, "Alloc = %v MiB", bToMb(m.Alloc))
	fmt.Fprintf(os.Stderr, "\tTotalAlloc = %v MiB", bToMb(m.TotalAlloc))
	fmt.Fprintf(os.Stderr, "\tSys = %v MiB", bToMb(m.Sys))
	fmt.Fprintf(os.Stderr, "\tNumGC = %v\n", m.NumGC)
}

// parser character type lookup tables
var (
	inBlank   [256]bool
	inFirst   [256]bool
	inElement [256]bool
)

// initialize lookup tables that simplify the tokenizer
func init() {

	startTime = time.Now()

	inBlank[' '] = true
	inBlank['\t'] = true
	inBlank['\n'] = true
	inBlank['\r'] = true
	inBlank['\f'] = true

	// first character of element cannot be a digit, dash, or period
	for ch := 'A'; ch <= 'Z'; ch++ {
		inFirst[ch] = true
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		inFirst[ch] = true
	}
	inFirst['_'] = true

	// remaining characters also includes colon for namespace
	for ch := 'A'; ch <= 'Z'; ch++ {
		inElement[ch] = true
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		inElement[ch] = true
	}
	for ch := '0'; ch <= '9'; ch++ {
		inElement[ch] = true
	}
	inElement['_'] = true
	inElement['-'] = true
	inElement['.'] = true
	inElement[':'] = true

	// initialize performance tuning variables with default values
	SetTunings(0, 0, 0)
}
