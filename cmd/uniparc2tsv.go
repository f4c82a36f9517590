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
// File Name:  uniparc2tsv.go
//
// ==========================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/pgzip"

	"uniparc/parcutils"
)

const uniparcHelp = `
Conversion

  -input     Read XML from file instead of stdin
  -gzip      Decompress gzip input (implied by .gz file suffix)

Output

  -basedir   Directory for table files [.]
  -compress  Table compression: none, gzip, zstd, or lz4
  -gz        Shorthand for -compress gzip
  -fasta     Also write uniparc.fasta

Processing

  -limit     Stop after this many entries
  -verify    Check sequence length and CRC-64 checksum
  -progress  Entries between progress notes [10000], 0 to disable
  -config    Read settings from YAML, TOML, or INI file

Conversion of Existing Tables

  -parquet   Write <table>.parquet for every table file in directory

Diagnostics

  -verbose   Report every unrecognized element or attribute
  -quiet     Suppress warnings and progress notes
  -timer     Print processing rate and duration
  -stats     Print processor and memory details
  -proc      Number of compression threads
  -gogc      Garbage collection percentage

Documentation

  -help      Print this message
  -version   Print version number

Examples

  uniparc2tsv -input uniparc_all.xml.gz -basedir tables -compress zstd

  gunzip -c uniparc_all.xml.gz | uniparc2tsv -basedir tables -verify -timer

  uniparc2tsv -parquet tables

`

func main() {

	// skip past executable name
	args := os.Args[1:]

	opts := parcutils.DefaultOptions()

	// configuration file settings are applied first, so any other argument overrides them
	for i, str := range args {
		if str == "-config" {
			if i+1 >= len(args) {
				parcutils.DisplayError("Configuration file name is missing")
				os.Exit(1)
			}
			if err := parcutils.ReadConfig(args[i+1], &opts); err != nil {
				parcutils.DisplayError("%s", err.Error())
				os.Exit(1)
			}
		}
	}

	// read data from file instead of stdin
	fileName := ""

	// use pgzip decompression on release files
	zipp := false

	// convert existing tables
	parquetDir := ""

	// debugging
	stts := false
	timr := false

	goGc := 0

	for len(args) > 0 {

		switch args[0] {

		case "-version":
			fmt.Printf("%s\n", parcutils.ParcVersion)
			return
		case "-help", "help", "--help":
			fmt.Printf("uniparc2tsv %s\n%s", parcutils.ParcVersion, uniparcHelp)
			return

		case "-config":
			// already applied
			args = args[1:]
		case "-input":
			fileName = parcutils.GetStringArg(args, "Input file name")
			args = args[1:]
		case "-gzip":
			zipp = true

		case "-basedir":
			opts.BaseDir = parcutils.GetStringArg(args, "Base directory")
			args = args[1:]
		case "-compress":
			opts.Compress = parcutils.GetStringArg(args, "Compression type")
			args = args[1:]
		case "-gz":
			opts.Compress = "gzip"
		case "-fasta":
			opts.Fasta = true

		case "-limit":
			opts.Limit = parcutils.GetNumericArg(args, "Entry limit", 0, 0, 0)
			args = args[1:]
		case "-verify":
			opts.Verify = true
		case "-progress":
			opts.ProgressEvery = parcutils.GetNumericArg(args, "Progress interval", 0, 0, 0)
			args = args[1:]

		case "-parquet":
			parquetDir = parcutils.GetStringArg(args, "Table directory")
			args = args[1:]

		case "-verbose":
			opts.Verbose = true
		case "-quiet":
			opts.Quiet = true
		case "-stats", "-stat":
			stts = true
		case "-timer":
			timr = true
		case "-proc":
			opts.Procs = parcutils.GetNumericArg(args, "Number of processors", 0, 1, runtime.NumCPU())
			args = args[1:]
		case "-gogc":
			goGc = parcutils.GetNumericArg(args, "Garbage collection percentage", 0, 50, 1000)
			args = args[1:]

		default:
			parcutils.DisplayError("Unrecognized argument '%s'", args[0])
			os.Exit(1)
		}

		// skip past argument
		args = args[1:]
	}

	parcutils.SetTunings(opts.Procs, 0, goGc)

	if stts {
		parcutils.PrintStats()
	}

	// PARQUET CONVERSION OF PREVIOUS OUTPUT

	if parquetDir != "" {

		report := func(name string, rows int) {
			if !opts.Quiet {
				parcutils.DisplayNote("Wrote %s.parquet with %s", name, parcutils.CountNoun(rows, "row"))
			}
		}

		num, err := parcutils.ConvertToParquet(parquetDir, report)
		if err != nil {
			parcutils.DisplayError("%s", err.Error())
			os.Exit(1)
		}
		if num == 0 {
			parcutils.DisplayError("No table files found in '%s'", parquetDir)
			os.Exit(1)
		}

		if timr {
			parcutils.PrintDuration("table", num)
		}

		return
	}

	cmp, err := parcutils.ParseCompression(opts.Compress)
	if err != nil {
		parcutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	// FILE NAME CAN BE SUPPLIED WITH -input COMMAND

	var in io.Reader = os.Stdin

	fi, err := os.Stdin.Stat()
	isPipe := err == nil && (fi.Mode()&os.ModeCharDevice) == 0

	if fileName != "" {

		inFile, err := os.Open(fileName)
		if err != nil {
			parcutils.DisplayError("Unable to open input file '%s'", fileName)
			os.Exit(1)
		}

		defer inFile.Close()

		// use indicated file instead of stdin
		in = inFile

		if strings.HasSuffix(fileName, ".gz") {
			zipp = true
		}

	} else if !isPipe {
		parcutils.DisplayError("No XML input supplied to uniparc2tsv")
		os.Exit(1)
	}

	if zipp {

		zpr, err := pgzip.NewReader(in)
		if err != nil {
			parcutils.DisplayError("Unable to create gzip reader - %s", err.Error())
			os.Exit(1)
		}

		defer zpr.Close()

		// replace input io.Reader
		in = zpr
	}

	tbls, err := parcutils.CreateTables(opts.BaseDir, cmp, opts.Fasta)
	if err != nil {
		parcutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	prsr := parcutils.NewParser(in, tbls, opts)

	recordCount, err := prsr.Run()

	// partially written tables are closed and left in place
	cerr := tbls.Close()

	if err == nil {
		err = cerr
	}

	if err != nil {
		parcutils.DisplayError("%s", err.Error())
		fmt.Fprintf(os.Stderr, "Processed %s before failure\n", parcutils.CountNoun(recordCount, "entry"))
		os.Exit(1)
	}

	if opts.Verify && prsr.Mismatches() > 0 {
		parcutils.DisplayWarning("%s failed verification", parcutils.CountNoun(prsr.Mismatches(), "entry"))
	}

	if timr {
		parcutils.PrintDuration("entry", recordCount)
	} else {
		fmt.Fprintf(os.Stderr, "Processed %s\n", parcutils.CountNoun(recordCount, "entry"))
	}

	if stts {
		parcutils.PrintMemory()
	}
}
