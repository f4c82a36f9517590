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
// File Name:  config.go
//
// ==========================================================================

package parcutils

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/komkom/toml"
	"github.com/pkg/errors"
)

// Options controls a conversion run. File values are read first, and
// command-line arguments override them.
type Options struct {
	BaseDir       string `yaml:"basedir" json:"basedir"`
	Compress      string `yaml:"compress" json:"compress"`
	ProgressEvery int    `yaml:"progress" json:"progress"`
	Limit         int    `yaml:"limit" json:"limit"`
	Fasta         bool   `yaml:"fasta" json:"fasta"`
	Verify        bool   `yaml:"verify" json:"verify"`
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	Quiet         bool   `yaml:"quiet" json:"quiet"`
	Procs         int    `yaml:"procs" json:"procs"`

	// diagnostics, default to DisplayWarning and DisplayNote
	Warn     func(format string, params ...interface{}) `yaml:"-" json:"-"`
	Progress func(count int)                            `yaml:"-" json:"-"`
}

// DefaultOptions returns the settings used without a configuration file
func DefaultOptions() Options {

	return Options{
		BaseDir:       ".",
		Compress:      "none",
		ProgressEvery: 10000,
	}
}

// ReadConfig loads a YAML, TOML, or INI file, selected by extension, into opts
func ReadConfig(fname string, opts *Options) error {

	fl, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "unable to open configuration file %s", fname)
	}
	defer fl.Close()

	switch strings.ToLower(filepath.Ext(fname)) {
	case ".yaml", ".yml":
		err = ParseYAMLConfig(fl, opts)
	case ".toml":
		err = ParseTOMLConfig(fl, opts)
	case ".ini", ".cfg", ".conf":
		err = ParseINIConfig(fl, opts)
	default:
		return errors.Errorf("unrecognized configuration file type %s", fname)
	}

	if err != nil {
		return errors.Wrapf(err, "configuration file %s", fname)
	}

	return nil
}

// ParseYAMLConfig decodes YAML settings
func ParseYAMLConfig(inp io.Reader, opts *Options) error {

	data, err := io.ReadAll(inp)
	if err != nil {
		return err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	return yaml.Unmarshal(data, opts)
}

// ParseTOMLConfig decodes TOML settings, which are streamed through JSON
func ParseTOMLConfig(inp io.Reader, opts *Options) error {

	rdr := toml.New(inp)
	if rdr == nil {
		return errors.New("unable to create TOML reader")
	}

	dec := json.NewDecoder(rdr)
	if err := dec.Decode(opts); err != nil && err != io.EOF {
		return errors.Wrap(err, "unable to decode TOML")
	}

	return nil
}

// ParseINIConfig reads key = value lines. Section headers and comment lines
// beginning with semicolon or pound sign are ignored.
func ParseINIConfig(inp io.Reader, opts *Options) error {

	row := 0

	scanr := bufio.NewScanner(inp)

	for scanr.Scan() {

		line := scanr.Text()

		row++

		line = strings.TrimSpace(line)

		// ignore comment lines
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return errors.Errorf("improper section '%s' in line %d", line, row)
			}
			continue
		}

		lft, rgt, found := strings.Cut(line, "=")
		if !found || lft == "" {
			return errors.Errorf("improper item '%s' in line %d", line, row)
		}
		lft = strings.TrimSpace(lft)
		rgt = strings.TrimSpace(rgt)
		rgt = strings.TrimPrefix(rgt, "\"")
		rgt = strings.TrimSuffix(rgt, "\"")
		rgt = strings.TrimSpace(rgt)

		if err := opts.Set(lft, rgt); err != nil {
			return errors.Wrapf(err, "line %d", row)
		}
	}

	return scanr.Err()
}

// Set assigns one setting by its configuration key
func (opts *Options) Set(key, val string) error {

	num := func() (int, error) {
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, errors.Errorf("%s value '%s' is not an integer", key, val)
		}
		return n, nil
	}

	flag := func() (bool, error) {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, errors.Errorf("%s value '%s' is not true or false", key, val)
		}
		return b, nil
	}

	var err error

	switch strings.ToLower(key) {
	case "basedir":
		opts.BaseDir = val
	case "compress":
		opts.Compress = val
	case "progress":
		opts.ProgressEvery, err = num()
	case "limit":
		opts.Limit, err = num()
	case "procs":
		opts.Procs, err = num()
	case "fasta":
		opts.Fasta, err = flag()
	case "verify":
		opts.Verify, err = flag()
	case "verbose":
		opts.Verbose, err = flag()
	case "quiet":
		opts.Quiet, err = flag()
	default:
		err = errors.Errorf("unrecognized setting '%s'", key)
	}

	return err
}
