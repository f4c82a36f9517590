package parcutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func checkOptions(t *testing.T, name string, opts Options) {

	t.Helper()

	if opts.BaseDir != "out" || opts.Compress != "zstd" || opts.ProgressEvery != 500 || opts.Limit != 7 {
		t.Errorf("%s settings = %+v", name, opts)
	}
	if !opts.Fasta || !opts.Verify || opts.Verbose || !opts.Quiet || opts.Procs != 3 {
		t.Errorf("%s flags = %+v", name, opts)
	}
}

const yamlConfig = `# uniparc2tsv settings
basedir: out
compress: zstd
progress: 500
limit: 7
fasta: true
verify: true
quiet: true
procs: 3
`

const tomlConfig = `# uniparc2tsv settings
basedir = "out"
compress = "zstd"
progress = 500
limit = 7
fasta = true
verify = true
quiet = true
procs = 3
`

const iniConfig = `; uniparc2tsv settings
[output]
basedir = out
compress = "zstd"
fasta = true

[processing]
progress = 500
limit = 7
verify = true
quiet = yes
procs = 3
`

func TestParseConfig(t *testing.T) {

	opts := DefaultOptions()
	if err := ParseYAMLConfig(strings.NewReader(yamlConfig), &opts); err != nil {
		t.Fatalf("YAML: unexpected error %v", err)
	}
	checkOptions(t, "YAML", opts)

	opts = DefaultOptions()
	if err := ParseTOMLConfig(strings.NewReader(tomlConfig), &opts); err != nil {
		t.Fatalf("TOML: unexpected error %v", err)
	}
	checkOptions(t, "TOML", opts)

	opts = DefaultOptions()
	err := ParseINIConfig(strings.NewReader(iniConfig), &opts)
	if err == nil {
		t.Fatalf("INI: 'yes' accepted as a boolean")
	}

	opts = DefaultOptions()
	if err = ParseINIConfig(strings.NewReader(strings.Replace(iniConfig, "yes", "true", 1)), &opts); err != nil {
		t.Fatalf("INI: unexpected error %v", err)
	}
	checkOptions(t, "INI", opts)
}

func TestParseConfigDefaults(t *testing.T) {

	// settings absent from the file keep their defaults
	opts := DefaultOptions()
	if err := ParseYAMLConfig(strings.NewReader("verify: true\n"), &opts); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if opts.ProgressEvery != 10000 || opts.BaseDir != "." || !opts.Verify {
		t.Errorf("settings = %+v", opts)
	}

	opts = DefaultOptions()
	if err := ParseYAMLConfig(strings.NewReader(""), &opts); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	def := DefaultOptions()
	if opts.BaseDir != def.BaseDir || opts.Compress != def.Compress || opts.ProgressEvery != def.ProgressEvery || opts.Verify {
		t.Errorf("empty file changed settings to %+v", opts)
	}
}

func TestOptionsSet(t *testing.T) {

	stringTestMatch(t, "Options.Set,",
		func(str string) string {
			opts := DefaultOptions()
			key, val, _ := strings.Cut(str, "=")
			if err := opts.Set(key, val); err != nil {
				return "ERROR"
			}
			return opts.BaseDir + "," + opts.Compress + "," + FormatCount(opts.Limit)
		},
		[]stringTable{
			{"basedir=/data", "/data,none,0"},
			{"COMPRESS=gzip", ".,gzip,0"},
			{"limit=25000", ".,none,25,000"},
			{"limit=many", "ERROR"},
			{"fasta=maybe", "ERROR"},
			{"color=red", "ERROR"},
		})
}

func TestReadConfig(t *testing.T) {

	dir := t.TempDir()

	for _, test := range []struct {
		name string
		text string
	}{
		{"settings.yaml", yamlConfig},
		{"settings.toml", tomlConfig},
		{"settings.ini", strings.Replace(iniConfig, "yes", "true", 1)},
	} {
		fname := filepath.Join(dir, test.name)
		if err := os.WriteFile(fname, []byte(test.text), 0644); err != nil {
			t.Fatalf("unable to write %s: %v", fname, err)
		}
		opts := DefaultOptions()
		if err := ReadConfig(fname, &opts); err != nil {
			t.Fatalf("%s: unexpected error %v", test.name, err)
		}
		checkOptions(t, test.name, opts)
	}

	opts := DefaultOptions()
	if err := ReadConfig(filepath.Join(dir, "settings.json"), &opts); err == nil {
		t.Errorf("missing file accepted")
	}

	fname := filepath.Join(dir, "settings.xml")
	os.WriteFile(fname, []byte("<basedir>out</basedir>"), 0644)
	if err := ReadConfig(fname, &opts); err == nil {
		t.Errorf("unrecognized file type accepted")
	}
}
