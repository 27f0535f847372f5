package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dtypegen/build"
	"github.com/teranos/dtypegen/config"
)

const template = `//Supported datatypes: float int8_t
//Repeat for each data type
#define HAS_<DATATYPE_UPPER> 1
//End repeat
`

type cli struct {
	in, out, work string
}

// newCLI isolates HOME and the working directory so only files created by
// the test take part in config loading.
func newCLI(t *testing.T) *cli {
	t.Helper()
	root := t.TempDir()
	c := &cli{
		in:   filepath.Join(root, "src"),
		out:  filepath.Join(root, "gen"),
		work: filepath.Join(root, "work"),
	}
	require.NoError(t, os.MkdirAll(c.in, 0755))
	require.NoError(t, os.MkdirAll(c.work, 0755))
	t.Setenv("HOME", filepath.Join(root, "home"))
	t.Setenv("NO_COLOR", "1")
	pterm.DisableColor()
	t.Chdir(c.work)
	t.Cleanup(func() { config.SetExplicitPath("") })
	return c
}

func (c *cli) run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = Execute(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func (c *cli) template(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(c.in, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (c *cli) projectConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(c.work, config.FileName), []byte(content), 0644))
}

func TestMissingArgumentsPrintUsage(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{nil, {c.in}} {
		code, stdout, stderr := c.run(args...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, usageLine)
		assert.Empty(t, stderr)
	}
}

func TestMissingArgumentsIgnoreBrokenConfig(t *testing.T) {
	c := newCLI(t)
	c.projectConfig(t, "[generator\nmarker = ")

	for _, args := range [][]string{nil, {c.in}, {"check"}, {"watch", c.in}} {
		code, stdout, stderr := c.run(args...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, usageLine)
		assert.Empty(t, stderr)
	}
}

func TestGenerate(t *testing.T) {
	c := newCLI(t)
	c.template(t, "algo/algo-x.dtype.h", template)

	code, stdout, stderr := c.run(c.in, c.out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, filepath.Join("algo", "algo-x.h"))
	assert.Contains(t, stdout, "1 generated")

	data, err := os.ReadFile(filepath.Join(c.out, "algo", "algo-x.h"))
	require.NoError(t, err)
	assert.Equal(t, "//Supported datatypes: float int8_t\n#define HAS_FLOAT 1\n#define HAS_INT8 1\n", string(data))
}

func TestGenerateSkipsDoNotFailTheRun(t *testing.T) {
	c := newCLI(t)
	c.template(t, ".dtype.c", template)
	c.template(t, "ok.dtype.c", template)

	code, stdout, _ := c.run(c.in, c.out)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "1 skipped")
}

func TestGenerateIOFailureExitsNonZero(t *testing.T) {
	c := newCLI(t)
	c.template(t, "a/b/deep.dtype.c", template)
	require.NoError(t, os.MkdirAll(c.out, 0755))

	code, _, stderr := c.run(c.in, c.out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to create output directory")
	assert.Contains(t, stderr, "Hint: set build.mkdir_parents = true")
}

func TestExplicitConfigFile(t *testing.T) {
	c := newCLI(t)
	c.template(t, "a/b/deep.dtype.c", template)
	c.template(t, "open.dtype.c", "//Repeat for each data type\nx\n")
	cfgPath := filepath.Join(t.TempDir(), "ci.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[build]\nmkdir_parents = true\n[generator]\nstrict_regions = true\n"), 0644))

	code, stdout, stderr := c.run("--config", cfgPath, c.in, c.out)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(c.out, "a", "b", "deep.c"))
	assert.NoFileExists(t, filepath.Join(c.out, "open.c"))
	assert.Contains(t, stdout, "unterminated repeat region")
}

func TestForceRegenerates(t *testing.T) {
	c := newCLI(t)
	c.template(t, "a.dtype.c", template)

	code, _, _ := c.run(c.in, c.out)
	require.Equal(t, 0, code)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(c.in, "a.dtype.c"), past, past))

	_, stdout, _ := c.run(c.in, c.out)
	assert.Contains(t, stdout, "0 generated")

	_, stdout, _ = c.run("--force", c.in, c.out)
	assert.Contains(t, stdout, "1 generated")
}

func TestCheck(t *testing.T) {
	c := newCLI(t)
	c.template(t, "a.dtype.c", template)

	code, stdout, stderr := c.run("check", c.in, c.out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Missing")
	assert.Contains(t, stderr, "generated files are out of date")

	code, _, _ = c.run(c.in, c.out)
	require.Equal(t, 0, code)

	code, stdout, _ = c.run("check", c.in, c.out)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "up to date")

	require.NoError(t, os.WriteFile(filepath.Join(c.out, "a.c"), []byte("edited"), 0644))
	code, stdout, _ = c.run("check", c.in, c.out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Differs")
	assert.NotContains(t, stdout, "-existing +generated")

	code, stdout, _ = c.run("check", "-v", c.in, c.out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "-existing +generated")
	assert.Contains(t, stdout, "edited")

	code, stdout, _ = c.run("check", c.in)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, usageLine)
}

func TestConfigShow(t *testing.T) {
	c := newCLI(t)
	c.projectConfig(t, "[generator]\nmarker = \"tmpl\"\n")

	code, stdout, stderr := c.run("config", "show", "--format", "json")
	require.Equal(t, 0, code, stderr)

	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, "tmpl", shown.Generator.Marker)
	assert.Equal(t, []string{"float", "double"}, shown.Generator.DefaultDatatypes)

	for _, format := range []string{"toml", "yaml"} {
		code, stdout, _ = c.run("config", "show", "--format", format)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "# dtypegen configuration")
		assert.Contains(t, stdout, "tmpl")
	}

	code, _, stderr = c.run("config", "show", "--format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported format")
}

func TestConfigValidate(t *testing.T) {
	c := newCLI(t)
	c.projectConfig(t, "[generator]\ncolour = \"red\"\n")

	code, stdout, stderr := c.run("config", "validate")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Unknown key generator.colour")
	assert.Contains(t, stdout, "Configuration is valid")

	t.Setenv("DTYPEGEN_GENERATOR_MARKER", "a.b")
	code, _, stderr = c.run("config", "validate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "generator.marker")

	// an invalid config also stops generation
	c.template(t, "a.dtype.c", template)
	code, _, stderr = c.run(c.in, c.out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Hint: run dtypegen config validate")
}

func TestConfigWhere(t *testing.T) {
	c := newCLI(t)
	c.projectConfig(t, "[log]\ntheme = \"gruvbox\"\n")

	code, stdout, stderr := c.run("config", "where")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Configuration cascade")
	assert.Contains(t, stdout, "[project] "+filepath.Join(c.work, config.FileName))
	assert.Contains(t, stdout, "log.theme")
	assert.Contains(t, stdout, "generator.marker")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	// a broken config does not block version output
	c.projectConfig(t, "[generator\n")

	code, stdout, _ := c.run("version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "dtypegen dev")

	code, stdout, _ = c.run("version", "--json")
	assert.Equal(t, 0, code)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "dev", info["version"])
}

func TestParseHook(t *testing.T) {
	words, err := parseHook(`make -C "build dir" all`)
	require.NoError(t, err)
	assert.Equal(t, []string{"make", "-C", "build dir", "all"}, words)

	words, err = parseHook("")
	require.NoError(t, err)
	assert.Nil(t, words)

	_, err = parseHook(`echo "unterminated`)
	assert.Error(t, err)
}

func TestWithForce(t *testing.T) {
	opts := withForce(build.Options{InputRoot: "in"})
	assert.True(t, opts.Force)
	assert.Equal(t, "in", opts.InputRoot)
}
