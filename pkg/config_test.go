package arscrub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "arscrub.ini")

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	all := config.GetAllConfig()
	assert.Equal(t, VariantGNU, all.Archive.Variant)
	assert.Equal(t, CanonicalFileMode, all.Scrub.FileMode)
	assert.False(t, all.Scrub.Atomic)
	assert.Equal(t, BackendFile, all.Scrub.Backend)
	assert.Zero(t, all.Verbose.Level)

	// Loading defaults does not create the file
	_, err = os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))

	opts, err := config.Options()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestConfigLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "arscrub.ini")
	content := `[archive]
variant = thin

[scrub]
file_mode = 0100444
atomic = true
backend = mmap

[verbose]
level = 2
debug = entries,io
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	opts, err := config.Options()
	require.NoError(t, err)
	assert.Equal(t, []byte(GlobalHeaderThin), opts.GlobalHeader)
	assert.Equal(t, int64(0100444), opts.FileMode)
	assert.True(t, opts.Atomic)
	assert.Equal(t, BackendMmap, opts.Backend)

	verbose := config.GetVerboseConfig()
	assert.Equal(t, 2, verbose.Level)
	assert.Equal(t, "entries,io", verbose.Debug)
}

func TestConfigCustomGlobalHeader(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	require.NoError(t, config.ApplyOverrides([]string{
		"variant:custom",
		`global_header:!<bigaf>\n`,
	}))

	opts, err := config.Options()
	require.NoError(t, err)
	assert.Equal(t, []byte("!<bigaf>\n"), opts.GlobalHeader)
}

func TestResolveGlobalHeaderQuotes(t *testing.T) {
	tests := []struct {
		escaped string
		want    string
	}{
		{`!<a"b>\n`, "!<a\"b>\n"},
		{`!<a\"b>\n`, "!<a\"b>\n"},
		{`\\"`, `\"`},
		{`\x21<arch>\x0a`, "!<arch>\n"},
	}

	for _, tt := range tests {
		header, err := ResolveGlobalHeader(VariantCustom, tt.escaped)
		require.NoError(t, err, tt.escaped)
		assert.Equal(t, []byte(tt.want), header, tt.escaped)
	}

	_, err := ResolveGlobalHeader(VariantCustom, `trailing\`)
	assert.ErrorContains(t, err, "invalid global_header")
}

func TestConfigOverridesAndValidation(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	require.NoError(t, config.ApplyOverrides([]string{"atomic:true", "level:3", "mode:0100600"}))
	all := config.GetAllConfig()
	assert.True(t, all.Scrub.Atomic)
	assert.Equal(t, 3, all.Verbose.Level)
	assert.Equal(t, int64(0100600), all.Scrub.FileMode)

	assert.Error(t, config.ApplyOverrides([]string{"nocolon"}))
	assert.Error(t, config.ApplyOverrides([]string{"colour:blue"}))

	require.NoError(t, config.ApplyOverrides([]string{"variant:coff"}))
	_, err = config.Options()
	assert.ErrorContains(t, err, "unsupported archive variant")

	require.NoError(t, config.ApplyOverrides([]string{"variant:custom"}))
	_, err = config.Options()
	assert.ErrorContains(t, err, "requires a global_header")

	require.NoError(t, config.ApplyOverrides([]string{"variant:bsd", "backend:tape"}))
	_, err = config.Options()
	assert.ErrorContains(t, err, "unsupported backend")

	require.NoError(t, config.ApplyOverrides([]string{"backend:file", "mode:07777777777"}))
	_, err = config.Options()
	assert.ErrorContains(t, err, "does not fit")

	// Malformed values are errors, never a silent fallback to the defaults
	require.NoError(t, config.ApplyOverrides([]string{"mode:0100999"}))
	_, err = config.Options()
	assert.ErrorContains(t, err, "invalid file_mode")

	require.NoError(t, config.ApplyOverrides([]string{"mode:0100644", "atomic:banana"}))
	_, err = config.Options()
	assert.ErrorContains(t, err, "invalid atomic")

	require.NoError(t, config.ApplyOverrides([]string{"atomic:false", "mode:0100444"}))
	opts, err := config.Options()
	require.NoError(t, err)
	assert.False(t, opts.Atomic)
	assert.Equal(t, int64(0100444), opts.FileMode)
}

func TestConfigSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "arscrub.ini")

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NoError(t, config.ApplyOverrides([]string{"variant:thin", "atomic:true"}))
	require.NoError(t, config.Save())

	reloaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, VariantThin, reloaded.GetArchiveConfig().Variant)
	assert.True(t, reloaded.GetScrubConfig().Atomic)

	unsaved, err := LoadConfig("")
	require.NoError(t, err)
	assert.Error(t, unsaved.Save())
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateVariant("GNU"))
	assert.NoError(t, ValidateVariant(VariantCustom))
	assert.Error(t, ValidateVariant("aix"))

	assert.NoError(t, ValidateBackend(BackendMmap))
	assert.Error(t, ValidateBackend("nfs"))

	assert.NoError(t, ValidateFileMode(CanonicalFileMode))
	assert.Error(t, ValidateFileMode(-1))

	assert.NoError(t, ValidateVerboseLevel(3))
	assert.Error(t, ValidateVerboseLevel(4))

	assert.Equal(t, []string{"bsd", "gnu", "thin"}, VariantNames())
}
