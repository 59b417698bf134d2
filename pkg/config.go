package arscrub

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the arscrub configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// ArchiveConfig selects the global header signature
type ArchiveConfig struct {
	Variant      string // gnu, bsd, thin or custom
	GlobalHeader string // escaped signature, used when Variant is custom
}

// ScrubConfig controls the scrub pass itself
type ScrubConfig struct {
	FileMode int64  // canonical mode written to every entry
	Atomic   bool   // scrub a copy and rename it over the original
	Backend  string // file or mmap
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // 0=quiet, 1=archives, 2=entries, 3=trace
	Debug string // comma-separated debug flags
}

// AllConfig represents all configuration options
type AllConfig struct {
	Archive *ArchiveConfig
	Scrub   *ScrubConfig
	Verbose *VerboseConfig
}

// LoadConfig loads configuration from configPath. A missing file yields the
// defaults without creating anything on disk; call Save to persist them.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		cfg.ini = ini.Empty()
		return cfg, cfg.setDefaults()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"archive", "variant", VariantGNU},
		{"archive", "global_header", ""},
		{"scrub", "file_mode", fmt.Sprintf("0%o", CanonicalFileMode)},
		{"scrub", "atomic", "false"},
		{"scrub", "backend", BackendFile},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
	}

	for _, d := range defaults {
		section, err := c.ini.GetSection(d.section)
		if err != nil {
			section, err = c.ini.NewSection(d.section)
			if err != nil {
				return fmt.Errorf("failed to create %s section: %w", d.section, err)
			}
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

// GetArchiveConfig returns the archive configuration
func (c *Config) GetArchiveConfig() *ArchiveConfig {
	archiveConfig := &ArchiveConfig{
		Variant: VariantGNU,
	}

	if c.ini.HasSection("archive") {
		section := c.ini.Section("archive")
		if section.HasKey("variant") {
			if variant := strings.ToLower(section.Key("variant").String()); variant != "" {
				archiveConfig.Variant = variant
			}
		}
		if section.HasKey("global_header") {
			archiveConfig.GlobalHeader = section.Key("global_header").String()
		}
	}

	return archiveConfig
}

// GetScrubConfig returns the scrub configuration
func (c *Config) GetScrubConfig() *ScrubConfig {
	scrubConfig := &ScrubConfig{
		FileMode: CanonicalFileMode,
		Backend:  BackendFile,
	}

	if c.ini.HasSection("scrub") {
		section := c.ini.Section("scrub")
		if section.HasKey("file_mode") {
			if mode, err := strconv.ParseInt(strings.TrimSpace(section.Key("file_mode").String()), 8, 64); err == nil {
				scrubConfig.FileMode = mode
			}
		}
		if section.HasKey("atomic") {
			if atomic, err := section.Key("atomic").Bool(); err == nil {
				scrubConfig.Atomic = atomic
			}
		}
		if section.HasKey("backend") {
			if backend := strings.ToLower(section.Key("backend").String()); backend != "" {
				scrubConfig.Backend = backend
			}
		}
	}

	return scrubConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Archive: c.GetArchiveConfig(),
		Scrub:   c.GetScrubConfig(),
		Verbose: c.GetVerboseConfig(),
	}
}

// Options validates the configuration and converts it into scrub options
func (c *Config) Options() (Options, error) {
	archive := c.GetArchiveConfig()
	scrub := c.GetScrubConfig()

	if err := ValidateVariant(archive.Variant); err != nil {
		return Options{}, err
	}
	// The getters fall back to defaults; a value that was set must parse
	if err := c.validateScrubKeys(); err != nil {
		return Options{}, err
	}
	if err := ValidateBackend(scrub.Backend); err != nil {
		return Options{}, err
	}
	if err := ValidateFileMode(scrub.FileMode); err != nil {
		return Options{}, err
	}

	header, err := ResolveGlobalHeader(archive.Variant, archive.GlobalHeader)
	if err != nil {
		return Options{}, err
	}

	return Options{
		GlobalHeader: header,
		FileMode:     scrub.FileMode,
		Atomic:       scrub.Atomic,
		Backend:      scrub.Backend,
	}, nil
}

// validateScrubKeys rejects [scrub] values the lenient getter would replace with a default
func (c *Config) validateScrubKeys() error {
	if !c.ini.HasSection("scrub") {
		return nil
	}
	section := c.ini.Section("scrub")
	if section.HasKey("file_mode") {
		value := strings.TrimSpace(section.Key("file_mode").String())
		if _, err := strconv.ParseInt(value, 8, 64); err != nil {
			return fmt.Errorf("invalid file_mode %q: not an octal number", value)
		}
	}
	if section.HasKey("atomic") {
		if _, err := section.Key("atomic").Bool(); err != nil {
			return fmt.Errorf("invalid atomic %q: not a boolean", section.Key("atomic").String())
		}
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config has no file path")
	}
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "variant:thin", "mode:0100444", "atomic:true", "level:2"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "variant":
			c.ini.Section("archive").Key("variant").SetValue(value)
		case "global_header":
			c.ini.Section("archive").Key("global_header").SetValue(value)
		case "mode":
			c.ini.Section("scrub").Key("file_mode").SetValue(value)
		case "atomic":
			c.ini.Section("scrub").Key("atomic").SetValue(value)
		case "backend":
			c.ini.Section("scrub").Key("backend").SetValue(value)
		case "level":
			c.ini.Section("verbose").Key("level").SetValue(value)
		case "debug":
			c.ini.Section("verbose").Key("debug").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: variant, global_header, mode, atomic, backend, level, debug)", key)
		}
	}

	return nil
}

// ResolveGlobalHeader returns the signature for a variant. For the custom
// variant, escaped is unquoted Go-style, so "!<arch>\\n" becomes "!<arch>\n".
// A double quote may be written bare or as \".
func ResolveGlobalHeader(variant, escaped string) ([]byte, error) {
	if strings.ToLower(variant) != VariantCustom {
		header, ok := VariantHeader(variant)
		if !ok {
			return nil, fmt.Errorf("unsupported archive variant: %s", variant)
		}
		return header, nil
	}

	if escaped == "" {
		return nil, fmt.Errorf("custom variant requires a global_header")
	}
	header, err := strconv.Unquote(quoteEscaped(escaped))
	if err != nil {
		return nil, fmt.Errorf("invalid global_header %q: %w", escaped, err)
	}
	return []byte(header), nil
}

// quoteEscaped wraps s in double quotes, escaping only the quotes that are not already escaped
func quoteEscaped(s string) string {
	var quoted strings.Builder
	quoted.WriteByte('"')
	escapeNext := false
	for i := 0; i < len(s); i++ {
		switch {
		case escapeNext:
			escapeNext = false
		case s[i] == '\\':
			escapeNext = true
		case s[i] == '"':
			quoted.WriteByte('\\')
		}
		quoted.WriteByte(s[i])
	}
	quoted.WriteByte('"')
	return quoted.String()
}

// ValidateVariant validates that an archive variant is supported
func ValidateVariant(variant string) error {
	variant = strings.ToLower(variant)
	if variant == VariantCustom {
		return nil
	}
	if _, ok := VariantHeader(variant); ok {
		return nil
	}
	return fmt.Errorf("unsupported archive variant: %s (supported: %s, %s)",
		variant, strings.Join(VariantNames(), ", "), VariantCustom)
}

// ValidateBackend validates that an I/O backend is supported
func ValidateBackend(backend string) error {
	switch strings.ToLower(backend) {
	case BackendFile, BackendMmap:
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s (supported: file, mmap)", backend)
	}
}

// ValidateFileMode validates that a mode fits the 8-byte octal field
func ValidateFileMode(mode int64) error {
	if mode < 0 {
		return fmt.Errorf("invalid file mode: %o", mode)
	}
	if text := fmt.Sprintf("0%o", mode); len(text) > FileModeWidth {
		return fmt.Errorf("file mode %s does not fit in %d bytes", text, FileModeWidth)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}
