package memfs

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Feature names one of the optional capabilities a Configuration may enable.
type Feature string

const (
	FeatureSymbolicLinks          Feature = "SYMBOLIC_LINKS"
	FeatureHardLinks              Feature = "HARD_LINKS"
	FeatureGroups                 Feature = "GROUPS"
	FeatureSecureDirectoryStreams Feature = "SECURE_DIRECTORY_STREAMS"
)

// Configuration is the value the core consumes to build a filesystem
// instance. Building Configuration values from CLI flags or unix-like/
// windows-like presets is out of scope here; this type is the boundary an
// outer factory layer would call into.
type Configuration struct {
	// Roots lists the filesystem's root names, e.g. ["/"] or ["C:\\"]. Must
	// be non-empty.
	Roots []string

	// WorkingDirectory is the absolute path created eagerly as the initial
	// working directory.
	WorkingDirectory string

	// Separator is the primary path separator, a single character.
	Separator string

	// AlternateSeparators lists additional separator characters recognized
	// on parse.
	AlternateSeparators string

	// CaseSensitivity selects Name canonicalization.
	CaseSensitivity CaseSensitivity

	// SupportedFeatures is the subset of optional capabilities this
	// filesystem instance enables.
	SupportedFeatures []Feature

	// AttributeProviders lists the attribute views to register; determines
	// which "view:attr" dispatch targets are available.
	AttributeProviders []string

	// PathType selects Unix-style vs. Windows-style root/separator parsing.
	PathType PathType

	// BlockSize is the Disk's block size in bytes; must be a power of two.
	// Zero means the default of 8 KiB.
	BlockSize int

	// MaxTotalSpace caps the Disk's reported total space in bytes. Zero
	// means an implementation-defined default ceiling.
	MaxTotalSpace int64
}

// HasFeature reports whether f is in SupportedFeatures.
func (c Configuration) HasFeature(f Feature) bool {
	for _, x := range c.SupportedFeatures {
		if x == f {
			return true
		}
	}
	return false
}

func (c Configuration) blockSize() int {
	if c.BlockSize <= 0 {
		return defaultBlockSize
	}
	return c.BlockSize
}

func (c Configuration) maxTotalSpace() int64 {
	if c.MaxTotalSpace <= 0 {
		return defaultMaxTotalSpace
	}
	return c.MaxTotalSpace
}

// LoadConfiguration decodes a Configuration from YAML using gopkg.in/yaml.v3.
// This is a structured-data reader only; it does not implement unix-like/
// windows-like factory presets.
func LoadConfiguration(r io.Reader) (Configuration, error) {
	var raw yamlConfiguration
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Configuration{}, wrapErr(CodeFileSystem, "", err)
	}
	return raw.toConfiguration(), nil
}

// yamlConfiguration mirrors Configuration with string-friendly field types
// so that case sensitivity and path type can be spelled in YAML as plain
// words instead of integers.
type yamlConfiguration struct {
	Roots               []string `yaml:"roots"`
	WorkingDirectory     string   `yaml:"working_directory"`
	Separator            string   `yaml:"separator"`
	AlternateSeparators  string   `yaml:"alternate_separators"`
	CaseSensitivity      string   `yaml:"case_sensitivity"`
	SupportedFeatures    []string `yaml:"supported_features"`
	AttributeProviders   []string `yaml:"attribute_providers"`
	PathType             string   `yaml:"path_type"`
	BlockSize            int      `yaml:"block_size"`
	MaxTotalSpace        int64    `yaml:"max_total_space"`
}

func (y yamlConfiguration) toConfiguration() Configuration {
	cfg := Configuration{
		Roots:               y.Roots,
		WorkingDirectory:    y.WorkingDirectory,
		Separator:           y.Separator,
		AlternateSeparators: y.AlternateSeparators,
		AttributeProviders:  y.AttributeProviders,
		BlockSize:           y.BlockSize,
		MaxTotalSpace:       y.MaxTotalSpace,
	}

	switch y.CaseSensitivity {
	case "case_insensitive_ascii":
		cfg.CaseSensitivity = CaseInsensitiveASCII
	case "case_insensitive_unicode":
		cfg.CaseSensitivity = CaseInsensitiveUnicode
	case "collating":
		cfg.CaseSensitivity = Collating
	default:
		cfg.CaseSensitivity = CaseSensitive
	}

	if y.PathType == "windows" {
		cfg.PathType = WindowsStyle
	} else {
		cfg.PathType = UnixStyle
	}

	for _, f := range y.SupportedFeatures {
		cfg.SupportedFeatures = append(cfg.SupportedFeatures, Feature(f))
	}

	return cfg
}
