// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionBackend identifies the tool that turns a report PDF into text.
type ConversionBackend string

const (
	// BackendPDF decodes the PDF in-process.
	BackendPDF ConversionBackend = "pdf"
	// BackendMarkitdown pipes the PDF through the markitdown container image.
	BackendMarkitdown ConversionBackend = "markitdown"
)

// Valid reports whether b names a supported backend.
func (b ConversionBackend) Valid() bool {
	return b == BackendPDF || b == BackendMarkitdown
}

// ConversionConfig holds settings for text acquisition.
type ConversionConfig struct {
	// Backend selects the conversion tool: pdf or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Extension is the document file extension matched in directory mode.
	Extension string `json:"extension" yaml:"extension"`

	// Runtime is the container engine for the markitdown backend: docker,
	// podman or auto.
	Runtime string `json:"runtime" yaml:"runtime"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string `json:"level" yaml:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format"`
}

// StoreConfig names the persisted outputs. The paths are fixed by the CLI
// and are not read from configuration.
type StoreConfig struct {
	// TablePath is the CSV table updated by every run.
	TablePath string `json:"table_path" yaml:"table_path"`

	// IndexPath is the SQLite mirror written by the index command.
	IndexPath string `json:"index_path" yaml:"index_path"`
}

// Config groups all stage configurations.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}

// Default output names, relative to the working directory.
const (
	DefaultTablePath = "brsr_simple_analysis.csv"
	DefaultIndexPath = "brsr_simple_analysis.db"
	DefaultExtension = ".pdf"
)

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Conversion: ConversionConfig{
			Backend:   BackendPDF,
			Extension: DefaultExtension,
			Runtime:   "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			TablePath: DefaultTablePath,
			IndexPath: DefaultIndexPath,
		},
	}
}
