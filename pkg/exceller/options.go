// Package exceller resolves spreadsheet cell references in VBA macro source.
package exceller

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/exceller-go/pkg/exceller/models"
)

// DefaultEncoding is the macro text encoding used when none is configured.
const DefaultEncoding = "utf-8"

// Options configures a run.
type Options struct {
	// SheetPolicy decides which worksheet answers a coordinate (first, pinned).
	SheetPolicy models.SheetPolicy `yaml:"sheet_policy"`
	// Sheet names the pinned worksheet by display name or part path.
	Sheet string `yaml:"sheet"`
	// Encoding is the WHATWG name of the macro text encoding.
	Encoding string `yaml:"encoding"`
	// EscapeQuotes doubles quotes inside substituted literals.
	// If nil, defaults to true.
	EscapeQuotes *bool `yaml:"escape_quotes"`
	// LogLevel is a logrus level name. It is applied by the CLI.
	LogLevel string `yaml:"log_level"`
	// Logger receives diagnostics. If nil, nothing is logged.
	Logger *logrus.Logger `yaml:"-"`
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		SheetPolicy: models.SheetPolicyFirst,
		Encoding:    DefaultEncoding,
		LogLevel:    logrus.InfoLevel.String(),
	}
}

// ShouldEscapeQuotes returns whether embedded quotes are doubled.
func (o Options) ShouldEscapeQuotes() bool {
	if o.EscapeQuotes != nil {
		return *o.EscapeQuotes
	}
	return true
}

// Validate checks option values that would otherwise fail late.
func (o Options) Validate() error {
	if o.SheetPolicy != "" && !o.SheetPolicy.Valid() {
		return fmt.Errorf("invalid sheet policy %q (want %s or %s)", o.SheetPolicy, models.SheetPolicyFirst, models.SheetPolicyPinned)
	}
	if o.SheetPolicy == models.SheetPolicyPinned && o.Sheet == "" {
		return errors.New("sheet policy pinned requires a sheet")
	}
	if o.Encoding != "" {
		if _, err := htmlindex.Get(o.Encoding); err != nil {
			return fmt.Errorf("unknown encoding %q: %w", o.Encoding, err)
		}
	}
	if o.LogLevel != "" {
		if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// LoadOptions reads a YAML file on top of DefaultOptions. Unknown keys are
// rejected.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, opts.Validate()
}
