// Package main provides the CLI entry point for exceller-go.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukaji3/exceller-go/pkg/exceller"
	"github.com/ukaji3/exceller-go/pkg/exceller/models"
	"github.com/ukaji3/exceller-go/pkg/exceller/output"
)

type cliFlags struct {
	excelFile      string
	vbaFile        string
	editedVBAFile  string
	configPath     string
	sheetPolicy    string
	sheet          string
	encoding       string
	logLevel       string
	noEscapeQuotes bool
	indexOutput    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := logrus.New()
		logger.SetOutput(os.Stdout)
		logger.WithError(err).Error("exceller failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "exceller",
		Short: "Resolve spreadsheet cell references in VBA macros",
		Long: `exceller-go rewrites Cells, Replace and Join constructs in an extracted
VBA macro with the literal values stored in the accompanying workbook.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeobfuscate(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file")
	pf.StringVar(&flags.sheetPolicy, "sheet-policy", "", "Worksheet lookup policy: first, pinned")
	pf.StringVar(&flags.sheet, "sheet", "", "Worksheet name or part path for the pinned policy")
	pf.StringVar(&flags.encoding, "encoding", "", "Macro text encoding (e.g. windows-1252)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().StringVar(&flags.excelFile, "excel-file", "", "Input OOXML workbook")
	rootCmd.Flags().StringVar(&flags.vbaFile, "vba-file", "", "Extracted VBA macro text")
	rootCmd.Flags().StringVar(&flags.editedVBAFile, "edited-vba-file", "", "Output path for the rewritten macro")
	rootCmd.Flags().BoolVar(&flags.noEscapeQuotes, "no-escape-quotes", false, "Leave embedded quotes raw in substituted literals (classic exceller output)")
	for _, name := range []string{"excel-file", "vba-file", "edited-vba-file"} {
		_ = rootCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(newIndexCmd(flags))
	return rootCmd
}

func newIndexCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [input.xlsx]",
		Short: "Dump the resolved cell index of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.indexOutput, "output", "o", "", "Output file (.csv, .json, .parquet; default: table on stdout)")
	return cmd
}

func runDeobfuscate(cmd *cobra.Command, flags *cliFlags) error {
	opts, err := loadOptions(cmd, flags)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("no-escape-quotes") {
		escape := !flags.noEscapeQuotes
		opts.EscapeQuotes = &escape
	}
	if opts.Logger, err = newLogger(cmd.OutOrStdout(), opts.LogLevel); err != nil {
		return err
	}

	report, err := exceller.Deobfuscate(flags.excelFile, flags.vbaFile, flags.editedVBAFile, opts)
	if err != nil {
		return fmt.Errorf("deobfuscation failed: %w", err)
	}

	opts.Logger.WithFields(logrus.Fields{
		"worksheets":     report.Worksheets,
		"cells":          report.Cells,
		"shared_strings": report.SharedStrings,
		"substituted": report.Stats.Replace.Substituted +
			report.Stats.Cells.Substituted +
			report.Stats.Join.Substituted,
	}).Info("done")
	return nil
}

func runIndex(cmd *cobra.Command, flags *cliFlags, inputPath string) error {
	opts, err := loadOptions(cmd, flags)
	if err != nil {
		return err
	}
	// The table itself goes to stdout.
	logOut := cmd.OutOrStdout()
	if flags.indexOutput == "" {
		logOut = cmd.ErrOrStderr()
	}
	if opts.Logger, err = newLogger(logOut, opts.LogLevel); err != nil {
		return err
	}

	format := output.FormatTable
	if flags.indexOutput != "" {
		if format, err = output.FormatFromPath(flags.indexOutput); err != nil {
			return err
		}
	}

	index, err := exceller.BuildIndex(inputPath, opts)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	rows := output.Flatten(index.Worksheets, index.Cells)

	if flags.indexOutput == "" {
		return output.Write(cmd.OutOrStdout(), format, rows)
	}
	return writeIndexFile(flags.indexOutput, format, rows)
}

func writeIndexFile(path string, format output.Format, rows []output.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := output.Write(f, format, rows); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.Close()
}

// loadOptions layers explicitly set flags over the config file and defaults.
func loadOptions(cmd *cobra.Command, flags *cliFlags) (exceller.Options, error) {
	opts := exceller.DefaultOptions()
	if flags.configPath != "" {
		var err error
		if opts, err = exceller.LoadOptions(flags.configPath); err != nil {
			return opts, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("sheet-policy") {
		opts.SheetPolicy = models.SheetPolicy(flags.sheetPolicy)
	}
	if changed("sheet") {
		opts.Sheet = flags.sheet
	}
	if changed("encoding") {
		opts.Encoding = flags.encoding
	}
	if changed("log-level") {
		opts.LogLevel = flags.logLevel
	}
	return opts, opts.Validate()
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(parsed)
	}
	return logger, nil
}
