// Command roster runs the roster codecs and field validator over files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/student"
)

var version = "dev"

// errInvalidRecords is returned by validate when at least one record fails.
var errInvalidRecords = errors.New("file contains invalid records")

// CLI is the top-level command structure for roster.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	LogLevel string           `help:"Log level (debug, info, warn, error)." default:"warn" env:"LOG_LEVEL"`
	MaxSize  int64            `help:"Largest input file accepted, in bytes." default:"10485760" env:"IMPORT_MAX_FILE_SIZE"`

	Validate ValidateCmd `cmd:"" help:"Check every record of a file against the field rules."`
	Convert  ConvertCmd  `cmd:"" help:"Convert a roster file to the format of the output file name."`
	Formats  FormatsCmd  `cmd:"" help:"List supported file formats."`
}

// ValidateCmd decodes a file and reports records that fail validation.
type ValidateCmd struct {
	File string `arg:"" help:"File to check (.txt, .csv, .xml or .json)." type:"existingfile"`
}

// Run executes the validate command.
func (c *ValidateCmd) Run(cli *CLI, w io.Writer) error {
	records, err := readRecords(c.File, cli.MaxSize)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	report := core.AnalyzeRecords(records, 0, 0)

	for _, e := range report.ErrorSamples {
		fmt.Fprintf(w, "registro %d (%s):\n", e.Record, e.Values[student.FieldName.Key()])
		for _, f := range student.Fields() {
			if msg, ok := e.Errors[f.Key()]; ok {
				fmt.Fprintf(w, "  %s: %s\n", f.Label(), msg)
			}
		}
	}
	for _, d := range report.DuplicateSamples {
		fmt.Fprintf(w, "código %s repetido en registros %s\n", d.Code, joinInts(d.Records))
	}

	invalid := report.Summary.InvalidRecords
	fmt.Fprintf(w, "%d registros, %d inválidos\n", report.Summary.TotalRecords, invalid)

	if invalid > 0 {
		return errInvalidRecords
	}
	return nil
}

// ConvertCmd re-encodes a file in another format.
type ConvertCmd struct {
	In    string `arg:"" help:"Input file." type:"existingfile"`
	Out   string `arg:"" help:"Output file; its extension selects the format."`
	Force bool   `help:"Overwrite the output file if it exists." short:"f"`
}

// Run executes the convert command.
func (c *ConvertCmd) Run(cli *CLI, w io.Writer) error {
	out, err := codec.ForFilename(c.Out)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	if !c.Force {
		if _, err := os.Stat(c.Out); err == nil {
			return fmt.Errorf("convert: %s exists (use --force to overwrite)", c.Out)
		}
	}

	records, err := readRecords(c.In, cli.MaxSize)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	data, err := out.Encode(records)
	if err != nil {
		return fmt.Errorf("convert: encode %s: %w", out.Format(), err)
	}

	if err := os.WriteFile(c.Out, data, 0o644); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	slog.Debug("converted", "in", c.In, "out", c.Out, "records", len(records))
	fmt.Fprintf(w, "%d registros escritos en %s\n", len(records), c.Out)
	return nil
}

// FormatsCmd lists the supported formats.
type FormatsCmd struct{}

// Run executes the formats command.
func (c *FormatsCmd) Run(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tEXT\tCONTENT TYPE\tLABEL")
	for _, f := range codec.Formats() {
		fmt.Fprintf(tw, "%s\t.%s\t%s\t%s\n", f.Name(), f.Ext(), f.ContentType(), f.Label())
	}
	return tw.Flush()
}

// readRecords reads and decodes path with the codec matching its extension.
func readRecords(path string, maxSize int64) ([]student.Record, error) {
	c, err := codec.ForFilename(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := core.ReadImport(f, maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	records, err := c.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// Exit codes.
const (
	exitSuccess = 0
	exitInvalid = 1
	exitError   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, errInvalidRecords) {
		return exitInvalid
	}
	return exitError
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("roster"),
		kong.Description("Validate and convert student roster files."),
		kong.Vars{"version": version},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)

	// Logs go to stderr so stdout stays clean for command output.
	slog.SetDefault(logging.New(os.Stderr, cli.LogLevel, "text"))

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(exitCode(err))
	}
}
