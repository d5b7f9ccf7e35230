package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JHaller27/astrodb"
	csvsource "github.com/JHaller27/astrodb/source/csv"
	fitssource "github.com/JHaller27/astrodb/source/fits"
	mongostore "github.com/JHaller27/astrodb/store/mongo"
)

const defaultURI = "mongodb://localhost:27017/"

// loadOptions carries the resolved flag and environment settings for one run.
// Everything downstream receives values from here; there is no other
// configuration channel.
type loadOptions struct {
	uri    string
	db     string
	coll   string
	buffer int
	sep    float64
	src    string
	format string
	delim  string
	idCol  string
	drop   bool
}

func newRootCmd() *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "astrodb [flags] SOURCE",
		Short: "Load an astronomical catalog into MongoDB with positional deduplication",
		Long: `astrodb streams a columnar catalog file (CSV, TSV, or FITS binary table)
into a MongoDB collection. Detections whose sky positions fall within the
separation threshold are merged into a single record that keeps every
contributing row, both within the load and against records already in the
collection. With the default threshold of 0 no merging occurs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.uri, "uri", "u", defaultURI, "MongoDB URI")
	flags.StringVarP(&opts.db, "db", "d", "astro", "database name")
	flags.StringVarP(&opts.coll, "coll", "c", "detections", "collection name")
	flags.IntVarP(&opts.buffer, "buffer", "b", astrodb.DefaultBufferSize,
		"records buffered before each write; <=0 defers all writes to the end")
	flags.Float64VarP(&opts.sep, "sep", "s", 0,
		"separation threshold in arcseconds under which detections are the same object (0 = no merging)")
	flags.StringVar(&opts.src, "src", "", "provenance label override (default: source file name)")
	flags.StringVar(&opts.format, "format", "", "source format: csv, tsv, or fits (default: by extension)")
	flags.StringVar(&opts.delim, "delim", ",", "field delimiter for delimited-text sources")
	flags.StringVar(&opts.idCol, "id-col", "", "column holding the external primary key")
	flags.BoolVar(&opts.drop, "drop", false, "drop the collection before loading")

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for _, name := range []string{"uri", "db", "coll"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			slog.Error("binding flag", "flag", name, "error", err)
		}
	}
	cmd.PreRun = func(*cobra.Command, []string) {
		opts.uri = v.GetString("uri")
		opts.db = v.GetString("db")
		opts.coll = v.GetString("coll")
	}

	cmd.AddCommand(newColumnsCmd())

	return cmd
}

func runLoad(cmd *cobra.Command, opts *loadOptions, path string) error {
	ctx := cmd.Context()

	src, err := openSource(path, opts.format, opts.delim)
	if err != nil {
		return err
	}
	defer src.Close()

	store, err := mongostore.Connect(ctx, opts.uri, opts.db, opts.coll, opts.drop)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	label := opts.src
	if label == "" {
		label = filepath.Base(path)
	}

	pipe := astrodb.New(src, store, astrodb.Config{
		BufferSize:       bufferFlag(opts.buffer),
		SeparationArcsec: opts.sep,
		SourceLabel:      label,
		IDColumn:         opts.idCol,
	})
	return pipe.Run(ctx)
}

// bufferFlag maps the --buffer value onto Config.BufferSize. The flag's
// contract is that zero or less defers every write to the final drain, which
// the library expresses as a negative BufferSize; zero there means "use the
// default" instead.
func bufferFlag(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

// openSource picks a reader by explicit format or, failing that, by file
// extension.
func openSource(path, format, delim string) (astrodb.Source, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".fits", ".fit":
			format = "fits"
		case ".tsv":
			format = "tsv"
		default:
			format = "csv"
		}
	}

	switch strings.ToLower(format) {
	case "fits":
		return fitssource.Open(path)
	case "tsv":
		return csvsource.Open(path, '\t')
	case "csv":
		d, err := delimRune(delim)
		if err != nil {
			return nil, err
		}
		return csvsource.Open(path, d)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", astrodb.ErrSourceFormatInvalid, format)
	}
}

// delimRune parses the --delim flag, accepting the escape spellings "\t" and
// "tab" for tab-separated files.
func delimRune(s string) (rune, error) {
	switch s {
	case "\\t", "tab":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", astrodb.ErrSourceFormatInvalid, s)
	}
	return runes[0], nil
}
