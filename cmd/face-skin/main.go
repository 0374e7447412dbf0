// Command face-skin finds faces in a numbered frame sequence by skin colour.
//
// Each frame is optionally separated from one or more background shots,
// thresholded with a set of HSV skin rules and scanned with a 30x30 sliding
// window. Frames are written with the detections outlined in red when an
// output directory is given; otherwise only the counts are reported.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/object-finder-mcp/internal/config"
	"github.com/ironsheep/object-finder-mcp/internal/detection"
	"github.com/ironsheep/object-finder-mcp/internal/imaging"
	"github.com/ironsheep/object-finder-mcp/internal/logging"
	"github.com/ironsheep/object-finder-mcp/internal/pipeline"
)

const (
	windowWidth  = 30
	windowHeight = 30
	windowStepX  = windowWidth / 8
	windowStepY  = windowHeight / 8
	threshold    = 30
)

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	inputDir    string
	outputDir   string
	extension   string
	prefix      string
	suffix      string
	digits      int
	from        int
	to          int
	backgrounds stringList
}

func usage(w io.Writer, name string) {
	fmt.Fprintln(w, "Usage: ")
	fmt.Fprintf(w, "%s [-p prefix] [-s suffix] [-d num_digits] [-e extension] [-o output_dir]"+
		" [-b background [-b ...]] -f from -t to input_dir\n", name)
}

func parseOptions(name string, args []string) (*options, error) {
	var opts options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.prefix, "p", "", "file name prefix")
	fs.StringVar(&opts.suffix, "s", "", "file name suffix")
	fs.IntVar(&opts.digits, "d", 0, "zero-pad frame numbers to this many digits")
	fs.IntVar(&opts.from, "f", 0, "first frame number")
	fs.IntVar(&opts.to, "t", 0, "last frame number")
	fs.StringVar(&opts.extension, "e", "", "file extension")
	fs.StringVar(&opts.outputDir, "o", "", "directory for annotated frames")
	fs.Var(&opts.backgrounds, "b", "background image (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case fs.NArg() == 0:
		return nil, errors.New("input directory is missing")
	case fs.NArg() > 1:
		return nil, errors.New("input directory is already set")
	case !set["f"]:
		return nil, errors.New("you have to specify start of the range with -f")
	case !set["t"]:
		return nil, errors.New("you have to specify end of the range with -t")
	case opts.digits < 0 || opts.from < 0 || opts.to < 0:
		return nil, errors.New("-d, -f and -t must not be negative")
	}
	opts.inputDir = fs.Arg(0)
	return &opts, nil
}

func (o *options) print(w io.Writer) {
	fmt.Fprintf(w, "Input directory: %s\n", o.inputDir)
	fmt.Fprintf(w, "Output directory: %s\n", o.outputDir)
	fmt.Fprintf(w, "Allowed extension: %s\n", o.extension)
	fmt.Fprintf(w, "Filename prefix: %s\n", o.prefix)
	fmt.Fprintf(w, "Filename suffix: %s\n", o.suffix)
	fmt.Fprintf(w, "Number of digits: %d\n", o.digits)
	fmt.Fprintf(w, "File range start: %d\n", o.from)
	fmt.Fprintf(w, "File range to: %d\n", o.to)
	fmt.Fprint(w, "Background to remove: ")
	if len(o.backgrounds) == 0 {
		fmt.Fprintln(w)
	}
	for i, bg := range o.backgrounds {
		if i > 0 {
			fmt.Fprint(w, strings.Repeat(" ", len("Background to remove: ")))
		}
		fmt.Fprintln(w, bg)
	}
}

func (o *options) sequence() imaging.Sequence {
	return imaging.Sequence{
		Dir:       o.inputDir,
		Extension: o.extension,
		Prefix:    o.prefix,
		Suffix:    o.suffix,
		Digits:    o.digits,
		From:      o.from,
		To:        o.to,
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, log *slog.Logger) int {
	name := filepath.Base(args[0])
	opts, err := parseOptions(name, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		usage(stdout, name)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v!\n", err)
		usage(stderr, name)
		return 1
	}

	opts.print(stdout)
	fmt.Fprintln(stdout)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Warn("failed to load configuration, using defaults", "error", err)
	}

	cache := imaging.NewImageCache(cfg.CacheSize)
	proc := &pipeline.Processor{
		Window:    detection.NewSlidingWindowWithStep(windowWidth, windowHeight, windowStepX, windowStepY),
		Threshold: threshold,
		Predicate: skinPredicate,
		Cache:     cache,
		Workers:   cfg.Workers,
		Colour:    imaging.Red,
		Thickness: imaging.DefaultThickness,
		Logger:    log,
	}
	if opts.outputDir != "" {
		proc.OutputPattern = filepath.Join(opts.outputDir, "%n")
	}
	if len(opts.backgrounds) > 0 {
		bg, err := imaging.LoadBackgroundModel(cache, opts.backgrounds...)
		if err != nil {
			fmt.Fprintf(stderr, "Error:\n%v\n", err)
			return 1
		}
		bg.Level = uint8(cfg.DiffLevel)
		bg.Radius = cfg.OpenRadius
		proc.Background = bg
	}

	result, err := proc.ProcessSequence(ctx, opts.sequence().Paths())
	if err != nil {
		fmt.Fprintf(stderr, "Error:\n%v\n", err)
		return 1
	}

	for _, f := range result.Frames {
		fmt.Fprintf(stdout, "Processing %s... ", filepath.Base(f.Path))
		if f.Error != "" {
			fmt.Fprintln(stdout, "unable to open image")
			fmt.Fprintln(stderr, f.Error)
			continue
		}
		fmt.Fprintf(stdout, "found %d faces\n", len(f.Objects))
	}
	return 0
}

func main() {
	if err := godotenv.Load(".env.odf"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to read .env.odf: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr, logging.FromEnv())
	stop()
	os.Exit(code)
}
