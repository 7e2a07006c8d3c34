// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/romextract/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	if len(args) > 0 {
		opts.Input = args[0]
	}

	if err := selectMode(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: romextract [options] <rom file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// selectMode derives the extraction mode and validates the flags it needs
func selectMode(opts *options.Program) error {
	switch {
	case opts.Names && opts.All:
		return fmt.Errorf("flags -names and -all can not be combined")

	case opts.Names:
		opts.Mode = options.ModeNames

	case opts.All:
		if opts.Output == "" {
			return fmt.Errorf("flag -all requires an output directory set with -o")
		}
		opts.Mode = options.ModeAll

	default:
		if opts.Bank < 0 || opts.Map < 0 {
			return fmt.Errorf("invalid map %d.%d", opts.Bank, opts.Map)
		}
		opts.Mode = options.ModeMap
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .json file, printed on console if no name given; output directory for -all")
	flags.StringVar(&opts.Profile, "profile", "", "YAML profile file with the table addresses of the ROM, defaults to FireRed (BPRE)")
	flags.StringVar(&opts.Charmap, "charmap", "", "character table file used to decode texts, defaults to the english table")
	flags.IntVar(&opts.Bank, "bank", 0, "bank of the map to extract")
	flags.IntVar(&opts.Map, "map", 0, "index of the map to extract in its bank")
	flags.BoolVar(&opts.Names, "names", false, "extract the map names table")
	flags.BoolVar(&opts.All, "all", false, "extract all maps, banks and blocksets into the output directory")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every pointer resolved while decoding")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
