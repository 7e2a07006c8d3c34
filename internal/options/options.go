// Package options contains the program options.
package options

// Mode selects what the program extracts.
type Mode int

const (
	// ModeMap extracts a single map.
	ModeMap Mode = iota
	// ModeNames extracts the map names table.
	ModeNames
	// ModeAll extracts all maps, banks and blocksets into a directory.
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeMap:
		return "map"
	case ModeNames:
		return "names"
	case ModeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Parameters contains file path options.
type Parameters struct {
	Input   string `flag:"i" usage:"input ROM file"`
	Output  string `flag:"o" usage:"output file, or directory with -all (default: stdout)"`
	Profile string `flag:"profile" usage:"YAML profile with the table addresses of the ROM"`
	Charmap string `flag:"charmap" usage:"character table file (default: english)"`
}

// Flags contains behavior options.
type Flags struct {
	Bank  int  `flag:"bank" usage:"bank of the map to extract"`
	Map   int  `flag:"map" usage:"index of the map in its bank"`
	Names bool `flag:"names" usage:"extract the map names table"`
	All   bool `flag:"all" usage:"extract all maps into the output directory"`
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Trace bool `flag:"trace" usage:"log every resolved pointer"`
	Quiet bool `flag:"q" usage:"quiet mode"`
}

// Program options of the extractor.
type Program struct {
	Parameters
	Flags

	Mode Mode
}
