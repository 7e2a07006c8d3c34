// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/romextract/internal/charmap"
	"github.com/retroenv/romextract/internal/config"
	"github.com/retroenv/romextract/internal/extract"
	"github.com/retroenv/romextract/internal/loader"
	"github.com/retroenv/romextract/internal/mapdata"
	"github.com/retroenv/romextract/internal/options"
	"github.com/retroenv/romextract/internal/schema"
)

// session contains the loaded inputs of one ROM.
type session struct {
	logger  *log.Logger
	opts    options.Program
	rom     *loader.ROM
	profile config.Profile
	charmap *charmap.Charmap
	decoder *schema.Decoder
}

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	s, err := newSession(logger, opts)
	if err != nil {
		return err
	}

	logger.Info("Processing ROM",
		log.String("file", opts.Input),
		log.String("title", s.rom.Title),
		log.String("code", s.rom.GameCode),
		log.Stringer("mode", opts.Mode))
	if s.rom.GameCode != s.profile.GameCode {
		logger.Warn("ROM game code does not match profile",
			log.String("rom", s.rom.GameCode),
			log.String("profile", s.profile.GameCode))
	}

	switch opts.Mode {
	case options.ModeNames:
		return s.writeNames()
	case options.ModeAll:
		return s.writeAll(ctx)
	default:
		return s.writeMap()
	}
}

func newSession(logger *log.Logger, opts options.Program) (*session, error) {
	rom, err := loader.New().Load(opts.Input)
	if err != nil {
		return nil, err
	}

	profile := config.DefaultProfile()
	if opts.Profile != "" {
		if profile, err = config.LoadProfile(opts.Profile); err != nil {
			return nil, fmt.Errorf("loading profile: %w", err)
		}
	}

	cm, err := loadCharmap(opts.Charmap)
	if err != nil {
		return nil, err
	}

	return &session{
		logger:  logger,
		opts:    opts,
		rom:     rom,
		profile: profile,
		charmap: cm,
		decoder: schema.NewDecoder(rom.Data,
			schema.WithBaseAddress(profile.BaseAddress),
			schema.WithLogger(config.CreateTraceLogger(opts.Trace))),
	}, nil
}

func loadCharmap(path string) (*charmap.Charmap, error) {
	if path == "" {
		return charmap.English(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening charmap file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cm, err := charmap.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing charmap file %s: %w", path, err)
	}
	return cm, nil
}

func (s *session) mapNames() ([]string, error) {
	names, err := mapdata.ReadMapNamesTable(s.decoder, s.profile.MapNames.Address, s.profile.MapNames.Count, s.charmap)
	if err != nil {
		return nil, fmt.Errorf("reading map names: %w", err)
	}
	return names, nil
}

func (s *session) newExtractor() (*extract.Extractor, error) {
	banks, err := mapdata.ReadMapsTable(s.decoder, s.profile.MapBanks.Address, s.profile.MapBanks.Sizes)
	if err != nil {
		return nil, fmt.Errorf("reading map banks: %w", err)
	}
	names, err := s.mapNames()
	if err != nil {
		return nil, err
	}
	headers, err := mapdata.ReadMapDataHeadersTable(s.decoder, s.profile.MapDataHeaders.Address, s.profile.MapDataHeaders.Count)
	if err != nil {
		return nil, fmt.Errorf("reading map data headers: %w", err)
	}

	return extract.New(s.logger, s.decoder, banks, extract.Options{
		Description:    s.rom.Description(),
		MapNames:       names,
		NameOffset:     s.profile.MapNames.Offset,
		MapDataHeaders: headers,
	}), nil
}

func (s *session) writeNames() error {
	names, err := s.mapNames()
	if err != nil {
		return err
	}
	return writeOutput(s.opts.Output, names)
}

func (s *session) writeMap() error {
	e, err := s.newExtractor()
	if err != nil {
		return err
	}
	result, err := e.Map(s.opts.Bank, s.opts.Map)
	if err != nil {
		return fmt.Errorf("extracting map: %w", err)
	}
	return writeOutput(s.opts.Output, result.Document)
}

// writeAll writes every map, bank and blockset below the output directory,
// followed by the project manifest listing them.
func (s *session) writeAll(ctx context.Context) error {
	e, err := s.newExtractor()
	if err != nil {
		return err
	}
	dir := s.opts.Output

	for bank, maps := range e.Banks() {
		bankDoc, err := e.Bank(bank)
		if err != nil {
			return err
		}
		bankDir := filepath.Join(dir, "banks", extract.BankID(bank))
		if err := writeJSONFile(filepath.Join(bankDir, "bank.json"), bankDoc); err != nil {
			return err
		}

		for m := range maps {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("extracting maps: %w", err)
			}

			result, err := e.Map(bank, m)
			if err != nil {
				return fmt.Errorf("extracting map: %w", err)
			}
			mapFile := filepath.Join(bankDir, extract.MapID(bank, m), "map.json")
			if err := writeJSONFile(mapFile, result.Document); err != nil {
				return err
			}
			if err := writeBlocksets(dir, result.Blocksets); err != nil {
				return err
			}
		}
		s.logger.Debug("Extracted bank", log.Int("bank", bank), log.Int("maps", len(maps)))
	}

	if err := writeJSONFile(filepath.Join(dir, "project.json"), e.Project()); err != nil {
		return err
	}

	s.logger.Info("Extraction finished",
		log.Int("banks", len(e.Banks())),
		log.Int("blocksets", len(e.BlocksetIDs())),
		log.String("directory", dir))
	return nil
}

// writeBlocksets writes the document and the raw tile pixel indexes of
// each blockset.
func writeBlocksets(dir string, blocksets []*extract.Blockset) error {
	for _, bs := range blocksets {
		bsDir := filepath.Join(dir, "blocksets", bs.Document.Meta.ID)
		if err := writeJSONFile(filepath.Join(bsDir, "blockset.json"), bs.Document); err != nil {
			return err
		}
		if bs.Tiles == nil {
			continue
		}
		tilesFile := filepath.Join(bsDir, "tiles.bin")
		if err := os.WriteFile(tilesFile, bs.Tiles.Pixels, 0o644); err != nil {
			return fmt.Errorf("writing tiles file %s: %w", tilesFile, err)
		}
	}
	return nil
}

func writeOutput(path string, v any) error {
	if path == "" {
		return writeJSON(os.Stdout, v)
	}
	return writeJSONFile(path, v)
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", path, err)
	}
	if err := writeJSON(file, v); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing output file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := gojson.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("romextract - GBA map data extractor",
		log.String("version", buildinfo.Version(version, commit, date)))
}
