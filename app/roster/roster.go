// Package roster reads player records from delimited text files.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobylevd/team-balancer/app/store"
)

var (
	// ErrMissingColumn indicates that a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrDuplicatePlayer indicates that the same name appears twice.
	ErrDuplicatePlayer = errors.New("duplicate player")
	// ErrEmptyName indicates a record without a player name.
	ErrEmptyName = errors.New("empty name")
)

// Options tune the reader.
type Options struct {
	Comma rune // field delimiter, detected from the header when zero
}

const (
	colName = iota
	colRank
	colRole
	colContact
	colNote
	colCount
)

var columnAliases = map[string]int{
	"name":    colName,
	"nick":    colName,
	"player":  colName,
	"rank":    colRank,
	"role":    colRole,
	"contact": colContact,
	"discord": colContact,
	"note":    colNote,
	"comment": colNote,
}

// LoadFile reads players from the file at path.
func LoadFile(path string, opts Options) ([]store.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	players, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return players, nil
}

// Load reads players from r. The first record is a header, columns are
// matched by name case-insensitively; name and rank are required.
func Load(r io.Reader, opts Options) ([]store.Player, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = opts.Comma
	if cr.Comma == 0 {
		cr.Comma = detectComma(data)
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = cr.Comma != '\t' // a tab counts as leading space

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w: name", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := columns(header)
	if err != nil {
		return nil, err
	}

	var players []store.Player
	seen := map[string]int{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if isBlank(rec) {
			continue
		}

		pl, err := parse(rec, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		key := strings.ToLower(pl.Name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("line %d: %w: %s, first seen on line %d", line, ErrDuplicatePlayer, pl.Name, prev)
		}
		seen[key] = line
		players = append(players, pl)
	}

	return players, nil
}

// columns maps each known column to its position in the header, -1 if absent.
func columns(header []string) ([colCount]int, error) {
	var index [colCount]int
	for i := range index {
		index[i] = -1
	}

	for pos, h := range header {
		col, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok || index[col] >= 0 {
			continue
		}
		index[col] = pos
	}

	if index[colName] < 0 {
		return index, fmt.Errorf("%w: name", ErrMissingColumn)
	}
	if index[colRank] < 0 {
		return index, fmt.Errorf("%w: rank", ErrMissingColumn)
	}
	return index, nil
}

func parse(rec []string, index [colCount]int) (store.Player, error) {
	field := func(col int) string {
		if index[col] < 0 || index[col] >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[index[col]])
	}

	pl := store.Player{Name: field(colName), Contact: field(colContact), Note: field(colNote)}
	if pl.Name == "" {
		return store.Player{}, ErrEmptyName
	}

	var err error
	if pl.Rank, err = store.ParseRank(field(colRank)); err != nil {
		return store.Player{}, fmt.Errorf("player %s: %w", pl.Name, err)
	}
	if pl.Role, err = store.ParseRole(field(colRole)); err != nil {
		return store.Player{}, fmt.Errorf("player %s: %w", pl.Name, err)
	}

	return pl, nil
}

// detectComma picks the most frequent candidate delimiter of the first line.
func detectComma(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(first, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
