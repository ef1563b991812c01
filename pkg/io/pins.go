package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// Supported pin file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatText = "txt"
)

// FormatFromPath picks the pin format from a file extension. Anything that
// is not .json or .toml is read as text.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatText
	}
}

// ReadPins decodes pin rows from r in the given format and validates them.
//
// The JSON form is an object with "top" and "bottom" arrays:
//
//	{"top": [1, 0, 2], "bottom": [2, 0, 1]}
//
// The TOML form uses the same keys:
//
//	top = [1, 0, 2]
//	bottom = [2, 0, 1]
//
// The text form is two non-empty lines of whitespace separated net ids,
// top row first. Blank lines and lines starting with '#' are skipped.
//
// ReadPins returns an ErrCodeInvalidFormat error when the input cannot be
// decoded and an ErrCodeInvalidInput error when the rows are inconsistent.
// It does not close r.
func ReadPins(r io.Reader, format string) (channel.Pins, error) {
	var (
		pins channel.Pins
		err  error
	)
	switch format {
	case FormatJSON, "":
		err = json.NewDecoder(r).Decode(&pins)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&pins)
	case FormatText:
		pins, err = readText(r)
	default:
		return channel.Pins{}, errs.New(errs.ErrCodeUnsupported, "unknown pin format %q", format)
	}
	if err != nil {
		return channel.Pins{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s pins", format)
	}
	if pins.Top == nil {
		pins.Top = []int{}
	}
	if pins.Bottom == nil {
		pins.Bottom = []int{}
	}
	if err := errs.ValidatePins(pins.Top, pins.Bottom); err != nil {
		return channel.Pins{}, err
	}
	return pins, nil
}

// ImportPins reads a pin file, choosing the format from its extension.
func ImportPins(path string) (channel.Pins, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return channel.Pins{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return channel.Pins{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPins(f, FormatFromPath(path))
}

// WritePins encodes pins to w. The output of every format is accepted by
// [ReadPins] with the same format.
func WritePins(p channel.Pins, w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(p); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatText:
		_, err := fmt.Fprintf(w, "%s\n%s\n", joinRow(p.Top), joinRow(p.Bottom))
		return err
	default:
		return errs.New(errs.ErrCodeUnsupported, "unknown pin format %q", format)
	}
}

// ExportPins writes pins to a file, choosing the format from its extension.
func ExportPins(p channel.Pins, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePins(p, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readText(r io.Reader) (channel.Pins, error) {
	var rows [][]int
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if len(rows) == 2 {
			return channel.Pins{}, fmt.Errorf("line %d: more than two pin rows", line)
		}
		fields := strings.Fields(text)
		row := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return channel.Pins{}, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = n
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return channel.Pins{}, err
	}
	if len(rows) != 2 {
		return channel.Pins{}, fmt.Errorf("want 2 pin rows, got %d", len(rows))
	}
	return channel.Pins{Top: rows[0], Bottom: rows[1]}, nil
}

func joinRow(row []int) string {
	parts := make([]string, len(row))
	for i, n := range row {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
