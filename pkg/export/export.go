package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/network"
	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

// Format selects an export encoding.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTSV, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown export format %q (want tsv or json)", s)
}

// Write encodes res in format f. net is the network the result was computed
// from; it is used to name edges in the JSON edge-rank list and may be nil.
func Write(w io.Writer, f Format, res *pipeline.Result, net *network.Network) error {
	switch f {
	case FormatTSV:
		return WriteTSV(w, res)
	case FormatJSON:
		return WriteJSON(w, res, net)
	}
	return errors.New(errors.ErrCodeUnsupported, "export format %q", string(f))
}

// ExportFile writes res to path, replacing any existing file.
func ExportFile(path string, f Format, res *pipeline.Result, net *network.Network) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(file, f, res, net); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
