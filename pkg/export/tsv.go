package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

// TSVHeader is the first line of a TSV export.
const TSVHeader = "Path index\tPath score\tPath"

// WriteTSV writes one row per path under [TSVHeader].
func WriteTSV(w io.Writer, res *pipeline.Result) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(TSVHeader)
	bw.WriteByte('\n')
	for _, p := range res.Paths {
		fmt.Fprintf(bw, "%d\t%s\t%s\n", p.Rank, FormatScore(p.Weight), strings.Join(p.Nodes, "|"))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write tsv: %w", err)
	}
	return nil
}

// FormatScore rounds w half-up to six decimals and drops trailing zeros.
func FormatScore(w float64) string {
	r := math.Floor(w*1e6+0.5) / 1e6
	if r == 0 {
		r = 0 // -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
