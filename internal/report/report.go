// Package report renders the analysis report of a run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/mentions"
	"github.com/blockedby/crypto-digest/internal/models"
)

// TimestampLayout formats the generation time in the report header.
const TimestampLayout = "2006-01-02 15:04:05"

// Renderer writes report files into a directory.
type Renderer struct {
	dir string
	now func() time.Time
	log *logger.Logger
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string, log *logger.Logger) *Renderer {
	if dir == "" {
		dir = "."
	}
	return &Renderer{dir: dir, now: time.Now, log: log}
}

// SetClock replaces the clock used for the header timestamp.
func (r *Renderer) SetClock(now func() time.Time) {
	r.now = now
}

// Path returns the report file name of a run.
func (r *Renderer) Path(runID models.RunID) string {
	return filepath.Join(r.dir, fmt.Sprintf("crypto_analysis_%s.txt", runID))
}

// Render writes the report of a run, replacing any earlier one, and returns its path.
func (r *Renderer) Render(runID models.RunID, summary string, counts mentions.Counts) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := r.Path(runID)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	if err := Write(file, r.now(), summary, counts); err != nil {
		file.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	r.log.Info().Str("run_id", runID.String()).Str("file", path).Msg("report written")
	return path, nil
}

// Write renders the report body.
func Write(w io.Writer, generated time.Time, summary string, counts mentions.Counts) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Cryptocurrency Analysis Report - %s\n", generated.Format(TimestampLayout))
	bw.WriteString(strings.Repeat("=", 50) + "\n\n")

	if summary != "" {
		bw.WriteString("ANALYSIS SUMMARY\n")
		bw.WriteString(strings.Repeat("-", 20) + "\n")
		bw.WriteString(summary + "\n\n")
	}

	bw.WriteString("CRYPTOCURRENCY MENTIONS\n")
	bw.WriteString(strings.Repeat("-", 20) + "\n")
	for _, c := range Ranked(counts) {
		fmt.Fprintf(bw, "%s (%s): %d mentions\n", strings.ToUpper(c.Name), c.Symbol, c.Mentions)
	}

	return bw.Flush()
}

// Ranked returns the counts by mentions descending. Ties keep dictionary order.
func Ranked(counts mentions.Counts) []mentions.Count {
	items := counts.Items()
	slices.SortStableFunc(items, func(a, b mentions.Count) int {
		return b.Mentions - a.Mentions
	})
	return items
}

// WriteTopTable prints the n most mentioned entries with a non-zero count.
func WriteTopTable(w io.Writer, counts mentions.Counts, n int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Symbol", "Mentions"})

	rank := 0
	for _, c := range Ranked(counts) {
		if rank == n || c.Mentions == 0 {
			break
		}
		rank++
		table.Append([]string{strconv.Itoa(rank), c.Name, c.Symbol, strconv.Itoa(c.Mentions)})
	}

	table.Render()
}
