package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/outbreakwatch/episcan/internal/model"
)

// RenderSummary writes a human-readable run summary.
func RenderSummary(w io.Writer, s *model.RunSummary) {
	fmt.Fprintf(w, "\n=== Ingestion Summary ===\n")
	fmt.Fprintf(w, "Duration: %s\n", s.Duration().Round(time.Millisecond))
	if s.DryRun {
		fmt.Fprintf(w, "Mode: dry run (no writes)\n")
	}

	fmt.Fprintf(w, "\nSources (%d):\n", len(s.Sources))
	for _, src := range s.Sources {
		if src.Error != "" {
			fmt.Fprintf(w, "  %-24s FAILED after %d attempt(s): %s\n", src.Source, src.Attempts, src.Error)
			continue
		}
		fmt.Fprintf(w, "  %-24s %4d articles\n", src.Source, src.Articles)
	}

	fmt.Fprintf(w, "\nPipeline:\n")
	fmt.Fprintf(w, "  Fetched:      %d\n", s.Fetched)
	fmt.Fprintf(w, "  Deduplicated: %d (dropped %d exact, %d similar)\n", s.Deduplicated, s.DroppedExact, s.DroppedSimilar)
	if s.FilterFellBack {
		fmt.Fprintf(w, "  Filtered:     %d (no keyword hits, kept full set)\n", s.Filtered)
	} else {
		fmt.Fprintf(w, "  Filtered:     %d\n", s.Filtered)
	}
	fmt.Fprintf(w, "  Classified:   %d articles in %d batch(es)\n", s.Batched, s.Batches)
	fmt.Fprintf(w, "  Candidates:   %d\n", s.Matched)
	for _, be := range s.BatchErrors {
		fmt.Fprintf(w, "  WARNING: %s\n", be)
	}

	if !s.DryRun {
		fmt.Fprintf(w, "\nSignals:\n")
		fmt.Fprintf(w, "  Created:            %d\n", s.Write.Created)
		fmt.Fprintf(w, "  Skipped duplicate:  %d\n", s.Write.SkippedDuplicate)
		fmt.Fprintf(w, "  Skipped no country: %d\n", s.Write.SkippedNoLocation)
		fmt.Fprintf(w, "  Skipped no source:  %d\n", s.Write.SkippedNoSource)
		if s.Write.Errors > 0 {
			fmt.Fprintf(w, "  Write errors:       %d\n", s.Write.Errors)
		}
		if s.Triggered {
			fmt.Fprintf(w, "  Downstream refresh triggered\n")
		}
	}
}

// WriteJSON saves the summary to a file for machine consumption.
func WriteJSON(path string, s *model.RunSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary to %s: %w", path, err)
	}

	return nil
}
