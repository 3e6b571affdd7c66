package output

import (
	"fmt"
	"io"

	"github.com/temirov/codepages/internal/build"
)

const (
	rawWrittenFormat  = "%s -> %s\n"
	rawSkippedFormat  = "%s (skipped)\n"
	rawInvalidFormat  = "%s (invalid)\n"
	rawCheckedFormat  = "%s\n"
	rawEntryFormat    = "  %s\n"
	rawSummaryFormat  = "%d document(s): %d valid, %d invalid, %d written\n"
	rawSeverityFormat = "%d critical, %d error(s), %d warning(s), %d note(s)\n"
)

type rawReportRenderer struct {
	stdout    io.Writer
	collector *Collector
}

func (renderer *rawReportRenderer) Handle(result build.DocumentResult) error {
	renderer.collector.Add(result)
	return nil
}

func (renderer *rawReportRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	report := renderer.collector.Report()
	for _, document := range report.Documents {
		var err error
		switch {
		case document.Output != "":
			_, err = fmt.Fprintf(renderer.stdout, rawWrittenFormat, document.Source, document.Output)
		case document.Skipped:
			_, err = fmt.Fprintf(renderer.stdout, rawSkippedFormat, document.Source)
		case !document.Valid:
			_, err = fmt.Fprintf(renderer.stdout, rawInvalidFormat, document.Source)
		default:
			_, err = fmt.Fprintf(renderer.stdout, rawCheckedFormat, document.Source)
		}
		if err != nil {
			return err
		}
		for _, entry := range document.Diagnostics {
			if _, err := fmt.Fprintf(renderer.stdout, rawEntryFormat, entry.String()); err != nil {
				return err
			}
		}
	}
	summary := report.Summary
	if _, err := fmt.Fprintf(renderer.stdout, rawSummaryFormat, summary.Documents, summary.Valid, summary.Invalid, summary.Written); err != nil {
		return err
	}
	_, err := fmt.Fprintf(renderer.stdout, rawSeverityFormat, summary.Critical, summary.Errors, summary.Warnings, summary.Notes)
	return err
}
