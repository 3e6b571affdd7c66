// Package output renders the diagnostics report of a pipeline run.
package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/temirov/codepages/internal/build"
	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/types"
)

const unsupportedFormatFormat = "unsupported report format %q"

// ReportRenderer receives document results as they complete and writes the
// report once the run is over.
type ReportRenderer interface {
	Handle(result build.DocumentResult) error
	Flush() error
}

// DocumentReport is the reported view of one document. Diagnostics below the
// report threshold are omitted.
type DocumentReport struct {
	Source      string              `json:"source" xml:"source,attr"`
	Output      string              `json:"output,omitempty" xml:"output,attr,omitempty"`
	Valid       bool                `json:"valid" xml:"valid,attr"`
	Skipped     bool                `json:"skipped,omitempty" xml:"skipped,attr,omitempty"`
	Diagnostics []diagnostics.Entry `json:"diagnostics" xml:"diagnostic"`
}

// Summary totals a run.
type Summary struct {
	Documents int `json:"documents" xml:"documents,attr"`
	Valid     int `json:"valid" xml:"valid,attr"`
	Invalid   int `json:"invalid" xml:"invalid,attr"`
	Written   int `json:"written" xml:"written,attr"`
	Notes     int `json:"notes" xml:"notes,attr"`
	Warnings  int `json:"warnings" xml:"warnings,attr"`
	Errors    int `json:"errors" xml:"errors,attr"`
	Critical  int `json:"critical" xml:"critical,attr"`
}

// Report is the complete run report, documents sorted by source path.
type Report struct {
	XMLName   xml.Name         `json:"-" xml:"report"`
	Command   string           `json:"command" xml:"command,attr"`
	Threshold string           `json:"threshold" xml:"threshold,attr"`
	Documents []DocumentReport `json:"documents" xml:"document"`
	Summary   Summary          `json:"summary" xml:"summary"`
}

// Collector accumulates results into a Report. It is not safe for concurrent
// use; build.Run calls its handler from one goroutine.
type Collector struct {
	command   string
	threshold diagnostics.Severity
	documents []DocumentReport
	summary   Summary
}

// NewCollector creates a collector that keeps diagnostics at or above threshold.
func NewCollector(command string, threshold diagnostics.Severity) *Collector {
	return &Collector{command: command, threshold: threshold}
}

// Add records one document result.
func (collector *Collector) Add(result build.DocumentResult) {
	collector.summary.Documents++
	if result.Valid {
		collector.summary.Valid++
	} else {
		collector.summary.Invalid++
	}
	if result.OutputPath != "" {
		collector.summary.Written++
	}
	collector.summary.Notes += result.Log.Count(diagnostics.SeverityNote)
	collector.summary.Warnings += result.Log.Count(diagnostics.SeverityWarning)
	collector.summary.Errors += result.Log.Count(diagnostics.SeverityError)
	collector.summary.Critical += result.Log.Count(diagnostics.SeverityCritical)

	entries := result.Log.AtLeast(collector.threshold)
	if entries == nil {
		entries = []diagnostics.Entry{}
	}
	collector.documents = append(collector.documents, DocumentReport{
		Source:      result.SourcePath,
		Output:      result.OutputPath,
		Valid:       result.Valid,
		Skipped:     result.Skipped,
		Diagnostics: entries,
	})
}

// Report returns the accumulated report.
func (collector *Collector) Report() Report {
	documents := append([]DocumentReport{}, collector.documents...)
	sort.SliceStable(documents, func(left, right int) bool {
		return documents[left].Source < documents[right].Source
	})
	return Report{
		Command:   collector.command,
		Threshold: collector.threshold.String(),
		Documents: documents,
		Summary:   collector.summary,
	}
}

// NewReportRenderer returns the renderer for format writing to stdout.
func NewReportRenderer(format string, stdout io.Writer, command string, threshold diagnostics.Severity) (ReportRenderer, error) {
	collector := NewCollector(command, threshold)
	switch format {
	case types.FormatRaw:
		return &rawReportRenderer{stdout: stdout, collector: collector}, nil
	case types.FormatJSON:
		return &jsonReportRenderer{stdout: stdout, collector: collector}, nil
	case types.FormatXML:
		return &xmlReportRenderer{stdout: stdout, collector: collector}, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatFormat, format)
	}
}
