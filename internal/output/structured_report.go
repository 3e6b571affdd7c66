package output

import (
	"encoding/json"
	"encoding/xml"
	"io"

	"github.com/temirov/codepages/internal/build"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	newline      = "\n"
)

type jsonReportRenderer struct {
	stdout    io.Writer
	collector *Collector
}

func (renderer *jsonReportRenderer) Handle(result build.DocumentResult) error {
	renderer.collector.Add(result)
	return nil
}

func (renderer *jsonReportRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	encoder := json.NewEncoder(renderer.stdout)
	encoder.SetIndent(indentPrefix, indentSpacer)
	return encoder.Encode(renderer.collector.Report())
}

type xmlReportRenderer struct {
	stdout    io.Writer
	collector *Collector
}

func (renderer *xmlReportRenderer) Handle(result build.DocumentResult) error {
	renderer.collector.Add(result)
	return nil
}

func (renderer *xmlReportRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	if _, err := io.WriteString(renderer.stdout, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(renderer.stdout)
	encoder.Indent(indentPrefix, indentSpacer)
	if err := encoder.Encode(renderer.collector.Report()); err != nil {
		return err
	}
	if err := encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(renderer.stdout, newline)
	return err
}
