// Package build turns a set of documents into pages. Each document is loaded,
// checked against the reference structure, rendered with its own renderer and
// log, and optionally written under the output directory.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/document"
	"github.com/temirov/codepages/internal/highlight"
	"github.com/temirov/codepages/internal/render"
	"github.com/temirov/codepages/internal/structure"
	"github.com/temirov/codepages/internal/utils"
)

const (
	loadFailedFormat      = "cannot load document: %v"
	typeProblemFormat     = "value ignored: %s"
	pageExistsFormat      = "page %s already exists; not overwritten without --force"
	skippedInvalidMessage = "document does not follow the reference structure; not rendered"
	writeFailedFormat     = "write %s: %w"
	createDirectoryFormat = "create output directory %s: %w"
	parentDirectoryPrefix = ".."
	outputDirectoryMode   = 0o755
	outputFileMode        = 0o644
)

// Options configures a pipeline run.
type Options struct {
	// InputRoot anchors relative source paths and output locations.
	InputRoot        string
	OutputDirectory  string
	OutputExtension  string
	DefaultSyntax    string
	Highlighter      highlight.Highlighter
	Reference        structure.Value
	SkipInvalid      bool
	DropInvalidLinks bool
	CheckLinkTargets bool
	// WriteOutput disables writing when false; the page is still rendered in
	// memory so every diagnostic is produced.
	WriteOutput bool
	// Overwrite replaces existing pages. Without it an existing page is kept
	// and the document is reported as skipped.
	Overwrite bool
	Workers   int
}

// DocumentResult is the outcome for one document.
type DocumentResult struct {
	SourcePath string
	OutputPath string
	Valid      bool
	Skipped    bool
	HTML       string
	Log        diagnostics.Log
}

// ProcessDocument runs the whole pipeline for the document at absolutePath.
// Problems with the document itself land in the result log; the returned error
// is reserved for failures writing the output.
func ProcessDocument(absolutePath string, options Options) (DocumentResult, error) {
	result := DocumentResult{SourcePath: sourcePath(absolutePath, options.InputRoot)}

	parsed, loadError := document.Load(absolutePath)
	if loadError != nil {
		result.Log.Critical(loadFailedFormat, loadError)
		return result, nil
	}
	for _, problem := range parsed.TypeProblems {
		result.Log.Error(typeProblemFormat, problem)
	}

	checkResult := structure.Check(parsed.Value, options.Reference)
	result.Log.Extend(checkResult.Log)
	if checkResult.HasError && options.SkipInvalid {
		result.Log.Error(skippedInvalidMessage)
		result.Skipped = true
		return result, nil
	}

	if options.DropInvalidLinks {
		result.Log.Extend(document.ValidateLinks(&parsed.Document, true))
	}

	renderOptions := render.Options{
		DefaultSyntax:   options.DefaultSyntax,
		OutputExtension: options.OutputExtension,
		Highlighter:     options.Highlighter,
	}
	if options.CheckLinkTargets {
		renderOptions.TargetChecker = render.DirectoryTargetChecker{BaseDirectory: filepath.Dir(absolutePath)}
	}
	page := render.Render(parsed.Document, renderOptions)
	result.Log.Extend(page.Log)
	result.Valid = page.Valid && !checkResult.HasError
	result.HTML = page.HTML

	if !page.Valid || !options.WriteOutput {
		return result, nil
	}

	outputPath := filepath.Join(options.OutputDirectory, filepath.FromSlash(utils.ReplaceExtension(result.SourcePath, options.OutputExtension)))
	if writeError := writePage(outputPath, page.HTML, options.Overwrite); writeError != nil {
		if errors.Is(writeError, os.ErrExist) {
			result.Log.Critical(pageExistsFormat, outputPath)
			result.Skipped = true
			return result, nil
		}
		return result, writeError
	}
	result.OutputPath = outputPath
	return result, nil
}

// Run processes documentPaths with at most options.Workers documents in
// flight and hands each result to handle as soon as it is ready. handle is
// called from a single goroutine. The first error from handle or from writing
// output stops the run.
func Run(ctx context.Context, documentPaths []string, options Options, handle func(DocumentResult) error) error {
	produce := func(produceContext context.Context, results chan<- DocumentResult) error {
		workers, workerContext := errgroup.WithContext(produceContext)
		workers.SetLimit(max(options.Workers, 1))
		for _, documentPath := range documentPaths {
			if workerContext.Err() != nil {
				break
			}
			workers.Go(func() error {
				result, processError := ProcessDocument(documentPath, options)
				if processError != nil {
					return processError
				}
				select {
				case results <- result:
					return nil
				case <-workerContext.Done():
					return workerContext.Err()
				}
			})
		}
		return workers.Wait()
	}
	return dispatchResults(ctx, produce, handle)
}

func dispatchResults(
	ctx context.Context,
	produce func(context.Context, chan<- DocumentResult) error,
	consume func(DocumentResult) error,
) error {
	group, runContext := errgroup.WithContext(ctx)
	results := make(chan DocumentResult)

	group.Go(func() error {
		defer close(results)
		return produce(runContext, results)
	})

	group.Go(func() error {
		for {
			select {
			case <-runContext.Done():
				return runContext.Err()
			case result, ok := <-results:
				if !ok {
					return nil
				}
				if err := consume(result); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func sourcePath(absolutePath string, inputRoot string) string {
	if inputRoot == "" {
		return filepath.ToSlash(filepath.Base(absolutePath))
	}
	relativePath := utils.RelativePathOrSelf(absolutePath, inputRoot)
	if relativePath == "." || strings.HasPrefix(relativePath, parentDirectoryPrefix) || filepath.IsAbs(relativePath) {
		return filepath.ToSlash(filepath.Base(absolutePath))
	}
	return relativePath
}

// writePage creates outputPath with content. Unless overwrite is set an
// existing file is left alone and an error wrapping os.ErrExist is returned.
func writePage(outputPath string, content string, overwrite bool) error {
	outputDirectory := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDirectory, outputDirectoryMode); err != nil {
		return fmt.Errorf(createDirectoryFormat, outputDirectory, err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(outputPath, flags, outputFileMode)
	if err != nil {
		return fmt.Errorf(writeFailedFormat, outputPath, err)
	}
	if _, err = file.WriteString(content); err != nil {
		_ = file.Close()
		return fmt.Errorf(writeFailedFormat, outputPath, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf(writeFailedFormat, outputPath, err)
	}
	return nil
}
