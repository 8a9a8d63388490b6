package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resumescreen/internal/errors"
	"resumescreen/internal/utils"
)

// Resumes and job descriptions are short documents. Anything past this size
// is almost certainly not one, so we warn before feeding it to the engine.
const largeDocumentBytes = 1 << 20

// FileProcessor reads resume and job description documents off disk and
// writes formatted results back out.
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a file processor that logs through the given logger.
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile reads a whole document and returns it as a string.
func (fp *FileProcessor) ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", path), err)
	}
	return string(raw), nil
}

// WriteFile writes formatted output, creating the parent directory when needed.
func (fp *FileProcessor) WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", path), err)
	}
	return nil
}

// ValidateAndReadFiles validates each document path and reads its content.
// The returned slice is in argument order. A document that is empty after
// trimming whitespace is rejected, since scoring blank input is never useful.
func (fp *FileProcessor) ValidateAndReadFiles(paths ...string) ([]string, error) {
	contents := make([]string, len(paths))

	for i, path := range paths {
		if err := utils.ValidateInputFile(path); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", path), err)
		}

		fp.warnUnusualDocument(path)

		content, err := fp.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(content) == "" {
			return nil, errors.NewValidationError("EMPTY_DOCUMENT",
				fmt.Sprintf("Document is empty: %s", path), nil)
		}

		contents[i] = content
	}

	return contents, nil
}

// warnUnusualDocument flags inputs that are probably not resume text, either
// by extension or by size.
func (fp *FileProcessor) warnUnusualDocument(path string) {
	if !utils.IsTextFile(path) {
		if fp.logger != nil {
			fp.logger.Warn("File may not be a text document", "path", path)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %s may not be a text document\n", path)
		}
	}
	if size := utils.FileSize(path); size > largeDocumentBytes && fp.logger != nil {
		fp.logger.Warn("Document is unusually large for a resume or job description",
			"path", path, "size", utils.FormatFileSize(size))
	}
}

// ValidateOutputFile checks the output destination. Empty means stdout.
func (fp *FileProcessor) ValidateOutputFile(path string) error {
	if path == "" {
		return nil
	}
	if err := utils.ValidateOutputFile(path); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", path), err)
	}
	return nil
}
