// Package document converts uploaded resume files into plain text and manages
// their short-lived on-disk copies.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// IsPDFFilename reports whether the uploaded filename declares a PDF.
// The check runs before any extraction is attempted.
func IsPDFFilename(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".pdf")
}

// SaveUpload writes the uploaded content to a unique temporary path so that
// concurrent requests never collide on the original filename. The caller is
// responsible for removing the file once extraction is done.
func SaveUpload(dir string, src io.Reader) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "resume-"+uuid.NewString()+".pdf")

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path, nil
}

// ExtractText returns the best-effort plain text of a PDF file. Extraction
// failures are logged and reported as an empty string; the parsing library is
// never allowed to take a request handler down.
func ExtractText(path string, logger *zap.Logger) string {
	text, err := pdfText(path)
	if err != nil {
		if logger != nil {
			logger.Warn("pdf text extraction failed",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return ""
	}

	return strings.TrimSpace(text)
}

func pdfText(path string) (text string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
