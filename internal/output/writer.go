package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/loanrates-go/internal/domain"
	"github.com/quantmind-br/loanrates-go/internal/utils"
)

// FileFormat picks the file format for path from its extension: .json is
// JSON, everything else is CSV
func FileFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// WriteFile writes records to path, creating parent directories. A path
// without extension gets ".csv" appended. It returns the path written.
func WriteFile(path string, records []domain.Record) (string, error) {
	path = utils.WithDefaultExt(utils.ExpandPath(path), ".csv")

	var buf bytes.Buffer
	if err := Render(&buf, FileFormat(path), records); err != nil {
		return "", err
	}

	if err := utils.EnsureDir(path); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
