package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Submission struct {
	ID         string
	Root       string
	SourcePath string
}

// CreateSubmission stores an uploaded document under a content-hash id.
// Uploading the same bytes twice reuses the directory.
func CreateSubmission(root, fileName string, data []byte) (*Submission, error) {
	id := contentHash(data)
	dir := filepath.Join(root, uploadsDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create submission dir: %w", err)
	}

	sourcePath := filepath.Join(dir, sanitizeName(fileName, "upload.txt"))
	if err := os.WriteFile(sourcePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	return &Submission{ID: id, Root: dir, SourcePath: sourcePath}, nil
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}

func sanitizeName(name, fallback string) string {
	base := filepath.Base(strings.TrimSpace(strings.ReplaceAll(name, `\`, "/")))
	base = strings.ReplaceAll(base, "..", "")
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fallback
	}
	return base
}
