// Package workspace owns the on-disk layout: uploads, the reference corpus,
// saved reports and the sqlite database.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = "ScholarCheck"

const (
	uploadsDir = "uploads"
	corpusDir  = "corpus"
	reportsDir = "reports"
	configsDir = "configs"
	dbFile     = "scholarcheck.db"
)

func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

func EnsureAt(base string) (string, error) {
	for _, d := range []string{uploadsDir, corpusDir, reportsDir, configsDir} {
		p := filepath.Join(base, d)
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}
	return base, nil
}

func CorpusDir(root string) string { return filepath.Join(root, corpusDir) }

func ConfigsDir(root string) string { return filepath.Join(root, configsDir) }

func DBPath(root string) string { return filepath.Join(root, dbFile) }

// ReportPath is where the JSON copy of report id is written.
func ReportPath(root, id string) string {
	return filepath.Join(root, reportsDir, sanitizeName(id, "report")+".json")
}
