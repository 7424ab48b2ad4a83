package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scholarcheck/internal/report"
)

var ErrNotFound = errors.New("not found")

// FeedbackRecord is one user verdict on an analysis.
type FeedbackRecord struct {
	Filename   string
	IsAccurate bool
	Comments   string
	CreatedAt  time.Time
}

// PersistReport stores r, replacing any earlier report with the same id.
func PersistReport(dbPath string, r *report.AnalysisReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Exec(
		`INSERT OR REPLACE INTO reports(id, file, created_at, decision, final_probability, payload) VALUES(?,?,?,?,?,?)`,
		r.ID,
		r.File,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(r.Decision()),
		r.Scores.Final.FinalProbability,
		string(payload),
	); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func LoadReport(dbPath, id string) (*report.AnalysisReport, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var payload string
	err = conn.QueryRow(`SELECT payload FROM reports WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select report: %w", err)
	}
	return report.Decode([]byte(payload))
}

// PersistFeedback appends records in one transaction.
func PersistFeedback(dbPath string, records []FeedbackRecord) error {
	if len(records) == 0 {
		return nil
	}
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, f := range records {
		created := f.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := tx.Exec(
			`INSERT INTO feedback(filename, is_accurate, comments, created_at) VALUES(?,?,?,?)`,
			f.Filename,
			f.IsAccurate,
			f.Comments,
			created.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
