package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vocab-exam/internal/quiz"
)

func (s *SQLiteStore) ReadHistory(ctx context.Context) ([]quiz.HistoryEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT entry_id, started_at_unix, finished_at_unix, config_json, correct, total,
			accuracy, time_spent_ms, auto_submitted, wrong_card_ids_json, verification_code
		 FROM history_entries
		 ORDER BY position ASC
		 LIMIT ?`,
		quiz.HistoryLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]quiz.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry          quiz.HistoryEntry
			startedAtUnix  int64
			finishedAtUnix int64
			configJSON     string
			autoSubmitted  int
			wrongJSON      string
		)
		if err := rows.Scan(
			&entry.ID,
			&startedAtUnix,
			&finishedAtUnix,
			&configJSON,
			&entry.Summary.Correct,
			&entry.Summary.Total,
			&entry.Summary.Accuracy,
			&entry.Summary.TimeSpentMs,
			&autoSubmitted,
			&wrongJSON,
			&entry.VerificationCode,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(configJSON), &entry.Config); err != nil {
			return nil, fmt.Errorf("decode history config %s: %w", entry.ID, err)
		}
		if err := json.Unmarshal([]byte(wrongJSON), &entry.WrongCardIDs); err != nil {
			return nil, fmt.Errorf("decode history wrong ids %s: %w", entry.ID, err)
		}
		entry.StartedAt = time.Unix(0, startedAtUnix).UTC()
		entry.FinishedAt = time.Unix(0, finishedAtUnix).UTC()
		entry.Summary.AutoSubmitted = autoSubmitted != 0
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// WriteHistory replaces the stored list in one transaction.
func (s *SQLiteStore) WriteHistory(ctx context.Context, entries []quiz.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_entries`); err != nil {
		return err
	}

	for idx, entry := range entries {
		if idx >= quiz.HistoryLimit {
			break
		}

		configJSON, err := json.Marshal(entry.Config)
		if err != nil {
			return err
		}
		wrong := entry.WrongCardIDs
		if wrong == nil {
			wrong = []string{}
		}
		wrongJSON, err := json.Marshal(wrong)
		if err != nil {
			return err
		}

		autoSubmitted := 0
		if entry.Summary.AutoSubmitted {
			autoSubmitted = 1
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO history_entries (
				position, entry_id, started_at_unix, finished_at_unix, book_key, config_json,
				correct, total, accuracy, time_spent_ms, auto_submitted, wrong_card_ids_json, verification_code
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			idx,
			entry.ID,
			entry.StartedAt.UnixNano(),
			entry.FinishedAt.UnixNano(),
			string(entry.Config.BookKey),
			string(configJSON),
			entry.Summary.Correct,
			entry.Summary.Total,
			entry.Summary.Accuracy,
			entry.Summary.TimeSpentMs,
			autoSubmitted,
			string(wrongJSON),
			entry.VerificationCode,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
