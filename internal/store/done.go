package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/samber/oops"

	"github.com/Zuo-Peng/chatlog-export/internal/parse"
)

// DoneFile marks a log file whose messages are fully stored.
type DoneFile struct {
	ID         int64
	Channel    string
	File       string
	ExportedAt time.Time
}

// IsDone reports whether file already has a done marker.
func (d *DB) IsDone(ctx context.Context, file string) (bool, error) {
	var one int
	err := d.db.QueryRowContext(ctx, d.dialect.rebind(
		"SELECT 1 FROM done_file WHERE file = ? LIMIT 1",
	), file).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, oops.In("store").With("file", file).Wrapf(err, "query done marker")
	}
	return true, nil
}

// MarkDone records a done marker in its own transaction. Marking a file
// twice violates the unique index and returns an error.
func (d *DB) MarkDone(ctx context.Context, channel, file string) error {
	if err := d.insertDone(ctx, d.db, channel, file); err != nil {
		return oops.In("store").With("file", file, "channel", channel).Wrapf(err, "mark done")
	}
	return nil
}

func (d *DB) insertDone(ctx context.Context, ex execer, channel, file string) error {
	_, err := ex.ExecContext(ctx, d.dialect.rebind(
		"INSERT INTO done_file (channel, file, exported_at) VALUES (?, ?, ?)",
	), channel, file, d.now())
	return err
}

// CommitFile stores the messages of f and its done marker in one
// transaction, so a file is either fully exported or not at all. An empty
// message slice still marks the file done.
func (d *DB) CommitFile(ctx context.Context, f parse.LogFile, msgs []parse.Message) error {
	errb := oops.In("store").With("file", f.Name, "channel", f.Channel, "rows", len(msgs))

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errb.Wrapf(err, "begin")
	}
	defer tx.Rollback()

	if err := d.insertMessages(ctx, tx, msgs); err != nil {
		return errb.Wrapf(err, "insert messages")
	}
	if err := d.insertDone(ctx, tx, f.Channel, f.Name); err != nil {
		return errb.Wrapf(err, "mark done")
	}
	if err := tx.Commit(); err != nil {
		return errb.Wrapf(err, "commit")
	}
	return nil
}

// DoneFiles lists done markers, newest first. An empty channel lists all.
func (d *DB) DoneFiles(ctx context.Context, channel string) ([]DoneFile, error) {
	query := "SELECT id, channel, file, exported_at FROM done_file"
	var args []any
	if channel != "" {
		query += " WHERE channel = ?"
		args = append(args, channel)
	}
	query += " ORDER BY id DESC"

	rows, err := d.db.QueryContext(ctx, d.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []DoneFile
	for rows.Next() {
		var f DoneFile
		if err := rows.Scan(&f.ID, &f.Channel, &f.File, &f.ExportedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Forget deletes the messages and the done marker of file so the next run
// exports it again. It returns the number of deleted messages.
func (d *DB) Forget(ctx context.Context, file string) (int64, error) {
	errb := oops.In("store").With("file", file)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errb.Wrapf(err, "begin")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, d.dialect.rebind("DELETE FROM message WHERE file = ?"), file)
	if err != nil {
		return 0, errb.Wrapf(err, "delete messages")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errb.Wrapf(err, "delete messages")
	}
	if _, err := tx.ExecContext(ctx, d.dialect.rebind("DELETE FROM done_file WHERE file = ?"), file); err != nil {
		return 0, errb.Wrapf(err, "delete done marker")
	}
	return n, tx.Commit()
}
