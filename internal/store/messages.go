package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/Zuo-Peng/chatlog-export/internal/parse"
)

// maxBatchRows bounds a single multi-row INSERT so large files stay below
// the placeholder limits of every dialect.
const maxBatchRows = 500

const messageColumns = 5

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteBatch inserts msgs in one transaction. An empty batch is a no-op.
func (d *DB) WriteBatch(ctx context.Context, msgs []parse.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	errb := oops.In("store").With("rows", len(msgs))

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errb.Wrapf(err, "begin batch")
	}
	defer tx.Rollback()

	if err := d.insertMessages(ctx, tx, msgs); err != nil {
		return errb.Wrapf(err, "insert messages")
	}
	if err := tx.Commit(); err != nil {
		return errb.Wrapf(err, "commit batch")
	}
	return nil
}

func (d *DB) insertMessages(ctx context.Context, ex execer, msgs []parse.Message) error {
	for _, chunk := range lo.Chunk(msgs, maxBatchRows) {
		query, args := d.insertQuery(chunk)
		if _, err := ex.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) insertQuery(msgs []parse.Message) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO message (file, author, message, channel, timestamp) VALUES ")
	args := make([]any, 0, len(msgs)*messageColumns)
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, m.File, m.Author, m.Text, m.Channel, m.Timestamp)
	}
	return d.dialect.rebind(sb.String()), args
}

// MessagesForFile returns the stored messages of one file in insertion order.
func (d *DB) MessagesForFile(ctx context.Context, file string) ([]parse.Message, error) {
	rows, err := d.db.QueryContext(ctx, d.dialect.rebind(
		"SELECT file, author, message, channel, timestamp FROM message WHERE file = ? ORDER BY id",
	), file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []parse.Message
	for rows.Next() {
		var m parse.Message
		var ts time.Time
		if err := rows.Scan(&m.File, &m.Author, &m.Text, &m.Channel, &ts); err != nil {
			return nil, err
		}
		m.Timestamp = ts
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
