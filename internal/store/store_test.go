package store

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chatlog-export/internal/parse"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Options{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "nested", "chatlog.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testFile(name, channel string) parse.LogFile {
	return parse.LogFile{
		Path:    "/logs/" + name,
		Name:    name,
		Channel: channel,
		Date:    time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testMessages(file, channel string, n int) []parse.Message {
	loc := time.FixedZone("CEST", 2*60*60)
	msgs := make([]parse.Message, n)
	for i := range msgs {
		msgs[i] = parse.Message{
			File:      file,
			Channel:   channel,
			Author:    "bob",
			Text:      "hello " + string(rune('a'+i%26)),
			Timestamp: time.Date(2023, 5, 1, 12, 0, i%60, 0, loc),
		}
	}
	return msgs
}

func TestOpen_CreatesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatlog.db")
	ctx := context.Background()

	db, err := Open(ctx, Options{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, db.Driver())
	require.NoError(t, db.Close())

	db, err = Open(ctx, Options{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	defer db.Close()

	n, err := db.MessageCount(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle", Path: "x"})
	require.ErrorIs(t, err, ErrConnect)
}

func TestOpen_EmptySQLitePath(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverSQLite})
	require.ErrorIs(t, err, ErrConnect)
}

func TestOpen_DirUnderRegularFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Open(context.Background(), Options{
		Driver: DriverSQLite,
		Path:   filepath.Join(blocker, "chatlog.db"),
	})
	require.ErrorIs(t, err, ErrConnect)
}

func TestOpen_ServerUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, driver := range []string{DriverMySQL, DriverPostgres} {
		t.Run(driver, func(t *testing.T) {
			_, err := Open(ctx, Options{
				Driver: driver,
				Host:   "127.0.0.1",
				Port:   port,
				User:   "chat",
				Name:   "chatlogs",
			})
			require.ErrorIs(t, err, ErrConnect)
		})
	}
}

func TestWriteBatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.WriteBatch(ctx, nil), "empty batch is a no-op")

	msgs := testMessages("alice-2023-05-01.log", "alice", 3)
	require.NoError(t, db.WriteBatch(ctx, msgs))

	got, err := db.MessagesForFile(ctx, "alice-2023-05-01.log")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range msgs {
		require.Equal(t, msgs[i].Author, got[i].Author)
		require.Equal(t, msgs[i].Text, got[i].Text)
		require.Equal(t, msgs[i].Channel, got[i].Channel)
		require.True(t, msgs[i].Timestamp.Equal(got[i].Timestamp), "row %d: %v != %v", i, msgs[i].Timestamp, got[i].Timestamp)
	}

	// writing a batch never marks the file done
	done, err := db.IsDone(ctx, "alice-2023-05-01.log")
	require.NoError(t, err)
	require.False(t, done)
}

func TestWriteBatch_LargeBatchIsChunked(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	msgs := testMessages("big-2023-05-01.log", "big", maxBatchRows*2+7)
	require.NoError(t, db.WriteBatch(ctx, msgs))

	n, err := db.MessageCount(ctx)
	require.NoError(t, err)
	require.Equal(t, len(msgs), n)
}

func TestMarkDone(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	done, err := db.IsDone(ctx, "alice-2023-05-01.log")
	require.NoError(t, err)
	require.False(t, done)

	require.NoError(t, db.MarkDone(ctx, "alice", "alice-2023-05-01.log"))

	done, err = db.IsDone(ctx, "alice-2023-05-01.log")
	require.NoError(t, err)
	require.True(t, done)

	// a second marker violates the unique index
	require.Error(t, db.MarkDone(ctx, "alice", "alice-2023-05-01.log"))

	n, err := db.DoneCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestCommitFile(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	f := testFile("alice-2023-05-01.log", "alice")
	require.NoError(t, db.CommitFile(ctx, f, testMessages(f.Name, f.Channel, 4)))

	done, err := db.IsDone(ctx, f.Name)
	require.NoError(t, err)
	require.True(t, done)

	n, err := db.MessageCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestCommitFile_EmptyStillMarksDone(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	f := testFile("quiet-2023-05-01.log", "quiet")
	require.NoError(t, db.CommitFile(ctx, f, nil))

	done, err := db.IsDone(ctx, f.Name)
	require.NoError(t, err)
	require.True(t, done)
}

func TestCommitFile_RollsBackMessagesWhenMarkerFails(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	f := testFile("alice-2023-05-01.log", "alice")
	require.NoError(t, db.MarkDone(ctx, f.Channel, f.Name))

	err := db.CommitFile(ctx, f, testMessages(f.Name, f.Channel, 3))
	require.Error(t, err)

	n, err := db.MessageCount(ctx)
	require.NoError(t, err)
	require.Zero(t, n, "messages must roll back with the marker")
}

func TestDoneFilesAndForget(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := testFile("alice-2023-05-01.log", "alice")
	b := testFile("bob-2023-05-01.log", "bob")
	require.NoError(t, db.CommitFile(ctx, a, testMessages(a.Name, a.Channel, 2)))
	require.NoError(t, db.CommitFile(ctx, b, testMessages(b.Name, b.Channel, 5)))

	all, err := db.DoneFiles(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, b.Name, all[0].File, "newest first")
	require.False(t, all[0].ExportedAt.IsZero())

	alice, err := db.DoneFiles(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice, 1)
	require.Equal(t, a.Name, alice[0].File)

	removed, err := db.Forget(ctx, b.Name)
	require.NoError(t, err)
	require.EqualValues(t, 5, removed)

	done, err := db.IsDone(ctx, b.Name)
	require.NoError(t, err)
	require.False(t, done)

	n, err := db.MessageCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
