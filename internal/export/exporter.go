package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/Zuo-Peng/chatlog-export/internal/parse"
	"github.com/Zuo-Peng/chatlog-export/internal/scan"
)

// Store is the persistence the exporter needs: the done lookup and an
// atomic write of a file's messages together with its done marker.
type Store interface {
	IsDone(ctx context.Context, file string) (bool, error)
	CommitFile(ctx context.Context, f parse.LogFile, msgs []parse.Message) error
}

type Options struct {
	Root     string
	Include  string
	Location *time.Location
	// Now returns the current time; files dated today are left alone.
	Now    func() time.Time
	DryRun bool
}

type Exporter struct {
	store  Store
	opts   Options
	logger *slog.Logger
}

func New(st Store, opts Options, logger *slog.Logger) *Exporter {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: st, opts: opts, logger: logger}
}

// Run exports every pending file under the root. Per-file failures are
// logged and counted in Stats and never stop the run; only a scan failure
// of the root itself is returned.
func (e *Exporter) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{DryRun: e.opts.DryRun}

	files, err := scan.ScanRoot(e.opts.Root, e.opts.Include)
	if err != nil {
		return stats, fmt.Errorf("scan %s: %w", e.opts.Root, err)
	}
	stats.Scanned = len(files)
	e.logger.Info("files discovered", "root", e.opts.Root, "files", len(files))

	today := e.opts.Now().In(e.opts.Location)

	for _, fi := range files {
		lf, ok := parse.ParseFileName(fi.Path, e.opts.Location)
		if !ok {
			stats.Ignored++
			e.logger.Debug("ignoring file with unexpected name", "path", fi.Path)
			continue
		}
		log := e.logger.With("file", lf.Name, "channel", lf.Channel)

		done, err := e.store.IsDone(ctx, lf.Name)
		if err != nil {
			stats.fail(lf.Name, "check", err)
			log.Error("done check failed", "error", err)
			continue
		}
		if done {
			stats.Skipped++
			log.Info("file already exported, skipping")
			continue
		}
		if lf.SameDay(today) {
			stats.Open++
			log.Debug("skipping file, it can still be written to today")
			continue
		}

		log.Info("processing file")
		res, err := e.processFile(lf, log)
		if err != nil {
			err = oops.In("export").With("path", lf.Path).Wrapf(err, "read log file")
			stats.fail(lf.Name, "read", err)
			log.Error("failed to read file", "error", err)
			continue
		}
		stats.Comments += res.comments
		stats.Malformed += res.malformed

		if e.opts.DryRun {
			stats.Exported++
			stats.Messages += len(res.messages)
			log.Info("dry run, nothing written", "messages", len(res.messages), "malformed", res.malformed)
			continue
		}

		if err := e.store.CommitFile(ctx, lf, res.messages); err != nil {
			stats.fail(lf.Name, "commit", err)
			log.Error("failed to store messages", "error", err)
			continue
		}
		stats.Exported++
		stats.Messages += len(res.messages)
		log.Info("file exported", "messages", len(res.messages), "malformed", res.malformed)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
