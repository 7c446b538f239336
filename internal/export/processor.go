package export

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Zuo-Peng/chatlog-export/internal/parse"
)

const maxLineSize = 1024 * 1024 // 1MB

type fileResult struct {
	messages  []parse.Message
	comments  int
	malformed int
}

// processFile reads lf in order and turns every well-formed line into a
// message dated on the file's day. Comment, blank and malformed lines are
// skipped; malformed ones, including lines over maxLineSize, are logged at
// debug level. Only I/O errors fail the file.
func (e *Exporter) processFile(lf parse.LogFile, log *slog.Logger) (fileResult, error) {
	var res fileResult

	f, err := os.Open(lf.Path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)

	lineNum := 0
	for {
		raw, tooLong, err := readLine(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		lineNum++
		if tooLong {
			res.malformed++
			log.Debug("skipping over-long line", "line", lineNum, "max_bytes", maxLineSize)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if parse.IsComment(raw) {
			res.comments++
			continue
		}

		line, ok := parse.ParseLine(raw)
		if !ok {
			res.malformed++
			log.Debug("skipping malformed line", "line", lineNum, "text", raw)
			continue
		}
		ts, err := line.Time(lf.Date, e.opts.Location)
		if err != nil {
			res.malformed++
			log.Debug("skipping line with invalid clock", "line", lineNum, "error", err)
			continue
		}

		res.messages = append(res.messages, parse.Message{
			File:      lf.Name,
			Channel:   lf.Channel,
			Author:    line.Author,
			Text:      line.Text,
			Timestamp: ts,
		})
	}

	return res, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is read to its end and discarded, with tooLong set. io.EOF is
// returned only once no bytes are left.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxLineSize+2 {
				tooLong, buf = true, nil
			}
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(buf) == 0 && !tooLong {
				return "", false, io.EOF
			}
		case err != nil:
			return "", false, err
		}

		line = strings.TrimRight(string(buf), "\r\n")
		if len(line) > maxLineSize {
			return "", true, nil
		}
		return line, tooLong, nil
	}
}
