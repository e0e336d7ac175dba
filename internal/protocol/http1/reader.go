package http1

import (
	"github.com/indigo-web/hostd/config"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/transport"
	"github.com/indigo-web/utils/uf"
)

// Reader splits the byte stream of a client into header blocks. Lines are terminated by
// LF, an optional preceding CR is dropped.
type Reader struct {
	client transport.Client
	cfg    config.Headers
	// head accumulates the current block. Bytes of completed lines are never written
	// again until the next block starts, as the returned lines point into them.
	head  []byte
	start int
	lines []string
}

func NewReader(client transport.Client, cfg config.Headers) *Reader {
	return &Reader{
		client: client,
		cfg:    cfg,
		head:   make([]byte, 0, 4096),
		lines:  make([]string, 0, 16),
	}
}

// Next returns the lines of the next header block: the request line first, then header
// lines in the order they were received. The terminating blank line isn't included. Blank
// lines preceding the request line are skipped. Returned lines share memory with the reader
// and are valid until the next call.
func (r *Reader) Next() ([]string, error) {
	r.head = r.head[:0]
	r.start = 0
	r.lines = r.lines[:0]

	for {
		data, err := r.client.Read()
		if err != nil {
			return nil, err
		}

		for len(data) > 0 {
			lf := indexLF(data)
			if lf == -1 {
				if err = r.appendLine(data); err != nil {
					return nil, err
				}

				break
			}

			if err = r.appendLine(data[:lf]); err != nil {
				return nil, err
			}

			data = data[lf+1:]

			line := r.head[r.start:]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}

			if len(line) == 0 {
				r.head = r.head[:r.start]
				if len(r.lines) == 0 {
					continue
				}

				r.client.Pushback(data)
				return r.lines, nil
			}

			if len(r.lines) > r.cfg.MaxLines {
				return nil, status.ErrTooManyHeaders
			}

			r.lines = append(r.lines, uf.B2S(line))
			r.start = len(r.head)
		}
	}
}

func (r *Reader) appendLine(data []byte) error {
	// the CR of the line might be counted too
	if len(r.head)-r.start+len(data) > r.cfg.MaxLineSize+1 {
		if len(r.lines) == 0 {
			return status.ErrURITooLong
		}

		return status.ErrHeaderFieldsTooLarge
	}

	r.head = append(r.head, data...)
	return nil
}

// Discard skips n bytes of the stream.
func (r *Reader) Discard(n int64) error {
	for n > 0 {
		data, err := r.client.Read()
		if err != nil {
			return err
		}

		if int64(len(data)) > n {
			r.client.Pushback(data[n:])
			return nil
		}

		n -= int64(len(data))
	}

	return nil
}

func indexLF(data []byte) int {
	for i, c := range data {
		if c == '\n' {
			return i
		}
	}

	return -1
}
