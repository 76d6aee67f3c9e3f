package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter normalizes line endings for console sessions. Reads turn
// \r\n and bare \r into \n (telnet sends the former, ssh without a pty the
// latter); writes turn \n into \r\n.
type crlfReadWriter struct {
	rw io.ReadWriter
	// pendingCR is set when the previous read ended in \r, so a leading \n
	// on the next read belongs to the same line ending.
	pendingCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return 0, err
	}

	out := p[:0]
	for _, b := range p[:n] {
		switch {
		case b == '\n' && c.pendingCR:
			c.pendingCR = false
		case b == '\r':
			c.pendingCR = true
			out = append(out, '\n')
		default:
			c.pendingCR = false
			out = append(out, b)
		}
	}
	return len(out), err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	if _, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
