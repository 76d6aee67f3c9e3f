package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pixil98/go-testutil"
)

type bufferRW struct {
	in  *bytes.Buffer
	out bytes.Buffer
}

func (b *bufferRW) Read(p []byte) (int, error)  { return b.in.Read(p) }
func (b *bufferRW) Write(p []byte) (int, error) { return b.out.Write(p) }

func TestCRLFReadWriter_Read(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"telnet line":   {input: "hold p 1\r\n", exp: "hold p 1\n"},
		"bare return":   {input: "show\r", exp: "show\n"},
		"plain newline": {input: "quit\n", exp: "quit\n"},
		"several lines": {input: "a\r\nb\rc\n", exp: "a\nb\nc\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := newCRLFReadWriter(&bufferRW{in: bytes.NewBufferString(tt.input)})

			got, err := io.ReadAll(rw)
			testutil.AssertEqual(t, "error", err, nil)
			testutil.AssertEqual(t, "read", string(got), tt.exp)
		})
	}
}

func TestCRLFReadWriter_Write(t *testing.T) {
	inner := &bufferRW{in: &bytes.Buffer{}}
	rw := newCRLFReadWriter(inner)

	n, err := rw.Write([]byte("Move.\n> "))
	testutil.AssertEqual(t, "error", err, nil)
	testutil.AssertEqual(t, "n", n, 8)
	testutil.AssertEqual(t, "written", inner.out.String(), "Move.\r\n> ")
}

type runnerFunc func(ctx context.Context, rw io.ReadWriter) error

func (f runnerFunc) RunSession(ctx context.Context, rw io.ReadWriter) error {
	return f(ctx, rw)
}

func TestConnectionManager_AcceptConnection(t *testing.T) {
	tests := map[string]struct {
		err error
	}{
		"clean exit":   {},
		"session fail": {err: errors.New("boom")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := &bufferRW{in: &bytes.Buffer{}}
			var got io.ReadWriter
			cm := NewConnectionManager(runnerFunc(func(_ context.Context, conn io.ReadWriter) error {
				got = conn
				return tt.err
			}))

			cm.AcceptConnection(context.Background(), rw)
			testutil.AssertEqual(t, "conn", got == io.ReadWriter(rw), true)
		})
	}
}

type chunkReader struct {
	chunks []string
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}

func (c *chunkReader) Write(p []byte) (int, error) { return len(p), nil }

func TestCRLFReadWriter_SplitLineEnding(t *testing.T) {
	rw := newCRLFReadWriter(&chunkReader{chunks: []string{"show\r", "\nquit\r", "\n"}})

	got, err := io.ReadAll(rw)
	testutil.AssertEqual(t, "error", err, nil)
	testutil.AssertEqual(t, "read", string(got), "show\nquit\n")
}
