package goja

import (
	"bufio"
	"bytes"
	"io"
)

// outputBuffer captures everything a script prints. Writes are buffered and
// land in buf on Flush; when tee is set they are copied there too.
type outputBuffer struct {
	buf       bytes.Buffer
	w         *bufio.Writer
	tee       io.Writer
	committed bool
}

func newOutputBuffer(tee io.Writer) *outputBuffer {
	o := &outputBuffer{tee: tee}
	o.w = bufio.NewWriter(o.target())
	return o
}

func (o *outputBuffer) target() io.Writer {
	if o.tee == nil {
		return &o.buf
	}
	return io.MultiWriter(&o.buf, o.tee)
}

func (o *outputBuffer) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	o.committed = true
	return o.w.WriteString(s)
}

func (o *outputBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	o.committed = true
	return o.w.Write(p)
}

func (o *outputBuffer) Flush() error {
	return o.w.Flush()
}

// String flushes and returns everything written since the last Reset.
func (o *outputBuffer) String() string {
	_ = o.w.Flush()
	return o.buf.String()
}

// Reset drops buffered and captured output and clears the committed flag.
// Bytes already copied to the tee writer stay there.
func (o *outputBuffer) Reset() {
	o.w.Reset(o.target())
	o.buf.Reset()
	o.committed = false
}

// Committed reports whether anything was written since the last Reset.
func (o *outputBuffer) Committed() bool {
	return o.committed
}
