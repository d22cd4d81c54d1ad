package internal

import (
	"bytes"
	"sync"
)

var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

// Buffer takes a reset buffer from BufferPool.
func Buffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Release hands buf back to BufferPool. buf must not be used afterwards.
func Release(buf *bytes.Buffer) {
	BufferPool.Put(buf)
}
