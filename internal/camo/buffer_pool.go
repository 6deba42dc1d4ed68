package camo

import (
	"io"
	"sync"
)

const defaultBufferSize = 32 * 1024 // 32KB per stage hand-off

// bufferPool holds the copy buffers shared by pipeline stages.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, defaultBufferSize)

		return &buf
	},
}

// copyBuffered copies src to dst using a pooled buffer.
func copyBuffered(dst io.Writer, src io.Reader) (int64, error) {
	buf, _ := bufferPool.Get().(*[]byte) //nolint:forcetypeassert
	defer bufferPool.Put(buf)

	return io.CopyBuffer(dst, src, *buf)
}
