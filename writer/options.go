package writer

import (
	"io"

	"github.com/tmlformat/tml/internal/pool"
)

// Option configures a Writer at construction time. Applying an Option
// never fails (New itself fails only for a nil sink), so an Option is a
// plain mutator rather than something carrying its own error return.
type Option func(*Writer)

// WithOwnedSink records closer as a resource the Writer owns: Close calls
// closer.Close in addition to releasing the pooled scratch buffer. Without
// this option, Close never touches the underlying sink: the default is
// borrowed, so the caller decides the sink's lifetime.
func WithOwnedSink(closer io.Closer) Option {
	return func(w *Writer) { w.owned = closer }
}

// WithInitialBufferSize replaces the Writer's pooled scratch buffer with a
// freshly allocated one of the given capacity, for callers who know they'll
// emit large frames and want to avoid the pool's default-size growth steps.
func WithInitialBufferSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.scratch = pool.NewByteBuffer(n)
		}
	}
}
