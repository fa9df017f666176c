package reader

import (
	"io"

	"github.com/tmlformat/tml/internal/pool"
)

// Option configures a Reader at construction time. Reader construction
// never fails, so an Option is a plain mutator rather than something
// carrying its own error return.
type Option func(*Reader)

// WithOwnedSource records closer as a resource the Reader owns: Close calls
// closer.Close in addition to releasing the pooled string table. Without
// this option, Close never touches the underlying source: the default is
// borrowed, so the caller decides the source's lifetime.
func WithOwnedSource(closer io.Closer) Option {
	return func(r *Reader) { r.owned = closer }
}

// WithStringTableCapacity preallocates the Reader's per-stream ASCII name
// table to hold n entries before it must grow, for callers who know roughly
// how many distinct interned names a stream carries.
func WithStringTableCapacity(n int) Option {
	return func(r *Reader) {
		if n <= 0 {
			return
		}
		if r.namesFree != nil {
			r.namesFree()
		}
		names, free := pool.GetStringSlice(n)
		r.names = names
		r.namesFree = free
	}
}
