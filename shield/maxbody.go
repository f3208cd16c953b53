package shield

import "net/http"

// multipartOverhead leaves room for boundaries and part headers around a
// file of exactly the configured size.
const multipartOverhead = 64 << 10

// MaxBody returns middleware that caps every request body at maxBytes plus
// a small multipart allowance. Reads past the cap fail with
// *http.MaxBytesError, which handlers map to their own "too large" answer.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	limit := maxBytes + multipartOverhead
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				r.Body = http.MaxBytesReader(w, r.Body, 0)
			} else if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
