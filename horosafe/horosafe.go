// Package horosafe provides the bounded I/O and untrusted-name helpers used
// at the edges of the service: capped reads of uploads and safe handling of
// client-supplied file names in responses.
package horosafe

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxUpload is the default cap for an uploaded document (50 MiB).
const MaxUpload int64 = 50 << 20

// ErrTooLarge is returned when a read exceeds its limit.
var ErrTooLarge = errors.New("horosafe: content exceeds size limit")

// LimitedReadAll reads at most maxBytes from r. Returns an error wrapping
// ErrTooLarge if the limit is exceeded.
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	lr := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}
	return data, nil
}

// BaseName strips any directory part from a client-supplied file name, in
// either slash style, and drops control characters. An empty or dot-only
// result yields "".
func BaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// ContentDisposition builds an attachment header value for filename.
// Non-ASCII names get an ASCII fallback in filename and the exact name in
// an RFC 5987 filename* parameter.
func ContentDisposition(filename string) string {
	filename = BaseName(filename)
	ascii := asciiFallback(filename)
	v := `attachment; filename="` + ascii + `"`
	if ascii != filename {
		v += "; filename*=UTF-8''" + encodeExtValue(filename)
	}
	return v
}

func asciiFallback(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeExtValue percent-encodes every byte outside RFC 5987 attr-char.
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
