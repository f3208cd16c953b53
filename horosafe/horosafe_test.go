package horosafe

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLimitedReadAll(t *testing.T) {
	data, err := LimitedReadAll(strings.NewReader("hello"), 5)
	if err != nil || string(data) != "hello" {
		t.Fatalf("at limit: %q, %v", data, err)
	}

	_, err = LimitedReadAll(bytes.NewReader(make([]byte, 6)), 5)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("over limit: got %v, want ErrTooLarge", err)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"/tmp/upload/report.pdf", "report.pdf"},
		{`C:\Users\ana\precios.pdf`, "precios.pdf"},
		{"bad\x00name\n.pdf", "badname.pdf"},
		{"..", ""},
		{"", ""},
		{"dir/", ""},
		{"catálogo.pdf", "catálogo.pdf"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.in); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report_converted.xlsx", `attachment; filename="report_converted.xlsx"`},
		{`a"b.xlsx`, `attachment; filename="a_b.xlsx"; filename*=UTF-8''a%22b.xlsx`},
		{"catálogo_converted.xlsx", `attachment; filename="cat_logo_converted.xlsx"; filename*=UTF-8''cat%C3%A1logo_converted.xlsx`},
		{"precios 2024.xlsx", `attachment; filename="precios 2024.xlsx"`},
	}
	for _, tt := range tests {
		if got := ContentDisposition(tt.in); got != tt.want {
			t.Errorf("ContentDisposition(%q)\n got %s\nwant %s", tt.in, got, tt.want)
		}
	}
}
