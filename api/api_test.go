package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/pdfsheet/convert"
	"github.com/hazyhaar/pdfsheet/docpipe"
	"github.com/hazyhaar/pdfsheet/internal/pdftest"
	"github.com/hazyhaar/pdfsheet/sheet"
)

var testInfo = Info{Name: "pdf-to-excel", Title: "PDF to Excel Converter", Version: "1.0.0"}

func newTestServer(opts Options) *Server {
	conv := convert.New(
		docpipe.New(docpipe.Config{Preflight: true}),
		sheet.NewExcelizeWriter(sheet.DefaultHeaderStyle()),
		convert.Options{},
	)
	if opts.Info == (Info{}) {
		opts.Info = testInfo
	}
	return New(conv, opts)
}

func uploadRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest("POST", "/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body not JSON: %q", w.Body.String())
	}
	msg, ok := resp["error"]
	if !ok {
		t.Fatalf("no error field: %q", w.Body.String())
	}
	return msg
}

func TestHome(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != 200 {
		t.Fatalf("status %d", w.Code)
	}
	var resp struct {
		Service   string            `json:"service"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Service != "PDF to Excel Converter" || resp.Version != "1.0.0" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Endpoints["health"] != "/health" || resp.Endpoints["convert"] != "/convert (POST)" {
		t.Errorf("endpoints = %v", resp.Endpoints)
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if w.Code != 200 || resp["status"] != "healthy" || resp["service"] != "pdf-to-excel" || resp["version"] != "1.0.0" {
		t.Fatalf("status %d, resp %v", w.Code, resp)
	}
}

func TestConvert_MissingFile(t *testing.T) {
	// WHAT: A multipart request without the "file" field is a 400.
	h := newTestServer(Options{}).Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, uploadRequest(t, "document", "a.pdf", pdftest.Build([]string{"x"})))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if msg := errorBody(t, w); msg != "No se proporcionó archivo" {
		t.Errorf("error = %q", msg)
	}

	// Not multipart at all.
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/convert", strings.NewReader("{}")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-multipart status %d, want 400", w.Code)
	}
}

func TestConvert_WrongExtension(t *testing.T) {
	// WHAT: data.txt is rejected whatever its content.
	// WHY: The extension check runs before any parsing.
	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, uploadRequest(t, "file", "data.txt", pdftest.Build([]string{"x"})))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if msg := errorBody(t, w); msg != "Archivo debe ser un PDF" {
		t.Errorf("error = %q", msg)
	}
}

func TestConvert_TooLarge(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(Options{MaxUpload: 100}).Handler().ServeHTTP(w, uploadRequest(t, "file", "big.pdf", make([]byte, 1000)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if msg := errorBody(t, w); !strings.Contains(msg, "demasiado grande") {
		t.Errorf("error = %q", msg)
	}

	// Past the body cap entirely.
	w = httptest.NewRecorder()
	newTestServer(Options{MaxUpload: 100}).Handler().ServeHTTP(w, uploadRequest(t, "file", "big.pdf", make([]byte, 200<<10)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversize body status %d, want 400", w.Code)
	}
}

func TestConvert_Success(t *testing.T) {
	// WHAT: A one-page Hello/World PDF returns the XLSX attachment.
	// WHY: End-to-end check of headers and workbook content.
	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, uploadRequest(t, "file", "hello.pdf", pdftest.Build([]string{"Hello", "World"})))
	if w.Code != 200 {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	checks := map[string]string{
		"Content-Type":        sheet.ContentType,
		"Content-Disposition": `attachment; filename="hello_converted.xlsx"`,
		"X-Pages-Total":       "1",
		"X-Pages-Converted":   "1",
	}
	for header, expected := range checks {
		if got := w.Header().Get(header); got != expected {
			t.Errorf("%s: got %q, want %q", header, got, expected)
		}
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("PDF_Content")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "Página 1" || rows[1][0] != "Hello" || rows[2][0] != "World" {
		t.Fatalf("rows = %q", rows)
	}
}

func TestConvert_NonASCIIFilename(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, uploadRequest(t, "file", "catálogo.PDF", pdftest.Build([]string{"x"})))
	if w.Code != 200 {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "filename*=UTF-8''cat%C3%A1logo_converted.xlsx") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
}

func TestConvert_CorruptPDF(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, uploadRequest(t, "file", "broken.pdf", []byte("%PDF-1.4 garbage")))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}
	if msg := errorBody(t, w); !strings.HasPrefix(msg, "Error en la conversión: ") {
		t.Errorf("error = %q", msg)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := newTestServer(Options{CORSOrigins: []string{"https://app.example.com"}}).Handler()
	req := httptest.NewRequest("OPTIONS", "/convert", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}

func TestMCPMount(t *testing.T) {
	srv := mcp.NewServer(&mcp.Implementation{Name: "pdfsheet", Version: "1.0.0"}, nil)

	w := httptest.NewRecorder()
	newTestServer(Options{}).Handler().ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("without MCP: status %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	newTestServer(Options{MCP: srv}).Handler().ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code == http.StatusNotFound {
		t.Fatal("with MCP: /mcp not mounted")
	}
}
