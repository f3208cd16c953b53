package convert

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/pdfsheet/docpipe"
)

var testMCPImpl = &mcp.Implementation{Name: "pdfsheet-test", Version: "0.1.0"}

func mcpSession(t *testing.T, c *Converter) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	c.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestMCP_Convert(t *testing.T) {
	ext := &fakeExtractor{pages: []docpipe.Page{{Number: 1, Text: "Hello\nWorld"}}}
	session := mcpSession(t, New(ext, &fakeWriter{}, Options{}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "pdf_to_xlsx",
		Arguments: map[string]any{
			"filename":       "lista.pdf",
			"content_base64": base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %+v", result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}

	var resp convertResp
	if err := json.Unmarshal([]byte(tc.Text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Filename != "lista_converted.xlsx" {
		t.Errorf("filename = %q", resp.Filename)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Content)
	if err != nil || string(data) != "xlsx" {
		t.Errorf("content = %q (%v)", data, err)
	}
	if resp.Cells != 3 || resp.PagesConverted != 1 {
		t.Errorf("counts = %+v", resp)
	}
}

func TestMCP_ConvertRejectsWrongExtension(t *testing.T) {
	session := mcpSession(t, New(&fakeExtractor{}, &fakeWriter{}, Options{}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "pdf_to_xlsx",
		Arguments: map[string]any{
			"filename":       "data.txt",
			"content_base64": base64.StdEncoding.EncodeToString([]byte("hello")),
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for .txt upload")
	}
	// WHAT: Rejected uploads are told apart from failed conversions by code.
	if got := toolText(t, result); got != "invalid_input: Archivo debe ser un PDF" {
		t.Fatalf("tool error = %q", got)
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}
	return tc.Text
}

func TestMCP_ConvertFailureCode(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("xref table not found")}
	session := mcpSession(t, New(ext, &fakeWriter{}, Options{}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "pdf_to_xlsx",
		Arguments: map[string]any{
			"filename":       "a.pdf",
			"content_base64": base64.StdEncoding.EncodeToString([]byte("%PDF")),
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if got := toolText(t, result); !result.IsError || got != "conversion_failed: xref table not found" {
		t.Fatalf("tool error = %q (IsError %v)", got, result.IsError)
	}
}

func TestMCP_ConvertRejectsBadBase64(t *testing.T) {
	session := mcpSession(t, New(&fakeExtractor{}, &fakeWriter{}, Options{}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "pdf_to_xlsx",
		Arguments: map[string]any{"filename": "a.pdf", "content_base64": "***"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for invalid base64")
	}
	if got := toolText(t, result); !strings.HasPrefix(got, "invalid_arguments: content_base64") {
		t.Fatalf("tool error = %q", got)
	}
}
