package convert

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/pdfsheet/kit"
)

// RegisterMCP registers the converter tools on an MCP server.
func (c *Converter) RegisterMCP(srv *mcp.Server) {
	c.registerConvertTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type convertReq struct {
	Filename string `json:"filename"`
	Content  string `json:"content_base64"`

	data []byte
}

type convertResp struct {
	Filename       string `json:"filename"`
	ContentType    string `json:"content_type"`
	Content        string `json:"content_base64"`
	Pages          int    `json:"pages"`
	PagesConverted int    `json:"pages_converted"`
	Cells          int    `json:"cells"`
}

func (c *Converter) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pdf_to_xlsx",
		Description: "Convert a PDF (base64) into an XLSX workbook with one text line per row, one header row per page.",
		InputSchema: inputSchema(map[string]any{
			"filename":       map[string]any{"type": "string", "description": "Original file name, must end in .pdf"},
			"content_base64": map[string]any{"type": "string", "description": "PDF bytes, standard base64"},
		}, []string{"filename", "content_base64"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*convertReq)
		res, err := c.Convert(ctx, &UploadedDocument{Filename: r.Filename, Data: r.data})
		if err != nil {
			return nil, err
		}
		return &convertResp{
			Filename:       res.Filename,
			ContentType:    res.ContentType,
			Content:        base64.StdEncoding.EncodeToString(res.Data),
			Pages:          res.Pages,
			PagesConverted: res.PagesConverted,
			Cells:          res.Cells,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r convertReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		data, err := base64.StdEncoding.DecodeString(r.Content)
		if err != nil {
			return nil, fmt.Errorf("content_base64: %w", err)
		}
		r.data = data
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Logging(tool.Name)(endpoint), decode)
}
