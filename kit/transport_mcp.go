package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool error codes. Errors implementing Coded choose their own.
const (
	CodeInvalidArguments = "invalid_arguments"
	CodeInternal         = "internal"
)

// Coded is implemented by errors that carry a stable, machine-readable code
// for MCP clients, e.g. "invalid_input" for a rejected upload.
type Coded interface {
	ErrorCode() string
}

// MCPDecodeResult holds the decoded request and an optional context enrichment.
type MCPDecodeResult struct {
	Request   any
	EnrichCtx func(context.Context) context.Context
}

// ToolErrorText renders err as "<code>: <message>". The code comes from the
// first Coded error in the chain, CodeInternal otherwise.
func ToolErrorText(err error) string {
	code := CodeInternal
	var c Coded
	if errors.As(err, &c) {
		code = c.ErrorCode()
	}
	return code + ": " + err.Error()
}

func toolError(text string) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(errors.New(text))
	return &res
}

// RegisterMCPTool exposes endpoint as an MCP tool. decode turns the raw JSON
// arguments into the endpoint's request. Every failure is returned as a tool
// error whose text starts with a code (see ToolErrorText); the protocol
// layer never sees an error.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = WithTransport(ctx, "mcp")

		decoded, err := decode(req)
		if err != nil {
			return toolError(CodeInvalidArguments + ": " + err.Error()), nil
		}
		if decoded.EnrichCtx != nil {
			ctx = decoded.EnrichCtx(ctx)
		}

		resp, err := endpoint(ctx, decoded.Request)
		if err != nil {
			return toolError(ToolErrorText(err)), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return toolError(fmt.Sprintf("%s: marshal %s response: %v", CodeInternal, tool.Name, err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
