// Package mcpserver exposes text extraction as an MCP tool.
//
// One tool, extract_text, takes a path to a file on the caller's machine and
// an explicit file type. The file belongs to the caller and is never deleted.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Shimizu-Technology/ocr-api/internal/services/extract"
)

const (
	// ToolName is the name the tool is registered under.
	ToolName = "extract_text"

	serverName    = "ocr-server"
	serverVersion = "1.0.0"
)

// Extractor runs one extraction of a known kind. *extract.Dispatcher satisfies it.
type Extractor interface {
	Extract(ctx context.Context, kind extract.Kind, path string) (*extract.Result, error)
}

type extractTextArgs struct {
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
}

// New creates an MCP server with the extract_text tool registered.
func New(ext Extractor) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	Register(srv, ext)
	return srv
}

// Register adds the extract_text tool to srv.
func Register(srv *mcp.Server, ext Extractor) {
	tool := &mcp.Tool{
		Name:        ToolName,
		Description: "Extract text from PDF, Word documents (docx), or images (jpg, png, etc.) using OCR",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to the file to extract text from",
				},
				"file_type": map[string]any{
					"type":        "string",
					"enum":        []string{string(extract.KindPDF), string(extract.KindDOCX), string(extract.KindImage)},
					"description": "Type of file: pdf, docx, or image",
				},
			},
			"required": []string{"file_path", "file_type"},
		},
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := extractText(ctx, ext, req.Params.Arguments)
		if err != nil {
			log.Printf("❌ %s failed: %v", ToolName, err)
			return toolError(extract.Message(err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

// extractText validates the arguments and runs the extraction.
func extractText(ctx context.Context, ext Extractor, raw json.RawMessage) (string, error) {
	var args extractTextArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if args.FilePath == "" {
		return "", fmt.Errorf("file_path is required")
	}
	if args.FileType == "" {
		return "", fmt.Errorf("file_type is required")
	}

	kind, err := extract.ParseKind(args.FileType)
	if err != nil {
		return "", err
	}
	if err := extract.CheckFile(args.FilePath); err != nil {
		return "", err
	}

	result, err := ext.Extract(ctx, kind, args.FilePath)
	if err != nil {
		return "", err
	}
	if result.Text == "" {
		return extract.MsgNoTextExtracted, nil
	}
	return result.Text, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error extracting text: " + msg}},
	}
}
