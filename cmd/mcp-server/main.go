// Command mcp-server serves the extract_text tool over MCP on stdio.
//
// stdout carries the protocol, so every log line goes to stderr.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Shimizu-Technology/ocr-api/internal/config"
	"github.com/Shimizu-Technology/ocr-api/internal/mcpserver"
	"github.com/Shimizu-Technology/ocr-api/internal/services/ocr"
	"github.com/Shimizu-Technology/ocr-api/internal/services/pipeline"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	dispatcher, tess := pipeline.New(cfg, ocr.NoProgress)
	if !tess.Available() {
		log.Println("⚠️  Tesseract OCR not found (set TESSERACT_PATH); image extraction will fail")
	}

	srv := mcpserver.New(dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("🚀 OCR MCP server running on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatalf("❌ MCP server failed: %v", err)
	}
	log.Println("👋 OCR MCP server stopped")
}
