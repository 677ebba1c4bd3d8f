package tools

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// stdio frames are line-delimited JSON; a tools/call carrying large
// arguments can exceed bufio's default token size.
const maxFrameBytes = 4 << 20

// ServeStdio runs the registry as an MCP server on the process's
// stdin/stdout. Blocks until stdin closes or ctx is cancelled.
func ServeStdio(ctx context.Context, r *Registry) error {
	return ServeStream(ctx, r, os.Stdin, os.Stdout)
}

// ServeStream reads line-delimited JSON-RPC frames from in and writes one
// response line per frame to out. Blank lines are skipped; a frame that
// fails to parse gets a parse-error response and the stream keeps going.
func ServeStream(ctx context.Context, r *Registry, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxFrameBytes)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var resp MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			resp = parseErrorResponse(err)
		} else {
			resp = r.HandleRequest(ctx, req)
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	return nil
}

// ServeHTTP returns the streamable-HTTP handler: one JSON-RPC request per
// POST body, one JSON response.
func ServeHTTP(r *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var mcpReq MCPRequest
		if err := json.NewDecoder(req.Body).Decode(&mcpReq); err != nil {
			writeJSON(w, parseErrorResponse(err))
			return
		}
		writeJSON(w, r.HandleRequest(req.Context(), mcpReq))
	})
}

// ServeSSE returns the Server-Sent Events handler: the request rides in
// the POST body, the response arrives as a single SSE frame.
func ServeSSE(r *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		var mcpReq MCPRequest
		if err := json.NewDecoder(req.Body).Decode(&mcpReq); err != nil {
			sseFrame(w, flusher, "error", parseErrorResponse(err))
			return
		}
		sseFrame(w, flusher, "message", r.HandleRequest(req.Context(), mcpReq))
	})
}

func writeJSON(w http.ResponseWriter, resp MCPResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func sseFrame(w io.Writer, f http.Flusher, event string, resp MCPResponse) {
	payload, _ := json.Marshal(resp)
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return
	}
	f.Flush()
}

func parseErrorResponse(err error) MCPResponse {
	return MCPResponse{
		JSONRPC: "2.0",
		Error:   &MCPError{Code: ErrCodeParseError, Message: err.Error()},
	}
}

// MCPServer returns an official-SDK server with every registered tool
// attached, for callers that prefer SDK transports (including the
// in-memory transport in tests).
func (r *Registry) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, nil)

	for _, tool := range r.ListAll() {
		name := tool.Name
		mcp.AddTool(server, &mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			result, err := r.Execute(ctx, name, args)
			if err != nil {
				return nil, nil, err
			}
			return nil, result, nil
		})
	}
	return server
}
