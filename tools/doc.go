// Package tools is the MCP surface of the server: tool registration,
// JSON-RPC protocol handling, and transport serving.
//
// Registry holds the tool catalog (toolfoundation model.Tool entries) and
// their local handlers, and answers the MCP methods initialize,
// tools/list and tools/call. RegisterSearchTools wires the Intelligence X
// search service into the catalog. Transports: stdio, streamable HTTP and
// SSE via ServeStdio/ServeHTTP/ServeSSE, plus MCPServer for callers that
// want an official-SDK *mcp.Server instead.
//
// Request validation at this layer is shape checking only; range and
// semantic validation of search terms is the upstream API's job, and its
// verdicts come back as typed errors with their own JSON-RPC codes.
//
// Example usage:
//
//	reg := tools.New(tools.Config{
//	    ServerInfo: tools.ServerInfo{Name: "intelx-mcp", Version: "1.0.0"},
//	})
//	if err := tools.RegisterSearchTools(reg, svc); err != nil {
//	    log.Fatal(err)
//	}
//	tools.ServeStdio(ctx, reg)
package tools
