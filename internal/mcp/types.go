// Package mcp implements a minimal MCP (Model Context Protocol)
// server over stdio: newline-delimited JSON-RPC 2.0 on stdin/stdout,
// exposing a fixed set of tools. One request is handled at a time;
// the bridge performs no internal parallelism.
package mcp

import (
	"context"
	"encoding/json"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes used by the server. Tool-level failures are
// never reported through these; they come back as structured error
// payloads inside a successful result.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// rpcRequest represents a JSON-RPC request or notification. ID is kept
// raw so number and string ids round-trip unchanged; a missing ID
// marks a notification.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents an error in a JSON-RPC response.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Handler executes one tool call. Handlers convert every internal
// failure into a structured error payload; they never return an error
// to the transport.
type Handler func(ctx context.Context, args map[string]interface{}) interface{}

// Tool is one callable operation: name, description and input schema
// as shown to clients, plus the handler that serves it.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// toolSchema is the tools/list wire shape of a tool.
type toolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// content is one MCP content block of a tool result.
type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is the tools/call result payload.
type callResult struct {
	Content []content `json:"content"`
}

// initializeResult is the initialize result payload.
type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
