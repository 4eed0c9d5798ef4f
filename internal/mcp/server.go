package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"bakamcp/internal/logging"
)

// Server serves MCP over a newline-delimited JSON-RPC stream,
// dispatching tools/call requests to registered tools in order of
// registration. Writes are serialized by a mutex so a future
// concurrent caller cannot interleave frames.
type Server struct {
	name    string
	version string

	in  io.Reader
	out io.Writer

	mu    sync.Mutex // guards out
	tools []Tool
}

// NewServer creates a server reading requests from in and writing
// responses to out. For the stdio transport, in is stdin and out is
// stdout; nothing else may write to out.
func NewServer(name, version string, in io.Reader, out io.Writer) *Server {
	return &Server{
		name:    name,
		version: version,
		in:      in,
		out:     out,
	}
}

// Register adds a tool. Registration order is the tools/list order.
func (s *Server) Register(tool Tool) {
	s.tools = append(s.tools, tool)
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []Tool {
	return s.tools
}

// Serve reads and handles requests until EOF, an unrecoverable read
// error, or context cancellation. Requests are handled sequentially;
// each tool call runs to completion before the next frame is read.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Timetable responses embed whole entity collections; allow frames
	// well beyond the default 64K.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			logging.ToolsError("unparseable frame: %v", err)
			s.writeError(nil, codeParseError, "parse error")
			continue
		}
		s.handle(ctx, &req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading MCP stream: %w", err)
	}
	return nil
}

// handle dispatches one request. Notifications (no id) produce no
// response.
func (s *Server) handle(ctx context.Context, req *rpcRequest) {
	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		})

	case "notifications/initialized":
		// Client acknowledgment; nothing to do.

	case "ping":
		s.writeResult(req.ID, map[string]any{})

	case "tools/list":
		schemas := make([]toolSchema, 0, len(s.tools))
		for _, t := range s.tools {
			schemas = append(schemas, toolSchema{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: t.InputSchema,
			})
		}
		s.writeResult(req.ID, map[string]any{"tools": schemas})

	case "tools/call":
		s.handleCall(ctx, req)

	default:
		if req.ID == nil {
			// Unknown notification; ignore.
			return
		}
		s.writeError(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleCall(ctx context.Context, req *rpcRequest) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, codeInvalidParams, "invalid tools/call params")
		return
	}

	for _, t := range s.tools {
		if t.Name != params.Name {
			continue
		}
		logging.Tools("call %s", t.Name)
		payload := t.Handler(ctx, params.Arguments)
		text, err := json.Marshal(payload)
		if err != nil {
			s.writeError(req.ID, codeInvalidParams, "unencodable tool result")
			return
		}
		s.writeResult(req.ID, callResult{
			Content: []content{{Type: "text", Text: string(text)}},
		})
		return
	}

	s.writeError(req.ID, codeInvalidParams, "unknown tool: "+params.Name)
}

func (s *Server) writeResult(id json.RawMessage, result interface{}) {
	if id == nil {
		return
	}
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	if id == nil {
		id = json.RawMessage("null")
	}
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) write(resp rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.ToolsError("marshaling response: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Write(append(data, '\n'))
}
