// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/regulation-server/internal/query"
)

// ServerName is reported in the initialize handshake.
const ServerName = "Regulatory Context Server"

// maxMessageSize bounds a single line on the stdio transport.
const maxMessageSize = 4 << 20

// Server dispatches MCP requests to a query.App. It holds no per-session
// state, so one Server may serve any number of transports concurrently.
type Server struct {
	app     *query.App
	version string
	logger  *zap.Logger
}

// NewServer returns a Server for app. version is reported to clients.
func NewServer(app *query.App, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{app: app, version: version, logger: logger}
}

// Serve reads newline-delimited JSON-RPC messages from r and writes one
// response line to w per request. It returns nil when r reaches EOF and
// ctx.Err() when ctx is cancelled first.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	type line struct {
		data []byte
		err  error
	}
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxMessageSize)
		for scanner.Scan() {
			data := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line{data: data}:
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- line{err: err}:
			case <-done:
			}
		}
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			if l.err != nil {
				return fmt.Errorf("reading stdio: %w", l.err)
			}
			if len(l.data) == 0 {
				continue
			}
			resp, ok := s.Handle(ctx, l.data)
			if !ok {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
}

// Handle processes one JSON-RPC message. It returns the response to send,
// or false when the message is a notification.
func (s *Server) Handle(ctx context.Context, msg []byte) (json.RawMessage, bool) {
	var req request
	if err := json.Unmarshal(msg, &req); err != nil {
		s.logger.Warn("unparsable message", zap.Error(err))
		return s.encode(response{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: codeParseError, Message: "parse error", Data: err.Error()},
		}), true
	}

	if req.isNotification() {
		s.logger.Debug("notification", zap.String("method", req.Method))
		return nil, false
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}
	result, rerr := s.dispatch(ctx, req)
	if rerr != nil {
		resp.Error = rerr
	} else {
		resp.Result = result
	}
	return s.encode(resp), true
}

func (s *Server) dispatch(_ context.Context, req request) (any, *rpcError) {
	if req.JSONRPC != "2.0" {
		return nil, &rpcError{Code: codeInvalidRequest, Message: "jsonrpc must be \"2.0\""}
	}

	switch req.Method {
	case "initialize":
		return initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{"listChanged": false}},
			ServerInfo:      serverInfo{Name: ServerName, Version: s.version},
			Instructions:    "Look up regulations by id, regions with their regulations, or search regulations by keyword.",
		}, nil

	case "ping":
		return struct{}{}, nil

	case "tools/list":
		return map[string]any{"tools": Tools()}, nil

	case "tools/call":
		var p callParams
		if err := json.Unmarshal(req.Params, &p); err != nil || p.Name == "" {
			msg := "tools/call requires a tool name"
			if err != nil {
				msg = err.Error()
			}
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid params", Data: msg}
		}
		result := call(s.app, p.Name, p.Arguments)
		s.logger.Debug("tool call",
			zap.String("tool", p.Name),
			zap.Bool("is_error", result.IsError))
		return result, nil

	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}
}

func (s *Server) encode(resp response) json.RawMessage {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encoding response", zap.Error(err))
		data, _ = json.Marshal(response{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error:   &rpcError{Code: -32603, Message: "internal error"},
		})
	}
	return data
}
