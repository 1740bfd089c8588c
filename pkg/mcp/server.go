package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/pario-ai/premiumcalc/pkg/metrics"
	"github.com/pario-ai/premiumcalc/pkg/models"
)

// History is the subset of the history store used by the MCP tools.
type History interface {
	Log(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error)
	Query(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryRecord, error)
	Stats(ctx context.Context) ([]models.HistoryStat, error)
}

// Server is a minimal MCP server that communicates over stdio using JSON-RPC 2.0.
type Server struct {
	history History
	metrics *metrics.Metrics
	log     logrus.FieldLogger
	version string
}

// New creates a new MCP Server. history may be nil, in which case estimates
// are not recorded and the history tool is not offered.
func New(history History, m *metrics.Metrics, log logrus.FieldLogger, version string) *Server {
	return &Server{
		history: history,
		metrics: m,
		log:     log,
		version: version,
	}
}

// Run reads JSON-RPC requests from r line-by-line and writes responses to w.
// It blocks until r is closed or ctx is cancelled.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

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

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(w, errorResponse(nil, CodeParseError, "parse error"))
			continue
		}
		if rpcErr := req.validate(); rpcErr != nil {
			s.writeResponse(w, errorResponse(req.ID, rpcErr.Code, rpcErr.Message))
			continue
		}

		resp := s.dispatch(ctx, &req)
		if resp == nil || req.IsNotification() {
			continue
		}
		s.writeResponse(w, resp)
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      ServerInfo{Name: "premiumcalc", Version: s.version},
			Capabilities:    map[string]any{"tools": map[string]any{}},
		})
	case "notifications/initialized":
		return nil
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return resultResponse(req.ID, ToolsListResult{Tools: s.tools()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return errorResponse(req.ID, CodeInvalidParams, "invalid params")
	}

	handler, ok := toolHandlers[params.Name]
	if !ok {
		return resultResponse(req.ID, errorResult(fmt.Sprintf("unknown tool: %s", params.Name)))
	}
	return resultResponse(req.ID, handler(ctx, s, params.Arguments))
}

// writeResponse writes resp as one line. A result that cannot be encoded is
// replaced by an internal error carrying the same ID.
func (s *Server) writeResponse(w io.Writer, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.WithError(err).Error("mcp: marshal response")
		data, _ = json.Marshal(errorResponse(resp.ID, CodeInternalError, "internal error"))
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Error("mcp: write response")
	}
}
