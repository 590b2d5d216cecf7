package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/auracheck-mcp/internal/config"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
	"github.com/ironsheep/auracheck-mcp/internal/session"
)

// Name is reported to clients during the initialize handshake.
const Name = "auracheck-mcp"

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	store   *session.Store
	cfg     config.Config
	log     hclog.Logger
	version string
}

// Options configures a Server. The zero value uses config.Default and
// discards logs.
type Options struct {
	Config  *config.Config
	Logger  hclog.Logger
	Version string

	// IDs overrides the color ID generator; nil uses UUIDs.
	IDs imaging.IDSource
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Server{
		cache: imaging.NewImageCache(cfg.Formats...),
		store: session.New(session.Options{
			Logger:    log,
			IDs:       opts.IDs,
			Level:     cfg.WCAGLevel(),
			LargeText: cfg.LargeText,
			MaxColors: cfg.MaxColors,
		}),
		cfg:     cfg,
		log:     log,
		version: version,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited requests from r until EOF, writing one
// response line per request to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Data URL images arrive inline, so allow large lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	encoder := json.NewEncoder(w)

	s.log.Info("serving MCP on stdio", "version", s.version, "formats", s.cache.AllowedFormats())
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Error("failed to parse request", "error", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Trace("request", "method", req.Method, "id", req.ID)
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": s.version,
			},
		},
	}
}

// openImage loads ref through the cache and wraps it for sampling.
func (s *Server) openImage(ref string) (imaging.Surface, image.Image, error) {
	img, err := s.cache.Load(ref)
	if err != nil {
		return nil, nil, err
	}
	return imaging.NewSurface(img), img, nil
}
