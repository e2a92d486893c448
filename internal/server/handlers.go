package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-split-mcp/internal/export"
	"github.com/ironsheep/image-split-mcp/internal/imaging"
	"github.com/ironsheep/image-split-mcp/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "split_load", "split_get_slice").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Source
	case "split_load":
		return s.handleSplitLoad(args)
	case "split_set_mode":
		return s.handleSplitSetMode(args)
	case "split_status":
		return s.session.Snapshot(), nil
	case "split_reset":
		s.session.Reset()
		s.cache.Clear()
		return s.session.Snapshot(), nil

	// Results
	case "split_slices":
		return s.handleSplitSlices(args)
	case "split_get_slice":
		return s.handleSplitGetSlice(args)
	case "split_save":
		return s.handleSplitSave(args)
	case "split_overlay":
		return s.handleSplitOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments leave v unchanged.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// SliceSummary describes one slice without its pixel data.
type SliceSummary struct {
	// Number is the 1-based slice number used by split_get_slice.
	Number    int    `json:"number"`
	Label     string `json:"label"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Filename  string `json:"filename"`
	SizeBytes int    `json:"size_bytes"`
	Empty     bool   `json:"empty,omitempty"`
}

// PartitionSummary is returned by split_load and split_set_mode.
type PartitionSummary struct {
	Mode   imaging.PartitionMode `json:"mode"`
	Status session.Status        `json:"status"`
	Source *imaging.ImageInfo    `json:"source,omitempty"`
	Slices []SliceSummary        `json:"slices,omitempty"`
}

func summarize(result *imaging.Result) []SliceSummary {
	slices := make([]SliceSummary, 0, imaging.SliceCount)
	for _, o := range result.Outputs {
		slices = append(slices, SliceSummary{
			Number:    o.Index + 1,
			Label:     o.Label,
			X:         o.X,
			Y:         o.Y,
			Width:     o.Width,
			Height:    o.Height,
			Filename:  o.Filename,
			SizeBytes: len(o.Data),
			Empty:     o.Empty(),
		})
	}
	return slices
}

func (s *Server) partitionSummary(result *imaging.Result) *PartitionSummary {
	snap := s.session.Snapshot()
	summary := &PartitionSummary{Mode: snap.Mode, Status: snap.Status}
	if src, ok := s.session.Source(); ok {
		summary.Source = src.Info()
	}
	if result != nil {
		summary.Mode = result.Mode
		summary.Slices = summarize(result)
	}
	return summary
}

// requireResult returns the loaded source and its current result.
func (s *Server) requireResult() (*imaging.SourceImage, *imaging.Result, error) {
	src, ok := s.session.Source()
	if !ok {
		return nil, nil, session.ErrNoSource
	}
	result, ok := s.session.Result()
	if !ok {
		if _, lastErr := s.session.Status(); lastErr != nil {
			return nil, nil, fmt.Errorf("%w: last run failed: %v", session.ErrNoResult, lastErr)
		}
		return nil, nil, session.ErrNoResult
	}
	return src, result, nil
}

// === Source Handlers ===

type splitLoadArgs struct {
	Path       string `json:"path"`
	DataBase64 string `json:"data_base64"`
	Mode       string `json:"mode"`
}

func (s *Server) handleSplitLoad(args json.RawMessage) (interface{}, error) {
	var a splitLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var (
		src *imaging.SourceImage
		err error
	)
	switch {
	case a.Path != "":
		// A re-selected file may have changed on disk since it was cached.
		s.cache.Evict(a.Path)
		src, err = s.cache.Load(a.Path)
	case a.DataBase64 != "":
		data, decodeErr := base64.StdEncoding.DecodeString(a.DataBase64)
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", imaging.ErrDecode, decodeErr)
		}
		src, err = imaging.DecodeBytes(data)
	default:
		return nil, errors.New("either path or data_base64 is required")
	}
	if err != nil {
		return nil, err
	}

	var result *imaging.Result
	if a.Mode != "" {
		mode, err := imaging.ParseMode(a.Mode)
		if err != nil {
			return nil, err
		}
		result, err = s.session.LoadWithMode(src, mode)
		if err != nil {
			return nil, err
		}
	} else {
		result, err = s.session.Load(src)
		if err != nil {
			return nil, err
		}
	}

	return s.partitionSummary(result), nil
}

type splitSetModeArgs struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSplitSetMode(args json.RawMessage) (interface{}, error) {
	var a splitSetModeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	mode, err := imaging.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	result, err := s.session.SetMode(mode)
	if err != nil {
		return nil, err
	}
	return s.partitionSummary(result), nil
}

// === Result Handlers ===

type splitSlicesArgs struct {
	ThumbnailSize int `json:"thumbnail_size"`
}

// SlicesResult is returned by split_slices.
type SlicesResult struct {
	Mode     imaging.PartitionMode                   `json:"mode"`
	Slices   []SliceSummary                          `json:"slices"`
	Previews [imaging.SliceCount]imaging.SlicePreview `json:"previews"`
}

func (s *Server) handleSplitSlices(args json.RawMessage) (interface{}, error) {
	var a splitSlicesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ThumbnailSize == 0 {
		a.ThumbnailSize = s.cfg.Preview.ThumbnailSize
	}

	src, result, err := s.requireResult()
	if err != nil {
		return nil, err
	}
	previews, err := imaging.Previews(src, result.Mode, a.ThumbnailSize)
	if err != nil {
		return nil, err
	}

	return &SlicesResult{
		Mode:     result.Mode,
		Slices:   summarize(result),
		Previews: previews,
	}, nil
}

type splitGetSliceArgs struct {
	Index int `json:"index"`
}

func (s *Server) handleSplitGetSlice(args json.RawMessage) (interface{}, error) {
	var a splitGetSliceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	if a.Index == 0 {
		return nil, errors.New("index is required (1-4)")
	}
	if _, _, err := s.requireResult(); err != nil {
		return nil, err
	}
	out, err := s.session.Output(a.Index - 1)
	if err != nil {
		return nil, err
	}
	return imaging.ToCropResult(out), nil
}

type splitSaveArgs struct {
	Dir   string `json:"dir"`
	Index int    `json:"index"`
}

// SaveResult is returned by split_save.
type SaveResult struct {
	Dir   string   `json:"dir"`
	Paths []string `json:"paths"`
}

func (s *Server) handleSplitSave(args json.RawMessage) (interface{}, error) {
	var a splitSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		a.Dir = s.cfg.Output.Dir
	}

	_, result, err := s.requireResult()
	if err != nil {
		return nil, err
	}

	w := export.NewWriter(a.Dir, s.logger)
	if a.Index == 0 {
		paths, err := w.WriteAll(result)
		if err != nil {
			return nil, err
		}
		return &SaveResult{Dir: a.Dir, Paths: paths}, nil
	}

	path, err := w.WriteSlice(result, a.Index-1)
	if err != nil {
		return nil, err
	}
	return &SaveResult{Dir: a.Dir, Paths: []string{path}}, nil
}

type splitOverlayArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleSplitOverlay(args json.RawMessage) (interface{}, error) {
	var a splitOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.cfg.Preview.OverlayColor
	}

	src, ok := s.session.Source()
	if !ok {
		return nil, session.ErrNoSource
	}
	return imaging.CutOverlay(src, s.session.Mode(), a.Color)
}
