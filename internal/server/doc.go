// Package server implements the MCP (Model Context Protocol) server for
// splitting an image into four slices.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Source:
//   - split_load: Load an image from a path or base64 bytes and split it
//   - split_set_mode: Switch between horizontal bands and the 2x2 grid
//   - split_status: Report empty, processing, ready or failed
//   - split_reset: Drop the image and its slices
//
// Results:
//   - split_slices: Geometry, filenames, swatches and thumbnails
//   - split_get_slice: One slice as base64 PNG
//   - split_save: Write slices to a directory
//   - split_overlay: Preview the cut lines on the source
//
// # State
//
// The server owns a single session. Loading or switching mode re-partitions
// immediately and replaces the previous slices wholesale. Decoded files are
// kept in an expiring cache keyed by path, so reloading the same file is
// cheap.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
