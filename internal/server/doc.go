// Package server implements the MCP (Model Context Protocol) server for
// object detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the sliding-window
// detector through the MCP protocol, so MCP clients can threshold images,
// find objects and annotate frame sequences.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_hsv: Colour at a pixel as hex, RGB and HSV
//
// Masks:
//   - mask_build: Binary mask (luminance or HSV ranges, optional background removal)
//   - mask_fill_ratio: Percentage of on pixels in a rectangle
//
// Detection:
//   - detect_objects: Sliding-window scan returning bounding boxes
//   - image_highlight_objects: Outline rectangles on an image
//   - image_crop_object: Extract a detected object
//
// Sequences:
//   - process_sequence: Detect over numbered frames, optionally saving annotated copies
//
// # Defaults
//
// Window size, stride, threshold, tiling and colours come from the
// config.Config given to New; every tool call may override them.
//
// # Image Caching
//
// Images are cached by path in a bounded LRU cache shared by all tools.
// Frames read by process_sequence are evicted once processed.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
