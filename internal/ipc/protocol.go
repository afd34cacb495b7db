package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandShowWindow  CommandType = "SHOW_WINDOW"
	CommandCloseWindow CommandType = "CLOSE_WINDOW"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListRoles   CommandType = "LIST_ROLES"
	CommandReload      CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RolePayload addresses a single window role for SHOW_WINDOW / CLOSE_WINDOW.
type RolePayload struct {
	Role string `json:"role"`
}

// WindowInfo is a snapshot of one role's window lifecycle.
type WindowInfo struct {
	Role       string `json:"role"`
	State      string `json:"state"` // uninitialized, displayed, closed
	WindowID   uint32 `json:"window_id,omitempty"`
	Generation uint64 `json:"generation"`
	Title      string `json:"title"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Floating   bool   `json:"floating"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Windows       []WindowInfo `json:"windows"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	DaemonRunning bool         `json:"daemon_running"`
}

// RolesData represents the data returned by LIST_ROLES
type RolesData struct {
	Roles []string `json:"roles"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
