// Package mcp exposes the auxwind daemon's window operations as MCP tools so
// agents can drive auxiliary windows over stdio.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/auxwind/internal/ipc"
)

const (
	ServerName    = "auxwind"
	ServerVersion = "0.1.0"
)

// Commander is the subset of the IPC client the tools need. Tests substitute
// an in-memory implementation.
type Commander interface {
	ShowWindow(role string) error
	CloseWindow(role string) error
	GetStatus() (*ipc.StatusData, error)
	ListRoles() (*ipc.RolesData, error)
}

var _ Commander = (*ipc.Client)(nil)

// Server is the MCP server bridging tools to the auxwind daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	commander Commander
}

// NewServer creates an MCP server that talks to a running auxwind daemon.
func NewServer(commander Commander) *Server {
	s := &Server{commander: commander}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_window",
		Description: "Show the auxiliary window for a role (e.g. about, preferences). Creates the window on first use; later calls bring the existing window to the front. The role must be configured in the auxwind daemon.",
	}, s.handleShowWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Request a graceful close of the auxiliary window for a role. Closing a role with no live window is a no-op.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every configured auxiliary window role with its lifecycle state (uninitialized/displayed/closed), geometry and generation counter.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_status",
		Description: "Get the lifecycle status of a single auxiliary window role.",
	}, s.handleWindowStatus)
}

func (s *Server) handleShowWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowWindowInput) (*mcpsdk.CallToolResult, ShowWindowOutput, error) {
	if args.Role == "" {
		return nil, ShowWindowOutput{}, fmt.Errorf("role must not be empty")
	}
	if err := s.commander.ShowWindow(args.Role); err != nil {
		return nil, ShowWindowOutput{}, err
	}

	info, err := s.windowInfo(args.Role)
	if err != nil {
		return nil, ShowWindowOutput{}, err
	}
	return nil, ShowWindowOutput{
		Role:       info.Role,
		State:      info.State,
		WindowID:   info.WindowID,
		Generation: info.Generation,
	}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if args.Role == "" {
		return nil, CloseWindowOutput{}, fmt.Errorf("role must not be empty")
	}
	if err := s.commander.CloseWindow(args.Role); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	return nil, CloseWindowOutput{Role: args.Role}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	status, err := s.commander.GetStatus()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowStatus, 0, len(status.Windows))}
	for _, w := range status.Windows {
		out.Windows = append(out.Windows, windowStatusFromInfo(w))
	}
	return nil, out, nil
}

func (s *Server) handleWindowStatus(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowStatusInput) (*mcpsdk.CallToolResult, WindowStatus, error) {
	if args.Role == "" {
		return nil, WindowStatus{}, fmt.Errorf("role must not be empty")
	}
	info, err := s.windowInfo(args.Role)
	if err != nil {
		return nil, WindowStatus{}, err
	}
	return nil, windowStatusFromInfo(*info), nil
}

// windowInfo fetches the daemon status and picks out one role.
func (s *Server) windowInfo(role string) (*ipc.WindowInfo, error) {
	status, err := s.commander.GetStatus()
	if err != nil {
		return nil, err
	}
	for i := range status.Windows {
		if status.Windows[i].Role == role {
			return &status.Windows[i], nil
		}
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

func windowStatusFromInfo(w ipc.WindowInfo) WindowStatus {
	return WindowStatus{
		Role:       w.Role,
		State:      w.State,
		WindowID:   w.WindowID,
		Generation: w.Generation,
		Title:      w.Title,
		Width:      w.Width,
		Height:     w.Height,
		Floating:   w.Floating,
	}
}
