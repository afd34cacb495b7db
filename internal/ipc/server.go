package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

// Handler executes window commands on behalf of IPC clients. The daemon's
// implementation forwards every call onto its dispatch loop so the registry
// only ever runs on one goroutine.
type Handler interface {
	ShowWindow(role string) error
	CloseWindow(role string) error
	Status() StatusData
	Roles() RolesData
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server listening at socketPath.
func NewServer(socketPath string, handler Handler) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		handler:    handler,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.sendResponse(conn, s.handleCommand(req))
}

func (s *Server) sendResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandShowWindow:
		return s.handleShowWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	case CommandGetStatus:
		resp, _ := NewOKResponse(s.handler.Status())
		return resp
	case CommandListRoles:
		resp, _ := NewOKResponse(s.handler.Roles())
		return resp
	case CommandReload:
		log.Println("IPC: Received RELOAD command")
		if err := s.handler.Reload(); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		resp, _ := NewOKResponse(nil)
		return resp
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleShowWindow(payload json.RawMessage) *Response {
	role, resp := parseRolePayload(payload)
	if resp != nil {
		return resp
	}
	if err := s.handler.ShowWindow(role); err != nil {
		return NewErrorResponse(err.Error())
	}
	ok, _ := NewOKResponse(nil)
	return ok
}

func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	role, resp := parseRolePayload(payload)
	if resp != nil {
		return resp
	}
	if err := s.handler.CloseWindow(role); err != nil {
		return NewErrorResponse(err.Error())
	}
	ok, _ := NewOKResponse(nil)
	return ok
}

func parseRolePayload(payload json.RawMessage) (string, *Response) {
	var rp RolePayload
	if err := json.Unmarshal(payload, &rp); err != nil {
		return "", NewErrorResponse(fmt.Sprintf("Invalid role payload: %v", err))
	}
	if rp.Role == "" {
		return "", NewErrorResponse("role must not be empty")
	}
	return rp.Role, nil
}
