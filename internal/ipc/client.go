package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/auxwind/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) sendRoleCommand(command CommandType, role string) error {
	payload, err := json.Marshal(RolePayload{Role: role})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: command, Payload: payload})
	return err
}

// ShowWindow asks the daemon to show the window for role.
func (c *Client) ShowWindow(role string) error {
	return c.sendRoleCommand(CommandShowWindow, role)
}

// CloseWindow asks the daemon to close the window for role.
func (c *Client) CloseWindow(role string) error {
	return c.sendRoleCommand(CommandCloseWindow, role)
}

// GetStatus returns the daemon's window status snapshot.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// ListRoles returns the roles registered with the daemon.
func (c *Client) ListRoles() (*RolesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListRoles})
	if err != nil {
		return nil, err
	}

	var roles RolesData
	if err := json.Unmarshal(resp.Data, &roles); err != nil {
		return nil, fmt.Errorf("failed to parse roles data: %w", err)
	}
	return &roles, nil
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping reports whether the daemon answers on the socket.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
