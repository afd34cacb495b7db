package mcp

// ShowWindowInput is the input for the show_window tool.
type ShowWindowInput struct {
	Role string `json:"role" jsonschema:"required,The auxiliary window role to show (e.g. about, preferences)"`
}

// ShowWindowOutput is the output for the show_window tool.
type ShowWindowOutput struct {
	Role       string `json:"role"`
	State      string `json:"state"`
	WindowID   uint32 `json:"window_id,omitempty"`
	Generation uint64 `json:"generation"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	Role string `json:"role" jsonschema:"required,The auxiliary window role to close"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Role string `json:"role"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowStatus describes one role's window lifecycle.
type WindowStatus struct {
	Role       string `json:"role"`
	State      string `json:"state"`
	WindowID   uint32 `json:"window_id,omitempty"`
	Generation uint64 `json:"generation"`
	Title      string `json:"title"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Floating   bool   `json:"floating"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowStatus `json:"windows"`
}

// WindowStatusInput is the input for the window_status tool.
type WindowStatusInput struct {
	Role string `json:"role" jsonschema:"required,The auxiliary window role to inspect"`
}
