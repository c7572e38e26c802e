package views

import "dasha/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// listHeight is the number of rows left for a list once the title, the
// message and the help line are drawn
func (s *ViewState) listHeight() int {
	const chrome = 9
	if s.Height <= chrome {
		return 10
	}
	return s.Height - chrome
}

// Messages for view switching

// SwitchToBrowserMsg opens the timeline browser for a profile
type SwitchToBrowserMsg struct {
	Profile domain.Profile
}

// SwitchToProfilesMsg returns to the profile list
type SwitchToProfilesMsg struct{}

// SwitchToHelpMsg shows the help view
type SwitchToHelpMsg struct{}

// CloseHelpMsg leaves the help view
type CloseHelpMsg struct{}

type errMsg struct {
	err error
}
