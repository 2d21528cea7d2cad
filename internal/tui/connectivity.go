package tui

import "github.com/diogo/echochat/internal/models"

// ConnectivityIndicator is the header status badge. It always reports the
// connected state and never probes the backend.
type ConnectivityIndicator struct {
	Label string
}

// NewConnectivityIndicator returns the indicator with the default label
func NewConnectivityIndicator() ConnectivityIndicator {
	return ConnectivityIndicator{Label: models.ConnectedText}
}

// View renders the icon and label
func (c ConnectivityIndicator) View() string {
	label := c.Label
	if label == "" {
		label = models.ConnectedText
	}
	return connectivityStyle.Render("◉ " + label)
}
