package notify

import (
	"fyne.io/fyne/v2"

	"github.com/chronoflow/chronod/internal/trigger"
)

// FyneNotifier shows notifications through the running fyne app. Used by
// the foreground agent, which already owns an app for its tray icon.
type FyneNotifier struct {
	app fyne.App
}

// NewFyneNotifier wraps a fyne app.
func NewFyneNotifier(app fyne.App) *FyneNotifier {
	return &FyneNotifier{app: app}
}

// Notify shows one notification. fyne's surface has no tags or actions, so
// those fields are dropped here.
func (n *FyneNotifier) Notify(note trigger.Notification) error {
	n.app.SendNotification(fyne.NewNotification(note.Title, note.Body))
	return nil
}
