package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/chronoflow/chronod/internal/trigger"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod = "org.freedesktop.Notifications.Notify"
)

// DBusNotifier shows desktop notifications through the session bus. The
// headless watcher uses it since it carries no GUI toolkit.
type DBusNotifier struct {
	conn    *dbus.Conn
	appName string
	icon    string

	mu  sync.Mutex
	ids map[string]uint32 // notification tag -> server id, for replacement
}

// NewDBusNotifier connects to the session bus. Fails when no bus is
// available; callers fall back to sound-only delivery.
func NewDBusNotifier(appName, icon string) (*DBusNotifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	return &DBusNotifier{
		conn:    conn,
		appName: appName,
		icon:    icon,
		ids:     make(map[string]uint32),
	}, nil
}

// Notify shows one notification. Re-notifying with the same tag replaces
// the previous one instead of stacking.
func (n *DBusNotifier) Notify(note trigger.Notification) error {
	n.mu.Lock()
	replaces := n.ids[note.Tag]
	n.mu.Unlock()

	actions := []string{"view", "View Details", "dismiss", "Dismiss"}
	hints := map[string]dbus.Variant{}
	if note.Special {
		hints["urgency"] = dbus.MakeVariant(byte(2))
	}

	obj := n.conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyMethod, 0,
		n.appName, replaces, n.icon, note.Title, note.Body,
		actions, hints, int32(-1))
	if call.Err != nil {
		return fmt.Errorf("show notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		n.mu.Lock()
		n.ids[note.Tag] = id
		n.mu.Unlock()
	}

	return nil
}

// Close releases the bus connection.
func (n *DBusNotifier) Close() error {
	return n.conn.Close()
}
