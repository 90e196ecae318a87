package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

func setupSystemTray(a fyne.App, checkNow, quit func()) {
	if desk, ok := a.(desktop.App); ok {
		menu := fyne.NewMenu("ChronoFlow",
			fyne.NewMenuItem("Check Now", checkNow),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", quit),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(theme.HistoryIcon())
	}
}
