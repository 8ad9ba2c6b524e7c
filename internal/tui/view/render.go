// Package view renders the panel. Rendering is read-only: it never mutates
// the model, so all state changes stay in the tick's update phase.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"streamctl/internal/tui/model"
)

// Render draws the whole panel for the current model state.
func Render(m *model.Model) string {
	if m.Quitting {
		return "shutting down...\n"
	}

	// A restart takes the whole screen over, same as the server panel.
	if m.Coordinator != nil && m.Coordinator.Restarting() {
		banner := overlayStyle.Render(m.Spinner.View() + " Runtime is restarting")
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, banner)
	}

	if m.SetupWizardOpen {
		return renderWizard(m)
	}
	if m.ShowHelp {
		return renderHelp(m)
	}

	var sections []string
	if m.Notifications.Current != nil {
		n := m.Notifications.Current
		line := fmt.Sprintf("[%s] %s", n.Severity, n.Message)
		sections = append(sections, notificationStyle.Width(m.Width).Render(truncate(line, m.Width)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, renderSidePanel(m), renderContent(m))
	sections = append(sections, body)
	sections = append(sections, renderStatusBar(m))

	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.NewVersion != nil {
		popup := overlayStyle.Render(fmt.Sprintf(
			"New version available: %s\n\n%s\n\n%s",
			m.NewVersion.Version,
			m.NewVersion.Message,
			dimStyle.Render("esc to dismiss"),
		))
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, popup)
	}

	return screen
}

func renderSidePanel(m *model.Model) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("streamctl"))
	b.WriteString("\n\n")
	for _, tab := range model.AllTabs {
		style := tabStyle
		if tab == m.ActiveTab {
			style = selectedTabStyle
		}
		b.WriteString(style.Render(tab.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.Transport != nil && m.Transport.Connected() {
		b.WriteString(connectedStyle.Render("● connected"))
	} else {
		b.WriteString(disconnectedStyle.Render("○ disconnected"))
	}
	return sidePanelStyle.Height(max(m.Height-2, 0)).Render(b.String())
}

func renderContent(m *model.Model) string {
	width := max(m.Width-SidePanelWidth-4, 20)

	var body string
	switch m.ActiveTab {
	case model.TabDevices:
		body = renderDevices(m, width)
	case model.TabStatistics:
		body = renderStatistics(m)
	case model.TabSettings:
		body = renderSettings(m)
	case model.TabInstallation:
		body = renderInstallation(m, width)
	case model.TabLogs:
		body = renderLogs(m, width)
	case model.TabAbout:
		body = renderAbout(m)
	}

	header := titleStyle.Render(m.ActiveTab.String())
	return contentStyle.Render(header + "\n\n" + body)
}

func renderDevices(m *model.Model, width int) string {
	if len(m.Devices.Clients) == 0 {
		return dimStyle.Render("No devices known to the server yet.")
	}
	var b strings.Builder
	for _, client := range m.Devices.Clients {
		status := "disconnected"
		if client.Connected {
			status = "connected"
		}
		trust := "untrusted"
		if client.Trusted {
			trust = "trusted"
		}
		line := fmt.Sprintf("%-24s %-12s %-10s %s",
			client.DisplayName, client.Hostname, status, trust)
		b.WriteString(truncate(line, width))
		b.WriteString("\n")
	}
	if f := m.Devices.AdbFraction(); f >= 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("adb download: %s %.0f%%", m.InstallProgress.ViewAs(f), f*100))
	}
	return b.String()
}

func renderStatistics(m *model.Model) string {
	s := m.Statistics.Summary
	lines := []string{
		fmt.Sprintf("Client FPS        %.1f", s.ClientFPS),
		fmt.Sprintf("Server FPS        %.1f", s.ServerFPS),
		fmt.Sprintf("Total latency     %.1f ms", s.TotalLatencyMs),
		fmt.Sprintf("Network latency   %.1f ms", s.NetworkLatencyMs),
		fmt.Sprintf("Encode latency    %.1f ms", s.EncodeLatencyMs),
		fmt.Sprintf("Decode latency    %.1f ms", s.DecodeLatencyMs),
		fmt.Sprintf("Video bitrate     %.1f Mbps", s.VideoMbitsPerSec),
		fmt.Sprintf("Packets lost      %d (%d/s)", s.PacketsLostTotal, s.PacketsLostPerSec),
	}
	if s.HmdPlugged {
		lines = append(lines, fmt.Sprintf("HMD battery       %d%%", s.BatteryHmd))
	}
	lines = append(lines, "", dimStyle.Render(fmt.Sprintf("%d latency samples buffered", len(m.Statistics.Graph))))
	return strings.Join(lines, "\n")
}

func renderSettings(m *model.Model) string {
	if m.Settings.Snapshot == nil {
		return dimStyle.Render("Waiting for the first session snapshot...")
	}
	d := m.Settings.Derived
	lines := []string{
		fmt.Sprintf("Server version          %s", d.ServerVersion),
		fmt.Sprintf("Log level               %s", d.LogLevel),
		fmt.Sprintf("Notification level      %s", d.NotificationLevel),
		fmt.Sprintf("Close runtime w/ panel  %t", d.CloseWithPanel),
		"",
		dimStyle.Render(fmt.Sprintf("%d raw settings entries", len(m.Settings.Snapshot.Settings))),
	}
	return strings.Join(lines, "\n")
}

func renderInstallation(m *model.Model, width int) string {
	var b strings.Builder

	if m.Installation.ChannelsKnown {
		b.WriteString(fmt.Sprintf("Stable channel   %s\n", m.Installation.Stable.Version))
		b.WriteString(fmt.Sprintf("Nightly channel  %s\n", m.Installation.Nightly.Version))
	} else {
		b.WriteString(dimStyle.Render("Discovering release channels...") + "\n")
	}
	b.WriteString("\n")

	if m.Installation.Installing {
		b.WriteString(truncate(m.Installation.ProgressMessage, width) + "\n")
		b.WriteString(m.InstallProgress.ViewAs(m.Installation.Progress) + "\n")
	} else if m.Installation.LastError != "" {
		b.WriteString(statusErrorStyle.Render(truncate("error: "+m.Installation.LastError, width)) + "\n")
	}

	if len(m.Installation.Drivers) > 0 {
		b.WriteString("\nRegistered drivers:\n")
		for _, driver := range m.Installation.Drivers {
			b.WriteString("  " + truncate(driver, width-2) + "\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("i install stable · n install nightly · c install client"))
	return b.String()
}

func renderLogs(m *model.Model, width int) string {
	if len(m.Logs.Entries) == 0 {
		return dimStyle.Render("No events yet.")
	}
	// Show the tail that fits the pane.
	height := max(m.Height-8, 5)
	entries := m.Logs.Entries
	if len(entries) > height {
		entries = entries[len(entries)-height:]
	}
	var b strings.Builder
	for _, line := range entries {
		b.WriteString(truncate(line, width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderAbout(m *model.Model) string {
	return strings.Join([]string{
		"streamctl " + m.Version,
		"",
		"Control panel for the device-streaming runtime.",
		dimStyle.Render("https://github.com/streamctl/streamctl"),
	}, "\n")
}

func renderStatusBar(m *model.Model) string {
	msg := m.StatusBarMessage
	if msg == "" {
		msg = m.Installation.StatusLine()
	}
	if msg == "" {
		return dimStyle.Render(" tab switch · r restart · y copy logs · ? help · q quit")
	}
	style := statusInfoStyle
	switch m.StatusBarMessageType {
	case model.StatusBarSuccess:
		style = statusSuccessStyle
	case model.StatusBarError:
		style = statusErrorStyle
	}
	return style.Render(" " + truncate(msg, max(m.Width-2, 10)))
}

func renderWizard(m *model.Model) string {
	content := strings.Join([]string{
		titleStyle.Render("Setup wizard"),
		"",
		"The server asked for first-time setup.",
		"Walk through the device pairing steps on the headset,",
		"then finish here to stop the wizard from reopening.",
		"",
		dimStyle.Render("enter finish · esc skip for now"),
	}, "\n")
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(content))
}

func renderHelp(m *model.Model) string {
	content := strings.Join([]string{
		titleStyle.Render("Keys"),
		"",
		"tab / shift+tab   switch tab",
		"r                 restart runtime",
		"i / n             install stable / nightly server",
		"c                 install client",
		"y                 copy logs to clipboard",
		"esc               close overlay",
		"q                 quit",
		"",
		dimStyle.Render("any key to close"),
	}, "\n")
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(content))
}

// truncate clips a line to the given display width, accounting for wide
// runes.
func truncate(line string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width-1, "…")
}
