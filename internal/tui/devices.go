// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"scope/internal/audio"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ScreenType defines which screen is currently active
type ScreenType int

const (
	ListScreen ScreenType = iota
	DetailScreen
)

// DevicePickerModel lists the output devices and lets the user pick one.
type DevicePickerModel struct {
	devices       []audio.Device
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	err           error
	activeScreen  ScreenType

	chosen bool
	fetch  func() ([]audio.Device, error)
}

type devicesMsg struct {
	devices []audio.Device
}

type errMsg struct {
	err error
}

// NewDevicePickerModel creates a picker over the host's output devices.
func NewDevicePickerModel() DevicePickerModel {
	return DevicePickerModel{
		activeScreen: ListScreen,
		fetch:        audio.GetDevices,
	}
}

// Init fetches the device list.
func (m DevicePickerModel) Init() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		devices, err := fetch()
		if err != nil {
			return errMsg{err}
		}
		return devicesMsg{audio.OutputDevices(devices)}
	}
}

// Selected returns the chosen device and whether the user confirmed one.
func (m DevicePickerModel) Selected() (audio.Device, bool) {
	if !m.chosen || m.selectedIndex >= len(m.devices) {
		return audio.Device{}, false
	}
	return m.devices[m.selectedIndex], true
}

// Update handles input and updates the model
func (m DevicePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refresh()

	case devicesMsg:
		m.devices = msg.devices
		m.refresh()

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		if m.err != nil || key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))) {
			return m, tea.Quit
		}

		switch m.activeScreen {
		case ListScreen:
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
				if m.selectedIndex > 0 {
					m.selectedIndex--
				}
			case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
				if m.selectedIndex < len(m.devices)-1 {
					m.selectedIndex++
				}
			case key.Matches(msg, key.NewBinding(key.WithKeys("tab", "i"))):
				if len(m.devices) > 0 {
					m.activeScreen = DetailScreen
				}
			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				if len(m.devices) > 0 {
					m.chosen = true
					return m, tea.Quit
				}
			}
		case DetailScreen:
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "tab"))):
				m.activeScreen = ListScreen
			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				m.chosen = true
				return m, tea.Quit
			}
		}
		m.refresh()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *DevicePickerModel) refresh() {
	if !m.ready {
		return
	}
	if m.activeScreen == DetailScreen {
		m.viewport.SetContent(m.renderDeviceDetail())
	} else {
		m.viewport.SetContent(m.renderDevices())
	}
}

// View renders the UI
func (m DevicePickerModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress any key to exit.", m.err)
	}
	if !m.ready {
		return "Initializing..."
	}

	var title, help string
	if m.activeScreen == ListScreen {
		title = titleStyle.Render("Output Devices")
		help = infoStyle.Render("↑/↓: Navigate • Tab: Details • Enter: Select • q: Quit")
	} else {
		title = titleStyle.Render("Device Details")
		help = infoStyle.Render("Esc: Back • Enter: Select • q: Quit")
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

// renderDevices formats the device list
func (m DevicePickerModel) renderDevices() string {
	if len(m.devices) == 0 {
		return "No output devices found."
	}

	var sb strings.Builder
	for i, device := range m.devices {
		line := fmt.Sprintf("[%d] %s (%d ch, %.0f Hz)",
			device.ID, device.Name, device.MaxOutputChannels, device.DefaultSampleRate)
		if i == m.selectedIndex {
			line = highlightStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderDeviceDetail formats the selected device
func (m DevicePickerModel) renderDeviceDetail() string {
	device := m.devices[m.selectedIndex]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Device: %s\n\n", highlightStyle.Render(device.Name))
	fmt.Fprintf(&sb, "  ID:                  %d\n", device.ID)
	fmt.Fprintf(&sb, "  Type:                %s\n", device.Kind())
	fmt.Fprintf(&sb, "  Output channels:     %d\n", device.MaxOutputChannels)
	fmt.Fprintf(&sb, "  Default sample rate: %.0f Hz\n", device.DefaultSampleRate)
	fmt.Fprintf(&sb, "  Low latency:         %s\n", device.LowLatency)
	fmt.Fprintf(&sb, "  High latency:        %s\n", device.HighLatency)
	return sb.String()
}

// PickDevice runs the picker and returns the chosen device ID. ok is false
// when the user quit without choosing.
func PickDevice() (id int, ok bool, err error) {
	final, err := tea.NewProgram(NewDevicePickerModel(), tea.WithAltScreen()).Run()
	if err != nil {
		return 0, false, err
	}
	m, _ := final.(DevicePickerModel)
	if m.err != nil {
		return 0, false, m.err
	}
	device, ok := m.Selected()
	return device.ID, ok, nil
}
