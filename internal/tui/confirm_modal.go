package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func modalWidth(width int) int {
	w := width - 8
	if w > 60 {
		w = 60
	}
	if w < 24 {
		w = 24
	}
	return w
}

func modalBodyWidth(width int) int {
	return modalWidth(width) - 4
}

func renderModalBox(width int, title, body string) string {
	w := modalWidth(width)
	header := lipgloss.NewStyle().
		Width(w).
		Padding(0, 1).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Render(title)
	content := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No borders: nested borders inside a colored modal leave artifacts on some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)
	help := styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   esc: cancel")

	return renderModalBox(width, title, strings.Join([]string{body, "", controls, "", help}, "\n"))
}
