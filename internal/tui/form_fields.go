package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	// name is the key the server uses in validationErrors.
	name string
	// label is a message id, translated at render time.
	label string
	input textinput.Model
}

func newField(name, label string, secret bool) field {
	in := textinput.New()
	in.CharLimit = 255
	in.Width = 40
	in.Prompt = ""
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
		if glyphs() == glyphSetASCII {
			in.EchoCharacter = '*'
		}
	}
	return field{name: name, label: label, input: in}
}

// fieldSet is a vertical form: inputs first, then a row of buttons. focus
// past the last input selects a button.
type fieldSet struct {
	fields  []field
	buttons int
	focus   int
}

// fieldEvent reports what a key did to the form.
type fieldEvent struct {
	touched string
	pressed int
}

func newFieldSet(buttons int, fields ...field) fieldSet {
	fs := fieldSet{fields: fields, buttons: buttons}
	fs.focusAt(0)
	return fs
}

func (fs *fieldSet) positions() int { return len(fs.fields) + fs.buttons }

func (fs *fieldSet) focusAt(i int) {
	n := fs.positions()
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	fs.focus = i
	for j := range fs.fields {
		if j == i {
			fs.fields[j].input.Focus()
		} else {
			fs.fields[j].input.Blur()
		}
	}
}

func (fs *fieldSet) onField() bool { return fs.focus < len(fs.fields) }

// button returns the focused button index, or -1 when an input has focus.
func (fs *fieldSet) button() int {
	if fs.onField() {
		return -1
	}
	return fs.focus - len(fs.fields)
}

func (fs *fieldSet) value(name string) string {
	for _, f := range fs.fields {
		if f.name == name {
			return f.input.Value()
		}
	}
	return ""
}

func (fs *fieldSet) setValue(name, v string) {
	for i := range fs.fields {
		if fs.fields[i].name == name {
			fs.fields[i].input.SetValue(v)
		}
	}
}

// filled reports whether every named field is non-blank.
func (fs *fieldSet) filled(names ...string) bool {
	for _, n := range names {
		if strings.TrimSpace(fs.value(n)) == "" {
			return false
		}
	}
	return true
}

// update handles focus movement and forwards other keys to the focused
// input. Enter on an input presses the first button.
func (fs *fieldSet) update(msg tea.KeyMsg) (tea.Cmd, fieldEvent, bool) {
	ev := fieldEvent{pressed: -1}
	switch msg.String() {
	case "esc":
		return nil, ev, false
	case "tab", "down":
		fs.focusAt(fs.focus + 1)
		return nil, ev, true
	case "shift+tab", "up":
		fs.focusAt(fs.focus - 1)
		return nil, ev, true
	case "left", "right":
		if !fs.onField() {
			if msg.String() == "left" {
				fs.focusAt(fs.focus - 1)
			} else {
				fs.focusAt(fs.focus + 1)
			}
			return nil, ev, true
		}
	case "enter":
		if fs.onField() {
			ev.pressed = 0
		} else {
			ev.pressed = fs.button()
		}
		return nil, ev, true
	}
	if !fs.onField() {
		return nil, ev, false
	}
	f := &fs.fields[fs.focus]
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		ev.touched = f.name
	}
	return cmd, ev, true
}

// view renders the inputs with their errors, then the buttons.
func (fs *fieldSet) view(bodyW int, t func(string) string, errFor func(name string) string, labels []string, enabled []bool) string {
	var b strings.Builder
	for i, f := range fs.fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderField(bodyW, t(f.label), f.input.View(), errFor(f.name), fs.focus == i))
	}
	var btns []string
	for i, label := range labels {
		on := i >= len(enabled) || enabled[i]
		btns = append(btns, styleButton(on, fs.button() == i).Render(label))
		if i < len(labels)-1 {
			btns = append(btns, " ")
		}
	}
	if len(btns) > 0 {
		if len(fs.fields) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, btns...))
	}
	return b.String()
}
