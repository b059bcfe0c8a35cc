package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// InputField is one labelled text input. Check, when set, validates the
// trimmed value as it is typed.
type InputField struct {
	Label string
	Input textinput.Model
	Check func(value string) error

	err error
}

// NewInputField creates a field with a placeholder and an optional rune limit
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{Label: label, Input: input}
}

// WithCheck returns the field with check as its validator
func (f InputField) WithCheck(check func(value string) error) InputField {
	f.Check = check
	return f
}

func (f *InputField) validate() {
	f.err = nil
	if f.Check != nil {
		f.err = f.Check(strings.TrimSpace(f.Input.Value()))
	}
}

// InputForm is a column of fields with one focused at a time
type InputForm struct {
	fields []InputField
	focus  int
	Keys   InputFormKeyMap
}

// NewInputForm creates a form focused on its first field
func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{fields: fields, Keys: DefaultInputFormKeys}
	f.Focus(0)
	return f
}

// Init returns the cursor blink command
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update moves focus on next/prev keys and otherwise feeds msg to the
// focused field, revalidating it
func (f *InputForm) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Next):
			f.Focus((f.focus + 1) % len(f.fields))
			return nil
		case key.Matches(msg, f.Keys.Prev):
			f.Focus((f.focus + len(f.fields) - 1) % len(f.fields))
			return nil
		}
	}

	field := &f.fields[f.focus]
	before := field.Input.Value()

	var cmd tea.Cmd
	field.Input, cmd = field.Input.Update(msg)
	if field.Input.Value() != before {
		field.validate()
	}
	return cmd
}

// Focus moves focus to field i
func (f *InputForm) Focus(i int) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	for j := range f.fields {
		f.fields[j].Input.Blur()
	}
	f.focus = i
	f.fields[i].Input.Focus()
}

// Focused returns the index of the focused field
func (f *InputForm) Focused() int {
	return f.focus
}

// Value returns the trimmed value of field i
func (f *InputForm) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].Input.Value())
}

// SetValue replaces the value of field i. Errors show once it is edited.
func (f *InputForm) SetValue(i int, value string) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.fields[i].Input.SetValue(value)
	f.fields[i].err = nil
}

// Err returns the first validation error of any field
func (f *InputForm) Err() error {
	for i := range f.fields {
		f.fields[i].validate()
		if f.fields[i].err != nil {
			return f.fields[i].err
		}
	}
	return nil
}

// Reset clears every field and focuses the first one
func (f *InputForm) Reset() {
	for i := range f.fields {
		f.fields[i].Input.SetValue("")
		f.fields[i].err = nil
	}
	f.Focus(0)
}

// RenderField renders field i with its label and any validation error
func (f *InputForm) RenderField(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	field := f.fields[i]

	input := styles.InputField
	if i == f.focus {
		input = styles.InputFocused
	}

	out := styles.InputLabel.Render(field.Label) + "\n" + input.Render(field.Input.View())
	if field.err != nil {
		out += "\n" + styles.ErrorMsg.Render(field.err.Error())
	}
	return out
}

// RenderHelp renders the form's key help with submitText on enter
func (f *InputForm) RenderHelp(submitText string) string {
	bindings := make([]key.Binding, 0, 3)
	if len(f.fields) > 1 {
		bindings = append(bindings, f.Keys.Next)
	}
	submit := f.Keys.Submit
	submit.SetHelp("enter", submitText)
	bindings = append(bindings, submit, f.Keys.Cancel)
	return RenderHelpLine(bindings...)
}
