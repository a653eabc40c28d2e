// internal/tui/init_form.go
//
// InitForm collects the four signing credentials for `keysign init`.
// It is a bubbletea model: Update handles key messages, View renders the
// form, and Result reports what the user submitted once the program quits.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/keysign/internal/signing"
)

const (
	fieldKeyAlias = iota
	fieldKeyPassword
	fieldStoreFile
	fieldStorePassword
	fieldCount
)

var fieldLabels = [fieldCount]string{
	signing.KeyAlias,
	signing.KeyPassword,
	signing.StoreFile,
	signing.StorePassword,
}

// InitForm is the credential entry form.
type InitForm struct {
	target    string
	inputs    [fieldCount]textinput.Model
	focus     int
	err       string
	submitted bool
	cancelled bool
}

// NewInitForm builds a form that will write to target. Non-empty fields of
// defaults pre-fill the inputs.
func NewInitForm(target string, defaults signing.Credentials) *InitForm {
	f := &InitForm{target: target}
	values := [fieldCount]string{defaults.KeyAlias, defaults.KeyPassword, defaults.StoreFile, defaults.StorePassword}
	placeholders := [fieldCount]string{"upload", "", "upload-keystore.jks", ""}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 512
		in.Width = 40
		if i == fieldKeyPassword || i == fieldStorePassword {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldKeyAlias].Focus()
	return f
}

// Init implements tea.Model.
func (f *InitForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (f *InitForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			f.cancelled = true
			return f, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return f, f.setFocus(f.focus + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return f, f.setFocus(f.focus - 1)
		case tea.KeyEnter:
			if f.focus < fieldCount-1 {
				return f, f.setFocus(f.focus + 1)
			}
			return f.submit()
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *InitForm) submit() (tea.Model, tea.Cmd) {
	blank := f.credentials().Blank()
	if len(blank) > 0 {
		f.err = fmt.Sprintf("%s must not be blank", strings.Join(blank, ", "))
		for i, label := range fieldLabels {
			if label == blank[0] {
				return f, f.setFocus(i)
			}
		}
		return f, nil
	}
	f.err = ""
	f.submitted = true
	return f, tea.Quit
}

func (f *InitForm) setFocus(index int) tea.Cmd {
	index = (index%fieldCount + fieldCount) % fieldCount
	f.inputs[f.focus].Blur()
	f.focus = index
	return f.inputs[f.focus].Focus()
}

func (f *InitForm) credentials() signing.Credentials {
	return signing.Credentials{
		KeyAlias:      f.inputs[fieldKeyAlias].Value(),
		KeyPassword:   f.inputs[fieldKeyPassword].Value(),
		StoreFile:     strings.TrimSpace(f.inputs[fieldStoreFile].Value()),
		StorePassword: f.inputs[fieldStorePassword].Value(),
	}
}

// Result returns the submitted credentials. ok is false when the form was
// cancelled or has not been submitted.
func (f *InitForm) Result() (signing.Credentials, bool) {
	if !f.submitted || f.cancelled {
		return signing.Credentials{}, false
	}
	return f.credentials(), true
}

// View implements tea.Model.
func (f *InitForm) View() string {
	lines := []string{
		titleStyle.Render("keysign init"),
		labelStyle.UnsetWidth().Render("Writing " + f.target),
		"",
	}
	for i, in := range f.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = titleStyle.Width(15).Render(fieldLabels[i])
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, in.View()))
	}
	if f.err != "" {
		lines = append(lines, "", errorTitleStyle.Render("⚠ "+f.err))
	}
	lines = append(lines, hintStyle.Render("Tab → next field    Enter → save    Esc → cancel"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}
