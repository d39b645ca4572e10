// ABOUTME: Multi-file picker TUI component for attachments
// ABOUTME: Shows recently attached files, path input and the current selection

package filepicker

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/filepick"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
)

type state int

const (
	stateList state = iota
	stateInput
)

// FilesSelectedMsg is sent when the user confirms a non-empty selection
type FilesSelectedMsg struct {
	Files []client.File
}

// CancelledMsg is sent when the user leaves without attaching anything
type CancelledMsg struct{}

// FilePicker is the attachment selection component
type FilePicker struct {
	recentFiles []string
	chosen      []client.File
	cursor      int
	state       state
	textInput   textinput.Model
	err         string
	width       int
	height      int
}

// New creates a FilePicker listing the given recent paths
func New(recentFiles []string) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.CharLimit = 512
	ti.Width = 60

	return &FilePicker{
		recentFiles: recentFiles,
		state:       stateList,
		textInput:   ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Chosen returns the files selected so far
func (fp *FilePicker) Chosen() []client.File {
	return fp.chosen
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		}
	}

	if fp.state == stateInput {
		var cmd tea.Cmd
		fp.textInput, cmd = fp.textInput.Update(msg)
		return fp, cmd
	}

	return fp, nil
}

// Rows: recent files, then "Enter path...", then "Attach".
func (fp *FilePicker) listItemCount() int {
	return len(fp.recentFiles) + 2
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < fp.listItemCount()-1 {
			fp.cursor++
		}
	case " ", "space":
		if fp.cursor < len(fp.recentFiles) {
			fp.toggle(fp.recentFiles[fp.cursor])
		}
	case "enter":
		return fp.selectListItem()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}

	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		fp.textInput.Blur()
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Please enter a file path"
			return fp, nil
		}
		if !fp.add(path) {
			return fp, nil
		}
		fp.textInput.SetValue("")
		fp.textInput.Blur()
		fp.state = stateList
		fp.cursor = fp.listItemCount() - 1
		return fp, nil
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	recentCount := len(fp.recentFiles)

	switch {
	case fp.cursor < recentCount:
		fp.toggle(fp.recentFiles[fp.cursor])
		return fp, nil

	case fp.cursor == recentCount:
		fp.state = stateInput
		fp.textInput.Focus()
		return fp, textinput.Blink

	default:
		if len(fp.chosen) == 0 {
			fp.err = "No files selected"
			return fp, nil
		}
		files := append([]client.File(nil), fp.chosen...)
		return fp, func() tea.Msg { return FilesSelectedMsg{Files: files} }
	}
}

// toggle adds or removes a recent path from the selection
func (fp *FilePicker) toggle(path string) {
	if i := fp.indexOf(path); i >= 0 {
		fp.chosen = append(fp.chosen[:i:i], fp.chosen[i+1:]...)
		return
	}
	fp.add(path)
}

// add resolves a path and appends it unless already chosen
func (fp *FilePicker) add(path string) bool {
	files, err := filepick.FromPaths(path)
	if err != nil {
		fp.err = err.Error()
		return false
	}
	if fp.indexOf(files[0].Path) >= 0 {
		return true
	}
	fp.chosen = append(fp.chosen, files[0])
	return true
}

func (fp *FilePicker) indexOf(path string) int {
	target := filepick.ExpandPath(path)
	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}
	for i, f := range fp.chosen {
		if f.Path == target {
			return i
		}
	}
	return -1
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	if fp.state == stateInput {
		return fp.viewInput()
	}
	return fp.viewList()
}

func (fp *FilePicker) viewList() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Attach files"))
	b.WriteString("\n")

	if len(fp.recentFiles) > 0 {
		b.WriteString(styles.Dim.Render("Recent attachments (space to toggle):"))
		b.WriteString("\n")
		for i, path := range fp.recentFiles {
			mark := "[ ] "
			if fp.indexOf(path) >= 0 {
				mark = "[x] "
			}
			b.WriteString(styles.Row(mark+fp.shorten(path), i == fp.cursor) + "\n")
		}

		dividerWidth := min(40, fp.width-4)
		if dividerWidth < 1 {
			dividerWidth = 40
		}
		b.WriteString(styles.Dim.Render(strings.Repeat("─", dividerWidth)))
		b.WriteString("\n")
	}

	idx := len(fp.recentFiles)
	b.WriteString(styles.Row("Enter path...", fp.cursor == idx) + "\n")
	b.WriteString(styles.Row(attachLabel(len(fp.chosen)), fp.cursor == idx+1) + "\n")

	if len(fp.chosen) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Dim.Render("Selected:"))
		b.WriteString("\n")
		for _, f := range fp.chosen {
			b.WriteString("  " + styles.Normal.Render(f.Name) + " " + styles.Dim.Render(f.MIMEType) + "\n")
		}
	}

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("Error: " + fp.err))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (fp *FilePicker) viewInput() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Enter file path"))
	b.WriteString("\n")
	b.WriteString(fp.textInput.View())

	if fp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorText.Render("Error: " + fp.err))
	}

	return b.String()
}

// shorten keeps the tail of long paths visible
func (fp *FilePicker) shorten(path string) string {
	limit := fp.width - 14
	if fp.width <= 20 || len(path) <= limit {
		return path
	}
	return "..." + path[len(path)-(limit-3):]
}

func attachLabel(n int) string {
	switch n {
	case 0:
		return "Attach"
	case 1:
		return "Attach 1 file"
	default:
		return "Attach " + strconv.Itoa(n) + " files"
	}
}
