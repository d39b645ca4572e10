// ABOUTME: Scrollable list screens for projects, documents and file items
// ABOUTME: One cursor-driven list model with constructors for each record type

package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/icons"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/widgets"
)

// Empty-state texts
const (
	NoProjects  = "No projects found."
	NoDocuments = "No documents found for this project."
	NoRecent    = "No recent files."
	NoFileItems = "No files attached to this document."
)

const titleLimit = 25

// Item is one row of a list
type Item struct {
	ID     string
	Title  string
	Detail string
	Badge  string
	Icon   icons.Icon
}

// List is a titled, scrollable list with a cursor
type List struct {
	title  string
	empty  string
	items  []Item
	cursor int
	offset int
	height int
	width  int
}

// NewList creates a list
func NewList(title, empty string, items []Item) *List {
	return &List{title: title, empty: empty, items: items, height: 10}
}

// Projects lists all projects
func Projects(projects []client.Project) *List {
	items := make([]Item, 0, len(projects))
	for _, p := range projects {
		items = append(items, Item{
			ID:     p.ID,
			Title:  p.ProjectName,
			Detail: p.Description,
			Badge:  p.CreatedAt.Short(),
			Icon:   icons.Project,
		})
	}
	return NewList("All Projects", NoProjects, items)
}

// Documents lists documents under the given title
func Documents(title, empty string, docs []client.Document) *List {
	items := make([]Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, Item{
			ID:     d.ID,
			Title:  truncate(d.Title, titleLimit),
			Detail: d.CreatedAt.Short(),
			Badge:  widgets.CountBadge(len(d.FileItems), "file", "files"),
			Icon:   icons.Document,
		})
	}
	return NewList(title, empty, items)
}

// FileItems lists the files of one document
func FileItems(title string, files []client.FileItem) *List {
	items := make([]Item, 0, len(files))
	for _, f := range files {
		items = append(items, Item{
			ID:     f.URL,
			Title:  f.Name,
			Detail: f.Size.String(),
			Badge:  widgets.TypeBadge(f.Extension()),
			Icon:   icons.File,
		})
	}
	return NewList(title, NoFileItems, items)
}

// Len returns the number of rows
func (l *List) Len() int {
	return len(l.items)
}

// Cursor returns the selected row index, or -1 when the list is empty
func (l *List) Cursor() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.cursor
}

// Selected returns the selected item
func (l *List) Selected() (Item, bool) {
	if len(l.items) == 0 {
		return Item{}, false
	}
	return l.items[l.cursor], true
}

// Title returns the list heading
func (l *List) Title() string {
	return l.title
}

// SetSize sets the visible area
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = max(1, height)
	l.clamp()
}

// Up moves the cursor up
func (l *List) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clamp()
}

// Down moves the cursor down
func (l *List) Down() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
	l.clamp()
}

// Remove drops the item with the given ID and keeps the cursor in range
func (l *List) Remove(id string) {
	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			break
		}
	}
	if l.cursor >= len(l.items) {
		l.cursor = max(0, len(l.items)-1)
	}
	l.clamp()
}

// clamp keeps the cursor inside the visible window
func (l *List) clamp() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the list
func (l *List) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(l.title))
	sb.WriteString("\n")

	if len(l.items) == 0 {
		sb.WriteString(styles.Dim.Render(l.empty))
		return sb.String()
	}

	end := min(len(l.items), l.offset+l.height)
	for i := l.offset; i < end; i++ {
		sb.WriteString(l.renderItem(l.items[i], i == l.cursor))
		sb.WriteString("\n")
	}

	if len(l.items) > l.height {
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("%d of %d", l.cursor+1, len(l.items))))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (l *List) renderItem(it Item, selected bool) string {
	label := it.Icon.String() + " " + it.Title
	line := styles.Row(label, selected)
	if it.Detail != "" {
		line += "  " + styles.Dim.Render(it.Detail)
	}
	if it.Badge != "" {
		line += "  " + it.Badge
	}
	if l.width > 0 && lipgloss.Width(line) > l.width {
		return lipgloss.NewStyle().MaxWidth(l.width).Render(line)
	}
	return line
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
