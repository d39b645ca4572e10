// ABOUTME: Home screen showing the greeting, totals and recent activity
// ABOUTME: Renders recent projects and recent documents side by side

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/icons"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/widgets"
)

// Layout constants
const (
	minTwoColumnWidth = 80
	titleLimit        = 25
)

// Summary is everything the home screen shows
type Summary struct {
	UserName        string
	TotalProjects   int
	TotalDocuments  int
	RecentProjects  []client.Project
	RecentDocuments []client.Document
}

// Dashboard displays the home screen
type Dashboard struct {
	summary *Summary
	width   int
	height  int
}

// New creates a new dashboard
func New(summary *Summary, width, height int) *Dashboard {
	return &Dashboard{
		summary: summary,
		width:   width,
		height:  height,
	}
}

// Update replaces the displayed data
func (d *Dashboard) Update(summary *Summary) {
	d.summary = summary
}

// Summary returns the displayed data
func (d *Dashboard) Summary() *Summary {
	return d.summary
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Greeting returns the welcome line
func (d *Dashboard) Greeting() string {
	if d.summary == nil || strings.TrimSpace(d.summary.UserName) == "" {
		return "Welcome back"
	}
	return "Welcome back, " + d.summary.UserName
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.summary == nil {
		return styles.Panel.Render("Loading your workspace...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.User.String() + " " + d.Greeting()))
	sb.WriteString("\n")

	cfg := widgets.DefaultMetricBlockConfig()
	cfg.Width = 24
	totals := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Project, "Projects", d.summary.TotalProjects, "total", cfg),
		" ",
		widgets.CountBlock(icons.Document, "Documents", d.summary.TotalDocuments, "total", cfg),
	)
	sb.WriteString(totals)
	sb.WriteString("\n\n")

	projects := d.renderProjects()
	documents := d.renderDocuments()

	if d.width < minTwoColumnWidth {
		sb.WriteString(projects)
		sb.WriteString("\n\n")
		sb.WriteString(documents)
		return sb.String()
	}

	colWidth := (d.width - 4) / 2
	left := lipgloss.NewStyle().Width(colWidth).Render(projects)
	right := lipgloss.NewStyle().Width(colWidth).Render(documents)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	return sb.String()
}

func (d *Dashboard) renderProjects() string {
	var sb strings.Builder
	sb.WriteString(styles.KeyStyle.Render("Recent Projects"))
	sb.WriteString("\n")

	if len(d.summary.RecentProjects) == 0 {
		sb.WriteString(styles.Dim.Render("No projects yet"))
		return sb.String()
	}

	for _, p := range d.summary.RecentProjects {
		sb.WriteString(fmt.Sprintf("%s %s  %s\n",
			icons.Project.String(),
			styles.Normal.Render(truncate(p.ProjectName, titleLimit)),
			styles.Dim.Render(p.CreatedAt.Short())))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (d *Dashboard) renderDocuments() string {
	var sb strings.Builder
	sb.WriteString(styles.KeyStyle.Render("Recent Documents"))
	sb.WriteString("\n")

	if len(d.summary.RecentDocuments) == 0 {
		sb.WriteString(styles.Dim.Render("No documents yet"))
		return sb.String()
	}

	for _, doc := range d.summary.RecentDocuments {
		sb.WriteString(fmt.Sprintf("%s %s  %s\n",
			icons.Document.String(),
			styles.Normal.Render(truncate(doc.Title, titleLimit)),
			widgets.CountBadge(len(doc.FileItems), "file", "files")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
