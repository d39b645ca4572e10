// ABOUTME: Rendering for the root TUI model
// ABOUTME: Draws the framed header and footer, page content, toasts and the creation modal

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/icons"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch {
	case a.creating:
		content = a.viewModal()
	case a.screen == ScreenSignIn:
		content = a.viewSignIn()
	case a.screen == ScreenHome:
		content = a.viewHome()
	default:
		content = a.viewList()
	}

	if a.toast != nil {
		content += "\n" + a.renderToast()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewSignIn() string {
	if a.signin == nil {
		return ""
	}
	return styles.Panel.Render(a.signin.View())
}

// viewHome renders the dashboard with the actions pane
func (a *App) viewHome() string {
	if a.err != "" {
		return a.renderPageError()
	}

	leftPane := ""
	if a.dashboard != nil && a.dashboard.Summary() != nil {
		leftPane = styles.ActivePanel.Width(a.dashboardWidth()).Render(a.dashboard.View())
	} else {
		leftPane = styles.Panel.Width(a.dashboardWidth()).Render(a.spinner.View() + " Loading your workspace...")
	}

	rightContent := styles.Title.Render("Actions") + "\n\n"
	rightContent += icons.Project.String() + " Browse projects\n"
	rightContent += icons.File.String() + " Recent files\n"
	rightContent += icons.Create.String() + " Create\n"
	rightContent += icons.Refresh.String() + " Refresh\n"
	rightContent += icons.Logout.String() + " Sign out\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	if a.width < minTerminalWidth {
		return lipgloss.JoinVertical(lipgloss.Left, leftPane, rightPane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// viewList renders the active list screen
func (a *App) viewList() string {
	if a.err != "" {
		return a.renderPageError()
	}
	if a.list == nil {
		return ""
	}

	body := a.list.View()
	if a.loading {
		body = a.spinner.View() + " Loading...\n\n" + body
	}
	if a.confirm != nil {
		prompt := fmt.Sprintf("Delete %q? %s / %s", a.confirm.Title,
			styles.KeyStyle.Render("y"), styles.KeyStyle.Render("n"))
		body += "\n\n" + styles.StatusWarning.Render(icons.Warning.String()+" ") + prompt
	}
	return styles.ActivePanel.Width(a.listWidth() + panelPadding - 2).Render(body)
}

func (a *App) renderPageError() string {
	msg := styles.ErrorText.Render(icons.Critical.String() + " Error: " + a.err)
	hint := styles.Help.Render("Press r to retry or b to go back")
	return styles.Panel.Render(msg + "\n\n" + hint)
}

// viewModal renders the chooser or the wizard over the page
func (a *App) viewModal() string {
	var body string
	switch {
	case a.wizard != nil:
		body = a.wizard.View()
	case a.menu != nil:
		body = a.menu.View()
	}
	box := styles.Modal.Width(a.modalWidth()).Render(body)
	if a.width == 0 || a.height == 0 {
		return box
	}
	return lipgloss.Place(a.frameWidth(), a.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderToast() string {
	if a.toast.level == workflow.LevelError {
		return styles.ToastError.Render(icons.Critical.String() + " " + a.toast.message)
	}
	return styles.ToastSuccess.Render(icons.CheckOK.String() + " " + a.toast.message)
}

// frameWidth guards against zero/small width before WindowSizeMsg is received
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// dashboardWidth calculates the width for the dashboard pane
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth {
		return max(a.width-panelPadding, 0)
	}
	return (a.width - panelPadding) / 2
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	if a.width < minTerminalWidth {
		return a.dashboardWidth()
	}
	return a.width - a.dashboardWidth() - 4
}

// listWidth is the inner width of a list panel
func (a *App) listWidth() int {
	return a.frameWidth() - panelPadding - 2
}

// listHeight leaves room for the panel border, padding and list title
func (a *App) listHeight() int {
	return max(a.contentHeight()-4, 3)
}

// modalWidth keeps the modal readable on wide terminals
func (a *App) modalWidth() int {
	return min(max(a.width-panelPadding*2, 60), 100)
}

// contentHeight calculates the height available for page content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - ActivePanel border+padding: 4 lines (top border, top padding, bottom padding, bottom border)
	// - Newline before footer: 1 line
	// - Footer: 1 line
	// Total: 8 lines overhead
	return max(a.height-8, 0)
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("IMO Works DMS"))

	rightText := ""
	if name := a.userName(); name != "" && a.screen != ScreenSignIn {
		rightText = " " + contextStyle.Render(icons.User.String()+" "+name) + " "
	}

	fillWidth := max(width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText), 0) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

func (a *App) userName() string {
	if a.dashboard != nil && a.dashboard.Summary() != nil && a.dashboard.Summary().UserName != "" {
		return a.dashboard.Summary().UserName
	}
	if a.session != nil {
		return a.session.UserName
	}
	return ""
}

// shortcuts lists the keys available on the current screen
func (a *App) shortcuts() []string {
	switch {
	case a.creating && a.wizard != nil:
		return []string{"Enter Next", "Esc Back", "ctrl+c Quit"}
	case a.creating:
		return []string{"↑↓ Navigate", "Enter Select", "Esc Close"}
	case a.confirm != nil:
		return []string{"y Delete", "n Cancel"}
	}

	switch a.screen {
	case ScreenSignIn:
		return []string{"Tab Next", "Enter Sign in", "ctrl+c Quit"}
	case ScreenHome:
		return []string{"p Projects", "f Files", "n New", "r Refresh", "l Logout", "q Quit"}
	case ScreenRecentFiles:
		return []string{"↑↓ Navigate", "Enter Open", "x Delete", "n New", "b Back", "q Quit"}
	case ScreenFileItems:
		return []string{"↑↓ Navigate", "Enter Open", "b Back", "q Quit"}
	default:
		return []string{"↑↓ Navigate", "Enter Open", "n New", "r Refresh", "b Back", "q Quit"}
	}
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		key, label, ok := strings.Cut(s, " ")
		if !ok {
			styled = append(styled, s)
			continue
		}
		styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenSignIn && !a.creating {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	fillWidth := max(width-4-lipgloss.Width(leftPlainText)-lipgloss.Width(rightPlainText), 0) // -4 for ╰─ and ─╯
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
