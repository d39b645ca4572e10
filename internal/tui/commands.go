// ABOUTME: Background commands that talk to the backend for the TUI
// ABOUTME: Loads screens, signs in, deletes documents and bridges controller events

package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/opener"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/session"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/browser"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/dashboard"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

type signedInMsg struct {
	session *session.Session
	err     error
}

type homeLoadedMsg struct {
	summary *dashboard.Summary
	err     error
}

type projectsLoadedMsg struct {
	projects []client.Project
	err      error
}

type projectDocumentsLoadedMsg struct {
	projectID string
	documents []client.Document
	err       error
}

type recentFilesLoadedMsg struct {
	documents []client.Document
	err       error
}

type deletedMsg struct {
	id  string
	err error
}

type openedMsg struct {
	url string
	err error
}

// notificationMsg carries a controller notification onto the UI loop
type notificationMsg workflow.Notification

// refreshMsg asks for the current screen to be reloaded
type refreshMsg struct{}

type toastExpiredMsg struct {
	id int
}

// openURL is replaced in tests
var openURL = opener.Open

// openMessage maps an open failure to its alert text
var openMessage = opener.Message

// eventNotifier forwards controller notifications to the UI loop
func eventNotifier(events chan<- tea.Msg, log *slog.Logger) workflow.Notifier {
	return workflow.NotifierFunc(func(n workflow.Notification) {
		if !post(events, notificationMsg(n)) {
			log.Debug("event queue full, dropped notification", "message", n.Message)
		}
	})
}

// post enqueues msg without blocking and reports whether it was queued
func post(events chan<- tea.Msg, msg tea.Msg) bool {
	select {
	case events <- msg:
		return true
	default:
		return false
	}
}

func (a *App) signIn(username, password string) tea.Cmd {
	ctx, api, store, log := a.ctx, a.api, a.sessions, a.log
	return func() tea.Msg {
		tok, err := api.SignIn(ctx, username, password)
		if err != nil {
			return signedInMsg{err: err}
		}
		s := &session.Session{Token: tok.AccessToken, UserName: username}
		if user, err := api.WithToken(s.Token).Me(ctx); err == nil && user.DisplayName() != "" {
			s.UserName = user.DisplayName()
		} else if err != nil {
			log.Debug("fetching profile failed", "error", err)
		}
		if store != nil {
			if err := store.Save(s); err != nil {
				return signedInMsg{err: err}
			}
		}
		return signedInMsg{session: s}
	}
}

func (a *App) handleSignedIn(msg signedInMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.Warn("sign in failed", "error", msg.err)
		return a, a.signin.SetError(msg.err.Error())
	}
	a.session = msg.session
	a.ctrl = nil
	a.signin = nil
	a.screen = ScreenHome
	a.dashboard = dashboard.New(nil, a.dashboardWidth(), a.contentHeight())
	return a, a.startLoading(a.loadHome())
}

// loadHome fetches the home screen lists concurrently
func (a *App) loadHome() tea.Cmd {
	if a.session == nil {
		return nil
	}
	ctx, api, limit := a.ctx, a.authed(), a.cfg.RecentLimit
	userName := a.session.UserName
	return func() tea.Msg {
		summary := &dashboard.Summary{UserName: userName}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			projects, err := api.RecentProjects(gctx, limit)
			summary.RecentProjects = projects
			return err
		})
		g.Go(func() error {
			projects, err := api.ListProjects(gctx)
			summary.TotalProjects = len(projects)
			return err
		})
		g.Go(func() error {
			docs, err := api.ListDocuments(gctx)
			summary.TotalDocuments = len(docs)
			return err
		})
		g.Go(func() error {
			docs, err := api.RecentDocuments(gctx, limit)
			summary.RecentDocuments = docs
			return err
		})
		if err := g.Wait(); err != nil {
			return homeLoadedMsg{err: err}
		}

		if user, err := api.Me(ctx); err == nil && user.DisplayName() != "" {
			summary.UserName = user.DisplayName()
		}
		return homeLoadedMsg{summary: summary}
	}
}

func (a *App) handleHomeLoaded(msg homeLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		if cmd, ok := a.sessionFailed(msg.err); ok {
			return a, cmd
		}
		a.log.Warn("loading home failed", "error", msg.err)
		a.err = msg.err.Error()
		return a, nil
	}
	a.err = ""
	a.lastUpdate = time.Now()
	if a.dashboard == nil {
		a.dashboard = dashboard.New(msg.summary, a.dashboardWidth(), a.contentHeight())
	} else {
		a.dashboard.Update(msg.summary)
	}
	return a, nil
}

func (a *App) loadProjects() tea.Cmd {
	ctx, api := a.ctx, a.authed()
	return func() tea.Msg {
		projects, err := api.ListProjects(ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (a *App) handleProjectsLoaded(msg projectsLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		if cmd, ok := a.sessionFailed(msg.err); ok {
			return a, cmd
		}
		a.log.Warn("loading projects failed", "error", msg.err)
		a.err = msg.err.Error()
		return a, nil
	}
	a.projects = msg.projects
	a.lastUpdate = time.Now()
	if a.screen == ScreenProjects {
		a.list = a.sized(browser.Projects(a.projects))
	}
	return a, nil
}

// loadProjectDocuments uses the unauthenticated endpoint
func (a *App) loadProjectDocuments(p client.Project) tea.Cmd {
	ctx, api := a.ctx, a.api
	return func() tea.Msg {
		docs, err := api.ProjectDocuments(ctx, p.ID)
		return projectDocumentsLoadedMsg{projectID: p.ID, documents: docs, err: err}
	}
}

func (a *App) handleProjectDocumentsLoaded(msg projectDocumentsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.projectID != a.project.ID {
		return a, nil
	}
	a.loading = false
	if msg.err != nil {
		a.log.Warn("loading project documents failed", "project", msg.projectID, "error", msg.err)
		a.err = msg.err.Error()
		return a, nil
	}
	a.documents = msg.documents
	a.lastUpdate = time.Now()
	if a.screen == ScreenProjectDocuments {
		a.list = a.sized(browser.Documents(a.project.ProjectName, browser.NoDocuments, a.documents))
	}
	return a, nil
}

func (a *App) loadRecentFiles() tea.Cmd {
	ctx, api, limit := a.ctx, a.authed(), a.cfg.RecentFilesLimit
	return func() tea.Msg {
		docs, err := api.RecentDocuments(ctx, limit)
		return recentFilesLoadedMsg{documents: docs, err: err}
	}
}

func (a *App) handleRecentFilesLoaded(msg recentFilesLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		if cmd, ok := a.sessionFailed(msg.err); ok {
			return a, cmd
		}
		a.log.Warn("loading recent files failed", "error", msg.err)
		a.err = msg.err.Error()
		return a, nil
	}
	a.documents = msg.documents
	a.lastUpdate = time.Now()
	if a.screen == ScreenRecentFiles {
		a.list = a.sized(browser.Documents("Recent Files", browser.NoRecent, a.documents))
	}
	return a, nil
}

func (a *App) deleteDocument(id string) tea.Cmd {
	ctx, api := a.ctx, a.authed()
	return func() tea.Msg {
		return deletedMsg{id: id, err: api.DeleteDocument(ctx, id)}
	}
}

func (a *App) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		if cmd, ok := a.sessionFailed(msg.err); ok {
			return a, cmd
		}
		a.log.Warn("deleting document failed", "id", msg.id, "error", msg.err)
		return a, a.showToast(workflow.LevelError, msgDeleteFail)
	}

	kept := a.documents[:0:0]
	for _, d := range a.documents {
		if d.ID != msg.id {
			kept = append(kept, d)
		}
	}
	a.documents = kept
	if a.list != nil && a.screen == ScreenRecentFiles {
		a.list.Remove(msg.id)
	}
	return a, a.showToast(workflow.LevelSuccess, msgDeleted)
}

func openFile(url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: openURL(url)}
	}
}

