// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, the creation modal, toasts and session redirects

package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/config"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/filepick"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/session"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/browser"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/dashboard"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/menu"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/signin"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/wizard"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenSignIn Screen = iota
	ScreenHome
	ScreenProjects
	ScreenProjectDocuments
	ScreenRecentFiles
	ScreenFileItems
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

const (
	toastTimeout  = 4 * time.Second
	eventBuffer   = 16
	msgSessionEnd = "Your session has expired. Please sign in again."
	msgDeleted    = "Document deleted successfully."
	msgDeleteFail = "Failed to delete the document."
)

// Options configures the TUI
type Options struct {
	Context  context.Context
	Config   *config.Config
	Sessions *session.Store
	Recent   *filepick.Recent
	Logger   *slog.Logger
	// API overrides the client built from Config
	API *client.Client
}

// toast is a transient notification shown above the footer
type toast struct {
	id      int
	level   workflow.Level
	message string
}

// App is the root model for the TUI
type App struct {
	ctx      context.Context
	cfg      *config.Config
	sessions *session.Store
	recent   *filepick.Recent
	log      *slog.Logger
	api      *client.Client
	session  *session.Session

	screen     Screen
	width      int
	height     int
	err        string
	loading    bool
	spinner    spinner.Model
	lastUpdate time.Time

	// Child models
	signin      *signin.Model
	dashboard   *dashboard.Dashboard
	list        *browser.List
	projects    []client.Project
	documents   []client.Document
	project     client.Project
	document    client.Document
	fileItemsOf Screen
	confirm     *client.Document

	// Creation modal
	creating bool
	ctrl     *workflow.Controller
	menu     *menu.Menu
	wizard   *wizard.Wizard

	// events carries notifier and refresh messages from controller goroutines
	events  chan tea.Msg
	toast   *toast
	toastID int
}

// New creates a new TUI application. A stored, unexpired session opens the
// home screen; otherwise the sign-in screen.
func New(opts Options) *App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{
			APIURL:           config.DefaultAPIURL,
			RequestTimeout:   30,
			RecentLimit:      5,
			RecentFilesLimit: 500,
		}
	}
	api := opts.API
	if api == nil {
		api = client.New(cfg.APIURL,
			client.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
			client.WithLogger(log),
		)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		sessions: opts.Sessions,
		recent:   opts.Recent,
		log:      log,
		api:      api,
		spinner:  sp,
		events:   make(chan tea.Msg, eventBuffer),
	}

	if s := a.loadSession(); s != nil {
		a.session = s
		a.screen = ScreenHome
		a.dashboard = dashboard.New(nil, a.dashboardWidth(), a.contentHeight())
	} else {
		a.screen = ScreenSignIn
		a.signin = signin.New("")
	}
	return a
}

// loadSession returns the stored session when it is usable
func (a *App) loadSession() *session.Session {
	if a.sessions == nil {
		return nil
	}
	s, err := a.sessions.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			a.log.Warn("loading session failed", "error", err)
		}
		return nil
	}
	if s.Expired(time.Now()) {
		a.log.Info("stored session expired", "path", a.sessions.Path())
		return nil
	}
	return s
}

// Screen returns the active screen
func (a *App) Screen() Screen {
	return a.screen
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{listen(a.events)}
	switch a.screen {
	case ScreenSignIn:
		cmds = append(cmds, a.signin.Init())
	case ScreenHome:
		cmds = append(cmds, a.startLoading(a.loadHome()))
	}
	return tea.Batch(cmds...)
}

// listen waits for the next controller event
func listen(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.dashboardWidth(), a.contentHeight())
		}
		if a.list != nil {
			a.list.SetSize(a.listWidth(), a.listHeight())
		}
		if a.signin != nil {
			a.signin.SetWidth(a.width)
		}
		if a.wizard != nil {
			a.wizard.SetWidth(a.modalWidth())
		}
		return a, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		// children run their own spinners
		cmds = append(cmds, a.forwardToChild(msg))
		return a, tea.Batch(cmds...)

	case notificationMsg:
		return a, tea.Batch(listen(a.events), a.showToast(msg.Level, msg.Message))

	case refreshMsg:
		return a, tea.Batch(listen(a.events), a.refresh())

	case toastExpiredMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return a, nil

	case signin.SubmitMsg:
		return a, a.signIn(msg.Username, msg.Password)

	case signedInMsg:
		return a.handleSignedIn(msg)

	case homeLoadedMsg:
		return a.handleHomeLoaded(msg)

	case projectsLoadedMsg:
		return a.handleProjectsLoaded(msg)

	case projectDocumentsLoadedMsg:
		return a.handleProjectDocumentsLoaded(msg)

	case recentFilesLoadedMsg:
		return a.handleRecentFilesLoaded(msg)

	case deletedMsg:
		return a.handleDeleted(msg)

	case openedMsg:
		if msg.err != nil {
			a.log.Warn("opening file failed", "url", msg.url, "error", msg.err)
			return a, a.showToast(workflow.LevelError, openMessage(msg.err))
		}
		return a, nil

	case menu.ChosenMsg:
		return a.handleModeChosen(msg)

	case menu.CancelledMsg:
		a.closeModal()
		return a, nil

	case wizard.CancelledMsg:
		if a.ctrl == nil || a.ctrl.Back() != nil {
			return a, nil
		}
		a.wizard = nil
		a.menu = menu.New()
		return a, a.menu.Init()

	case wizard.CompleteMsg:
		a.rememberFiles(msg.Files)
		a.closeModal()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.creating {
			return a, a.forwardToChild(msg)
		}
		return a.handleKey(msg)
	}

	return a, a.forwardToChild(msg)
}

// forwardToChild routes a message to the focused child model
func (a *App) forwardToChild(msg tea.Msg) tea.Cmd {
	switch {
	case a.creating && a.wizard != nil:
		model, cmd := a.wizard.Update(msg)
		a.wizard = model.(*wizard.Wizard)
		return cmd
	case a.creating && a.menu != nil:
		model, cmd := a.menu.Update(msg)
		a.menu = model.(*menu.Menu)
		return cmd
	case a.screen == ScreenSignIn && a.signin != nil:
		model, cmd := a.signin.Update(msg)
		a.signin = model.(*signin.Model)
		return cmd
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenSignIn {
		return a, a.forwardToChild(msg)
	}

	if a.confirm != nil {
		return a.handleConfirm(msg)
	}

	key := msg.String()
	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		a.err = ""
		return a, a.refresh()
	case "n":
		return a, a.openModal()
	case "l":
		return a, a.logout()
	}

	if a.loading {
		return a, nil
	}

	switch a.screen {
	case ScreenHome:
		switch key {
		case "p":
			return a, a.showProjects()
		case "f":
			return a, a.showRecentFiles()
		}

	case ScreenProjects:
		return a, a.updateList(key, a.openProject, ScreenHome)

	case ScreenProjectDocuments:
		return a, a.updateList(key, a.openDocument, ScreenProjects)

	case ScreenRecentFiles:
		if key == "x" {
			a.askDelete()
			return a, nil
		}
		return a, a.updateList(key, a.openDocument, ScreenHome)

	case ScreenFileItems:
		return a, a.updateList(key, a.openFile, a.fileItemsOf)
	}

	return a, nil
}

// updateList handles the keys shared by every list screen
func (a *App) updateList(key string, open func() tea.Cmd, parent Screen) tea.Cmd {
	switch key {
	case "up", "k":
		if a.list != nil {
			a.list.Up()
		}
	case "down", "j":
		if a.list != nil {
			a.list.Down()
		}
	case "enter":
		if a.list != nil && a.list.Len() > 0 {
			return open()
		}
	case "esc", "b":
		return a.navigate(parent)
	}
	return nil
}

// navigate returns to a parent screen
func (a *App) navigate(s Screen) tea.Cmd {
	a.err = ""
	a.confirm = nil
	switch s {
	case ScreenHome:
		a.screen = ScreenHome
		a.list = nil
		if a.dashboard == nil || a.dashboard.Summary() == nil {
			return a.refresh()
		}
	case ScreenProjects:
		return a.showProjects()
	case ScreenProjectDocuments:
		a.screen = ScreenProjectDocuments
		a.list = a.sized(browser.Documents(a.project.ProjectName, browser.NoDocuments, a.documents))
	case ScreenRecentFiles:
		a.screen = ScreenRecentFiles
		a.list = a.sized(browser.Documents("Recent Files", browser.NoRecent, a.documents))
	}
	return nil
}

func (a *App) showProjects() tea.Cmd {
	a.screen = ScreenProjects
	a.err = ""
	a.list = a.sized(browser.Projects(a.projects))
	return a.startLoading(a.loadProjects())
}

func (a *App) showRecentFiles() tea.Cmd {
	a.screen = ScreenRecentFiles
	a.err = ""
	a.documents = nil
	a.list = a.sized(browser.Documents("Recent Files", browser.NoRecent, nil))
	return a.startLoading(a.loadRecentFiles())
}

func (a *App) openProject() tea.Cmd {
	item, ok := a.list.Selected()
	if !ok {
		return nil
	}
	for _, p := range a.projects {
		if p.ID == item.ID {
			a.project = p
			a.screen = ScreenProjectDocuments
			a.documents = nil
			a.list = a.sized(browser.Documents(p.ProjectName, browser.NoDocuments, nil))
			return a.startLoading(a.loadProjectDocuments(p))
		}
	}
	a.err = "Invalid project selection"
	return nil
}

func (a *App) openDocument() tea.Cmd {
	item, ok := a.list.Selected()
	if !ok {
		return nil
	}
	for _, d := range a.documents {
		if d.ID == item.ID {
			a.document = d
			a.fileItemsOf = a.screen
			a.screen = ScreenFileItems
			a.list = a.sized(browser.FileItems(d.Title, d.FileItems))
			return nil
		}
	}
	a.err = "Invalid document selection"
	return nil
}

func (a *App) openFile() tea.Cmd {
	item, ok := a.list.Selected()
	if !ok {
		return nil
	}
	return openFile(item.ID)
}

// askDelete starts the delete confirmation for the selected recent file
func (a *App) askDelete() {
	if a.list == nil {
		return
	}
	item, ok := a.list.Selected()
	if !ok {
		return
	}
	for _, d := range a.documents {
		if d.ID == item.ID {
			doc := d
			a.confirm = &doc
			return
		}
	}
}

func (a *App) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc := a.confirm
	a.confirm = nil
	switch msg.String() {
	case "y", "Y":
		return a, a.startLoading(a.deleteDocument(doc.ID))
	}
	return a, nil
}

// openModal shows the creation chooser
func (a *App) openModal() tea.Cmd {
	if a.session == nil {
		return a.toSignIn(msgSessionEnd)
	}
	if a.ctrl == nil {
		a.ctrl = a.newController()
	}
	a.creating = true
	a.wizard = nil
	a.menu = menu.New()
	return a.menu.Init()
}

// newController binds a controller to the current session
func (a *App) newController() *workflow.Controller {
	events, log := a.events, a.log
	return workflow.New(a.authed(), eventNotifier(events, log),
		workflow.WithLogger(log),
		workflow.WithOnSuccess(func(context.Context) error {
			if !post(events, refreshMsg{}) {
				log.Debug("event queue full, dropped refresh")
			}
			return nil
		}),
	)
}

func (a *App) handleModeChosen(msg menu.ChosenMsg) (tea.Model, tea.Cmd) {
	if err := a.ctrl.Choose(msg.Kind); err != nil {
		a.log.Warn("choosing mode failed", "kind", msg.Kind.String(), "error", err)
		a.menu = menu.New()
		return a, a.menu.Init()
	}
	a.menu = nil
	a.wizard = wizard.New(a.ctx, a.ctrl, a.recentFiles())
	a.wizard.SetWidth(a.modalWidth())
	return a, a.wizard.Init()
}

// closeModal resets the controller and hides the modal
func (a *App) closeModal() {
	if a.ctrl != nil {
		a.ctrl.Dismiss()
	}
	a.creating = false
	a.menu = nil
	a.wizard = nil
}

func (a *App) recentFiles() []string {
	if a.recent == nil {
		return nil
	}
	files, err := a.recent.Load()
	if err != nil {
		a.log.Warn("loading recent attachments failed", "error", err)
	}
	return files
}

func (a *App) rememberFiles(files []client.File) {
	if a.recent == nil || len(files) == 0 {
		return
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if err := a.recent.Add(paths...); err != nil {
		a.log.Warn("saving recent attachments failed", "error", err)
	}
}

// toSignIn drops the session and shows the sign-in screen with msg
func (a *App) toSignIn(msg string) tea.Cmd {
	lastUser := ""
	if a.session != nil {
		lastUser = a.session.UserName
	}
	a.closeModal()
	a.session = nil
	a.ctrl = nil
	a.list = nil
	a.dashboard = nil
	a.confirm = nil
	a.loading = false
	a.err = ""
	a.screen = ScreenSignIn
	a.signin = signin.New(lastUser)
	a.signin.SetWidth(a.width)
	if msg == "" {
		return a.signin.Init()
	}
	return a.signin.SetError(msg)
}

func (a *App) logout() tea.Cmd {
	if a.sessions != nil {
		if err := a.sessions.Clear(); err != nil {
			a.log.Warn("clearing session failed", "error", err)
		}
	}
	return a.toSignIn("")
}

// sessionFailed redirects to sign-in when err means the token is unusable
func (a *App) sessionFailed(err error) (tea.Cmd, bool) {
	if !errors.Is(err, client.ErrUnauthorized) && !errors.Is(err, client.ErrNoSession) {
		return nil, false
	}
	if a.sessions != nil {
		if cerr := a.sessions.Clear(); cerr != nil {
			a.log.Warn("clearing session failed", "error", cerr)
		}
	}
	return a.toSignIn(msgSessionEnd), true
}

// authed returns a client carrying the session token
func (a *App) authed() *client.Client {
	if a.session == nil {
		return a.api
	}
	return a.api.WithToken(a.session.Token)
}

// startLoading marks the page busy and runs cmd
func (a *App) startLoading(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	a.loading = true
	return tea.Batch(a.spinner.Tick, cmd)
}

// refresh reloads the data behind the current screen
func (a *App) refresh() tea.Cmd {
	switch a.screen {
	case ScreenHome:
		return a.startLoading(a.loadHome())
	case ScreenProjects:
		return a.startLoading(a.loadProjects())
	case ScreenProjectDocuments:
		return a.startLoading(a.loadProjectDocuments(a.project))
	case ScreenRecentFiles:
		return a.startLoading(a.loadRecentFiles())
	}
	return nil
}

func (a *App) showToast(level workflow.Level, message string) tea.Cmd {
	a.toastID++
	id := a.toastID
	a.toast = &toast{id: id, level: level, message: message}
	return tea.Tick(toastTimeout, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// sized applies the current layout to a fresh list
func (a *App) sized(l *browser.List) *browser.List {
	l.SetSize(a.listWidth(), a.listHeight())
	return l
}
