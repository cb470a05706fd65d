package ui

import (
	"context"
	"errors"

	"github.com/FlowFeed/feed-client/internal/api"
	"github.com/FlowFeed/feed-client/internal/config"
	"github.com/FlowFeed/feed-client/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type Deps struct {
	Logger  *zap.Logger
	Config  *config.Config
	Session *session.Store
	API     *api.Client
}

type view int

const (
	viewChecking view = iota
	viewLogin
	viewSignup
	viewOTP
	viewFeed
	viewMyPosts
	viewCompose
	viewProfile
)

// App is the root model. It owns the bootstrap sequence: nothing but a
// spinner renders until the stored-credential check settles, then either the
// auth views or the main views become reachable, never both.
type App struct {
	deps Deps

	view   view
	width  int
	height int
	status string
	spin   spinner.Model

	login    *loginModel
	signup   *signupModel
	otp      *otpModel
	feed     *postList
	myPosts  *postList
	compose  *composeModel
	profile  *profileModel
	comments *commentsModel
}

func NewApp(deps Deps) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &App{
		deps:  deps,
		view:  viewChecking,
		spin:  s,
		login: newLoginModel(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, checkAuthCmd(a.deps.Session))
}

func checkAuthCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		identity, err := sess.Reauthenticate(context.Background())
		return authCheckedMsg{identity: identity, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case spinner.TickMsg:
		if a.view == viewChecking {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case refreshMsg:
		return a, nil

	case authCheckedMsg:
		if msg.err != nil {
			a.view = viewLogin
			if !errors.Is(msg.err, session.ErrNoCredential) {
				a.status = msg.err.Error()
			}
			return a, a.login.form.Init()
		}
		return a, a.enterMain()

	case loginDoneMsg:
		a.login.submitting = false
		if msg.err != nil {
			a.login.fail(msg.err.Error())
			return a, a.login.form.Init()
		}
		return a, a.enterMain()

	case registerDoneMsg:
		a.signup.submitting = false
		if msg.err != nil {
			a.signup.fail(msg.err.Error())
			return a, a.signup.form.Init()
		}
		a.otp = newOTPModel(a.signup.email, a.signup.password)
		a.otp.status = msg.msg
		a.view = viewOTP
		return a, a.otp.form.Init()

	case otpDoneMsg:
		a.otp.submitting = false
		if msg.err != nil {
			a.otp.fail(msg.err.Error())
			return a, a.otp.form.Init()
		}
		return a, a.enterMain()
	}

	return a.updateView(msg)
}

// enterMain builds the protected views. Reached only from a settled
// authentication, so the session identity is populated here.
func (a *App) enterMain() tea.Cmd {
	deps := a.deps

	a.feed = newPostList("feed", deps, deps.API.FetchFeed, false)
	a.myPosts = newPostList("mine", deps, deps.API.FetchMyPosts, true)
	a.compose = newComposeModel()
	identity, _ := deps.Session.Identity()
	a.profile = newProfileModel(identity)
	a.comments = nil
	a.status = ""
	a.view = viewFeed

	return tea.Batch(a.feed.loadNext(), a.compose.form.Init(), a.profile.form.Init())
}

func (a *App) leaveMain() {
	a.deps.Session.Logout()
	a.feed = nil
	a.myPosts = nil
	a.compose = nil
	a.profile = nil
	a.comments = nil
	a.login = newLoginModel()
	a.status = "Signed out"
	a.view = viewLogin
}

func (a *App) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.view {
	case viewChecking:
		return a, nil
	case viewLogin:
		return a.updateLogin(msg)
	case viewSignup:
		return a.updateSignup(msg)
	case viewOTP:
		return a.updateOTP(msg)
	default:
		return a.updateMain(msg)
	}
}

func (a *App) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The comment popup captures everything while open.
	if a.comments != nil {
		return a.updateComments(msg)
	}

	// Settled async work lands wherever the user is now, not where they
	// started it, so route results by type before routing keys by view.
	switch msg := msg.(type) {
	case postCreatedMsg:
		return a.updateCompose(msg)
	case profileSavedMsg:
		return a.updateProfile(msg)
	case pageLoadedMsg:
		if list := a.listFor(msg.collection); list != nil {
			return a.updatePostList(list, msg)
		}
		return a, nil
	case mutationSettledMsg:
		if list := a.listFor(msg.collection); list != nil {
			return a.updatePostList(list, msg)
		}
		return a, nil
	case postDeletedMsg:
		return a.updatePostList(a.myPosts, msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "1":
			a.view = viewFeed
			return a, nil
		case "2":
			a.view = viewMyPosts
			if a.myPosts.loader.Len() == 0 {
				return a, a.myPosts.loadNext()
			}
			return a, nil
		case "3":
			a.view = viewCompose
			return a, nil
		case "4":
			a.view = viewProfile
			return a, nil
		case "Q":
			a.leaveMain()
			return a, nil
		case "q":
			return a, tea.Quit
		}
	}

	switch a.view {
	case viewFeed:
		return a.updatePostList(a.feed, msg)
	case viewMyPosts:
		return a.updatePostList(a.myPosts, msg)
	case viewCompose:
		return a.updateCompose(msg)
	case viewProfile:
		return a.updateProfile(msg)
	}

	return a, nil
}

func (a *App) listFor(collection string) *postList {
	switch {
	case a.feed != nil && a.feed.name == collection:
		return a.feed
	case a.myPosts != nil && a.myPosts.name == collection:
		return a.myPosts
	}
	return nil
}

func (a *App) View() string {
	switch a.view {
	case viewChecking:
		return "\n  " + a.spin.View() + " Checking session...\n"
	case viewLogin:
		return a.login.view(a.status)
	case viewSignup:
		return a.signup.view(a.status)
	case viewOTP:
		return a.otp.view()
	}

	if a.comments != nil {
		return a.comments.view(a.height)
	}

	header := a.mainHeader()
	var body string
	switch a.view {
	case viewFeed:
		body = a.feed.view(a.height - 4)
	case viewMyPosts:
		body = a.myPosts.view(a.height - 4)
	case viewCompose:
		body = a.compose.view()
	case viewProfile:
		body = a.profile.view()
	}

	help := helpStyle.Render("1 feed · 2 my posts · 3 new post · 4 profile · Q sign out · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (a *App) mainHeader() string {
	tabs := []struct {
		label string
		v     view
	}{
		{"Feed", viewFeed},
		{"My Posts", viewMyPosts},
		{"New Post", viewCompose},
		{"Profile", viewProfile},
	}

	rendered := make([]string, 0, len(tabs)+1)
	rendered = append(rendered, titleStyle.Render("flowfeed"))
	for _, tab := range tabs {
		if tab.v == a.view {
			rendered = append(rendered, activeTabStyle.Render(tab.label))
		} else {
			rendered = append(rendered, tabStyle.Render(tab.label))
		}
	}

	if identity, ok := a.deps.Session.Identity(); ok {
		rendered = append(rendered, dimStyle.Render("@"+identity.Username))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
