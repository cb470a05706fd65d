package ui

import (
	"context"
	"strings"

	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type loginModel struct {
	form       *huh.Form
	email      string
	password   string
	status     string
	submitting bool
}

func newLoginModel() *loginModel {
	m := &loginModel{}
	m.rebuild()
	return m
}

func (m *loginModel) rebuild() {
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&m.email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.password),
	))
}

func (m *loginModel) fail(status string) {
	m.status = status
	m.submitting = false
	m.rebuild()
}

func (m *loginModel) view(bootStatus string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("flowfeed — sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n" + dimStyle.Render("Signing in..."))
	}
	status := m.status
	if status == "" {
		status = bootStatus
	}
	if status != "" {
		b.WriteString("\n" + statusStyle.Render(status))
	}
	b.WriteString("\n" + helpStyle.Render("enter submit · ctrl+s sign up · ctrl+c quit"))
	return b.String()
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+s" {
		a.signup = newSignupModel()
		a.view = viewSignup
		a.status = ""
		return a, a.signup.form.Init()
	}

	form, cmd := a.login.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.login.form = f
	}

	if a.login.form.State == huh.StateCompleted && !a.login.submitting {
		req := dto.LoginRequest{
			Email:    strings.TrimSpace(a.login.email),
			Password: a.login.password,
		}
		if problem := validateInput(req); problem != "" {
			a.login.fail(problem)
			return a, a.login.form.Init()
		}

		a.login.submitting = true
		a.login.status = ""
		return a, tea.Batch(cmd, loginCmd(a.deps.Session, req))
	}

	return a, cmd
}

func loginCmd(sess *session.Store, req dto.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		identity, err := sess.Login(context.Background(), req.Email, req.Password)
		return loginDoneMsg{identity: identity, err: err}
	}
}
