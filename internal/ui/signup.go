package ui

import (
	"context"
	"strings"

	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type signupModel struct {
	form       *huh.Form
	email      string
	username   string
	fullname   string
	password   string
	gender     string
	status     string
	submitting bool
}

func newSignupModel() *signupModel {
	m := &signupModel{gender: "other"}
	m.rebuild()
	return m
}

func (m *signupModel) rebuild() {
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&m.email),
		huh.NewInput().Title("Username").Value(&m.username),
		huh.NewInput().Title("Full name").Value(&m.fullname),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.password),
		huh.NewSelect[string]().
			Title("Gender").
			Options(
				huh.NewOption("Female", "female"),
				huh.NewOption("Male", "male"),
				huh.NewOption("Other", "other"),
			).
			Value(&m.gender),
	))
}

func (m *signupModel) fail(status string) {
	m.status = status
	m.submitting = false
	m.rebuild()
}

func (m *signupModel) view(bootStatus string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("flowfeed — create account"))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n" + dimStyle.Render("Creating account..."))
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	} else if bootStatus != "" {
		b.WriteString("\n" + statusStyle.Render(bootStatus))
	}
	b.WriteString("\n" + helpStyle.Render("enter submit · ctrl+l back to sign in · ctrl+c quit"))
	return b.String()
}

func (a *App) updateSignup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+l" {
		a.view = viewLogin
		a.status = ""
		a.login = newLoginModel()
		return a, a.login.form.Init()
	}

	form, cmd := a.signup.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.signup.form = f
	}

	if a.signup.form.State == huh.StateCompleted && !a.signup.submitting {
		req := dto.RegisterRequest{
			Email:    strings.TrimSpace(a.signup.email),
			Username: strings.TrimSpace(a.signup.username),
			FullName: strings.TrimSpace(a.signup.fullname),
			Password: a.signup.password,
			Gender:   a.signup.gender,
		}
		if problem := validateInput(req); problem != "" {
			a.signup.fail(problem)
			return a, a.signup.form.Init()
		}

		a.signup.submitting = true
		a.signup.status = ""
		return a, tea.Batch(cmd, registerCmd(a.deps.Session, req))
	}

	return a, cmd
}

func registerCmd(sess *session.Store, req dto.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		msg, err := sess.Register(context.Background(), req)
		return registerDoneMsg{msg: msg, err: err}
	}
}
