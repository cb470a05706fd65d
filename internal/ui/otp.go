package ui

import (
	"context"
	"strings"

	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// otpModel finishes the signup flow: the server has mailed a code, and
// verifying it both creates the account and signs the user in.
type otpModel struct {
	form       *huh.Form
	email      string
	password   string
	code       string
	status     string
	submitting bool
}

func newOTPModel(email string, password string) *otpModel {
	m := &otpModel{email: email, password: password}
	m.rebuild()
	return m
}

func (m *otpModel) rebuild() {
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Verification code").CharLimit(6).Value(&m.code),
	))
}

func (m *otpModel) fail(status string) {
	m.status = status
	m.submitting = false
	m.rebuild()
}

func (m *otpModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("flowfeed — verify email"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Enter the code sent to " + m.email))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n" + dimStyle.Render("Verifying..."))
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	b.WriteString("\n" + helpStyle.Render("enter submit · ctrl+c quit"))
	return b.String()
}

func (a *App) updateOTP(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.otp.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.otp.form = f
	}

	if a.otp.form.State == huh.StateCompleted && !a.otp.submitting {
		req := dto.VerifyOTPRequest{
			Email:    a.otp.email,
			OTP:      strings.TrimSpace(a.otp.code),
			Password: a.otp.password,
		}
		if problem := validateInput(req); problem != "" {
			a.otp.fail(problem)
			return a, a.otp.form.Init()
		}

		a.otp.submitting = true
		a.otp.status = ""
		return a, tea.Batch(cmd, verifyOTPCmd(a.deps.Session, req))
	}

	return a, cmd
}

func verifyOTPCmd(sess *session.Store, req dto.VerifyOTPRequest) tea.Cmd {
	return func() tea.Msg {
		identity, err := sess.VerifyOTP(context.Background(), req)
		return otpDoneMsg{identity: identity, err: err}
	}
}
