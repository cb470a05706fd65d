package ui

import (
	"context"
	"os"
	"strings"

	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type profileModel struct {
	form       *huh.Form
	identity   model.Identity
	name       string
	mobileNum  string
	avatarPath string
	status     string
	submitting bool
}

func newProfileModel(identity model.Identity) *profileModel {
	m := &profileModel{
		identity:  identity,
		name:      identity.FullName,
		mobileNum: identity.MobileNum,
	}
	m.rebuild()
	return m
}

func (m *profileModel) rebuild() {
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Full name").Value(&m.name),
		huh.NewInput().Title("Mobile number").Value(&m.mobileNum),
		huh.NewInput().Title("New avatar path (optional)").Value(&m.avatarPath),
	))
}

func (m *profileModel) fail(status string) {
	m.status = status
	m.submitting = false
	m.rebuild()
}

func (m *profileModel) view() string {
	var b strings.Builder

	b.WriteString(authorStyle.Render("@"+m.identity.Username) + "  " + dimStyle.Render(m.identity.Email))
	b.WriteString("\n")
	if m.identity.AvatarURL != "" {
		b.WriteString(dimStyle.Render("avatar: "+m.identity.AvatarURL) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n" + dimStyle.Render("Saving..."))
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	return b.String()
}

func (a *App) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := a.profile

	if saved, ok := msg.(profileSavedMsg); ok {
		m.submitting = false
		if saved.err != nil {
			m.fail(saved.err.Error())
			return a, m.form.Init()
		}

		upd := model.IdentityUpdate{
			FullName:  &saved.fullName,
			MobileNum: &saved.mobileNum,
		}
		if saved.avatarURL != "" {
			upd.AvatarURL = &saved.avatarURL
		}
		a.deps.Session.UpdateIdentity(upd)

		identity, _ := a.deps.Session.Identity()
		m.identity = identity
		m.name = identity.FullName
		m.mobileNum = identity.MobileNum
		m.avatarPath = ""
		m.status = "Profile saved"
		m.rebuild()
		return a, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.submitting {
		req := dto.UpdateProfileInfoRequest{
			UserID:    a.deps.Session.UserID(),
			Name:      strings.TrimSpace(m.name),
			MobileNum: strings.TrimSpace(m.mobileNum),
		}
		if problem := validateInput(req); problem != "" {
			m.fail(problem)
			return a, m.form.Init()
		}

		avatarPath := strings.TrimSpace(m.avatarPath)
		if avatarPath != "" {
			if _, err := os.Stat(avatarPath); err != nil {
				m.fail("Image not found: " + avatarPath)
				return a, m.form.Init()
			}
		}

		m.submitting = true
		m.status = ""
		return a, tea.Batch(cmd, saveProfileCmd(a.deps, req, avatarPath))
	}

	return a, cmd
}

// saveProfileCmd updates the text fields first, then the photo if one was
// given. The photo upload reuses the URL the server assigns rather than the
// local path.
func saveProfileCmd(deps Deps, req dto.UpdateProfileInfoRequest, avatarPath string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		resp, err := deps.API.UpdateProfileInfo(ctx, req)
		if err != nil {
			return profileSavedMsg{err: err}
		}

		out := profileSavedMsg{fullName: resp.FullName, mobileNum: resp.MobileNum}
		if avatarPath != "" {
			url, err := deps.API.UpdateProfilePhoto(ctx, req.UserID, avatarPath)
			if err != nil {
				return profileSavedMsg{err: err}
			}
			out.avatarURL = url
		}

		return out
	}
}
