package ui

import (
	"context"
	"os"
	"strings"

	"github.com/FlowFeed/feed-client/internal/dto"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type composeModel struct {
	form        *huh.Form
	title       string
	description string
	imagePath   string
	status      string
	submitting  bool
}

func newComposeModel() *composeModel {
	m := &composeModel{}
	m.rebuild()
	return m
}

func (m *composeModel) rebuild() {
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&m.title),
		huh.NewText().Title("Description").CharLimit(2000).Value(&m.description),
		huh.NewInput().Title("Image path (optional)").Value(&m.imagePath),
	))
}

func (m *composeModel) fail(status string) {
	m.status = status
	m.submitting = false
	m.rebuild()
}

func (m *composeModel) reset() {
	m.title = ""
	m.description = ""
	m.imagePath = ""
	m.submitting = false
	m.rebuild()
}

func (m *composeModel) view() string {
	var b strings.Builder
	b.WriteString(m.form.View())
	if m.submitting {
		b.WriteString("\n" + dimStyle.Render("Uploading..."))
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	return b.String()
}

func (a *App) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := a.compose

	if done, ok := msg.(postCreatedMsg); ok {
		m.submitting = false
		if done.err != nil {
			m.fail(done.err.Error())
			return a, m.form.Init()
		}
		m.reset()
		m.status = "Post created"
		// The new post belongs at the top of the user's own list; a reload
		// picks it up with its server-assigned id.
		return a, tea.Batch(m.form.Init(), a.myPosts.refresh())
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.submitting {
		req := dto.CreatePostRequest{
			Title:       strings.TrimSpace(m.title),
			Description: strings.TrimSpace(m.description),
			ImagePath:   strings.TrimSpace(m.imagePath),
		}
		if req.Title == "" && req.Description == "" && req.ImagePath == "" {
			m.fail("Add a title, description, or image")
			return a, m.form.Init()
		}
		if problem := validateInput(req); problem != "" {
			m.fail(problem)
			return a, m.form.Init()
		}
		if req.ImagePath != "" {
			if _, err := os.Stat(req.ImagePath); err != nil {
				m.fail("Image not found: " + req.ImagePath)
				return a, m.form.Init()
			}
		}

		m.submitting = true
		m.status = ""
		return a, tea.Batch(cmd, createPostCmd(a.deps, req))
	}

	return a, cmd
}

func createPostCmd(deps Deps, req dto.CreatePostRequest) tea.Cmd {
	return func() tea.Msg {
		err := deps.API.CreatePost(context.Background(), deps.Session.UserID(), req)
		return postCreatedMsg{err: err}
	}
}
