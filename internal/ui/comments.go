package ui

import (
	"context"
	"strings"

	"github.com/FlowFeed/feed-client/internal/feed"
	"github.com/FlowFeed/feed-client/internal/model"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const commentsCollection = "comments"

// commentsModel is the popup over a single post. It owns its own loader so
// closing and reopening always starts from a fresh first page.
type commentsModel struct {
	deps     Deps
	parent   *postList
	post     model.Post
	loader   *feed.Loader[model.Comment]
	input    textinput.Model
	selected int
	status   string
	posting  bool
}

func newCommentsModel(deps Deps, parent *postList, post model.Post) *commentsModel {
	pageFunc := func(ctx context.Context, page int, limit int) ([]model.Comment, error) {
		return deps.API.FetchComments(ctx, post.ID, page, limit)
	}

	input := textinput.New()
	input.Placeholder = "Write a comment..."
	input.CharLimit = 500
	input.Focus()

	return &commentsModel{
		deps:   deps,
		parent: parent,
		post:   post,
		loader: feed.NewLoader(pageFunc, deps.Config.CommentPageSize),
		input:  input,
	}
}

func (m *commentsModel) open() tea.Cmd {
	return tea.Batch(m.loadNext(), textinput.Blink)
}

func (m *commentsModel) loadNext() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		_, err := loader.LoadNext(context.Background())
		return pageLoadedMsg{collection: commentsCollection, err: err}
	}
}

func (m *commentsModel) addComment(text string) tea.Cmd {
	deps := m.deps
	postID := m.post.ID
	return func() tea.Msg {
		comment, err := deps.API.AddComment(context.Background(), postID, deps.Session.UserID(), text)
		if err != nil {
			return commentAddedMsg{err: err}
		}
		return commentAddedMsg{comment: *comment}
	}
}

func (m *commentsModel) deleteComment(commentID string) tea.Cmd {
	deps := m.deps
	postID := m.post.ID
	return func() tea.Msg {
		err := deps.API.DeleteComment(context.Background(), postID, commentID, deps.Session.UserID())
		return commentDeletedMsg{commentID: commentID, err: err}
	}
}

// bumpCommentCount keeps the parent card's counter in step with adds and
// deletes made from the popup.
func (m *commentsModel) bumpCommentCount(delta int64) {
	postID := m.post.ID
	m.parent.loader.Update(
		func(post model.Post) bool { return post.ID == postID },
		func(post *model.Post) { post.TotalComments += delta },
	)
}

func (a *App) updateComments(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := a.comments

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			a.comments = nil
			return a, nil
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.posting {
				return a, nil
			}
			m.posting = true
			m.status = ""
			return a, m.addComment(text)
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return a, nil
		case "down", "ctrl+n":
			if m.selected < m.loader.Len()-1 {
				m.selected++
			}
			if m.selected >= m.loader.Len()-2 {
				return a, m.loadNext()
			}
			return a, nil
		case "ctrl+d":
			items := m.loader.Items()
			if m.selected >= 0 && m.selected < len(items) {
				comment := items[m.selected]
				if comment.Author.ID != a.deps.Session.UserID() {
					m.status = "You can only delete your own comments"
					return a, nil
				}
				m.status = "Deleting..."
				return a, m.deleteComment(comment.ID)
			}
			return a, nil
		}

	case pageLoadedMsg:
		if msg.collection != commentsCollection {
			return a.updatePostList(m.parent, msg)
		}
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return a, nil

	case mutationSettledMsg:
		return a.updatePostList(m.parent, msg)

	case commentAddedMsg:
		m.posting = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return a, nil
		}
		m.input.Reset()
		m.loader.Prepend(msg.comment)
		m.selected = 0
		m.bumpCommentCount(1)
		return a, nil

	case commentDeletedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return a, nil
		}
		m.status = ""
		m.loader.Remove(func(c model.Comment) bool { return c.ID == msg.commentID })
		if m.selected >= m.loader.Len() && m.selected > 0 {
			m.selected--
		}
		m.bumpCommentCount(-1)
		return a, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return a, cmd
}

func (m *commentsModel) view(height int) string {
	var b strings.Builder

	title := m.post.Title
	if title == "" {
		title = m.post.Description
	}
	b.WriteString(titleStyle.Render("Comments"))
	if title != "" {
		b.WriteString("  " + dimStyle.Render(truncate(title, 48)))
	}
	b.WriteString("\n\n")

	items := m.loader.Items()
	if len(items) == 0 {
		if m.loader.Loading() {
			b.WriteString(dimStyle.Render("Loading...") + "\n")
		} else {
			b.WriteString(dimStyle.Render("No comments yet. Be the first!") + "\n")
		}
	}

	perScreen := height - 8
	if perScreen < 3 {
		perScreen = 3
	}
	start := 0
	if m.selected >= perScreen {
		start = m.selected - perScreen + 1
	}
	end := start + perScreen
	if end > len(items) {
		end = len(items)
	}

	for i := start; i < end; i++ {
		comment := items[i]
		line := authorStyle.Render("@"+comment.Author.Username) + " " + comment.Text
		if i == m.selected {
			line = selectedCardStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	switch {
	case m.loader.Loading() && len(items) > 0:
		b.WriteString(dimStyle.Render("Loading more...") + "\n")
	case m.loader.Exhausted() && len(items) > 0:
		b.WriteString(dimStyle.Render("— no more comments —") + "\n")
	}

	b.WriteString("\n" + m.input.View())
	if m.posting {
		b.WriteString("\n" + dimStyle.Render("Posting..."))
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	b.WriteString("\n" + helpStyle.Render("enter post · up/down scroll · ctrl+d delete yours · esc close"))

	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
