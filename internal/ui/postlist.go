package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FlowFeed/feed-client/internal/feed"
	"github.com/FlowFeed/feed-client/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// postList drives one paginated post collection (the feed or the user's own
// posts). Scrolling the selection near the end of the loaded items is the
// sentinel that triggers the next page; the loader's guards keep the trigger
// idempotent.
type postList struct {
	name      string
	deps      Deps
	loader    *feed.Loader[model.Post]
	mutator   *feed.Mutator
	selected  int
	deletable bool
	status    string
}

type likeSnapshot struct {
	Liked bool
	Likes int64
}

func newPostList(name string, deps Deps, fetch func(ctx context.Context, page int, limit int, userID string) ([]model.Post, error), deletable bool) *postList {
	sess := deps.Session
	pageFunc := func(ctx context.Context, page int, limit int) ([]model.Post, error) {
		// The user id is read at the point of use; a logout between trigger
		// and fetch must not reuse a cached identity.
		return fetch(ctx, page, limit, sess.UserID())
	}

	return &postList{
		name:      name,
		deps:      deps,
		loader:    feed.NewLoader(pageFunc, deps.Config.FeedPageSize),
		mutator:   feed.NewMutator(),
		deletable: deletable,
	}
}

func (p *postList) loadNext() tea.Cmd {
	loader := p.loader
	name := p.name
	return func() tea.Msg {
		_, err := loader.LoadNext(context.Background())
		return pageLoadedMsg{collection: name, err: err}
	}
}

func (p *postList) refresh() tea.Cmd {
	p.loader.Reset()
	p.selected = 0
	return p.loadNext()
}

func (p *postList) selectedPost() (model.Post, bool) {
	items := p.loader.Items()
	if p.selected < 0 || p.selected >= len(items) {
		return model.Post{}, false
	}
	return items[p.selected], true
}

// refreshSoon forces one extra render shortly after an optimistic change so
// the user sees it before the remote call settles.
func refreshSoon() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (p *postList) toggleLike(postID string) tea.Cmd {
	deps := p.deps
	loader := p.loader
	mutator := p.mutator
	name := p.name

	run := func() tea.Msg {
		match := func(post model.Post) bool { return post.ID == postID }

		read := func() (likeSnapshot, bool) {
			for _, post := range loader.Items() {
				if post.ID == postID {
					return likeSnapshot{Liked: post.IsLiked, Likes: post.TotalLikes}, true
				}
			}
			return likeSnapshot{}, false
		}
		write := func(s likeSnapshot) {
			loader.Update(match, func(post *model.Post) {
				post.IsLiked = s.Liked
				post.TotalLikes = s.Likes
			})
		}
		optimistic := func(s likeSnapshot) likeSnapshot {
			if s.Liked {
				return likeSnapshot{Liked: false, Likes: s.Likes - 1}
			}
			return likeSnapshot{Liked: true, Likes: s.Likes + 1}
		}
		call := func(ctx context.Context) (likeSnapshot, error) {
			resp, err := deps.API.LikePost(ctx, postID, deps.Session.UserID())
			if err != nil {
				return likeSnapshot{}, err
			}
			// The server's count is authoritative; it wins over the local ±1.
			return likeSnapshot{Liked: resp.Liked, Likes: resp.TotalLikes}, nil
		}

		_, err := feed.Mutate(context.Background(), mutator, "like:"+postID, read, write, optimistic, call)
		return mutationSettledMsg{collection: name, err: err}
	}

	return tea.Batch(run, refreshSoon())
}

// deletePost is deliberately pessimistic: the item leaves the list only after
// the server confirms. Re-inserting a row at its old position on a failed
// optimistic delete is worse than a short wait.
func (p *postList) deletePost(postID string) tea.Cmd {
	deps := p.deps
	return func() tea.Msg {
		err := deps.API.DeletePost(context.Background(), postID, deps.Session.UserID())
		return postDeletedMsg{postID: postID, err: err}
	}
}

func (a *App) updatePostList(p *postList, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			if p.selected < p.loader.Len()-1 {
				p.selected++
			}
			if p.selected >= p.loader.Len()-2 {
				return a, p.loadNext()
			}
			return a, nil
		case "up", "k":
			if p.selected > 0 {
				p.selected--
			}
			return a, nil
		case "r":
			p.status = ""
			return a, p.refresh()
		case "l", " ":
			if post, ok := p.selectedPost(); ok {
				p.status = ""
				return a, p.toggleLike(post.ID)
			}
			return a, nil
		case "c":
			if post, ok := p.selectedPost(); ok {
				a.comments = newCommentsModel(a.deps, p, post)
				return a, a.comments.open()
			}
			return a, nil
		case "d":
			if !p.deletable {
				return a, nil
			}
			if post, ok := p.selectedPost(); ok {
				p.status = "Deleting..."
				return a, p.deletePost(post.ID)
			}
			return a, nil
		}

	case pageLoadedMsg:
		if msg.collection != p.name {
			return a, nil
		}
		if msg.err != nil {
			// The loaded items stay visible; pagination just stops here.
			p.status = msg.err.Error()
		}
		return a, nil

	case mutationSettledMsg:
		if msg.collection == p.name && msg.err != nil {
			p.status = msg.err.Error()
		}
		return a, nil

	case postDeletedMsg:
		if msg.err != nil {
			p.status = msg.err.Error()
			return a, nil
		}
		p.status = "Post deleted"
		p.loader.Remove(func(post model.Post) bool { return post.ID == msg.postID })
		if p.selected >= p.loader.Len() && p.selected > 0 {
			p.selected--
		}
		return a, nil
	}

	return a, nil
}

func (p *postList) view(height int) string {
	items := p.loader.Items()
	if len(items) == 0 {
		var b strings.Builder
		if p.loader.Loading() {
			b.WriteString(dimStyle.Render("Loading..."))
		} else if p.loader.Exhausted() {
			b.WriteString(dimStyle.Render("Nothing here yet."))
		}
		if p.status != "" {
			b.WriteString("\n" + statusStyle.Render(p.status))
		}
		return b.String()
	}

	// Render a window of cards around the selection so the selected post
	// stays on screen.
	perScreen := height / 6
	if perScreen < 1 {
		perScreen = 3
	}
	start := p.selected - perScreen/2
	if start < 0 {
		start = 0
	}
	end := start + perScreen
	if end > len(items) {
		end = len(items)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(p.renderCard(items[i], i == p.selected))
		b.WriteString("\n")
	}

	switch {
	case p.loader.Loading():
		b.WriteString(dimStyle.Render("Loading more..."))
	case p.loader.Exhausted():
		b.WriteString(dimStyle.Render("— you've reached the end —"))
	}
	if p.status != "" {
		b.WriteString("\n" + statusStyle.Render(p.status))
	}
	b.WriteString("\n" + helpStyle.Render("j/k scroll · l like · c comments · r reload"+p.deleteHint()))

	return b.String()
}

func (p *postList) deleteHint() string {
	if p.deletable {
		return " · d delete"
	}
	return ""
}

func (p *postList) renderCard(post model.Post, selected bool) string {
	var b strings.Builder

	author := post.Author.Username
	if author == "" {
		author = "anonymous"
	}
	b.WriteString(authorStyle.Render("@" + author))
	if post.Author.FullName != "" {
		b.WriteString(dimStyle.Render("  " + post.Author.FullName))
	}
	b.WriteString("\n")

	if post.Title != "" {
		b.WriteString(post.Title + "\n")
	}
	if post.Description != "" {
		b.WriteString(dimStyle.Render(post.Description) + "\n")
	}
	if post.ImageURL != "" {
		b.WriteString(dimStyle.Render("[image] "+post.ImageURL) + "\n")
	}

	heart := "♡"
	likes := fmt.Sprintf("%s %d", heart, post.TotalLikes)
	if post.IsLiked {
		likes = likedStyle.Render(fmt.Sprintf("♥ %d", post.TotalLikes))
	}
	b.WriteString(fmt.Sprintf("%s  💬 %d", likes, post.TotalComments))

	if selected {
		return selectedCardStyle.Render(b.String())
	}
	return cardStyle.Render(b.String())
}
