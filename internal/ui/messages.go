package ui

import (
	"github.com/FlowFeed/feed-client/internal/model"
)

// authCheckedMsg ends the bootstrap Checking phase.
type authCheckedMsg struct {
	identity model.Identity
	err      error
}

type loginDoneMsg struct {
	identity model.Identity
	err      error
}

type registerDoneMsg struct {
	msg string
	err error
}

type otpDoneMsg struct {
	identity model.Identity
	err      error
}

// pageLoadedMsg reports a settled LoadNext for the named collection.
type pageLoadedMsg struct {
	collection string
	err        error
}

// mutationSettledMsg reports a settled optimistic mutation.
type mutationSettledMsg struct {
	collection string
	err        error
}

// refreshMsg forces a re-render so an optimistic change shows up before its
// remote call settles.
type refreshMsg struct{}

type commentAddedMsg struct {
	comment model.Comment
	err     error
}

type commentDeletedMsg struct {
	commentID string
	err       error
}

type postDeletedMsg struct {
	postID string
	err    error
}

type postCreatedMsg struct {
	err error
}

type profileSavedMsg struct {
	fullName  string
	mobileNum string
	avatarURL string
	err       error
}
