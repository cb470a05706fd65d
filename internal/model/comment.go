package model

type Comment struct {
	ID     string  `json:"commentId"`
	PostID string  `json:"postId"`
	Author UserRef `json:"userId"`
	Text   string  `json:"comment"`
}
