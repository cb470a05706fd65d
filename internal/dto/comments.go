package dto

import "github.com/FlowFeed/feed-client/internal/model"

type AddCommentRequest struct {
	PostID  string `json:"postId"`
	UserID  string `json:"userId"`
	Comment string `json:"comment"`
}

type AddCommentResponse struct {
	Success bool          `json:"success"`
	Comment model.Comment `json:"comment"`
}

type CommentsResponse struct {
	Comments []model.Comment `json:"comments"`
}

type DeleteCommentRequest struct {
	PostID    string `json:"postId"`
	CommentID string `json:"commentId"`
	UserID    string `json:"userId"`
}
