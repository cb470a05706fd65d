package dto

import "github.com/FlowFeed/feed-client/internal/model"

type PostsResponse struct {
	Posts []model.Post `json:"Posts"`
}

type LikePostRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

type LikePostResponse struct {
	Success    bool  `json:"success"`
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}

type DeletePostRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

type CreatePostRequest struct {
	Title       string `validate:"max=120"`
	Description string `validate:"max=2000"`
	ImagePath   string
}
