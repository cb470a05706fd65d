package model

type Post struct {
	ID            string  `json:"_id"`
	Author        UserRef `json:"UserId"`
	Title         string  `json:"PostTitle"`
	Description   string  `json:"PostDescription"`
	ImageURL      string  `json:"PostImageUrl"`
	TotalLikes    int64   `json:"TotalLikes"`
	TotalComments int64   `json:"TotalComments"`
	IsLiked       bool    `json:"isLiked"`
}
