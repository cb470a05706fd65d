package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/model"
)

func (c *Client) AddComment(ctx context.Context, postID string, userID string, text string) (*model.Comment, error) {
	body, err := jsonBody(dto.AddCommentRequest{PostID: postID, UserID: userID, Comment: text})
	if err != nil {
		return nil, &MutationError{Message: "Failed to add comment", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/post/add-comment", nil, body, "application/json", true)
	if err != nil {
		return nil, &MutationError{Message: "Failed to add comment", Err: err}
	}

	var resp dto.AddCommentResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("add comment to post(%s) failed: %s", postID, err.Error())
		return nil, &MutationError{Message: "Failed to add comment", Err: err}
	}
	if status != http.StatusOK || !resp.Success {
		return nil, &MutationError{Message: messageOr(msg, "Failed to add comment")}
	}

	return &resp.Comment, nil
}

func (c *Client) FetchComments(ctx context.Context, postID string, page int, limit int) ([]model.Comment, error) {
	query := url.Values{}
	query.Set("postId", postID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, "/post/comments", query, nil, "", true)
	if err != nil {
		return nil, &FetchError{Message: "Failed to load comments", Err: err}
	}

	var resp dto.CommentsResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("fetch comments for post(%s) page %d failed: %s", postID, page, err.Error())
		return nil, &FetchError{Message: "Failed to load comments", Err: err}
	}
	if status != http.StatusOK {
		return nil, &FetchError{Message: messageOr(msg, "Failed to load comments")}
	}

	return resp.Comments, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID string, commentID string, userID string) error {
	body, err := jsonBody(dto.DeleteCommentRequest{PostID: postID, CommentID: commentID, UserID: userID})
	if err != nil {
		return &MutationError{Message: "Failed to delete comment", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/post/delete-comment", nil, body, "application/json", true)
	if err != nil {
		return &MutationError{Message: "Failed to delete comment", Err: err}
	}

	status, msg, err := c.do(req, nil)
	if err != nil {
		c.logger.Sugar().Errorf("delete comment(%s) failed: %s", commentID, err.Error())
		return &MutationError{Message: "Failed to delete comment", Err: err}
	}
	if status != http.StatusOK {
		return &MutationError{Message: messageOr(msg, "Failed to delete comment")}
	}

	return nil
}
