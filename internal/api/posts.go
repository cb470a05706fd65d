package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/model"
)

func (c *Client) FetchFeed(ctx context.Context, page int, limit int, userID string) ([]model.Post, error) {
	return c.fetchPosts(ctx, "/post/fetch-posts", page, limit, userID)
}

func (c *Client) FetchMyPosts(ctx context.Context, page int, limit int, userID string) ([]model.Post, error) {
	return c.fetchPosts(ctx, "/post/fetchmypost", page, limit, userID)
}

func (c *Client) fetchPosts(ctx context.Context, path string, page int, limit int, userID string) ([]model.Post, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("userId", userID)

	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "application/json", true)
	if err != nil {
		return nil, &FetchError{Message: "Post fetch failed", Err: err}
	}

	var resp dto.PostsResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("fetch posts(%s) page %d failed: %s", path, page, err.Error())
		return nil, &FetchError{Message: "Post fetch failed", Err: err}
	}
	if status != http.StatusOK {
		return nil, &FetchError{Message: messageOr(msg, "Post fetch failed")}
	}

	return resp.Posts, nil
}

func (c *Client) LikePost(ctx context.Context, postID string, userID string) (*dto.LikePostResponse, error) {
	body, err := jsonBody(dto.LikePostRequest{PostID: postID, UserID: userID})
	if err != nil {
		return nil, &MutationError{Message: "Like failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/post/like-post", nil, body, "application/json", true)
	if err != nil {
		return nil, &MutationError{Message: "Like failed", Err: err}
	}

	var resp dto.LikePostResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("like post(%s) failed: %s", postID, err.Error())
		return nil, &MutationError{Message: "Like failed", Err: err}
	}
	if status != http.StatusOK || !resp.Success {
		return nil, &MutationError{Message: messageOr(msg, "Like failed")}
	}

	return &resp, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string, userID string) error {
	body, err := jsonBody(dto.DeletePostRequest{PostID: postID, UserID: userID})
	if err != nil {
		return &MutationError{Message: "Failed to delete post", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/post/delete-post", nil, body, "application/json", true)
	if err != nil {
		return &MutationError{Message: "Failed to delete post", Err: err}
	}

	status, msg, err := c.do(req, nil)
	if err != nil {
		c.logger.Sugar().Errorf("delete post(%s) failed: %s", postID, err.Error())
		return &MutationError{Message: "Failed to delete post", Err: err}
	}
	if status != http.StatusOK {
		return &MutationError{Message: messageOr(msg, "Failed to delete post")}
	}

	return nil
}

// CreatePost uploads a new post as multipart form data. The image is optional;
// at least one of image, title, description must be present.
func (c *Client) CreatePost(ctx context.Context, userID string, input dto.CreatePostRequest) error {
	if input.ImagePath == "" && input.Title == "" && input.Description == "" {
		return &MutationError{Message: "At least one field required"}
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("userId", userID); err != nil {
		return &MutationError{Message: "Post upload failed", Err: err}
	}
	if input.Title != "" {
		if err := writer.WriteField("PostTitle", input.Title); err != nil {
			return &MutationError{Message: "Post upload failed", Err: err}
		}
	}
	if input.Description != "" {
		if err := writer.WriteField("PostDescription", input.Description); err != nil {
			return &MutationError{Message: "Post upload failed", Err: err}
		}
	}
	if input.ImagePath != "" {
		if err := writeFilePart(writer, "postImage", input.ImagePath); err != nil {
			c.logger.Sugar().Errorf("failed to attach post image: %s", err.Error())
			return &MutationError{Message: "Post upload failed", Err: err}
		}
	}

	if err := writer.Close(); err != nil {
		return &MutationError{Message: "Post upload failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/post/add-post", nil, &requestBody, writer.FormDataContentType(), true)
	if err != nil {
		return &MutationError{Message: "Post upload failed", Err: err}
	}

	status, msg, err := c.do(req, nil)
	if err != nil {
		c.logger.Sugar().Errorf("create post request failed: %s", err.Error())
		return &MutationError{Message: "Post upload failed", Err: err}
	}
	if status != http.StatusOK {
		return &MutationError{Message: messageOr(msg, "Post upload failed")}
	}

	return nil
}

func writeFilePart(writer *multipart.Writer, field string, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fileWriter, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}

	if _, err := io.Copy(fileWriter, file); err != nil {
		return err
	}

	return nil
}
