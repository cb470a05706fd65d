package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"github.com/FlowFeed/feed-client/internal/dto"
)

func (c *Client) UpdateProfileInfo(ctx context.Context, input dto.UpdateProfileInfoRequest) (*dto.UpdateProfileInfoResponse, error) {
	body, err := jsonBody(input)
	if err != nil {
		return nil, &MutationError{Message: "Profile update failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/profile-manage/update-profile-info", nil, body, "application/json", true)
	if err != nil {
		return nil, &MutationError{Message: "Profile update failed", Err: err}
	}

	var resp dto.UpdateProfileInfoResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("update profile info failed: %s", err.Error())
		return nil, &MutationError{Message: "Profile update failed", Err: err}
	}
	if status != http.StatusOK {
		return nil, &MutationError{Message: messageOr(msg, "Profile update failed")}
	}

	return &resp, nil
}

// UpdateProfilePhoto uploads a new avatar and returns the URL the server
// assigned to it.
func (c *Client) UpdateProfilePhoto(ctx context.Context, userID string, imagePath string) (string, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("userId", userID); err != nil {
		return "", &MutationError{Message: "Photo upload failed", Err: err}
	}
	if err := writeFilePart(writer, "profilePhoto", imagePath); err != nil {
		c.logger.Sugar().Errorf("failed to attach profile photo: %s", err.Error())
		return "", &MutationError{Message: "Photo upload failed", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &MutationError{Message: "Photo upload failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/profile-manage/update-profile-photo", nil, &requestBody, writer.FormDataContentType(), true)
	if err != nil {
		return "", &MutationError{Message: "Photo upload failed", Err: err}
	}

	var resp dto.UpdateProfilePhotoResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("update profile photo failed: %s", err.Error())
		return "", &MutationError{Message: "Photo upload failed", Err: err}
	}
	if status != http.StatusOK || !resp.Success {
		return "", &MutationError{Message: messageOr(msg, "Photo upload failed")}
	}

	return resp.ProfileURL, nil
}
