package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FlowFeed/feed-client/internal/config"
	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIOrigin:      server.URL,
		RequestTimeout: time.Second * 5,
	}
	return New(zap.NewNop(), cfg, func() string { return token })
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/authenticate/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jane@example.com", req.Email)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok-1",
			"detail": map[string]string{
				"_id":      "u1",
				"fullname": "Jane Doe",
				"email":    "jane@example.com",
			},
		})
	}), "")

	resp, err := client.Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "u1", resp.Detail.ID)
	assert.Equal(t, "Jane Doe", resp.Detail.FullName)
}

func TestLoginSurfacesServerMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"msg": "Incorrect email or password"})
	}), "")

	_, err := client.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Incorrect email or password", authErr.Message)
}

func TestLoginTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	cfg := &config.Config{APIOrigin: server.URL, RequestTimeout: time.Second}
	client := New(zap.NewNop(), cfg, func() string { return "" })

	_, err := client.Login(context.Background(), "jane@example.com", "secret1")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Login failed", authErr.Message)
	assert.NotNil(t, authErr.Err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenDistinguishesRejectionFromOutage(t *testing.T) {
	t.Run("explicit rejection", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-dead", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"msg": "token expired"})
		}), "")

		_, err := client.VerifyToken(context.Background(), "tok-dead")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("server error is not a rejection", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}), "")

		_, err := client.VerifyToken(context.Background(), "tok-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"userdata": map[string]string{"_id": "u1", "username": "jdoe"},
			})
		}), "")

		detail, err := client.VerifyToken(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "u1", detail.ID)
	})
}

func TestFetchFeed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/post/fetch-posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"Posts": []map[string]interface{}{
				{
					"_id":           "p1",
					"PostTitle":     "hello",
					"TotalLikes":    3,
					"isLiked":       true,
					"UserId":        map[string]string{"_id": "u2", "username": "bob"},
					"TotalComments": 1,
				},
			},
		})
	}), "tok-1")

	posts, err := client.FetchFeed(context.Background(), 2, 5, "u1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "hello", posts[0].Title)
	assert.Equal(t, int64(3), posts[0].TotalLikes)
	assert.True(t, posts[0].IsLiked)
	assert.Equal(t, "bob", posts[0].Author.Username)
}

func TestFetchFeedFailureIsFetchError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), "tok-1")

	_, err := client.FetchFeed(context.Background(), 1, 5, "u1")
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestLikePost(t *testing.T) {
	t.Run("maps authoritative counts", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req dto.LikePostRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "p1", req.PostID)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true, "liked": true, "totalLikes": 9,
			})
		}), "tok-1")

		resp, err := client.LikePost(context.Background(), "p1", "u1")
		require.NoError(t, err)
		assert.True(t, resp.Liked)
		assert.Equal(t, int64(9), resp.TotalLikes)
	})

	t.Run("success false is a mutation error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
		}), "tok-1")

		_, err := client.LikePost(context.Background(), "p1", "u1")
		var mutErr *MutationError
		assert.ErrorAs(t, err, &mutErr)
	})
}

func TestAddComment(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"comment": map[string]interface{}{
				"commentId": "c1",
				"comment":   "nice",
				"userId":    map[string]string{"_id": "u1", "username": "jdoe"},
			},
		})
	}), "tok-1")

	comment, err := client.AddComment(context.Background(), "p1", "u1", "nice")
	require.NoError(t, err)
	assert.Equal(t, "c1", comment.ID)
	assert.Equal(t, "nice", comment.Text)
	assert.Equal(t, "jdoe", comment.Author.Username)
}

func TestCreatePostRequiresAtLeastOneField(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), "tok-1")

	err := client.CreatePost(context.Background(), "u1", dto.CreatePostRequest{})
	require.Error(t, err)
	assert.False(t, called, "an empty post must be rejected before any request")
}

func TestCreatePostMultipart(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "cat.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png-bytes"), 0o644))

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "u1", r.FormValue("userId"))
		assert.Equal(t, "my cat", r.FormValue("PostTitle"))
		assert.Equal(t, "so fluffy", r.FormValue("PostDescription"))

		file, header, err := r.FormFile("postImage")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cat.png", header.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "msg": "Post created"})
	}), "tok-1")

	err := client.CreatePost(context.Background(), "u1", dto.CreatePostRequest{
		Title:       "my cat",
		Description: "so fluffy",
		ImagePath:   imagePath,
	})
	require.NoError(t, err)
}

func TestUpdateProfilePhoto(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "me.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpg-bytes"), 0o644))

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "u1", r.FormValue("userId"))

		_, header, err := r.FormFile("profilePhoto")
		require.NoError(t, err)
		assert.Equal(t, "me.jpg", header.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "ProfileURL": "https://cdn.example.com/me.jpg",
		})
	}), "tok-1")

	url, err := client.UpdateProfilePhoto(context.Background(), "u1", imagePath)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.jpg", url)
}

func TestDeleteCommentSurfacesServerMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{"msg": "not your comment"})
	}), "tok-1")

	err := client.DeleteComment(context.Background(), "p1", "c1", "u1")
	require.Error(t, err)
	assert.Equal(t, "not your comment", err.Error())
}
