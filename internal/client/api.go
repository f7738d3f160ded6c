package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

type signupResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

type createPostRequest struct {
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	PhotoURL *string `json:"photoUrl,omitempty"`
}

type createReplyRequest struct {
	Content  string  `json:"content"`
	PhotoURL *string `json:"photoUrl,omitempty"`
}

type uploadFileRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Base64Data  string `json:"base64Data"`
}

// StorageStatus mirrors the verify endpoint, which reports failures in the body.
type StorageStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) Hello(ctx context.Context, text string) (string, error) {
	var resp struct {
		Greeting string `json:"greeting"`
	}
	if err := c.get(ctx, "/api/hello", url.Values{"text": {text}}, &resp); err != nil {
		return "", err
	}
	return resp.Greeting, nil
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	var resp signupResponse
	err := c.post(ctx, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Signin stores the returned access token on the client.
func (c *Client) Signin(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.post(ctx, "/api/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.SetToken(session.AccessToken)
	return &session, nil
}

// Refresh rotates the token pair and stores the new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	if err := c.post(ctx, "/api/auth/refresh-token", map[string]string{"refreshToken": refreshToken}, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.AccessToken)
	return &session, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	if err := c.get(ctx, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetLatest returns nil, nil when the caller has not posted.
func (c *Client) GetLatest(ctx context.Context) (*models.Post, error) {
	var post *models.Post
	if err := c.get(ctx, "/api/posts/latest", nil, &post); err != nil {
		return nil, err
	}
	return post, nil
}

func (c *Client) CreatePost(ctx context.Context, title, body string, photoURL *string) (*models.Post, error) {
	var post models.Post
	if err := c.post(ctx, "/api/posts", createPostRequest{Title: title, Body: body, PhotoURL: photoURL}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreateReply(ctx context.Context, postID, content string, photoURL *string) (*models.Reply, error) {
	var reply models.Reply
	path := fmt.Sprintf("/api/posts/%s/replies", url.PathEscape(postID))
	if err := c.post(ctx, path, createReplyRequest{Content: content, PhotoURL: photoURL}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) ReactToPost(ctx context.Context, postID string, reactionType models.ReactionType) (*models.ToggleResult, error) {
	return c.react(ctx, fmt.Sprintf("/api/posts/%s/reactions", url.PathEscape(postID)), reactionType)
}

func (c *Client) ReactToReply(ctx context.Context, replyID string, reactionType models.ReactionType) (*models.ToggleResult, error) {
	return c.react(ctx, fmt.Sprintf("/api/replies/%s/reactions", url.PathEscape(replyID)), reactionType)
}

func (c *Client) react(ctx context.Context, path string, reactionType models.ReactionType) (*models.ToggleResult, error) {
	var result models.ToggleResult
	if err := c.post(ctx, path, map[string]string{"type": string(reactionType)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GenerateUploadURL(ctx context.Context, fileName, contentType string) (*models.PresignedUpload, error) {
	var upload models.PresignedUpload
	err := c.post(ctx, "/api/uploads/presign", map[string]string{
		"fileName":    fileName,
		"contentType": contentType,
	}, &upload)
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// PutPresigned writes data straight to the object store. The presigned URL
// carries its own credentials, so no bearer token is sent.
func (c *Client) PutPresigned(ctx context.Context, presignedURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Upstream(err, "direct upload failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.Upstream(fmt.Errorf("status %d", resp.StatusCode), "storage rejected direct upload")
	}
	return nil
}

// UploadFile sends data base64 encoded for the server to store.
func (c *Client) UploadFile(ctx context.Context, fileName, contentType string, data []byte) (*models.UploadResult, error) {
	var result models.UploadResult
	err := c.post(ctx, "/api/uploads", uploadFileRequest{
		FileName:    fileName,
		ContentType: contentType,
		Base64Data:  base64.StdEncoding.EncodeToString(data),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetFileURL(ctx context.Context, key string) (string, error) {
	var resp struct {
		FileURL string `json:"fileUrl"`
	}
	if err := c.get(ctx, "/api/uploads/url", url.Values{"key": {key}}, &resp); err != nil {
		return "", err
	}
	return resp.FileURL, nil
}

// VerifyStorage reports the server's view of bucket access. The server
// answers 502 with a status body when storage is unreachable.
func (c *Client) VerifyStorage(ctx context.Context) (*StorageStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/uploads/verify", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream(err, "GET /api/uploads/verify failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadGateway {
		return nil, decodeError(resp)
	}

	var status StorageStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &status, nil
}
