package models

import (
	"time"
)

type User struct {
	UserID                 string     `json:"userId" db:"user_id"`
	Email                  string     `json:"email" db:"email"`
	Name                   string     `json:"name" db:"name"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	ImageURL               *string    `json:"imageUrl" db:"image_url"`
	RefreshToken           string     `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time  `json:"createdAt" db:"created_at"`
}

// AuthorSummary is the public view of a user embedded in feed entries.
type AuthorSummary struct {
	ID    string  `json:"id" db:"user_id"`
	Name  string  `json:"name" db:"name"`
	Image *string `json:"image,omitempty" db:"image_url"`
}

func (u *User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.UserID, Name: u.Name, Image: u.ImageURL}
}

type Post struct {
	PostID    string    `json:"postId" db:"post_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	PhotoURL  *string   `json:"photoUrl" db:"photo_url"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Reply struct {
	ReplyID   string    `json:"replyId" db:"reply_id"`
	Content   string    `json:"content" db:"content"`
	PhotoURL  *string   `json:"photoUrl" db:"photo_url"`
	PostID    string    `json:"postId" db:"post_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Reaction struct {
	ReactionID string       `json:"reactionId" db:"reaction_id"`
	Type       ReactionType `json:"type" db:"type"`
	AuthorID   string       `json:"authorId" db:"author_id"`
	PostID     *string      `json:"postId,omitempty" db:"post_id"`
	ReplyID    *string      `json:"replyId,omitempty" db:"reply_id"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}

// Upload records an object key the backend issued or wrote.
type Upload struct {
	UploadID    string    `json:"uploadId" db:"upload_id"`
	UserID      string    `json:"userId" db:"user_id"`
	ObjectKey   string    `json:"key" db:"object_key"`
	ContentType string    `json:"contentType" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	Strategy    string    `json:"strategy" db:"strategy"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

const (
	UploadStrategyPresigned = "presigned"
	UploadStrategyServer    = "server"
)

var AllowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

func IsAllowedImageType(contentType string) bool {
	for _, t := range AllowedImageTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// PresignedUpload is handed to a client that writes the object itself.
type PresignedUpload struct {
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
	FileURL      string `json:"fileUrl"`
}

type UploadResult struct {
	Success bool   `json:"success"`
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}
