package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
)

// CreateReplyBody is the reply payload; the post comes from the path.
type CreateReplyBody struct {
	Content  string  `json:"content"`
	PhotoURL *string `json:"photoUrl"`
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListPosts(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if posts == nil {
		posts = []models.FeedPost{}
	}

	writeSuccess(w, posts, http.StatusOK)
}

// GetLatestPost answers null when the caller has not posted yet.
func (h *Handlers) GetLatestPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetLatest(r.Context(), currentUserID(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req repository.CreatePostRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		WriteAppError(w, err)
		return
	}
	req.AuthorID = currentUserID(r)

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) CreateReply(w http.ResponseWriter, r *http.Request) {
	var body CreateReplyBody
	if err := decodeJSON(w, r, maxJSONBody, &body); err != nil {
		WriteAppError(w, err)
		return
	}

	reply, err := h.PostService.CreateReply(r.Context(), repository.CreateReplyRequest{
		AuthorID: currentUserID(r),
		PostID:   mux.Vars(r)["postId"],
		Content:  body.Content,
		PhotoURL: body.PhotoURL,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, reply, http.StatusCreated)
}
