package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

type ReactRequest struct {
	Type string `json:"type" validate:"required"`
}

func (h *Handlers) ReactToPost(w http.ResponseWriter, r *http.Request) {
	var req ReactRequest
	if err := h.decodeReact(w, r, &req); err != nil {
		WriteAppError(w, err)
		return
	}

	result, err := h.ReactionService.ReactToPost(r.Context(), currentUserID(r), mux.Vars(r)["postId"], req.Type)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, result, http.StatusOK)
}

func (h *Handlers) ReactToReply(w http.ResponseWriter, r *http.Request) {
	var req ReactRequest
	if err := h.decodeReact(w, r, &req); err != nil {
		WriteAppError(w, err)
		return
	}

	result, err := h.ReactionService.ReactToReply(r.Context(), currentUserID(r), mux.Vars(r)["replyId"], req.Type)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, result, http.StatusOK)
}

func (h *Handlers) decodeReact(w http.ResponseWriter, r *http.Request, req *ReactRequest) error {
	if err := decodeJSON(w, r, maxJSONBody, req); err != nil {
		return err
	}
	return h.validate(req)
}
