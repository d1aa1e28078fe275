package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/CampusConnect/notice-service/internal/dto"
	"github.com/CampusConnect/notice-service/internal/service"
	"github.com/google/uuid"
)

const maxUploadMemory = 32 << 20

func (h *Handler) noticesList(w http.ResponseWriter, r *http.Request) {
	viewer := h.optionalAuth(r)

	notices, err := h.services.Notice.List(r.Context(), viewer)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, notices, http.StatusOK)
}

func (h *Handler) noticesNewOnly(w http.ResponseWriter, r *http.Request) {
	notices, err := h.services.Notice.ListNew(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, notices, http.StatusOK)
}

func (h *Handler) noticesArchived(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminMiddleware(r); err != nil {
		h.respondAuthError(w, err)
		return
	}

	notices, err := h.services.Notice.ListArchived(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, notices, http.StatusOK)
}

func (h *Handler) noticesGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		// same shape as a truly unknown id
		h.respondServiceError(w, service.ErrNoticeNotFound)
		return
	}

	viewer := h.optionalAuth(r)

	notice, err := h.services.Notice.GetByID(r.Context(), id, viewer)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, notice, http.StatusOK)
}

func (h *Handler) noticesCreate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminMiddleware(r); err != nil {
		h.respondAuthError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	image, err := h.imageFromForm(r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	notice, err := h.services.Notice.Create(r.Context(), dto.CreateNoticeRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		PostedBy:    r.FormValue("postedBy"),
	}, image)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, Resp{"message": "Notice posted successfully", "notice": notice}, http.StatusCreated)
}

func (h *Handler) noticesUpdate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminMiddleware(r); err != nil {
		h.respondAuthError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, service.ErrNoticeNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	var input dto.UpdateNoticeRequest
	input.Title = formValue(r, "title")
	input.Description = formValue(r, "description")
	input.Category = formValue(r, "category")
	input.PostedBy = formValue(r, "postedBy")
	if raw := formValue(r, "isArchived"); raw != nil {
		archived, err := strconv.ParseBool(*raw)
		if err != nil {
			h.Respond(w, Resp{"error": "isArchived must be a boolean"}, http.StatusBadRequest)
			return
		}
		input.IsArchived = &archived
	}

	image, err := h.imageFromForm(r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	notice, err := h.services.Notice.Update(r.Context(), id, input, image)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, Resp{"message": "Notice updated successfully", "notice": notice}, http.StatusOK)
}

func (h *Handler) noticesMarkViewed(w http.ResponseWriter, r *http.Request) {
	user, err := h.authMiddleware(r)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, service.ErrNoticeNotFound)
		return
	}

	if err := h.services.Notice.MarkViewed(r.Context(), user.ID, id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, Resp{"message": "Notice marked as viewed", "isNewForUser": false}, http.StatusOK)
}

func (h *Handler) noticesToggleArchive(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminMiddleware(r); err != nil {
		h.respondAuthError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, service.ErrNoticeNotFound)
		return
	}

	notice, err := h.services.Notice.ToggleArchive(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	state := "unarchived"
	if notice.IsArchived {
		state = "archived"
	}

	h.Respond(w, Resp{"message": fmt.Sprintf("Notice %s successfully", state), "notice": notice}, http.StatusOK)
}

func (h *Handler) noticesDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.adminMiddleware(r); err != nil {
		h.respondAuthError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, service.ErrNoticeNotFound)
		return
	}

	if err := h.services.Notice.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, Resp{"message": "Notice deleted successfully"}, http.StatusOK)
}

func (h *Handler) imageFromForm(r *http.Request) (*service.UploadedImage, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &service.UploadedImage{
		Filename: header.Filename,
		File:     file,
	}, nil
}

func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
