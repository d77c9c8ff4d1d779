// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"emperror.dev/errors"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/schema"

	"github.com/JasonByun5/pollify/cliparse"
	"github.com/JasonByun5/pollify/middleware"
	"github.com/JasonByun5/pollify/models"
	"github.com/JasonByun5/pollify/polls"
)

const defaultMaxUpload = 10 << 20

var errBodyTooLarge = errors.New("request body too large")

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// createForm holds the non-file fields of a multipart create request
type createForm struct {
	Payload string `schema:"payload"`
}

type PollHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewPollHandler(svc *polls.Service, cfg cliparse.Config) *PollHandler {
	return &PollHandler{svc: svc, cfg: cfg}
}

// CreatePoll handles POST /polls
// Accepts multipart/form-data (payload JSON field plus one file per option)
// or a plain JSON body without images.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	req, images, err := h.decodeCreate(w, r)
	if errors.Is(err, errBodyTooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %s", humanize.IBytes(uint64(h.maxUpload()))))
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	author := req.Author
	if requester := middleware.Requester(r.Context()); requester != "" {
		if author != "" && author != requester {
			middleware.ErrorResponse(w, http.StatusForbidden, "author does not match the authenticated user")
			return
		}
		author = requester
	}

	in := polls.CreateInput{
		Author:      author,
		Title:       req.Title,
		Description: firstNonEmpty(req.Description, req.Desc),
		Type:        req.Type,
		Options:     make([]polls.OptionInput, len(req.Options)),
	}
	for i, o := range req.Options {
		in.Options[i] = polls.OptionInput{
			Name:        o.Name,
			Description: firstNonEmpty(o.Description, o.Desc),
		}
		if i < len(images) {
			in.Options[i].Image = images[i]
		}
	}

	poll, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollNumber: poll.PollID,
		Poll:       poll,
	})
}

func (h *PollHandler) decodeCreate(w http.ResponseWriter, r *http.Request) (models.CreatePollRequest, []*polls.ImageUpload, error) {
	var req models.CreatePollRequest

	maxBytes := h.maxUpload()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			if tooLarge(err) {
				return req, nil, errBodyTooLarge
			}
			return req, nil, errors.New("invalid JSON body")
		}
		return req, nil, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if tooLarge(err) {
			return req, nil, errBodyTooLarge
		}
		return req, nil, errors.New("invalid multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	var form createForm
	if err := formDecoder.Decode(&form, r.MultipartForm.Value); err != nil {
		return req, nil, errors.New("invalid form fields")
	}
	if form.Payload == "" {
		return req, nil, errors.New("payload field is required")
	}
	if err := json.Unmarshal([]byte(form.Payload), &req); err != nil {
		return req, nil, errors.New("payload is not valid JSON")
	}

	files := r.MultipartForm.File["files"]
	images := make([]*polls.ImageUpload, len(files))
	for i, fh := range files {
		// empty parts keep the file list aligned with the options
		if fh.Size == 0 {
			continue
		}
		data, err := readPart(fh)
		if err != nil {
			return req, nil, errors.New("failed to read uploaded file")
		}
		images[i] = &polls.ImageUpload{Filename: fh.Filename, Data: data}
	}

	return req, images, nil
}

func (h *PollHandler) maxUpload() int64 {
	if h.cfg.MaxUploadBytes <= 0 {
		return defaultMaxUpload
	}
	return h.cfg.MaxUploadBytes
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err, "list polls")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetPoll handles GET /polls/{pollId}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	poll, err := h.svc.Get(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err, "get poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ListByAuthor handles GET /polls/by-author/{authorId}
func (h *PollHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByAuthor(r.Context(), r.PathValue("authorId"))
	if err != nil {
		writeError(w, r, err, "list polls")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// DeletePoll handles DELETE /polls/{pollId}
// An authenticated caller must be the poll author.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), pollID, middleware.Requester(r.Context())); err != nil {
		writeError(w, r, err, "delete poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Poll deleted"})
}
