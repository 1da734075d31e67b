package server

import (
	"net/http"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/attachments"
)

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// handleUpload accepts one multipart file and returns the URL path it will
// be served from. The reference is attached to an expense or profile by a
// follow-up request.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(attachments.MaxSize); err != nil {
		writeError(w, apperr.Validation("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.Validation("a file field named %q is required", "file"))
		return
	}
	defer file.Close()

	url, err := s.attachments.Save(header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Success: true, URL: url})
}
