package web

import (
	"mime"
	"net/http"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

func (s *Server) handleListMoodBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.boards.ListMoodBoards(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boards, s.logger)
}

type moodBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateMoodBoard(w http.ResponseWriter, r *http.Request) {
	var req moodBoardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.boards.CreateMoodBoard(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b, s.logger)
}

func (s *Server) handleGetMoodBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.boards.GetMoodBoard(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b, s.logger)
}

type imageRequest struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Notes   string `json:"notes"`
}

// handleAddImage accepts either a JSON body naming a URL or a multipart form
// with an optional file plus url, altText and notes fields.
func (s *Server) handleAddImage(w http.ResponseWriter, r *http.Request) {
	var src domain.ImageSource

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req imageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		src = domain.ImageSource{URL: req.URL, AltText: req.AltText, Notes: req.Notes}
	} else {
		upload, err := s.readUpload(w, r, allowedImageMIME)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		src = domain.ImageSource{
			Upload:  upload,
			URL:     r.FormValue("url"),
			AltText: r.FormValue("altText"),
			Notes:   r.FormValue("notes"),
		}
	}

	b, err := s.boards.AddImage(r.Context(), r.PathValue("id"), src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b, s.logger)
}

func (s *Server) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	b, err := s.boards.RemoveImage(r.Context(), r.PathValue("id"), r.PathValue("imageID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b, s.logger)
}

type coverRequest struct {
	ImageID string `json:"imageId"`
}

func (s *Server) handleSetCoverImage(w http.ResponseWriter, r *http.Request) {
	var req coverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.boards.SetCoverImage(r.Context(), r.PathValue("id"), req.ImageID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b, s.logger)
}

func (s *Server) handleBoardStyleGuide(w http.ResponseWriter, r *http.Request) {
	guide, err := s.boards.GenerateBoardStyleGuide(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guide, s.logger)
}
