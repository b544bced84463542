package web

import (
	"net/http"
)

type imagePromptRequest struct {
	Description string `json:"description"`
}

type imagePromptResponse struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleImagePrompt(w http.ResponseWriter, r *http.Request) {
	var req imagePromptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	prompt, err := s.styles.GenerateImagePrompt(r.Context(), req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imagePromptResponse{Prompt: prompt}, s.logger)
}

type styleGuideRequest struct {
	ImageDataURIs []string `json:"imageDataUris"`
}

func (s *Server) handleStyleGuide(w http.ResponseWriter, r *http.Request) {
	var req styleGuideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	guide, err := s.styles.GenerateStyleGuideFromDataURIs(r.Context(), req.ImageDataURIs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guide, s.logger)
}
