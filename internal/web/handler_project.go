package web

import (
	"fmt"
	"net/http"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects, s.logger)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in domain.NewProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.projects.CreateProject(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p, s.logger)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p, s.logger)
}

type statusRequest struct {
	Status domain.ProjectStatus `json:"status"`
}

func (s *Server) handleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.projects.UpdateProjectStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p, s.logger)
}

func (s *Server) handleSubmitProof(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	upload, err := s.readUpload(w, r, allowedProofMIME)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if upload == nil {
		s.writeError(w, r, fmt.Errorf("%w: proof file required", domain.ErrValidation))
		return
	}

	p, err := s.projects.SubmitProof(r.Context(), projectID, *upload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p, s.logger)
}

func (s *Server) handleApproveProof(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.ApproveProof(r.Context(), r.PathValue("id"), r.PathValue("proofID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p, s.logger)
}

func (s *Server) handleRequestRevisions(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.RequestRevisions(r.Context(), r.PathValue("id"), r.PathValue("proofID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p, s.logger)
}

type feedbackRequest struct {
	Comment       string `json:"comment"`
	CommenterName string `json:"commenterName"`
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.projects.AddFeedback(r.Context(), r.PathValue("id"), r.PathValue("proofID"), req.Comment, req.CommenterName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p, s.logger)
}
