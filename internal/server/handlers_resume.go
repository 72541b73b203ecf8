package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/resumefile"
	"github.com/spigell/career-advisor/internal/store"

	"go.uber.org/zap"
)

// multipartOverhead leaves room for the form fields sent next to the file.
const multipartOverhead = 1 << 20

type analyzeResponse struct {
	Analysis  advisor.Analysis `json:"analysis"`
	HistoryID string           `json:"historyId"`
}

func (s *Server) handleResumeAnalyze(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	limitErr := &ErrPlanLimit{Message: "Free plan resume scan limit reached. Upgrade to Pro."}
	if user.Plan == store.PlanFree && user.ResumeScanCount >= s.plans.FreeResumeScans {
		s.errorResponse(w, r, limitErr)
		return
	}

	text, err := s.resumeText(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if text == "" {
		s.errorResponse(w, r, &ErrValidation{
			Message: "No resume text provided. Upload a .txt/.pdf/.docx or send raw text in resumeText.",
		})
		return
	}

	release, err := s.reserve(r, user, s.resumeCounter(), s.plans.FreeResumeScans, limitErr)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	analysis := s.advisor.AnalyzeResume(r.Context(), text)
	rating := s.advisor.Score(analysis, text)
	suggestions := s.advisor.SuggestImprovements(r.Context(), text, analysis)

	analysis.Rating = rating
	analysis.Suggestions = suggestions

	rec := &store.ResumeRecord{
		UserID:     user.ID,
		ResumeText: text,
		Analysis:   analysis,
	}
	if err := s.store.AppendAnalysis(r.Context(), rec); err != nil {
		release()
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, analyzeResponse{Analysis: analysis, HistoryID: rec.ID})
}

// resumeText reads the resume from the resumeText field or, when that is
// empty, from the uploaded resume file. Unreadable files yield no text.
func (s *Server) resumeText(w http.ResponseWriter, r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req struct {
			ResumeText string `json:"resumeText"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return "", err
		}
		return strings.TrimSpace(req.ResumeText), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", s.uploadTooLarge()
		}
		return "", &ErrValidation{Message: "Invalid multipart form"}
	}

	text := strings.TrimSpace(r.FormValue("resumeText"))

	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return text, nil
	}
	if err != nil {
		return "", &ErrValidation{Message: "Invalid resume upload"}
	}
	defer file.Close()

	if !resumefile.Allowed(header.Filename) {
		return "", &ErrValidation{
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(resumefile.Extensions(), ", ")),
		}
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return "", s.uploadTooLarge()
	}
	if text != "" {
		return text, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	extracted, err := resumefile.Extract(header.Filename, data)
	if err != nil {
		s.requestLogger(r).Warn("resume file could not be parsed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		return "", nil
	}
	return extracted, nil
}

func (s *Server) uploadTooLarge() error {
	return &ErrValidation{Message: fmt.Sprintf("Resume file exceeds the upload limit of %d bytes", s.cfg.MaxUploadBytes)}
}

func (s *Server) handleResumeHistory(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if user.Plan != store.PlanPro {
		s.errorResponse(w, r, &ErrProOnly{Message: "Resume history is available for Pro users only."})
		return
	}

	history, err := s.store.RecentAnalyses(r.Context(), user.ID, s.plans.ResumeHistoryLimit)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, struct {
		History []store.ResumeRecord `json:"history"`
	}{History: history})
}
