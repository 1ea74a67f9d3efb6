package api

import (
	"encoding/json"
	"net/http"

	"bimrov/app"
	"bimrov/domain/tender"
)

type sensitivityRequest struct {
	Project tender.ProjectInput `json:"project"`
	Delta   float64             `json:"delta"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvaluate accepts a JSON array of project inputs and returns one
// outcome per project. Invalid rows come back as failed outcomes, not as a
// request-level error.
func (a *App) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var inputs []tender.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if len(inputs) == 0 {
		a.writeError(w, http.StatusBadRequest, "no projects provided")
		return
	}

	batch := a.service.EvaluateBatch(r.Context(), inputs)
	a.writeJSON(w, http.StatusOK, batch)
}

func (a *App) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if req.Delta == 0 {
		req.Delta = 0.20
	}

	report, err := a.service.Sensitivity(r.Context(), req.Project, req.Delta)
	if err != nil {
		if tender.IsValidationError(err) {
			a.writeError(w, http.StatusBadRequest, "invalid project: %v", err)
			return
		}
		a.writeError(w, http.StatusInternalServerError, "sensitivity failed: %v", err)
		return
	}
	a.writeJSON(w, http.StatusOK, report)
}

// handleSample evaluates the built-in reference portfolio.
func (a *App) handleSample(w http.ResponseWriter, r *http.Request) {
	batch := a.service.EvaluateBatch(r.Context(), app.SampleProjects())
	a.writeJSON(w, http.StatusOK, batch)
}
