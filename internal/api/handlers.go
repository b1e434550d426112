package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"coddog/internal/db"
	"coddog/internal/errors"
	"coddog/internal/ingest"
	"coddog/internal/platform"
)

func (s *Server) getProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if projects == nil {
		projects = []db.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

type projectRequest struct {
	Name string  `json:"name"`
	Repo *string `json:"repo"`
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, errors.New(errors.KindBadRequest, "invalid project body"))
		return
	}
	id, err := s.db.CreateProject(r.Context(), req.Name, req.Repo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, id)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New(errors.KindBadRequest, "invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	project, err := s.db.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, errors.New(errors.KindBadRequest, "invalid project body"))
		return
	}
	if err := s.db.UpdateProject(r.Context(), id, req.Name, req.Repo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.DeleteProject(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type symbolNameRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) querySymbolsByName(w http.ResponseWriter, r *http.Request) {
	var req symbolNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeError(w, errors.New(errors.KindBadRequest, "invalid symbol query body"))
		return
	}
	syms, err := s.db.SymbolsByName(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if syms == nil {
		syms = []db.DBSymbol{}
	}
	writeJSON(w, http.StatusOK, syms)
}

func (s *Server) getSymbol(w http.ResponseWriter, r *http.Request) {
	sym, err := s.db.SymbolBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sym)
}

func (s *Server) getSymbolMatches(w http.ResponseWriter, r *http.Request) {
	sym, err := s.db.SymbolBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	// Channels are reported strictest-first; a symbol already claimed by a
	// stricter channel is not repeated in a looser one.
	seen := map[int64]bool{}
	channels := map[db.MatchChannel][]db.DBSymbol{}
	for _, ch := range []db.MatchChannel{db.MatchExact, db.MatchEquivalent, db.MatchOpcode} {
		matches, err := s.db.SymbolsByChannel(r.Context(), sym, ch)
		if err != nil {
			writeError(w, err)
			return
		}
		kept := []db.DBSymbol{}
		for _, m := range matches {
			if !seen[m.ID] {
				seen[m.ID] = true
				kept = append(kept, m)
			}
		}
		channels[ch] = kept
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":      sym,
		"exact":      channels[db.MatchExact],
		"equivalent": channels[db.MatchEquivalent],
		"opcode":     channels[db.MatchOpcode],
	})
}

type submatchRequest struct {
	Start     *int64 `json:"start"`
	End       *int64 `json:"end"`
	MinLength int64  `json:"min_length"`
	Size      int64  `json:"size"`
	Page      int64  `json:"page"`
}

type submatchResult struct {
	db.SubmatchRow
	LengthInsns int64 `json:"length_insns"`
}

func (s *Server) getSymbolSubmatches(w http.ResponseWriter, r *http.Request) {
	var req submatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.KindBadRequest, "invalid submatch body"))
		return
	}
	if req.Size <= 0 || req.Size > maxPageSize {
		writeError(w, errors.New(errors.KindBadRequest, "size must be between 1 and %d", maxPageSize))
		return
	}
	if req.Page < 0 {
		writeError(w, errors.New(errors.KindBadRequest, "page must be at least 0"))
		return
	}

	sym, err := s.db.SymbolBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	start := int64(0)
	if req.Start != nil {
		start = *req.Start
	}
	end := int64(^uint32(0) >> 1)
	if req.End != nil {
		end = *req.End
	}

	rows, total, err := s.db.Submatch(r.Context(), db.SubmatchRequest{
		SymbolID:   sym.ID,
		Start:      start,
		End:        end,
		UserWindow: req.MinLength,
		PageSize:   req.Size,
		Page:       req.Page,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	wdb := int64(s.db.WindowSize())
	results := make([]submatchResult, len(rows))
	asm := map[string][]string{}
	for i, row := range rows {
		results[i] = submatchResult{SubmatchRow: row, LengthInsns: row.Length + wdb - 1}
		if _, ok := asm[row.SymbolSlug]; ok || row.Platform == nil {
			continue
		}
		p, perr := platform.Of(*row.Platform)
		if perr != nil {
			continue
		}
		rowsText, perr := ingest.AsmForSymbol(row.ObjectPath, int(row.ObjectSymbolIdx), p)
		if perr != nil {
			continue
		}
		asm[row.SymbolSlug] = rowsText
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":      sym,
		"submatches": results,
		"asm":        asm,
		"total":      total,
	})
}
