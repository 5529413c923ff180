package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/habitmosaic/pkg/buildinfo"
	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/errors"
)

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Resolve()
	JSONResponse(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: info.Version,
		Commit:  info.Commit,
		Time:    time.Now().UTC(),
	})
}

// listChains handles GET /chains
func (s *Server) listChains(w http.ResponseWriter, r *http.Request) {
	chains, err := s.chains.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]ChainResponse, 0, len(chains))
	for _, c := range chains {
		out = append(out, s.chainResponse(c))
	}
	JSONResponse(w, http.StatusOK, out)
}

// createChain handles POST /chains
func (s *Server) createChain(w http.ResponseWriter, r *http.Request) {
	var req CreateChainRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := req.params()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.chains.Create(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/chains/"+c.ID)
	JSONResponse(w, http.StatusCreated, s.chainResponse(c))
}

// getChain handles GET /chains/{id}
func (s *Server) getChain(w http.ResponseWriter, r *http.Request) {
	c, err := s.chains.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, s.chainResponse(c))
}

// updateChain handles PATCH /chains/{id}
func (s *Server) updateChain(w http.ResponseWriter, r *http.Request) {
	var req UpdateChainRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.chains.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, s.chainResponse(c))
}

// deleteChain handles DELETE /chains/{id}
func (s *Server) deleteChain(w http.ResponseWriter, r *http.Request) {
	if err := s.chains.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// chainStats handles GET /chains/{id}/stats
func (s *Server) chainStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.chains.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, stats)
}

// toggleDay handles POST /chains/{id}/days/{date}/toggle
func (s *Server) toggleDay(w http.ResponseWriter, r *http.Request) {
	date, err := errors.ParseDayKey(chi.URLParam(r, "date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	done, err := s.chains.ToggleDay(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, ToggleResponse{
		Date:      chain.DayKey(date),
		DayIndex:  date.Day() - 1,
		Completed: done,
	})
}

func (s *Server) chainResponse(c *chain.Chain) ChainResponse {
	return ChainResponse{Chain: c, Stats: c.Stats(time.Now())}
}
