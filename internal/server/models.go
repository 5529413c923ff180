package server

import (
	"time"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/errors"
)

// CreateChainRequest is the body of POST /chains. StartDate is YYYY-MM-DD
// and defaults to today.
type CreateChainRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Goal        string `json:"goal,omitempty"`
	Color       string `json:"color,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
}

func (req CreateChainRequest) params() (chain.CreateParams, error) {
	p := chain.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		Color:       req.Color,
	}
	if req.StartDate != "" {
		t, err := errors.ParseDayKey(req.StartDate)
		if err != nil {
			return p, err
		}
		p.StartDate = t
	}
	return p, nil
}

// UpdateChainRequest is the body of PATCH /chains/{id}. Omitted fields are
// unchanged; an empty end_date clears it.
type UpdateChainRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Goal        *string `json:"goal,omitempty"`
	Color       *string `json:"color,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

func (req UpdateChainRequest) update() (chain.Update, error) {
	u := chain.Update{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		Color:       req.Color,
	}
	if req.StartDate != nil {
		t, err := errors.ParseDayKey(*req.StartDate)
		if err != nil {
			return u, err
		}
		u.StartDate = &t
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			u.ClearEndDate = true
		} else {
			t, err := errors.ParseDayKey(*req.EndDate)
			if err != nil {
				return u, err
			}
			u.EndDate = &t
		}
	}
	return u, nil
}

// ChainResponse is a chain with its progress summary.
type ChainResponse struct {
	*chain.Chain
	Stats chain.Stats `json:"stats"`
}

// ToggleResponse reports the state of a day after a toggle.
type ToggleResponse struct {
	Date      string `json:"date"`
	DayIndex  int    `json:"day_index"`
	Completed bool   `json:"completed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Commit  string    `json:"commit"`
	Time    time.Time `json:"time"`
}
