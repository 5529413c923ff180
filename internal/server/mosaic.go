package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/pipeline"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// month handles GET /chains/{id}/months/{year}/{month}
//
// Query parameters: format (svg|png|json, default json), width, height,
// day_numbers.
func (s *Server) month(w http.ResponseWriter, r *http.Request) {
	c, days, opts, err := s.monthRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	opts.Formats = []string{format}
	opts.Color = c.Color
	opts.Title = fmt.Sprintf("%s · %s %d", c.Name, chain.MonthName(opts.Month), opts.Year)
	opts.DayNumbers = s.render.DayNumbers || r.URL.Query().Get("day_numbers") == "true"

	res, err := s.runner.Execute(r.Context(), days, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Layout-Key", res.LayoutKey)
	w.Header().Set("X-Label-Index", strconv.Itoa(res.LabelIndex()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// toggleCell handles POST /chains/{id}/months/{year}/{month}/cells/{index}/toggle
//
// The cell index is a day index within the month. The month label cell is
// not a day toggle target and yields 409.
func (s *Server) toggleCell(w http.ResponseWriter, r *http.Request) {
	c, days, opts, err := s.monthRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(days) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"cell index must be between 0 and %d", len(days)-1))
		return
	}

	cells, _, _, err := s.runner.GenerateWithCacheInfo(r.Context(), days, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cells[index].IsMonthLabel {
		s.writeError(w, r, errors.New(errors.ErrCodeLabelCell,
			"cell %d holds the month label and cannot be toggled", index))
		return
	}

	date := days[index].Date
	done, err := s.chains.ToggleDay(r.Context(), c.ID, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, ToggleResponse{
		Date:      chain.DayKey(date),
		DayIndex:  index,
		Completed: done,
	})
}

// monthRequest loads the chain and day list named by the URL and builds
// validated pipeline options from the query string and render defaults.
func (s *Server) monthRequest(r *http.Request) (*chain.Chain, []voronoi.Day, pipeline.Options, error) {
	var opts pipeline.Options

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return nil, nil, opts, errors.New(errors.ErrCodeInvalidDate, "invalid year %q", chi.URLParam(r, "year"))
	}
	m, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return nil, nil, opts, errors.New(errors.ErrCodeInvalidDate, "invalid month %q", chi.URLParam(r, "month"))
	}
	month := time.Month(m)

	opts = pipeline.Options{
		Year:           year,
		Month:          month,
		Width:          s.render.Width,
		Height:         s.render.Height,
		MinSizePercent: s.render.MinSizePercent,
		MaxSizePercent: s.render.MaxSizePercent,
	}
	q := r.URL.Query()
	if opts.Width, err = floatParam(q.Get("width"), opts.Width); err != nil {
		return nil, nil, opts, err
	}
	if opts.Height, err = floatParam(q.Get("height"), opts.Height); err != nil {
		return nil, nil, opts, err
	}

	if err := errors.ValidateMonth(year, month); err != nil {
		return nil, nil, opts, err
	}
	c, err := s.chains.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, opts, err
	}
	days := c.MonthDays(year, month)
	if err := opts.ValidateAndSetDefaults(days); err != nil {
		return nil, nil, opts, err
	}
	return c, days, opts, nil
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidDimensions, "invalid size %q", v)
	}
	return f, nil
}
