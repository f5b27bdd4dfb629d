package app

import (
	"fmt"
	"slices"
	"strings"

	"paperkit/adapters/chart"
	"paperkit/domain/table"
	"paperkit/internal"
	"paperkit/internal/errors"
)

// Plot kinds accepted by PlotService
const (
	PlotScatter   = "scatter"
	PlotLine      = "line"
	PlotBar       = "bar"
	PlotBox       = "box"
	PlotHistogram = "histogram"
)

// PlotKinds lists the supported plot kinds
var PlotKinds = []string{PlotScatter, PlotLine, PlotBar, PlotBox, PlotHistogram}

// PlotRequest describes one figure to render from a table
type PlotRequest struct {
	Kind    string
	X       string
	Y       string
	Hue     string
	Title   string
	Output  string
	Options chart.Options
}

// PlotService renders figures from tables
type PlotService struct {
	log *internal.Logger
}

// NewPlotService creates a plot service
func NewPlotService(log *internal.Logger) *PlotService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &PlotService{log: log}
}

// CreatePlot builds the requested figure and saves it when Output is set.
// The title defaults to "<y> vs <x>"; bar plots show the mean of y per x
// (and hue) category.
func (s *PlotService) CreatePlot(t *table.Table, req PlotRequest) (*chart.Figure, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if !slices.Contains(PlotKinds, kind) {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown plot type '%s' (expected one of %s)",
			req.Kind, strings.Join(PlotKinds, ", ")))
	}
	if req.X == "" {
		return nil, errors.InvalidInput(fmt.Sprintf("--x-col is required for %s plots", kind))
	}
	if req.Y == "" && kind != PlotHistogram {
		return nil, errors.InvalidInput(fmt.Sprintf("--y-col is required for %s plots", kind))
	}
	required := []string{req.X}
	if kind != PlotHistogram {
		required = append(required, req.Y)
	}
	if req.Hue != "" {
		required = append(required, req.Hue)
	}
	if err := t.Require(required...); err != nil {
		return nil, err
	}

	opt := req.Options
	opt.Hue = req.Hue
	opt.Title = req.Title
	if opt.Title == "" && kind != PlotHistogram {
		opt.Title = fmt.Sprintf("%s vs %s", req.Y, req.X)
	}

	var (
		fig *chart.Figure
		err error
	)
	switch kind {
	case PlotScatter:
		fig, err = chart.Scatter(t, req.X, req.Y, opt)
	case PlotLine:
		fig, err = chart.Line(t, req.X, req.Y, opt)
	case PlotBar:
		keys := []string{req.X}
		if req.Hue != "" {
			keys = append(keys, req.Hue)
		}
		means, aggErr := t.GroupMean(keys, req.Y)
		if aggErr != nil {
			return nil, aggErr
		}
		fig, err = chart.Bar(means, req.X, req.Y, opt)
	case PlotBox:
		fig, err = chart.Box(t, req.X, req.Y, opt)
	case PlotHistogram:
		fig, err = chart.Histogram(t, req.X, opt)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown plot type '%s' (expected one of %s)",
			req.Kind, strings.Join(PlotKinds, ", ")))
	}
	if err != nil {
		return nil, err
	}

	if req.Output != "" {
		if err := fig.Save(req.Output); err != nil {
			return nil, err
		}
		s.log.Info("[Plot] %s plot saved to %s", kind, req.Output)
	}
	return fig, nil
}
