// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query is the façade the transports call: get_regulation,
// get_region and search_regulations, with their success and not-found
// response shapes.
//
// An App is built once at startup and passed to every transport. Not-found
// outcomes are response values, never Go errors.
package query

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/regulation-server/internal/region"
	"github.com/pdiddy/regulation-server/internal/regulation"
	"github.com/pdiddy/regulation-server/pkg/types"
)

// ErrorResponse is returned when a regulation or region id is unknown.
type ErrorResponse struct {
	Error string `json:"error" yaml:"error"`
}

// MessageResponse is the single element returned when a search has no results.
type MessageResponse struct {
	Message string `json:"message" yaml:"message"`
}

// App holds the stores shared by all request handlers.
type App struct {
	Regulations *regulation.Store
	Regions     *region.Store
}

// NewApp loads both stores from dataDir. It fails when the directory or the
// region manifest is missing, or the manifest cannot be parsed.
func NewApp(dataDir string, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is not configured: set REGULATION_DATA_DIR or pass --data-dir")
	}

	regs, err := regulation.Load(dataDir, logger.Named("regulation"))
	if err != nil {
		return nil, err
	}
	regions, err := region.Load(dataDir, regs, logger.Named("region"))
	if err != nil {
		return nil, err
	}

	logger.Info("knowledge base loaded",
		zap.String("data_dir", dataDir),
		zap.Int("regulations", regs.Len()),
		zap.Int("regions", regions.Len()))

	return &App{Regulations: regs, Regions: regions}, nil
}

// GetRegulation returns the full regulation record, or an ErrorResponse.
func (a *App) GetRegulation(regulationID string) any {
	reg, ok := a.Regulations.Get(regulationID)
	if !ok {
		return ErrorResponse{Error: fmt.Sprintf(
			"Regulation '%s' not found. Please check the regulation ID and try again.", regulationID)}
	}
	return reg
}

// GetRegion returns the region with its regulations resolved, or an
// ErrorResponse.
func (a *App) GetRegion(regionID string) any {
	r, ok := a.Regions.Get(regionID, a.Regulations)
	if !ok {
		return ErrorResponse{Error: fmt.Sprintf(
			"Region '%s' not found. Please check the region ID and try again.", regionID)}
	}
	return r
}

// SearchRegulations returns the ranked results as []types.SearchResult, or a
// one-element []MessageResponse when nothing matched.
func (a *App) SearchRegulations(keywords string) any {
	results := a.Regulations.Search(keywords)
	if len(results) == 0 {
		return []MessageResponse{{Message: fmt.Sprintf(
			"No regulations found matching '%s'. Try different keywords or check spelling.", keywords)}}
	}
	return results
}

// ListRegulations returns every regulation id in store order.
func (a *App) ListRegulations() []string { return a.Regulations.IDs() }

// ListRegions returns every region id in manifest order.
func (a *App) ListRegions() []string { return a.Regions.IDs() }

// IsNotFound reports whether v is a not-found response from GetRegulation or
// GetRegion.
func IsNotFound(v any) bool {
	_, ok := v.(ErrorResponse)
	return ok
}

// Snapshot returns every regulation and every resolved region, in store order.
func (a *App) Snapshot() Snapshot {
	snap := Snapshot{Regulations: a.Regulations.All()}
	for _, id := range a.Regions.IDs() {
		if r, ok := a.Regions.Get(id, a.Regulations); ok {
			snap.Regions = append(snap.Regions, r)
		}
	}
	return snap
}

// Snapshot is the whole loaded knowledge base.
type Snapshot struct {
	Regulations []types.Regulation     `json:"regulations" yaml:"regulations"`
	Regions     []types.ResolvedRegion `json:"regions" yaml:"regions"`
}
