package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/iwvelando/shelter-proposal/internal/config"
	"github.com/iwvelando/shelter-proposal/internal/present"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/adapters"
	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/iwvelando/shelter-proposal/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

type proposal struct {
	model    recompute.Model
	policy   string
	warnings []string
}

// Handler serves the web UI and the recompute API. The proposal it serves
// can be replaced at runtime with Update.
type Handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	current     atomic.Pointer[proposal]
	mux         *http.ServeMux
}

// NewHandler constructs the HTTP handler that serves the web UI and recompute API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, maxBodySize int64, version string) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &Handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}
	if err := h.Update(conf); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Field declarations and the starting snapshot
	mux.HandleFunc("/api/defaults", h.handleDefaults)

	// Full recompute of one snapshot
	mux.HandleFunc("/api/recompute", h.handleRecompute)

	// Snapshot serialization for downloads
	mux.HandleFunc("/api/export", h.handleExport)

	// Implementation timeline
	mux.HandleFunc("/api/timeline", h.handleTimeline)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	h.mux = mux
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Update replaces the served proposal. The previous proposal stays in place
// when conf cannot be converted.
func (h *Handler) Update(conf *config.Configuration) error {
	model, err := adapters.ModelFromConfig(conf)
	if err != nil {
		return fmt.Errorf("failed to build proposal model: %w", err)
	}
	h.current.Store(&proposal{
		model:    model,
		policy:   conf.AllocationPolicy,
		warnings: conf.ValidateConfiguration(),
	})
	return nil
}

type fieldResponse struct {
	Key     string   `json:"key"`
	Section string   `json:"section"`
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Min     float64  `json:"min"`
	Max     *float64 `json:"max,omitempty"`
	Step    float64  `json:"step"`
	Default float64  `json:"default"`
}

type defaultsResponse struct {
	Fields           []fieldResponse    `json:"fields"`
	Snapshot         recompute.Snapshot `json:"snapshot"`
	SliderFollows    bool               `json:"sliderFollows"`
	BudgetCurrency   string             `json:"budgetCurrency"`
	RevenueCurrency  string             `json:"revenueCurrency"`
	AllocationPolicy string             `json:"allocationPolicy"`
	Warnings         []string           `json:"warnings,omitempty"`
}

type recomputeResponse struct {
	Derived  recompute.Derived `json:"derived"`
	Report   present.Report    `json:"report"`
	Duration string            `json:"duration"`
}

type rangeErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func (h *Handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	p := h.current.Load()
	fields := p.model.Fields()
	resp := defaultsResponse{
		Fields:           make([]fieldResponse, 0, len(fields)),
		Snapshot:         p.model.DefaultSnapshot(),
		SliderFollows:    p.model.SliderFollows,
		BudgetCurrency:   p.model.BudgetCurrency,
		RevenueCurrency:  p.model.RevenueCurrency,
		AllocationPolicy: p.policy,
		Warnings:         p.warnings,
	}
	for _, f := range fields {
		fr := fieldResponse{
			Key:     f.Key(),
			Section: string(f.Section),
			Name:    f.Name,
			Label:   f.Label,
			Min:     f.Bounds.Min.InexactFloat64(),
			Step:    f.Bounds.Step.InexactFloat64(),
			Default: f.Default.InexactFloat64(),
		}
		if f.Bounds.Max != nil {
			v := f.Bounds.Max.InexactFloat64()
			fr.Max = &v
		}
		resp.Fields = append(resp.Fields, fr)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecompute"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	p := h.current.Load()

	snapshot, ok := h.decodeSnapshot(w, r, op)
	if !ok {
		return
	}

	resolved, err := p.model.Resolve(snapshot)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := p.model.Validate(resolved); err != nil {
		h.respondRangeError(w, err, op)
		return
	}

	derived, err := recompute.Run(h.logger, p.model, resolved)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, fmt.Sprintf("failed to recompute proposal: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Debug("proposal recomputed",
		zap.String("op", op),
		zap.Int("warnings", len(derived.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, recomputeResponse{
		Derived:  derived,
		Report:   present.Build(p.model, derived),
		Duration: elapsed.String(),
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	p := h.current.Load()
	snapshot, ok := h.decodeSnapshot(w, r, op)
	if !ok {
		return
	}

	resolved, err := p.model.Resolve(snapshot)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	yamlBytes, err := recompute.MarshalSnapshotYAML(p.model, resolved)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode snapshot: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"snapshotYaml": string(yamlBytes),
	})
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	p := h.current.Load()
	h.writeJSON(w, http.StatusOK, map[string][]present.Phase{
		"timeline": present.Timeline(p.model.Timeline),
	})
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeSnapshot reads a JSON snapshot from a size limited body. An empty
// body is the empty snapshot.
func (h *Handler) decodeSnapshot(w http.ResponseWriter, r *http.Request, op string) (recompute.Snapshot, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var snapshot recompute.Snapshot
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snapshot); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return recompute.Snapshot{}, false
		case errors.Is(err, io.EOF):
			return recompute.Snapshot{}, true
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode snapshot: %v", err), op)
		return recompute.Snapshot{}, false
	}
	return snapshot, true
}

func (h *Handler) respondRangeError(w http.ResponseWriter, err error, op string) {
	resp := rangeErrorResponse{Error: err.Error()}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			var rangeErr *validation.InvalidRangeError
			if errors.As(e, &rangeErr) {
				resp.Fields = append(resp.Fields, rangeErr.Field)
			}
		}
	}

	h.logger.Info("snapshot rejected",
		zap.String("op", op),
		zap.Strings("fields", resp.Fields),
	)
	h.writeJSON(w, http.StatusBadRequest, resp)
}

func (h *Handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
