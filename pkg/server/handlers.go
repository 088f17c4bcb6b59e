package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/buildinfo"
	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/page"
	"github.com/matzehuels/zonecut/pkg/pipeline"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Request is the body of the POST endpoints.
type Request struct {
	// ID overrides the page ID found in the document.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Format of Page; empty means canonical.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Page is the page document in Format.
	Page json.RawMessage `json:"page" yaml:"-"`

	// Options override the server defaults field by field.
	Options json.RawMessage `json:"options,omitempty" yaml:"-"`

	// ToPixels and MinScore are passed to the importers.
	ToPixels bool    `json:"to_pixels,omitempty" yaml:"to_pixels,omitempty"`
	MinScore float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
}

// OrderResponse is returned by POST /v1/order.
type OrderResponse struct {
	Page    string         `json:"page"`
	Order   []string       `json:"order"`
	Dropped []zone.Dropped `json:"dropped,omitempty"`
}

// ArticlesResponse is returned by POST /v1/articles.
type ArticlesResponse struct {
	Page        string               `json:"page"`
	Articles    []article.Article    `json:"articles"`
	Unclustered []string             `json:"unclustered"`
	Trace       []article.TraceEntry `json:"trace,omitempty"`
	Dropped     []zone.Dropped       `json:"dropped,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	p, opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	zones, dropped, err := pipeline.Prepare(p.Zones, opts.Strict)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := pipeline.Order(zones, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{Page: p.ID, Order: order, Dropped: dropped})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	p, opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	zones, dropped, err := pipeline.Prepare(p.Zones, opts.Strict)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, _, trace := pipeline.Cluster(zones, opts)
	out := ArticlesResponse{Page: p.ID, Articles: res.Articles, Unclustered: res.Unclustered, Dropped: dropped}
	if opts.IncludeTrace {
		out.Trace = trace.Entries()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	p, opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger
	res, err := s.runner.Analyze(r.Context(), p, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.CacheHit {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Latest(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decode reads a Request body (JSON, or YAML by content type) and returns
// the imported page and the effective options.
func (s *Server) decode(r *http.Request) (*page.Page, pipeline.Options, error) {
	opts := s.defaults
	opts.LabelBonuses = append([]article.LabelBonus(nil), s.defaults.LabelBonuses...)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		if body, err = yamlRequestToJSON(body); err != nil {
			return nil, opts, err
		}
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Page) == 0 {
		return nil, opts, errors.New(errors.ErrCodeInvalidInput, "page is required")
	}
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			return nil, opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options")
		}
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, opts, err
	}

	format, err := page.ParseFormat(req.Format)
	if err != nil {
		return nil, opts, err
	}
	p, err := page.Decode(req.Page, page.ImportOptions{
		Format:       format,
		Encoding:     page.JSON,
		StrictLabels: opts.Strict,
		ToPixels:     req.ToPixels,
		MinScore:     req.MinScore,
		ID:           req.ID,
	})
	if err != nil {
		return nil, opts, err
	}
	return p, opts, nil
}

// yamlRequestToJSON re-encodes a YAML request as JSON so the raw page and
// options fields can be handed to the JSON importers.
func yamlRequestToJSON(body []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(body, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml request")
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml request")
	}
	return out, nil
}
