package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vandana/paligest/internal/pali"
	"github.com/vandana/paligest/internal/segmentstore"
)

// handleListWorks lists all imported works.
func (s *Server) handleListWorks(w http.ResponseWriter, r *http.Request) {
	works, err := s.orchestrator.StoreClient().ListWorks(r.Context())
	if err != nil {
		jsonError(w, "failed to list works: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if works == nil {
		works = []segmentstore.WorkInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"works": works})
}

// handleImportTranslations imports a JSON array of translation rows keyed by
// segment location. Rows with no matching stored segment are counted as
// missing, never an error: re-parsing is heuristic and keys may drift.
func (s *Server) handleImportTranslations(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "workID")

	var rows []segmentstore.TranslationRow
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&rows); err != nil {
		jsonError(w, "invalid translation json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		jsonError(w, "no translation rows", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	store := s.orchestrator.StoreClient()
	imported, missing := 0, 0
	for _, row := range rows {
		err := store.PutTranslation(ctx, workID, row)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, segmentstore.ErrNotFound):
			missing++
		default:
			jsonError(w, "store translation: "+err.Error(), http.StatusBadGateway)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"imported": imported,
		"missing":  missing,
		"total":    len(rows),
	})
}

// handleBackfillPages re-parses an uploaded source document and reconciles
// stored segments' page numbers by (vagga_id, sutta_id, paragraph_id) key.
// Stored segments absent from the fresh parse are counted missing and left
// unmodified, never deleted.
func (s *Server) handleBackfillPages(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "workID")

	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	pages, ok := s.extractPages(w, filename, data, formInt(r, "max_pages"))
	if !ok {
		return
	}

	parser := pali.NewPDFParser(filename)
	fresh, err := parser.Parse(pali.ParseOptions{
		MaxChunkSize: s.cfg.DefaultMaxChunkSize,
		PagesLines:   pages,
	})
	if err != nil {
		jsonError(w, "re-parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	type locKey struct{ vagga, sutta, para int }
	freshPages := make(map[locKey]int, len(fresh))
	for _, seg := range fresh {
		freshPages[locKey{seg.VaggaID, seg.SuttaID, seg.ParagraphID}] = seg.PageNumber
	}

	ctx := r.Context()
	store := s.orchestrator.StoreClient()
	stored, err := store.ListSegments(ctx, workID)
	if err != nil {
		jsonError(w, "list segments: "+err.Error(), http.StatusBadGateway)
		return
	}

	updated, unchanged, missing := 0, 0, 0
	for _, seg := range stored {
		page, found := freshPages[locKey{seg.VaggaID, seg.SuttaID, seg.ParagraphID}]
		switch {
		case !found:
			missing++
		case page == seg.PageNumber:
			unchanged++
		default:
			if err := store.UpdatePageNumber(ctx, workID, seg.VaggaID, seg.SuttaID, seg.ParagraphID, page); err != nil {
				jsonError(w, "update page: "+err.Error(), http.StatusBadGateway)
				return
			}
			updated++
		}
	}

	s.log.Info("backfilled page numbers",
		"work_id", workID,
		"updated", updated,
		"unchanged", unchanged,
		"missing", missing,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"updated":   updated,
		"unchanged": unchanged,
		"missing":   missing,
		"total":     len(stored),
	})
}

// handleParseStats reports rolling parse-latency aggregates.
func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"parse":       s.orchestrator.ParseStats().Snapshot(),
	})
}
