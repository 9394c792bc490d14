package server

import (
	"fmt"
	"net/http"

	"github.com/alexedwards/flow"
)

func (s *Service) handleArtifactGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")

	result, err := s.artifactCache.GetOrGenerate(ctx, quotationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Service) handleArtifactDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	artifactID := flow.Param(ctx, "artifactID")

	artifact, err := s.artifactsRepo.Artifact(ctx, artifactID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	data, err := s.blobs.Download(ctx, artifact.StorageKey)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.QuotationID+".pdf"))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).WithField("artifact_id", artifactID).Error("failed to stream artifact")
	}
}

func (s *Service) handlePageGroupRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pageGroupID := flow.Param(ctx, "pageGroupID")

	if err := s.artifactCache.InvalidateGroup(ctx, pageGroupID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
