package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"boohk/internal/artifact"
	"boohk/internal/booking"
	"boohk/internal/compliance"
	"boohk/internal/pagination"
	"boohk/internal/storage"
	"boohk/internal/store"
	"boohk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	quotationsRepo *store.QuotationRepository
	artifactsRepo  *store.ArtifactRepository
	artifactCache  *artifact.Cache
	tracker        *compliance.Tracker
	gate           *booking.Gate
	pager          *pagination.Manager
	blobs          *storage.S3Storage

	cookie *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	quotationsRepo *store.QuotationRepository,
	artifactsRepo *store.ArtifactRepository,
	artifactCache *artifact.Cache,
	tracker *compliance.Tracker,
	gate *booking.Gate,
	pager *pagination.Manager,
	blobs *storage.S3Storage,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		quotationsRepo: quotationsRepo,
		artifactsRepo:  artifactsRepo,
		artifactCache:  artifactCache,
		tracker:        tracker,
		gate:           gate,
		pager:          pager,
		blobs:          blobs,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	s.pager.Close()
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireSession)

		r.HandleFunc("/quotations", s.handleQuotationList, http.MethodGet)
		r.HandleFunc("/quotations", s.handleQuotationCreate, http.MethodPost)
		r.HandleFunc("/quotations/:quotationID", s.handleQuotationDetail, http.MethodGet)

		r.HandleFunc("/quotations/:quotationID/artifact", s.handleArtifactGenerate, http.MethodPost)
		r.HandleFunc("/artifacts/:artifactID/download", s.handleArtifactDownload, http.MethodGet)
		r.HandleFunc("/page-groups/:pageGroupID/refresh", s.handlePageGroupRefresh, http.MethodPost)

		r.HandleFunc("/quotations/:quotationID/compliance", s.handleComplianceSnapshot, http.MethodGet)
		r.HandleFunc("/quotations/:quotationID/compliance/:itemKey/upload", s.handleComplianceUpload, http.MethodPost)
		r.HandleFunc("/quotations/:quotationID/compliance/:itemKey/decision", s.handleComplianceDecision, http.MethodPost)

		r.HandleFunc("/quotations/:quotationID/booking", s.handleBookingCreate, http.MethodPost)
		r.HandleFunc("/quotations/:quotationID/job-order/validation", s.handleJobOrderValidation, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) signerIDFromContext(ctx context.Context) (string, error) {
	signerID, ok := ctx.Value(contextKeySignerID).(string)
	if !ok {
		return "", fmt.Errorf("signer id not found in context")
	}
	return signerID, nil
}
