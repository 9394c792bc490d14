package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boohk/internal/artifact"
	"boohk/internal/booking"
	"boohk/internal/compliance"
	"boohk/internal/db"
	"boohk/internal/pagination"
	"boohk/internal/pdf"
	"boohk/internal/server"
	"boohk/internal/signature"
	"boohk/internal/storage"
	"boohk/internal/store"
	"boohk/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

// quotationPageSource adapts the quotation repository to what the
// pagination manager consumes.
type quotationPageSource struct {
	repo *store.QuotationRepository
}

func (s quotationPageSource) QuotationPage(ctx context.Context, filter types.QuotationFilter, after *types.PageKey, limit uint64) ([]*types.Quotation, error) {
	return s.repo.QuotationPage(ctx, filter, after, limit)
}

func (s quotationPageSource) Subscribe(ctx context.Context) (pagination.Subscription, error) {
	return s.repo.Subscribe(ctx)
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	quotationsRepo := store.NewQuotationRepository(pool)
	artifactsRepo := store.NewArtifactRepository(pool)
	complianceRepo := store.NewComplianceRepository(pool)
	bookingsRepo := store.NewBookingRepository(pool)
	signersRepo := store.NewSignerRepository(pool)
	companiesRepo := store.NewCompanyRepository(pool)

	blobs := storage.NewS3Storage(s3Client, config.S3BucketName)

	signatures := signature.NewProvider(signersRepo, blobs)
	assembler := pdf.NewAssembler(companiesRepo, signersRepo, blobs, logger)
	renderer := pdf.NewRenderer()

	artifactCache := artifact.NewCache(quotationsRepo, artifactsRepo, signatures, assembler, renderer, blobs, logger)
	tracker := compliance.NewTracker(complianceRepo, blobs, logger)
	gate := booking.NewGate(quotationsRepo, bookingsRepo, tracker, artifactCache, logger)
	pager := pagination.NewManager(ctx, quotationPageSource{repo: quotationsRepo}, config.PageSize, logger)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initilaize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.AuthIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register issuer jwk with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		quotationsRepo,
		artifactsRepo,
		artifactCache,
		tracker,
		gate,
		pager,
		blobs,
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
