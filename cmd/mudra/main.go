package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/archive"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	// Initialize the store
	if cfg.DBDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0755); err != nil {
			logger.WithError(err).Fatal("Failed to create data directory")
		}
	}
	st, err := store.New(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize store")
	}
	defer st.Close()

	det, err := newDetector(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize hand detector")
	}

	classifier := gesture.NewClassifier(gesture.Thresholds{
		Extension: cfg.ExtensionThreshold,
		Thumb:     cfg.ThumbThreshold,
	})
	svc := app.NewService(app.NewPipeline(det, classifier), st.Readings())
	defer svc.Close()

	if cfg.ArchiveEnabled() {
		arch, err := archive.NewAzureArchiver(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize image archive")
		}
		svc.SetArchiver(arch)
		logger.WithField("container", arch.Container()).Info("Archiving images to Azure Blob Storage")
	}

	hub := server.NewHub()
	defer hub.Close()
	svc.SetPublisher(hub)

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.WithField("dir", staticDir).Info("Serving static files")
	}

	handler := server.New(server.Config{
		StaticDir:          staticDir,
		Service:            svc,
		Hub:                hub,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address":  cfg.ServerAddress(),
			"driver":   cfg.DBDriver,
			"detector": cfg.Detector,
		}).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// newDetector builds the configured landmark source, pooled when more than
// one instance is requested. A missing MediaPipe install falls back to the
// mock detector so the rest of the service stays usable.
func newDetector(cfg *config.Config) (detector.Detector, error) {
	dcfg := detector.DefaultConfig()
	dcfg.MinConfidence = cfg.MinDetectionConfidence
	dcfg.ScriptPath = cfg.MediaPipeScript
	dcfg.PythonPath = cfg.MediaPipePython

	kind := cfg.Detector
	if kind == config.DetectorMediaPipe {
		if _, err := detector.NewMediaPipeDetector(dcfg); err != nil {
			logger.WithError(err).Warn("MediaPipe not available, using mock detector")
			kind = config.DetectorMock
		}
	}

	factory := func() (detector.Detector, error) {
		switch kind {
		case config.DetectorMediaPipe:
			return detector.NewMediaPipeDetector(dcfg)
		case config.DetectorHTTP:
			return detector.NewHTTPDetector(cfg.LandmarkServiceURL, cfg.DetectorTimeout)
		default:
			return detector.NewMockDetector(), nil
		}
	}

	if kind == config.DetectorHTTP {
		if d, err := detector.NewHTTPDetector(cfg.LandmarkServiceURL, cfg.DetectorTimeout); err == nil {
			if err := d.Health(); err != nil {
				logger.WithError(err).Warn("Landmark service is not healthy yet")
			}
			d.Close()
		}
	}

	if cfg.DetectorPoolSize <= 1 {
		return factory()
	}

	logger.WithFields(logrus.Fields{
		"detector": kind,
		"size":     cfg.DetectorPoolSize,
	}).Info("Starting detector pool")
	return detector.NewPool(cfg.DetectorPoolSize, factory)
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
