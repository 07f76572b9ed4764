package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"time"

	"content-fraud-detection/internal/classifier"
	"content-fraud-detection/internal/config"
	"content-fraud-detection/internal/core"
	"content-fraud-detection/internal/database"
	"content-fraud-detection/internal/detector"
	"content-fraud-detection/internal/events"
	"content-fraud-detection/internal/handler"
	"content-fraud-detection/internal/middleware"
	mongorepo "content-fraud-detection/internal/repository/mongo"
	"content-fraud-detection/internal/service"
	"content-fraud-detection/internal/utils/limiter"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/acme/autocert"
)

func main() {
	// 1. Config
	cfg := config.Load()
	log.Printf("🚀 Starting fraud detection service in %s mode...", cfg.AppEnv)

	// 2. Persistence (optional: check endpoints run without it)
	var mongoClient *mongo.Client
	var decisionRepo core.DecisionRepository
	if client, err := database.Connect(cfg.MongoURI); err != nil {
		log.Printf("⚠️ MongoDB connection failed, decisions will not be persisted: %v", err)
	} else {
		mongoClient = client
		defer mongoClient.Disconnect(context.Background())
		decisionRepo = mongorepo.NewDecisionRepository(mongoClient)
	}

	// 3. Events (optional)
	var publisher core.EventPublisher
	if cfg.NATSURL != "" {
		p, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Printf("⚠️ NATS connection failed, fraud events disabled: %v", err)
		} else {
			publisher = p
			defer p.Close()
		}
	}

	// 4. Pipeline
	gateway := classifier.New(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.ModelText, cfg.ModelVision, cfg.ClassifierTimeout)
	extractor := detector.NewExtractor(detector.PDFReader{}, detector.DocxReader{})
	walker := detector.NewArchiveWalker(extractor, detector.ZipOpener{}, detector.RarOpener{})
	engine := detector.NewEngine(gateway, extractor, walker,
		cfg.MaxTextChars, cfg.MaxExtractedTextChars, cfg.FailClosed)

	// 5. Services
	checkService := service.NewCheckService(engine, decisionRepo, publisher)
	rateLimiter := limiter.New(cfg.RateLimit, 1*time.Minute)

	// 6. Handlers
	checkHandler := handler.NewCheckHandler(checkService, rateLimiter, cfg.MaxFileBytes)
	decisionHandler := handler.NewDecisionHandler(checkService)
	systemHandler := handler.NewSystemHandler(mongoClient)

	// 7. Routes
	mux := http.NewServeMux()
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// --- Public API ---
	mux.HandleFunc("/check/text", checkHandler.CheckText)
	mux.HandleFunc("/check/image", checkHandler.CheckImage)
	mux.HandleFunc("/check/file", checkHandler.CheckFile)
	mux.HandleFunc("/health", handler.Health)

	// --- Protected API ---
	mux.HandleFunc("/api/status", authMiddleware(systemHandler.Status))
	mux.HandleFunc("/api/decisions", authMiddleware(decisionHandler.List))

	// 8. Middleware Chain
	loggedRouter := middleware.RequestLogger(mux)
	finalHandler := middleware.CORS(cfg)(loggedRouter)

	// 9. Start Server
	if cfg.AppEnv == "production" && len(cfg.TLSHosts) > 0 {
		serveTLS(cfg, finalHandler)
		return
	}

	log.Printf("✅ HTTP server running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, finalHandler); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}

func serveTLS(cfg *config.Config, h http.Handler) {
	certManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.TLSHosts...),
		Cache:      autocert.DirCache("certs"),
	}

	httpsServer := &http.Server{
		Addr:    ":443",
		Handler: h,
		TLSConfig: &tls.Config{
			GetCertificate: certManager.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Printf("✅ HTTP challenge server running on :80")
		if err := http.ListenAndServe(":80", certManager.HTTPHandler(nil)); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Printf("🔒 HTTPS server running on :443")
	if err := httpsServer.ListenAndServeTLS("", ""); err != nil {
		log.Fatalf("HTTPS server failed: %v", err)
	}
}
