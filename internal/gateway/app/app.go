package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"modelpuzzle/internal/blobstore"
	"modelpuzzle/internal/chat"
	"modelpuzzle/internal/gateway/config"
	"modelpuzzle/internal/gateway/handler"
	"modelpuzzle/internal/gateway/server"
	"modelpuzzle/internal/llmclient"
	"modelpuzzle/internal/ocr"
	"modelpuzzle/internal/smartimport"
	"modelpuzzle/internal/statestore"
)

type App struct {
	server *server.Server
	llm    llmclient.Client
	states *statestore.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Stores
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	states := newStateStore(cfg, rdb)
	jobs := newJobStore(cfg, rdb)
	convs := newConvStore(cfg, rdb)
	mirror := statestore.NewMirror(cfg.MirrorDir)

	var blobs *blobstore.Store
	if cfg.Blob.Enabled {
		blobs, err = blobstore.New(blobstore.Config{
			Endpoint:  cfg.Blob.Endpoint,
			Region:    cfg.Blob.Region,
			AccessKey: cfg.Blob.AccessKey,
			SecretKey: cfg.Blob.SecretKey,
			Bucket:    cfg.Blob.Bucket,
			UseSSL:    cfg.Blob.UseSSL,
		})
		if err != nil {
			log.Printf("[app] blob storage disabled: %v", err)
			blobs = nil
		}
	}

	// Model and extraction chain
	llm, err := llmclient.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	extractor := newExtractorChain(cfg, llm)

	// Services and handlers
	pipeline := smartimport.NewPipeline(llm, extractor, jobs, blobs)
	chatSvc := chat.NewService(llm, convs)

	mux := server.NewMux(
		handler.NewStateHandler(states, mirror),
		handler.NewChatHandler(chatSvc),
		handler.NewSmartImportHandler(pipeline, jobs, blobs, cfg.MaxDirectBytes, cfg.MaxUploadBytes),
		handler.NewBoardWSHandler(),
	)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		llm:    llm,
		states: states,
	}, nil
}

func newExtractorChain(cfg *config.Config, llm llmclient.Client) ocr.Extractor {
	extractors := make([]ocr.Extractor, 0, 3)
	if cfg.OCR.URL != "" {
		extractors = append(extractors, ocr.NewServiceClient(cfg.OCR.URL, cfg.OCR.Token))
	}
	if reader, ok := llm.(llmclient.DocumentReader); ok {
		extractors = append(extractors, ocr.NewMultimodal(reader))
	}
	extractors = append(extractors, ocr.NewPlain())
	return ocr.NewChain(extractors...)
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	_ = a.llm.Close()
	if cerr := a.states.Close(); err == nil {
		err = cerr
	}
	return err
}
