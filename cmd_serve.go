package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"lexassist/api/handler"
	"lexassist/api/router"
	"lexassist/logic/schema"
	"lexassist/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	// 1. 调用日志与定时清理
	observer, callLog, c, err := initCallLog(cfg)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Stop()
	}

	// 2. LLM
	chatModel, err := initChatModel(ctx, cfg)
	if err != nil {
		return err
	}

	// 3. Service
	generationSvc := service.NewGenerationService(schema.Default(), newGenerator(cfg, chatModel, observer))
	translationSvc := service.NewTranslationService(newTranslator(cfg, chatModel, observer))
	reviewSvc, err := newReviewService(ctx, cfg)
	if err != nil {
		return err
	}

	// 4. Handler
	contractHandler := handler.NewContractHandler(generationSvc, translationSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc, cfg.Server.MaxUploadSize)
	var debugHandler *handler.DebugHandler
	if cfg.Server.Mode != gin.ReleaseMode {
		debugHandler = handler.NewDebugHandler(callLog)
	}

	// 5. Web Server
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Server.MaxUploadSize
	router.RegisterRoutes(r, contractHandler, reviewHandler, debugHandler)

	log.Printf(">>> [INIT] Server running on %s (generator=%s, translator=%s)", cfg.Server.Addr, cfg.Generator.Mode, cfg.Translator.Mode)
	return r.Run(cfg.Server.Addr)
}
