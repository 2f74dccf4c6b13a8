package main

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/robfig/cron/v3"

	"lexassist/job"
	"lexassist/logic/chat"
	"lexassist/logic/ingestion/extract"
	"lexassist/logic/reference"
	"lexassist/service"
	"lexassist/storage/es"
	"lexassist/storage/postgres"
	"lexassist/vars"
)

// loadConfig 读取并校验配置
func loadConfig() (*vars.Config, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := vars.Load(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// initCallLog 调用记录：内存保留最近若干条，配置了数据库时同时落库并定时清理
func initCallLog(cfg *vars.Config) (service.CallObserver, service.CallLog, *cron.Cron, error) {
	mem := service.NewMemoryObserver(50)
	if cfg.DB.Driver == vars.DRIVER_NONE {
		return mem, mem, nil, nil
	}

	db, err := postgres.InitDB(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		return nil, nil, nil, err
	}
	repo := postgres.NewCallLogRepo(db)
	repoObs := service.NewRepoObserver(repo)

	c, err := job.StartCronJob(repo, cfg.CallLog.PruneSpec, cfg.CallLog.Retention)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("start prune job failed: %w", err)
	}
	log.Printf(">>> [INIT] 调用日志已落库 (%s)，保留 %v", cfg.DB.Driver, cfg.CallLog.Retention)
	return service.MultiObserver{mem, repoObs}, repoObs, c, nil
}

// initChatModel 只有生成或翻译走 LLM 时才创建模型
func initChatModel(ctx context.Context, cfg *vars.Config) (model.BaseChatModel, error) {
	if cfg.Generator.Mode != vars.MODE_LLM && cfg.Translator.Mode != vars.MODE_LLM {
		return nil, nil
	}
	m, err := chat.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	log.Printf(">>> [INIT] LLM: %s %s", cfg.LLM.Provider, cfg.LLM.Model)
	return m, nil
}

func newGenerator(cfg *vars.Config, m model.BaseChatModel, obs service.CallObserver) service.Generator {
	if cfg.Generator.Mode == vars.MODE_LLM {
		return service.NewLLMGenerator(m, obs)
	}
	return service.NewHTTPGenerator(cfg.Generator.Endpoint, cfg.Generator.Timeout, obs)
}

func newTranslator(cfg *vars.Config, m model.BaseChatModel, obs service.CallObserver) service.Translator {
	switch cfg.Translator.Mode {
	case vars.MODE_HTTP:
		return service.NewHTTPTranslator(cfg.Translator.Endpoint, cfg.Translator.APIKey, cfg.Translator.Timeout, obs)
	case vars.MODE_LLM:
		return service.NewLLMTranslator(m, obs)
	default:
		return service.DisabledTranslator{}
	}
}

// newAuthorityIndex 连接 ES 引用索引
func newAuthorityIndex(ctx context.Context, cfg *vars.Config) (*es.AuthorityIndex, error) {
	return es.NewAuthorityIndex(ctx, elasticsearch.Config{Addresses: cfg.ES.Addresses}, cfg.ES.Index)
}

// newAuthorityLookup 启用 ES 时查索引，否则使用内置的引用目录
func newAuthorityLookup(ctx context.Context, cfg *vars.Config) (service.AuthorityLookup, error) {
	if cfg.ES.Enabled {
		idx, err := newAuthorityIndex(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Printf(">>> [INIT] 引用依据索引: %s", cfg.ES.Index)
		return idx, nil
	}
	catalog, err := reference.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// newReviewService 审查服务，CLI 与 HTTP 共用
func newReviewService(ctx context.Context, cfg *vars.Config) (*service.ReviewService, error) {
	extractor, err := extract.NewExtractor(ctx)
	if err != nil {
		return nil, err
	}
	authorities, err := newAuthorityLookup(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return service.NewReviewService(extractor, authorities, cfg.ES.TopK), nil
}
