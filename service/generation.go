package service

import (
	"context"
	"log"
	"time"

	"lexassist/logic/form"
	"lexassist/logic/generation"
	"lexassist/logic/sanitize"
	"lexassist/logic/schema"
	"lexassist/types"
)

// GenerateInput 前端提交的生成请求
type GenerateInput struct {
	Type         string         `json:"type"`
	Values       map[string]any `json:"values"`
	Parties      []string       `json:"parties"`
	Clauses      []types.Clause `json:"clauses"`
	Jurisdiction string         `json:"jurisdiction"`
}

type GenerationService struct {
	registry  *schema.Registry
	generator Generator
}

func NewGenerationService(registry *schema.Registry, generator Generator) *GenerationService {
	return &GenerationService{registry: registry, generator: generator}
}

// Schemas 全部合同类型
func (s *GenerationService) Schemas() []types.ContractTypeSchema {
	return s.registry.List()
}

// Schema 单个合同类型
func (s *GenerationService) Schema(typeKey string) (types.ContractTypeSchema, error) {
	return s.registry.Get(typeKey)
}

// Seed 合同类型的初始表单
func (s *GenerationService) Seed(typeKey string) (types.FormValueMap, error) {
	sc, err := s.registry.Get(typeKey)
	if err != nil {
		return nil, err
	}
	return form.Seed(sc), nil
}

// Prepare 校验并构造生成请求，不调用外部服务
func (s *GenerationService) Prepare(in GenerateInput) (types.GenerationRequest, error) {
	sc, err := s.registry.Get(in.Type)
	if err != nil {
		return types.GenerationRequest{}, err
	}

	values := form.Coerce(sc, in.Values)
	parties := form.NonEmpty(in.Parties)
	if _, ok := sc.Field(generation.KeyParties); ok {
		// 参与方以显式参数为准，否则取表单里的 parties 字段
		if len(parties) == 0 {
			list, _ := values[generation.KeyParties].([]string)
			parties = form.NonEmpty(list)
		}
		values = form.Update(values, generation.KeyParties, parties)
	}

	if err := form.Validate(values, sc, parties, in.Clauses); err != nil {
		return types.GenerationRequest{}, err
	}
	return generation.Build(sc, values, parties, in.Clauses, in.Jurisdiction), nil
}

// Generate 校验、调用生成服务、归一化并清洗 HTML
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (types.GenerationResult, error) {
	startTime := time.Now()
	req, err := s.Prepare(in)
	if err != nil {
		return types.GenerationResult{}, err
	}

	raw, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Printf(">>> [GENERATE] %s 生成失败: %v", req.Type, err)
		return types.GenerationResult{}, err
	}

	result := generation.Normalize(raw)
	if result.HTML != nil {
		clean := sanitize.HTML(*result.HTML)
		result.HTML = &clean
	}
	log.Printf(">>> [GENERATE] %s 完成, 有正文: %v, 警告 %d 条, 耗时: %v",
		req.Type, result.HasBody(), len(result.Warnings), time.Since(startTime))
	return result, nil
}
