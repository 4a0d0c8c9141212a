package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/interviewform/config"
	"github.com/tbxark/interviewform/generate"
	"github.com/tbxark/interviewform/identity"
	"github.com/tbxark/interviewform/types"
)

func newChatModel(ctx context.Context, cfg config.LLMConfig) (model.ToolCallingChatModel, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return cm, nil
}

// newIdentitySource verifies the token locally when a JWT secret is configured
// and asks the identity endpoint otherwise.
func newIdentitySource(cfg config.IdentityConfig, token string, client *http.Client) identity.Source {
	if token == "" {
		token = cfg.Token
	}
	if cfg.JWTSecret != "" && token != "" {
		return identity.NewJWTSource(token, []byte(cfg.JWTSecret))
	}
	return identity.NewHTTPSource(cfg.URL, identity.WithToken(token), identity.WithHTTPClient(client))
}

func newGenerator(cfg config.GenerateConfig, chatModel model.ToolCallingChatModel, offline bool, client *http.Client, logger *slog.Logger) (generate.Generator, error) {
	if offline {
		if chatModel == nil {
			return nil, errors.New("--offline needs llm.api_key")
		}
		gen, err := generate.NewLLMGenerator(chatModel)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
	return generate.NewHTTPClient(cfg.URL, generate.WithClient(client), generate.WithLogger(logger)), nil
}

type formFlags struct {
	interviewType string
	role          string
	level         string
	skills        string
	amount        int
}

func (f formFlags) state() types.FormState {
	var skills []string
	for _, s := range strings.Split(f.skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return types.FormState{
		InterviewType:   types.InterviewType(f.interviewType),
		Role:            f.role,
		ExperienceLevel: types.ExperienceLevel(f.level),
		Skills:          skills,
		QuestionCount:   f.amount,
	}
}
