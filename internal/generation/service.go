// Package generation turns editor requests into LLM conversations and
// serves them over HTTP.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/llm"
	"github.com/ziadkadry99/clil-studio/internal/logger"
	"github.com/ziadkadry99/clil-studio/internal/prompts"
)

var (
	// ErrInvalidRequest marks requests rejected before any model call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrBudgetExceeded is returned once the estimated spend reaches the
	// configured budget.
	ErrBudgetExceeded = errors.New("cost budget exceeded")
)

// Service generates lesson content with a single LLM provider.
type Service struct {
	provider llm.Provider
	model    string
	log      *logger.Logger
	meter    llm.Meter
	budget   float64
}

// NewService creates a Service. model overrides the provider default when
// non-empty.
func NewService(provider llm.Provider, model string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{provider: provider, model: model, log: log}
}

// Usage returns the tokens spent since the service was created.
func (s *Service) Usage() llm.Usage { return s.meter.Usage() }

// SetBudget caps the estimated spend in USD. Zero means no cap.
func (s *Service) SetBudget(usd float64) { s.budget = usd }

func (s *Service) checkBudget() error {
	if s.budget <= 0 {
		return nil
	}
	if spent := s.meter.Usage().CostUSD; spent >= s.budget {
		return fmt.Errorf("%w: spent $%.4f of $%.2f", ErrBudgetExceeded, spent, s.budget)
	}
	return nil
}

// recordStream books the estimated usage of a streamed completion, for
// which providers report no token counts.
func (s *Service) recordStream(msgs []llm.Message, output string) float64 {
	in := 0
	for _, m := range msgs {
		in += llm.EstimateTokens(m.Content)
	}
	return s.meter.Record(s.model, in, llm.EstimateTokens(output))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// complete runs one completion and records its usage under op.
func (s *Service) complete(ctx context.Context, op string, msgs []llm.Message, jsonMode bool) (string, error) {
	if err := s.checkBudget(); err != nil {
		return "", err
	}
	start := time.Now()
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:    s.model,
		Messages: msgs,
		JSONMode: jsonMode,
	})
	if err != nil {
		s.log.Error("completion failed", "op", op, "provider", s.provider.Name(), "error", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	cost := s.meter.Record(resp.Model, resp.InputTokens, resp.OutputTokens)
	if resp.Truncated() {
		s.log.Warn("completion hit the output limit", "op", op, "model", resp.Model)
	}
	s.log.Info("completion",
		"op", op,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", cost,
		"duration", time.Since(start))
	return resp.Content, nil
}

// Generate produces a whole activity (section empty or "all"), a fresh
// activity focused on one section, or a free text rewrite of one section
// when a customization is given.
func (s *Service) Generate(ctx context.Context, req api.GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" && req.Customization == "" {
		return "", invalid("prompt is required")
	}
	if req.Section == "" || req.Section == api.SectionAll {
		return s.complete(ctx, "generate", prompts.Activity(req.Prompt, req.Modifiers, req.CustomThemeText), true)
	}

	sec, err := lesson.ParseSection(req.Section)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if req.Customization == "" {
		return s.complete(ctx, "regenerate "+string(sec), prompts.SectionRegeneration(req.Prompt, sec.PayloadKey(), req.Modifiers), true)
	}
	msgs, err := prompts.SectionCustomization(sec.WireID(), req.CurrentActivity, req.Customization, req.Modifiers)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return s.complete(ctx, "customize "+string(sec), msgs, false)
}

func (s *Service) Helper(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", invalid("prompt is required")
	}
	return s.complete(ctx, "helper", prompts.Helper(prompt), true)
}

func (s *Service) Insight(ctx context.Context, concept string, hc *api.HelperContext) (string, error) {
	if strings.TrimSpace(concept) == "" {
		return "", invalid("concept is required")
	}
	msgs, err := prompts.Insight(concept, hc)
	if err != nil {
		return "", err
	}
	return s.complete(ctx, "insight", msgs, true)
}

// RelatedTags returns the model output verbatim: a JSON object with a
// related_tags list.
func (s *Service) RelatedTags(ctx context.Context, tag string, tc api.TagContext) (string, error) {
	if strings.TrimSpace(tag) == "" {
		return "", invalid("tag is required")
	}
	return s.complete(ctx, "related tags", prompts.RelatedTags(tag, tc), true)
}

// Inline streams a continuation of the text before the cursor to fn.
func (s *Service) Inline(ctx context.Context, req api.InlineRequest, fn func(chunk string) error) error {
	if strings.TrimSpace(req.Command) == "" {
		return invalid("command is required")
	}
	if err := s.checkBudget(); err != nil {
		return err
	}
	msgs := prompts.Inline(req)
	var out strings.Builder
	err := llm.Stream(ctx, s.provider, llm.CompletionRequest{
		Model:    s.model,
		Messages: msgs,
	}, func(chunk string) error {
		out.WriteString(chunk)
		return fn(chunk)
	})
	cost := s.recordStream(msgs, out.String())
	if err != nil {
		s.log.Error("inline stream failed", "provider", s.provider.Name(), "error", err)
		return fmt.Errorf("inline: %w", err)
	}
	s.log.Info("inline stream", "bytes", out.Len(), "estimated_cost_usd", cost)
	return nil
}

// Chat answers the next message of the planning conversation.
func (s *Service) Chat(ctx context.Context, req api.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", invalid("message is required")
	}
	return s.complete(ctx, "chat", prompts.Chat(req.Message, req.Context, chatHistory(req.History)), false)
}

// ChatStream is Chat delivered incrementally.
func (s *Service) ChatStream(ctx context.Context, req api.ChatRequest, fn func(chunk string) error) error {
	if strings.TrimSpace(req.Message) == "" {
		return invalid("message is required")
	}
	if err := s.checkBudget(); err != nil {
		return err
	}
	msgs := prompts.Chat(req.Message, req.Context, chatHistory(req.History))
	var out strings.Builder
	err := llm.Stream(ctx, s.provider, llm.CompletionRequest{
		Model:    s.model,
		Messages: msgs,
	}, func(chunk string) error {
		out.WriteString(chunk)
		return fn(chunk)
	})
	s.recordStream(msgs, out.String())
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

func chatHistory(history []lesson.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == lesson.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
