// Package ai asks a language model vendor for an image description that
// illustrates a slide's text.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	DefaultMaxTokens   = 200
	DefaultTemperature = 70 // hundredths
)

// Config is the vendor configuration used for one generation.
type Config struct {
	Provider         string
	APIToken         string
	ProductID        string
	OrganizationID   string
	AnthropicVersion string
	Model            string
	MaxTokens        int
	Temperature      int // 0-100
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

func (c Config) temperature() float64 {
	t := c.Temperature
	if t <= 0 {
		t = DefaultTemperature
	}
	return float64(t) / 100
}

func (c Config) model(def string) string {
	if c.Model != "" {
		return c.Model
	}
	return def
}

// Prompt is the instruction pair sent to the vendor.
type Prompt struct {
	System string
	User   string
}

const systemPrompt = "Tu es un expert en génération de prompts pour créer des images. " +
	"Tu dois créer des descriptions détaillées et visuelles pour un générateur d'images IA, " +
	"basées sur le contenu textuel fourni. Réponds uniquement avec la description de l'image, " +
	"sans introduction ni explication."

// NewPrompt builds the prompt for a slide text.
func NewPrompt(text string) Prompt {
	return Prompt{
		System: systemPrompt,
		User:   fmt.Sprintf("Crée une description détaillée d'image (prompt) pour illustrer visuellement ce contenu de slide : \"%s\"", text),
	}
}

// Provider turns a prompt into a vendor request and extracts the text of
// its answer.
type Provider interface {
	Name() string
	// Label is the vendor name used in error messages.
	Label() string
	DefaultBaseURL() string
	BuildRequest(ctx context.Context, baseURL string, cfg Config, p Prompt) (*http.Request, error)
	ParseResponse(body []byte) string
}

var providers = map[string]Provider{}

func register(p Provider) { providers[p.Name()] = p }

func init() {
	register(&chatCompletions{
		name: "infomaniak", label: "Infomaniak", baseURL: "https://api.infomaniak.com",
		defaultModel: "mixtral",
		path: func(cfg Config) (string, error) {
			if cfg.ProductID == "" {
				return "", ErrMissingProductID
			}
			return "/1/ai/" + url.PathEscape(cfg.ProductID) + "/openai/chat/completions", nil
		},
		extra: map[string]any{"profile_type": "creative"},
	})
	register(&chatCompletions{
		name: "openai", label: "OpenAI", baseURL: "https://api.openai.com",
		defaultModel: "gpt-4o-mini",
		path:         staticPath("/v1/chat/completions"),
		headers: func(cfg Config, h http.Header) {
			if cfg.OrganizationID != "" {
				h.Set("OpenAI-Organization", cfg.OrganizationID)
			}
		},
	})
	register(&chatCompletions{
		name: "mistral", label: "Mistral", baseURL: "https://api.mistral.ai",
		defaultModel: "mistral-small-latest",
		path:         staticPath("/v1/chat/completions"),
	})
	register(claude{})
	register(gemini{})
}

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, bool) {
	p, ok := providers[strings.ToLower(name)]
	return p, ok
}

// Names lists the supported providers.
func Names() []string {
	return []string{"infomaniak", "openai", "mistral", "claude", "gemini"}
}

func staticPath(p string) func(Config) (string, error) {
	return func(Config) (string, error) { return p, nil }
}

func jsonRequest(ctx context.Context, endpoint string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// chatCompletions covers the OpenAI-compatible vendors.
type chatCompletions struct {
	name, label, baseURL, defaultModel string
	path                               func(Config) (string, error)
	headers                            func(Config, http.Header)
	extra                              map[string]any
}

func (p *chatCompletions) Name() string           { return p.name }
func (p *chatCompletions) Label() string          { return p.label }
func (p *chatCompletions) DefaultBaseURL() string { return p.baseURL }

func (p *chatCompletions) BuildRequest(ctx context.Context, baseURL string, cfg Config, pr Prompt) (*http.Request, error) {
	path, err := p.path(cfg)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"model": cfg.model(p.defaultModel),
		"messages": []map[string]string{
			{"role": "system", "content": pr.System},
			{"role": "user", "content": pr.User},
		},
		"max_tokens":  cfg.maxTokens(),
		"temperature": cfg.temperature(),
	}
	for k, v := range p.extra {
		payload[k] = v
	}
	req, err := jsonRequest(ctx, strings.TrimSuffix(baseURL, "/")+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	if p.headers != nil {
		p.headers(cfg, req.Header)
	}
	return req, nil
}

func (p *chatCompletions) ParseResponse(body []byte) string {
	return gjson.GetBytes(body, "choices.0.message.content").String()
}

type claude struct{}

func (claude) Name() string           { return "claude" }
func (claude) Label() string          { return "Claude" }
func (claude) DefaultBaseURL() string { return "https://api.anthropic.com" }

func (claude) BuildRequest(ctx context.Context, baseURL string, cfg Config, pr Prompt) (*http.Request, error) {
	req, err := jsonRequest(ctx, strings.TrimSuffix(baseURL, "/")+"/v1/messages", map[string]any{
		"model":       cfg.model("claude-3-5-haiku-20241022"),
		"max_tokens":  cfg.maxTokens(),
		"temperature": cfg.temperature(),
		"system":      pr.System,
		"messages":    []map[string]string{{"role": "user", "content": pr.User}},
	})
	if err != nil {
		return nil, err
	}
	version := cfg.AnthropicVersion
	if version == "" {
		version = "2023-06-01"
	}
	req.Header.Set("x-api-key", cfg.APIToken)
	req.Header.Set("anthropic-version", version)
	return req, nil
}

func (claude) ParseResponse(body []byte) string {
	return gjson.GetBytes(body, "content.0.text").String()
}

type gemini struct{}

func (gemini) Name() string           { return "gemini" }
func (gemini) Label() string          { return "Gemini" }
func (gemini) DefaultBaseURL() string { return "https://generativelanguage.googleapis.com" }

func (gemini) BuildRequest(ctx context.Context, baseURL string, cfg Config, pr Prompt) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimSuffix(baseURL, "/"), url.PathEscape(cfg.model("gemini-2.0-flash-exp")))
	req, err := jsonRequest(ctx, endpoint, map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]string{{"text": pr.System + "\n\n" + pr.User}},
		}},
		"generationConfig": map[string]any{
			"temperature":     cfg.temperature(),
			"maxOutputTokens": cfg.maxTokens(),
		},
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", cfg.APIToken)
	return req, nil
}

func (gemini) ParseResponse(body []byte) string {
	return gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
}
