package llm

import "github.com/m-mizutani/goerr/v2"

type ProviderConfig struct {
	Provider  string
	APIKey    string
	AuthToken string // OAuth token (Bearer auth)
	Model     string
	BaseURL   string
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.APIKey == "" && cfg.AuthToken == "" {
			return nil, goerr.New("anthropic provider needs ANTHROPIC_API_KEY or ANTHROPIC_AUTH_TOKEN")
		}
		return NewAnthropicClient(cfg.APIKey, cfg.AuthToken, cfg.Model), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, goerr.New("openai provider needs OPENAI_API_KEY")
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, ""), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = "llama3.1"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL), nil
	default:
		return nil, goerr.New("unknown LLM provider", goerr.V("provider", cfg.Provider))
	}
}
