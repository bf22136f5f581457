package provider_test

import (
	"context"
	"fmt"
	"log"

	"chatwire/config"
	"chatwire/model"
	"chatwire/provider"
)

// ExampleNewProvider demonstrates creating an Ollama provider using the factory.
func ExampleNewProvider() {
	cfg := provider.Config{
		Type:    provider.ProviderTypeOllama,
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	}

	p, err := provider.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Provider created: %T\n", p)
	// Output: Provider created: *provider.OllamaProvider
}

// ExampleNewOllamaProvider demonstrates creating an Ollama provider directly.
func ExampleNewOllamaProvider() {
	p, err := provider.NewOllamaProvider("http://localhost:11434", "llama3.1", nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Model: %s\n", p.GetModel())
	// Output: Model: llama3.1
}

// ExampleNewOpenAIProvider shows a provider whose key comes from the environment.
// The key is looked up again on every Complete call.
//
// Note: This example doesn't run because it needs a live API key.
func ExampleNewOpenAIProvider() {
	p, err := provider.NewOpenAIProvider(provider.Config{
		Model:       "gpt-3.5-turbo",
		Credentials: config.EnvCredentials{Var: "OPENAI_API_KEY"},
	})
	if err != nil {
		log.Fatal(err)
	}

	turns := []model.Turn{
		{Role: model.RoleSystem, Text: config.DefaultSystemPrompt},
		{Role: model.RoleUser, Text: "Hello!"},
	}

	completion, err := p.Complete(context.Background(), turns, model.Params{Temperature: 0.7, MaxTokens: 1000})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(completion.Text)
}

// ExampleCheck demonstrates a readiness probe against a provider.
//
// Note: This example doesn't run because it requires a live Ollama server.
func ExampleCheck() {
	p, err := provider.NewOllamaProvider("", "", nil)
	if err != nil {
		log.Fatal(err)
	}

	result := provider.Check(context.Background(), p)
	if !result.Ready {
		fmt.Printf("%s not ready: %s\n", result.Provider, result.Reason)
		return
	}
	fmt.Printf("%s ready in %s\n", result.Provider, result.Latency)
}
