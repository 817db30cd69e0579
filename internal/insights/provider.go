package insights

import "strings"

// Options selects and configures the narrative provider.
type Options struct {
	Provider string
	OpenAI   OpenAIOptions
	Gemini   GeminiOptions
	// OnFallback is called with the provider name whenever a provider falls
	// back to the static narrator.
	OnFallback func(provider, reason string, err error)
}

// New returns the narrator for opts.Provider. Unknown names and "static" get
// the StaticNarrator.
func New(opts Options) Narrator {
	static := NewStaticNarrator()
	hook := func(provider string) func(string, error) {
		if opts.OnFallback == nil {
			return nil
		}
		return func(reason string, err error) { opts.OnFallback(provider, reason, err) }
	}

	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case openAIProviderName:
		o := opts.OpenAI
		o.Fallback = static
		o.OnFallback = hook(openAIProviderName)
		return NewOpenAINarrator(o)
	case geminiProviderName:
		g := opts.Gemini
		g.Fallback = static
		g.OnFallback = hook(geminiProviderName)
		return NewGeminiNarrator(g)
	default:
		return static
	}
}
