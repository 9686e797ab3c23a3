package llm

import "sync"

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps model identifiers to their pricing. OpenRouter ids carry
// the vendor prefix.
var priceTable = map[string]modelPricing{
	"gpt-4o":       {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":  {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4.1-mini": {InputPerMillion: 0.40, OutputPerMillion: 1.60},

	"openai/gpt-4o":                     {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"openai/gpt-4o-mini":                {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"anthropic/claude-3.5-sonnet":       {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"anthropic/claude-3.5-haiku":        {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"google/gemini-2.0-flash-001":       {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"meta-llama/llama-3.3-70b-instruct": {InputPerMillion: 0.12, OutputPerMillion: 0.30},
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// EstimateTokens provides a rough token count estimation for the given text.
// Uses the approximation of 1 token per 4 characters.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// Usage is a running total of tokens spent.
type Usage struct {
	Requests     int     `json:"requests"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Meter accumulates Usage across concurrent requests.
type Meter struct {
	mu    sync.Mutex
	usage Usage
}

// Record adds one completion to the totals and returns its estimated cost.
func (m *Meter) Record(model string, inputTokens, outputTokens int) float64 {
	cost := EstimateCost(model, inputTokens, outputTokens)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage.Requests++
	m.usage.InputTokens += inputTokens
	m.usage.OutputTokens += outputTokens
	m.usage.CostUSD += cost
	return cost
}

// Usage returns a snapshot of the totals.
func (m *Meter) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}
