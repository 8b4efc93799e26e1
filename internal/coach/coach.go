package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
	"github.com/bluegrove/aquamon-core/internal/store"
)

// requestTimeout bounds a single API call.
const requestTimeout = 45 * time.Second

// Insight is one per-metric observation and recommendation.
type Insight struct {
	Metric         string `json:"metric"`
	Trend          string `json:"trend"`
	Risk           string `json:"risk,omitempty"`
	Recommendation string `json:"recommendation"`
}

// Advice is the structured coaching output written to coach.json.
type Advice struct {
	Status    string    `json:"status"`
	Summary   string    `json:"summary"`
	Insights  []Insight `json:"insights"`
	Timestamp string    `json:"timestamp"`
}

// Coach generates advice from recorded readings via the OpenAI API.
type Coach struct {
	cfg    config.CoachConfig
	client openai.Client
	logger *logging.Logger
	now    func() time.Time
}

// New creates a coach from config.
//
// Returns ErrDisabled or ErrNoAPIKey when the coach cannot run; callers
// treat both as "skip", not as failures.
func New(cfg config.CoachConfig, logger *logging.Logger) (*Coach, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	return &Coach{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Generate analyses the series, requests advice from the model, and
// writes the result atomically to the configured output path.
//
// Parameters:
//   - ctx: Context for cancellation
//   - series: Full reading series from the store
//
// Returns:
//   - *Advice: The generated advice, also persisted to coach.json
//   - error: ErrNoData if the series is empty, or a wrapped API error
func (c *Coach) Generate(ctx context.Context, series store.Series) (*Advice, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	analysis := Analyze(series, c.now().UTC())
	c.logger.Info("analysing readings for coaching advice",
		"readings_7d", analysis.Last7Days.Count,
		"readings_30d", analysis.Last30Days.Count,
	)

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemMessage()),
			openai.UserMessage(buildPrompt(analysis, c.cfg.Species, c.cfg.Plants)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrRequestFailed)
	}

	advice := parseAdvice(resp.Choices[0].Message.Content)
	advice.Timestamp = c.now().UTC().Format(time.RFC3339)

	if err := c.save(advice); err != nil {
		return nil, err
	}

	c.logger.Info("coaching advice generated",
		"status", advice.Status,
		"path", c.cfg.OutputPath,
	)
	return advice, nil
}

// parseAdvice decodes the model output leniently.
//
// A well-behaved model returns the exact JSON object requested. Anything
// else is preserved as a raw summary rather than discarded, so a flaky
// response is still auditable in coach.json.
func parseAdvice(content string) *Advice {
	var advice Advice
	if err := json.Unmarshal([]byte(content), &advice); err == nil && advice.Status != "" {
		return &advice
	}

	return &Advice{
		Status:  "unknown",
		Summary: strings.TrimSpace(content),
	}
}

// save writes advice to the output path atomically.
func (c *Coach) save(advice *Advice) error {
	data, err := json.MarshalIndent(advice, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding advice: %w", err)
	}
	if err := store.WriteAtomic(c.cfg.OutputPath, data); err != nil {
		return fmt.Errorf("writing advice: %w", err)
	}
	return nil
}

// systemMessage describes the system and the required output shape.
func (c *Coach) systemMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert aquaponics consultant. ")
	fmt.Fprintf(&b, "System context: fish species=%s; plants=%s.\n", c.cfg.Species, c.cfg.Plants)
	b.WriteString("Target operating ranges for this system:\n")
	b.WriteString("- pH: 6.6-7.2 (ideal ~6.9) to balance nitrification, fish tolerance, and plant uptake.\n")
	b.WriteString("- TDS: 200-500 ppm (ideal ~350 ppm) for this aquaponics setup.\n")
	b.WriteString("- Water temp: 24-28C (fish-safe; plants okay in this window).\n")
	b.WriteString("Return ONLY a single JSON object with EXACT keys:\n")
	b.WriteString("status (one of: ok, watch, alert),\n")
	b.WriteString("summary (<= 1 sentence, plain text),\n")
	b.WriteString("insights (array with exactly 3 items in this order: ph, tds, temp; ")
	b.WriteString("each item has: metric('ph'|'tds'|'temp'), trend(short phrase), recommendation(actionable one-liner for this system)),\n")
	b.WriteString("timestamp (ISO 8601, UTC).\n")
	b.WriteString("No extra keys, no markdown, no code fences. ")
	b.WriteString("Tone: concise, practical, aquaponics-aware. Give clear one-line actions per metric.")
	return b.String()
}

// buildPrompt renders the analysis into the user message.
func buildPrompt(analysis Analysis, species, plants string) string {
	var b strings.Builder
	b.WriteString("Using the system context, analyse the data and give concise, actionable advice.\n\n")
	fmt.Fprintf(&b, "System: %s with %s. ", species, plants)
	b.WriteString("Operate for nitrifying bacteria, fish health, and plant uptake together.\n\n")
	b.WriteString("Data Summary\n")
	writeWindow(&b, analysis.Last7Days)
	b.WriteString("\n")
	writeWindow(&b, analysis.Last30Days)
	b.WriteString("\nInstructions:\n")
	b.WriteString("- Use the targets from the system context, not generic hydroponics ranges.\n")
	b.WriteString("- Keep each recommendation to one practical sentence.\n")
	b.WriteString("- If data is insufficient, say so briefly.\n")
	return b.String()
}

// writeWindow renders one window's statistics.
func writeWindow(b *strings.Builder, w WindowStats) {
	fmt.Fprintf(b, "Last %s (%d readings)\n", w.Period, w.Count)
	fmt.Fprintf(b, "- pH: %s\n", formatStats(w.PH, ""))
	fmt.Fprintf(b, "- TDS: %s\n", formatStats(w.TDS, " ppm"))
	fmt.Fprintf(b, "- Temp: %s\n", formatStats(w.Temp, " C"))
}

// formatStats renders metric statistics, or "no data" when absent.
func formatStats(s *MetricStats, unit string) string {
	if s == nil {
		return "no data"
	}
	return fmt.Sprintf("min %.2f, max %.2f, avg %.2f, median %.2f%s (n=%d)",
		s.Min, s.Max, s.Avg, s.Median, unit, s.Count)
}
