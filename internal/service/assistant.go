package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/telemetry"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	adapterOpenAI = "openai"

	// 50 requests per minute
	assistantRateLimit = 50.0 / 60.0
	assistantBurst     = 5
	maxHistory         = 10
)

// Completer is the slice of an LLM the assistant needs. *openai.LLM satisfies it.
type Completer interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ChatReply is the assistant's answer to one message
type ChatReply struct {
	Response   string   `json:"response"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// Translation is translated content plus the detected source language
type Translation struct {
	TranslatedContent string `json:"translatedContent"`
	SourceLanguage    string `json:"sourceLanguage"`
	TargetLanguage    string `json:"targetLanguage"`
}

// ContactRequest describes a letter to an elected official
type ContactRequest struct {
	BillTitle      string
	Position       string // support or oppose
	Language       string
	LegislatorName string
}

// Assistant answers civic questions, translates and drafts letters. Without a
// Completer it serves deterministic templated responses.
type Assistant struct {
	llm     Completer
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewAssistant creates an assistant over llm, which may be nil
func NewAssistant(llm Completer, logger *zap.Logger, metrics *telemetry.Metrics) *Assistant {
	return &Assistant{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(assistantRateLimit), assistantBurst),
		logger:  logger.Named(adapterOpenAI),
		metrics: metrics,
	}
}

// NewOpenAICompleter builds the OpenAI model, or returns nil when no key is configured
func NewOpenAICompleter(cfg config.OpenAIConfig) (Completer, error) {
	if !cfg.APIKey.IsSet() {
		return nil, nil
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey.Value()),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return llm, nil
}

const chatSystemPrompt = `You are a nonpartisan civic information assistant for US residents.
Explain legislation, government processes and how to participate in plain language.
Never tell the user how to vote. Answer in %s.

Respond ONLY with a JSON object:
{"response": "<answer>", "confidence": <0.0-1.0>, "sources": ["<source name or url>", ...]}`

// Chat answers message given the earlier transcript
func (a *Assistant) Chat(ctx context.Context, history []model.ChatMessage, message, language string) Result[ChatReply] {
	language = normalizeLanguage(language)
	if a.llm == nil {
		return assistantFallback(a, cannedChatReply(message, language), reasonNoAPIKey)
	}

	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(chatSystemPrompt, languageName(language))),
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, m.Content))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, message))

	text, err := a.generate(ctx, msgs, 0.4)
	if err != nil {
		a.logger.Warn("chat completion failed", zap.Error(err))
		return assistantFallback(a, cannedChatReply(message, language), err.Error())
	}

	a.metrics.AdapterCall(adapterOpenAI, string(SourceLive))
	return Live(parseChatReply(text))
}

const translatePrompt = `Translate the user's text into %s. Context: %s.
Respond ONLY with a JSON object: {"translatedContent": "<text>", "sourceLanguage": "<ISO 639-1 code>"}`

// Translate converts content into target ("en" or "es")
func (a *Assistant) Translate(ctx context.Context, content, target, topic string) Result[Translation] {
	target = normalizeLanguage(target)
	echo := Translation{TranslatedContent: content, SourceLanguage: "unknown", TargetLanguage: target}
	if a.llm == nil {
		return assistantFallback(a, echo, reasonNoAPIKey)
	}
	if topic == "" {
		topic = "civic information"
	}

	text, err := a.generate(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(translatePrompt, languageName(target), topic)),
		llms.TextParts(llms.ChatMessageTypeHuman, content),
	}, 0.2)
	if err != nil {
		a.logger.Warn("translation failed", zap.Error(err))
		return assistantFallback(a, echo, err.Error())
	}

	var out Translation
	if err := json.Unmarshal([]byte(extractJSON(text)), &out); err != nil || out.TranslatedContent == "" {
		out = Translation{TranslatedContent: strings.TrimSpace(text), SourceLanguage: "unknown"}
	}
	out.TargetLanguage = target
	a.metrics.AdapterCall(adapterOpenAI, string(SourceLive))
	return Live(out)
}

const summarizePrompt = `Summarize the following legislation for a general audience in %s.
Use at most three short paragraphs and no jargon. Respond with the summary text only.`

// Summarize produces a plain-language summary of a bill
func (a *Assistant) Summarize(ctx context.Context, text, language string) Result[string] {
	language = normalizeLanguage(language)
	if a.llm == nil {
		return assistantFallback(a, excerpt(strings.TrimSpace(text), 600), reasonNoAPIKey)
	}

	out, err := a.generate(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(summarizePrompt, languageName(language))),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}, 0.3)
	if err != nil {
		a.logger.Warn("summary failed", zap.Error(err))
		return assistantFallback(a, excerpt(strings.TrimSpace(text), 600), err.Error())
	}

	a.metrics.AdapterCall(adapterOpenAI, string(SourceLive))
	return Live(strings.TrimSpace(out))
}

const contactPrompt = `Write a short, respectful letter in %s from a constituent to %s
stating that they %s the bill "%s". Include placeholders [Your Name] and [Your Address].
Respond with the letter text only.`

// ContactTemplate drafts a letter to a legislator about a bill
func (a *Assistant) ContactTemplate(ctx context.Context, req ContactRequest) Result[string] {
	req.Language = normalizeLanguage(req.Language)
	if a.llm == nil {
		return assistantFallback(a, contactLetter(req), reasonNoAPIKey)
	}

	recipient := req.LegislatorName
	if recipient == "" {
		recipient = "their representative"
	}
	out, err := a.generate(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(contactPrompt, languageName(req.Language), recipient, req.Position, req.BillTitle)),
	}, 0.5)
	if err != nil {
		a.logger.Warn("contact template failed", zap.Error(err))
		return assistantFallback(a, contactLetter(req), err.Error())
	}

	a.metrics.AdapterCall(adapterOpenAI, string(SourceLive))
	return Live(strings.TrimSpace(out))
}

func (a *Assistant) generate(ctx context.Context, msgs []llms.MessageContent, temperature float64) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}
	resp, err := a.llm.GenerateContent(ctx, msgs, llms.WithTemperature(temperature), llms.WithMaxTokens(1024))
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", fmt.Errorf("openai returned no content")
	}
	return resp.Choices[0].Content, nil
}

// assistantFallback records the degraded call and wraps the templated answer
func assistantFallback[T any](a *Assistant, data T, reason string) Result[T] {
	a.metrics.AdapterCall(adapterOpenAI, string(SourceFallback))
	return Fallback(data, reason)
}

func parseChatReply(text string) ChatReply {
	var reply ChatReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err != nil || strings.TrimSpace(reply.Response) == "" {
		return ChatReply{Response: strings.TrimSpace(text), Confidence: 0.7, Sources: []string{}}
	}
	if reply.Confidence < 0 || reply.Confidence > 1 {
		reply.Confidence = 0.7
	}
	if reply.Sources == nil {
		reply.Sources = []string{}
	}
	return reply
}

// extractJSON trims markdown code fences and any prose around the first JSON object
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

func normalizeLanguage(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), "es") {
		return "es"
	}
	return "en"
}

func languageName(lang string) string {
	if lang == "es" {
		return "Spanish"
	}
	return "English"
}

func cannedChatReply(message, language string) ChatReply {
	m := strings.ToLower(message)
	var answer string
	switch {
	case strings.Contains(m, "register") || strings.Contains(m, "registr"):
		answer = pick(language,
			"You can register to vote online at vote.gov, which links to your state's registration site. Most states require registration 15 to 30 days before an election.",
			"Puede registrarse para votar en vote.gov, que le dirige al sitio de registro de su estado. La mayoría de los estados exigen registrarse entre 15 y 30 días antes de una elección.")
	case strings.Contains(m, "bill") || strings.Contains(m, "ley") || strings.Contains(m, "proyecto"):
		answer = pick(language,
			"A bill is introduced, reviewed in committee, debated and voted on in both chambers, and then signed or vetoed by the executive. Use the bill tracker to follow each stage.",
			"Un proyecto de ley se presenta, se revisa en comité, se debate y se vota en ambas cámaras, y luego el ejecutivo lo firma o lo veta. Use el rastreador de proyectos para seguir cada etapa.")
	case strings.Contains(m, "representative") || strings.Contains(m, "senator") || strings.Contains(m, "representante") || strings.Contains(m, "senador"):
		answer = pick(language,
			"You can find your representatives by searching by state and district in the legislator directory. Each profile lists phone, email and office addresses.",
			"Puede encontrar a sus representantes buscando por estado y distrito en el directorio de legisladores. Cada perfil incluye teléfono, correo y direcciones de oficina.")
	default:
		answer = pick(language,
			"I can help with questions about bills, elections, your representatives and how to take part in local government. The AI assistant is running in limited mode right now.",
			"Puedo ayudarle con preguntas sobre proyectos de ley, elecciones, sus representantes y cómo participar en el gobierno local. El asistente funciona en modo limitado en este momento.")
	}
	return ChatReply{Response: answer, Confidence: 0.5, Sources: []string{"vote.gov", "congress.gov"}}
}

func contactLetter(req ContactRequest) string {
	recipient := req.LegislatorName
	verb := "support"
	if strings.EqualFold(req.Position, "oppose") {
		verb = "oppose"
	}
	if req.Language == "es" {
		if recipient == "" {
			recipient = "Representante"
		}
		verbo := "apoyar"
		if verb == "oppose" {
			verbo = "oponerse a"
		}
		return fmt.Sprintf("Estimado/a %s:\n\nLe escribo como su constituyente para pedirle %s el proyecto de ley \"%s\". "+
			"Esta legislación es importante para mí y para mi comunidad, y le agradecería que tuviera en cuenta mi opinión cuando se someta a votación.\n\n"+
			"Atentamente,\n[Su nombre]\n[Su dirección]", recipient, verbo, req.BillTitle)
	}
	if recipient == "" {
		recipient = "Representative"
	}
	return fmt.Sprintf("Dear %s,\n\nAs your constituent, I am writing to ask you to %s the bill \"%s\". "+
		"This legislation matters to me and my community, and I would appreciate you considering my view when it comes to a vote.\n\n"+
		"Sincerely,\n[Your Name]\n[Your Address]", recipient, verb, req.BillTitle)
}

func pick(language, en, es string) string {
	if language == "es" {
		return es
	}
	return en
}
