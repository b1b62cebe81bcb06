package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AaronL1011/polly-ai/internal/llm"
	"github.com/AaronL1011/polly-ai/internal/rag"
)

const verifierTemperature = 0.1

// verificationOutput is the verifier's structured-output schema, grounded
// on verifier.py's _build_verification_result.
type verificationOutput struct {
	IsValid           bool               `json:"is_valid"`
	UnsupportedClaims []unsupportedClaim `json:"unsupported_claims"`
	ConfidenceScore   float64            `json:"confidence_score"`
	Warnings          []string           `json:"warnings"`
}

type unsupportedClaim struct {
	ClaimText   string `json:"claim_text"`
	ComponentID string `json:"component_id"`
	Severity    string `json:"severity"`
}

// Verifier fact-checks a composed response against its retrieved source
// context, per spec.md §4.5. Grounded on
// original_source/.../verifier.py's LLMResponseVerifier. Verification never
// removes or alters components; it only annotates the result with whether
// claims held up and which ones didn't.
type Verifier struct {
	client llm.Client
	model  string
}

// NewVerifier builds a Verifier invoking the given model through client.
func NewVerifier(client llm.Client, model string) *Verifier {
	return &Verifier{client: client, model: model}
}

// Verify checks layout and components against context, defaulting to a
// valid result whenever context is empty or verification itself fails, per
// spec.md §4.5's degrade-to-valid policy.
func (v *Verifier) Verify(ctx context.Context, layout rag.Layout, components []rag.Component, context_ []string) rag.VerificationResult {
	if len(context_) == 0 {
		return rag.ValidVerification()
	}

	schema, err := llm.SchemaOf[verificationOutput]()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("verifier schema generation failed")
		return rag.ValidVerification("Verification skipped: " + err.Error())
	}

	resp, err := v.client.InvokeStructured(ctx, llm.Request{
		System:      verifierSystemPrompt,
		User:        buildVerifierPrompt(layout, components, context_),
		Schema:      schema,
		Temperature: verifierTemperature,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("verification invocation failed")
		return rag.ValidVerification("Verification skipped: " + err.Error())
	}

	decoded, err := llm.Decode[verificationOutput](resp.Content)
	if err != nil {
		content := llm.StripCodeFence(string(resp.Content))
		if extracted, ok := extractJSONObject(content); ok {
			decoded, err = llm.Decode[verificationOutput]([]byte(extracted))
		}
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("verification response parse failed")
		return rag.VerificationResult{
			IsValid:         true,
			ConfidenceScore: 1.0,
			Warnings:        []string{"Verification parse error: " + err.Error()},
		}
	}

	return buildVerificationResult(decoded)
}

func buildVerificationResult(data verificationOutput) rag.VerificationResult {
	confidence := data.ConfidenceScore
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	claims := make([]rag.UnsupportedClaim, 0, len(data.UnsupportedClaims))
	for _, c := range data.UnsupportedClaims {
		severity := rag.SeverityWarning
		if rag.ClaimSeverity(c.Severity) == rag.SeverityError {
			severity = rag.SeverityError
		}
		claims = append(claims, rag.UnsupportedClaim{
			ClaimText:   c.ClaimText,
			ComponentID: c.ComponentID,
			Severity:    severity,
		})
	}

	return rag.VerificationResult{
		IsValid:           data.IsValid,
		UnsupportedClaims: claims,
		ConfidenceScore:   confidence,
		Warnings:          data.Warnings,
	}
}

// buildVerifierPrompt formats the verifier's input prompt, grounded on
// verifier.py's verify().
func buildVerifierPrompt(layout rag.Layout, components []rag.Component, context []string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(context, "\n\n---\n\n"))
	b.WriteString("\n\nResponse:\n")
	b.WriteString(serializeResponse(layout, components))
	b.WriteString("\n\nIdentify any claims in the response not supported by the context above.")
	return b.String()
}

// serializeResponse flattens a layout and its components into plain text
// for fact-checking, matching verifier.py's _serialize_response. Each
// component is rendered by serializeContent, a type switch over the
// concrete Content variants.
func serializeResponse(layout rag.Layout, components []rag.Component) string {
	var parts []string

	if layout.Title != nil {
		parts = append(parts, "Title: "+*layout.Title)
	}
	if layout.Subtitle != nil {
		parts = append(parts, "Subtitle: "+*layout.Subtitle)
	}

	for _, component := range components {
		parts = append(parts, serializeContent(component.Content))
	}

	return strings.Join(parts, "\n")
}

func serializeContent(content rag.Content) string {
	typ := string(content.Type())

	switch c := content.(type) {
	case rag.TextBlock:
		return fmt.Sprintf("[%s] %s", typ, c.Content)
	case rag.Notice:
		return fmt.Sprintf("[%s] %s", typ, c.Message)
	case rag.VotingBreakdown:
		return fmt.Sprintf("[%s] Votes: %d for, %d against", typ, c.TotalFor, c.TotalAgainst)
	case rag.Timeline:
		events := make([]string, len(c.Events))
		for i, e := range c.Events {
			events[i] = fmt.Sprintf("%s: %s", e.Date, e.Label)
		}
		return fmt.Sprintf("[%s] Events: %s", typ, strings.Join(events, "; "))
	case rag.Chart:
		series := make([]string, len(c.Series))
		for i, s := range c.Series {
			values := make([]string, len(s.Data))
			for j, d := range s.Data {
				values[j] = fmt.Sprintf("%g", d.Value)
			}
			series[i] = fmt.Sprintf("%s: [%s]", s.Name, strings.Join(values, ", "))
		}
		return fmt.Sprintf("[%s] Data: %s", typ, strings.Join(series, "; "))
	case rag.Comparison:
		attrs := make([]string, len(c.Attributes))
		for i, a := range c.Attributes {
			attrs[i] = fmt.Sprintf("%s: %v", a.Name, a.Values)
		}
		return fmt.Sprintf("[%s] %s", typ, strings.Join(attrs, "; "))
	case rag.DataTable:
		return fmt.Sprintf("[%s] %d rows", typ, len(c.Rows))
	case rag.MemberProfiles:
		names := make([]string, len(c.Members))
		for i, m := range c.Members {
			names[i] = m.Name
		}
		return fmt.Sprintf("[%s] Members: %s", typ, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("[%s] (content)", typ)
	}
}
