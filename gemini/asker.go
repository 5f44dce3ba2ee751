package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/webgraph"
	"google.golang.org/genai"
)

// DefaultModel is the model used to answer questions.
const DefaultModel = "gemini-2.5-flash"

// DefaultContextTokens bounds the graph context sent with a question.
const DefaultContextTokens = 100_000

// Ensure Asker implements webgraph.Asker at compile time.
var _ webgraph.Asker = (*Asker)(nil)

// Asker implements webgraph.Asker using Google Gemini. The project's graph
// is rendered with webgraph.FormatContext and trimmed to MaxContextTokens.
type Asker struct {
	client  *genai.Client
	nodes   webgraph.NodeService
	edges   webgraph.EdgeService
	counter webgraph.TokenCounter

	Model            string
	MaxContextTokens int
}

// NewAsker creates a new Asker. counter may be nil, in which case the
// context is not trimmed.
func NewAsker(client *genai.Client, nodes webgraph.NodeService, edges webgraph.EdgeService, counter webgraph.TokenCounter) *Asker {
	return &Asker{
		client:           client,
		nodes:            nodes,
		edges:            edges,
		counter:          counter,
		Model:            DefaultModel,
		MaxContextTokens: DefaultContextTokens,
	}
}

// Ask answers a natural language question using the project's graph.
func (a *Asker) Ask(ctx context.Context, projectID, question string) (string, error) {
	if projectID == "" {
		return "", webgraph.Errorf(webgraph.EINVALID, "project ID required")
	}
	if strings.TrimSpace(question) == "" {
		return "", webgraph.Errorf(webgraph.EINVALID, "question required")
	}

	g, err := a.loadGraph(ctx, projectID)
	if err != nil {
		return "", err
	}

	entries, err := TrimContext(ctx, a.counter, webgraph.SelectContext(g, question), a.MaxContextTokens)
	if err != nil {
		return "", err
	}
	prompt := BuildUserPrompt(webgraph.FormatEntries(entries), question)

	result, err := a.client.Models.GenerateContent(ctx, a.Model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", webgraph.Errorf(webgraph.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

func (a *Asker) loadGraph(ctx context.Context, projectID string) (*webgraph.Graph, error) {
	nodes, err := a.nodes.FindNodes(ctx, webgraph.NodeFilter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, webgraph.Errorf(webgraph.ENOTFOUND, "no nodes found for project %q", projectID)
	}
	edges, err := a.edges.FindEdges(ctx, webgraph.EdgeFilter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}
	return webgraph.BuildGraph(nodes, edges)
}

// TrimContext keeps the leading entries whose formatted size, together
// with the context header, fits within budget tokens. A nil counter or a
// non-positive budget keeps every entry.
func TrimContext(ctx context.Context, counter webgraph.TokenCounter, entries []webgraph.ContextEntry, budget int) ([]webgraph.ContextEntry, error) {
	if counter == nil || budget <= 0 {
		return entries, nil
	}

	used, err := counter.CountTokens(ctx, webgraph.ContextHeader)
	if err != nil {
		return nil, fmt.Errorf("count tokens: %w", err)
	}
	for i, e := range entries {
		n, err := counter.CountTokens(ctx, e.String())
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		if used+n > budget {
			return entries[:i], nil
		}
		used += n
	}
	return entries, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about a graph of websites. Answer based only on the context provided. If the answer is not in the context, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt combines the formatted graph context with the question.
func BuildUserPrompt(graphContext, question string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Context: %s\n", graphContext)
	fmt.Fprintf(&sb, "Query: %s\n\n", question)
	sb.WriteString("Based on the knowledge provided in the context, please provide a detailed response. ")
	sb.WriteString("Include relevant relationships between the pages and cite their titles when possible.\n\n")
	sb.WriteString("Response:")
	return sb.String()
}
