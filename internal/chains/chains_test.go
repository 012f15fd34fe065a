package chains

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive_rag/internal/core"
)

// scriptedModel replays canned responses and records the rendered
// prompt it was invoked with
type scriptedModel struct {
	responses []string
	calls     int
	lastInput []*schema.Message
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.lastInput = input
	resp := m.responses[m.calls%len(m.responses)]
	m.calls++
	return schema.AssistantMessage(resp, nil), nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestRouterToVectorstore(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"datasource": "vectorstore"}`}}

	router, err := NewRouter(ctx, cm, "agents, prompt engineering, and adversarial attacks")
	require.NoError(t, err)

	route, err := router.Route(ctx, "what is agent memory?")
	require.NoError(t, err)
	assert.Equal(t, core.RouteVectorstore, route)

	// The rendered system prompt carries the corpus topics
	require.NotEmpty(t, cm.lastInput)
	assert.Contains(t, cm.lastInput[0].Content, "agents, prompt engineering")
	assert.Contains(t, cm.lastInput[0].Content, `{"datasource": "vectorstore"}`)
}

func TestRouterToWebSearch(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"datasource": "websearch"}`}}

	router, err := NewRouter(ctx, cm, "agents")
	require.NoError(t, err)

	route, err := router.Route(ctx, "how to make pizza?")
	require.NoError(t, err)
	assert.Equal(t, core.RouteWebSearch, route)
}

func TestRouterUnknownDatasourceFallsBackToWebSearch(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"datasource": "wikipedia"}`}}

	router, err := NewRouter(ctx, cm, "agents")
	require.NoError(t, err)

	route, err := router.Route(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, core.RouteWebSearch, route)
}

func TestRouterMalformedOutput(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{"no json here"}}

	router, err := NewRouter(ctx, cm, "agents")
	require.NoError(t, err)

	_, err = router.Route(ctx, "anything")
	assert.Error(t, err)
}

func TestRetrievalGraderRelevant(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"binary_score": "yes"}`}}

	grader, err := NewRetrievalGrader(ctx, cm)
	require.NoError(t, err)

	relevant, err := grader.Relevant(ctx, "agent memory", "agents use short-term and long-term memory")
	require.NoError(t, err)
	assert.True(t, relevant)

	// The rendered user prompt carries both inputs
	require.Len(t, cm.lastInput, 2)
	assert.Contains(t, cm.lastInput[1].Content, "agents use short-term and long-term memory")
	assert.Contains(t, cm.lastInput[1].Content, "agent memory")
}

func TestRetrievalGraderIrrelevant(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"binary_score": "no"}`}}

	grader, err := NewRetrievalGrader(ctx, cm)
	require.NoError(t, err)

	relevant, err := grader.Relevant(ctx, "how to make pizza", "agents use short-term and long-term memory")
	require.NoError(t, err)
	assert.False(t, relevant)
}

func TestHallucinationGraderGrounded(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"binary_score": "yes"}`}}

	grader, err := NewHallucinationGrader(ctx, cm)
	require.NoError(t, err)

	docs := []*schema.Document{{Content: "agents can use episodic memory"}}
	grounded, err := grader.Grounded(ctx, docs, "Agents can use episodic memory.")
	require.NoError(t, err)
	assert.True(t, grounded)

	require.Len(t, cm.lastInput, 2)
	assert.Contains(t, cm.lastInput[1].Content, "agents can use episodic memory")
}

func TestHallucinationGraderNotGrounded(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"binary_score": "no"}`}}

	grader, err := NewHallucinationGrader(ctx, cm)
	require.NoError(t, err)

	docs := []*schema.Document{{Content: "agents can use episodic memory"}}
	grounded, err := grader.Grounded(ctx, docs, "The moon is made of cheese.")
	require.NoError(t, err)
	assert.False(t, grounded)
}

func TestAnswerGraderUseful(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{`{"binary_score": "yes"}`}}

	grader, err := NewAnswerGrader(ctx, cm)
	require.NoError(t, err)

	useful, err := grader.Useful(ctx, "what is agent memory?", "Agent memory stores past interactions.")
	require.NoError(t, err)
	assert.True(t, useful)
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()
	cm := &scriptedModel{responses: []string{"Agents keep state in memory."}}

	gen, err := NewGenerator(ctx, cm)
	require.NoError(t, err)

	docs := []*schema.Document{
		{Content: "first context passage"},
		{Content: "second context passage"},
	}
	out, err := gen.Generate(ctx, "what is agent memory?", docs)
	require.NoError(t, err)
	assert.Equal(t, "Agents keep state in memory.", out)

	// Both context passages render into the single prompt message
	require.Len(t, cm.lastInput, 1)
	assert.Contains(t, cm.lastInput[0].Content, "first context passage")
	assert.Contains(t, cm.lastInput[0].Content, "second context passage")
	assert.Contains(t, cm.lastInput[0].Content, "what is agent memory?")
}
