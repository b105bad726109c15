package mcptools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustrend/zeroe-viz/internal/chart"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

func newTools(t *testing.T) *Tools {
	t.Helper()
	r, err := chart.NewRenderer(chart.Options{DPI: 40, CacheSize: 4})
	require.NoError(t, err)
	return New(simulate.NewCalculator(simulate.DefaultBaseline()), r)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "first content is %T", res.Content[0])
	return text.Text
}

func TestHandleSimulate(t *testing.T) {
	tools := newTools(t)
	res, err := tools.HandleSimulate(context.Background(), callRequest(ToolSimulate, map[string]any{
		"animals":        2000.0,
		"reduction_rate": "25",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out SimulateOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Equal(t, 2000, out.Inputs.Animals)
	assert.InDelta(t, 10000.0, out.Outputs.AvoidedGHG, 1e-9)
	assert.InDelta(t, 13.05, out.Outputs.ValorizedMaterial, 1e-9)
	assert.Len(t, out.Cards, 6)
	assert.Len(t, out.Datasets, 3)
}

func TestHandleSimulate_Defaults(t *testing.T) {
	tools := newTools(t)
	res, err := tools.HandleSimulate(context.Background(), callRequest(ToolSimulate, nil))
	require.NoError(t, err)

	var out SimulateOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.InDelta(t, 6000.0, out.Outputs.AvoidedGHG, 1e-9)
	assert.InDelta(t, 26_100_000.0, out.Outputs.EstimatedRevenue, 1e-6)
	assert.Equal(t, 90_000_000.0, out.Outputs.CircularFinancing)
}

func TestHandleSimulate_BadArguments(t *testing.T) {
	tools := newTools(t)

	res, err := tools.HandleSimulate(context.Background(), callRequest(ToolSimulate, map[string]any{"goats": 3.0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "unknown parameter")

	res, err = tools.HandleSimulate(context.Background(), callRequest(ToolSimulate, map[string]any{"animals": "many"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "animals")
}

func TestHandleRender_Single(t *testing.T) {
	tools := newTools(t)
	res, err := tools.HandleRender(context.Background(), callRequest(ToolRender, map[string]any{
		"metric":         "revenue",
		"additive_price": 3_000_000.0,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 2)

	assert.Contains(t, textOf(t, res), "Ingresos_Generados.png")
	assert.Contains(t, textOf(t, res), "CLP 39,150,000")

	img, ok := res.Content[1].(mcp.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MIMEType)

	data, err := base64.StdEncoding.DecodeString(img.Data)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8*40, cfg.Width)
}

func TestHandleRender_Composite(t *testing.T) {
	tools := newTools(t)
	res, err := tools.HandleRender(context.Background(), callRequest(ToolRender, map[string]any{"metric": "composite"}))
	require.NoError(t, err)
	require.Len(t, res.Content, 2)

	img, ok := res.Content[1].(mcp.ImageContent)
	require.True(t, ok)
	data, err := base64.StdEncoding.DecodeString(img.Data)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20*40, cfg.Width)
}

func TestHandleRender_UnknownMetric(t *testing.T) {
	tools := newTools(t)
	res, err := tools.HandleRender(context.Background(), callRequest(ToolRender, map[string]any{"metric": "water"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "unknown metric")
}

func TestToolSchemas(t *testing.T) {
	sim := SimulateTool()
	assert.Equal(t, ToolSimulate, sim.Name)
	assert.Len(t, sim.InputSchema.Properties, 7)
	assert.Empty(t, sim.InputSchema.Required)

	render := RenderTool()
	assert.Len(t, render.InputSchema.Properties, 8)
	assert.Equal(t, []string{"metric"}, render.InputSchema.Required)
}

func TestServer_ListAndCall(t *testing.T) {
	srv := newTools(t).NewServer("test")
	ctx := context.Background()

	list := srv.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Contains(t, string(data), ToolSimulate)
	assert.Contains(t, string(data), ToolRender)

	call := srv.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"simulate_impact","arguments":{"byproduct_volume":100}}}`))
	data, err = json.Marshal(call)
	require.NoError(t, err)
	assert.Contains(t, string(data), "valorized_material")
	assert.NotContains(t, string(data), `"isError":true`)
}
