// Package mcptools exposes the impact calculator and chart renderer as
// Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/chart"
	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/monitoring"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

const (
	// ServerName identifies the MCP server to clients.
	ServerName = "zeroe-viz"

	ToolSimulate = "simulate_impact"
	ToolRender   = "render_comparison_chart"

	tracerName = "github.com/sustrend/zeroe-viz/internal/mcptools"
)

// Handler is the mcp-go tool handler signature.
type Handler = server.ToolHandlerFunc

// Tools binds the calculator and renderer to MCP tool handlers.
type Tools struct {
	calc   *simulate.Calculator
	render *chart.Renderer
}

// New creates Tools.
func New(calc *simulate.Calculator, render *chart.Renderer) *Tools {
	return &Tools{calc: calc, render: render}
}

// SimulateOutput is the JSON text returned by simulate_impact.
type SimulateOutput struct {
	Inputs   model.SimulationInputs    `json:"inputs"`
	Outputs  model.SimulationOutputs   `json:"outputs"`
	Cards    []format.Card             `json:"cards"`
	Datasets []model.ComparisonDataset `json:"datasets"`
}

// NewServer creates an MCP server with every tool registered.
func (t *Tools) NewServer(version string) *server.MCPServer {
	srv := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	t.Register(srv)
	return srv
}

// Register adds the tools to srv.
func (t *Tools) Register(srv *server.MCPServer) {
	srv.AddTool(SimulateTool(), traced(ToolSimulate, t.HandleSimulate))
	srv.AddTool(RenderTool(), traced(ToolRender, t.HandleRender))
}

// SimulateTool describes simulate_impact.
func SimulateTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Compute the Zero-E annual impact projection (avoided GHG, valorized material, substituted additives, revenue) from the seven simulation parameters. Omitted parameters use their defaults; values are clamped to their ranges."),
	}
	return mcp.NewTool(ToolSimulate, append(opts, parameterOptions()...)...)
}

// RenderTool describes render_comparison_chart.
func RenderTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Render the baseline vs projection bar chart for one metric, or the three-panel composite, as a PNG image."),
		mcp.WithString("metric",
			mcp.Required(),
			mcp.Description("Metric to chart: ghg, material, revenue or composite"),
			mcp.Enum(string(model.MetricGHG), string(model.MetricMaterial), string(model.MetricRevenue), "composite"),
		),
	}
	return mcp.NewTool(ToolRender, append(opts, parameterOptions()...)...)
}

func parameterOptions() []mcp.ToolOption {
	var opts []mcp.ToolOption
	for _, p := range model.Parameters() {
		opts = append(opts, mcp.WithNumber(string(p.Key),
			mcp.Description(fmt.Sprintf("%s (%s). %s", p.Label, p.Unit, p.Help)),
			mcp.Min(p.Min),
			mcp.Max(p.Max),
			mcp.DefaultNumber(p.Default),
		))
	}
	return opts
}

// HandleSimulate runs the calculator and returns the result as JSON text.
func (t *Tools) HandleSimulate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := parseInputs(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	monitoring.SimulationsTotal.WithLabelValues("mcp").Inc()
	res := t.calc.Run(in)

	data, err := json.Marshal(SimulateOutput{
		Inputs:   res.Inputs,
		Outputs:  res.Outputs,
		Cards:    format.Cards(res.Outputs),
		Datasets: res.Datasets,
	})
	if err != nil {
		return nil, eris.Wrap(err, "mcptools: marshal result")
	}
	return mcp.NewToolResultText(string(data)), nil
}

// HandleRender renders the requested chart and returns it as image content.
func (t *Tools) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric := req.GetString("metric", "")
	if metric != "composite" && !model.Metric(metric).Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown metric %q", metric)), nil
	}

	args := make(map[string]any, len(req.GetArguments()))
	for k, v := range req.GetArguments() {
		if k != "metric" {
			args[k] = v
		}
	}
	in, err := parseInputs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	monitoring.SimulationsTotal.WithLabelValues("mcp").Inc()
	res := t.calc.Run(in)

	var (
		img  []byte
		desc string
	)
	if metric == "composite" {
		img, err = t.render.CompositePNG(res.Datasets)
		desc = "Baseline vs projection for avoided GHG, valorized material and generated revenue."
	} else {
		d, _ := res.Dataset(model.Metric(metric))
		img, err = t.render.PNG(d)
		desc = fmt.Sprintf("%s: %s %s vs %s %s (%s).",
			d.Title,
			d.Labels[0], format.Value(d.Unit, d.Baseline()),
			d.Labels[1], format.Value(d.Unit, d.Projection()),
			d.FileName())
	}
	if err != nil {
		return nil, eris.Wrapf(err, "mcptools: render %s", metric)
	}
	return mcp.NewToolResultImage(desc, base64.StdEncoding.EncodeToString(img), "image/png"), nil
}

// parseInputs overlays tool arguments on the default inputs. Numbers may
// arrive as JSON numbers or numeric strings.
func parseInputs(args map[string]any) (model.SimulationInputs, error) {
	in := model.DefaultInputs()
	for key, raw := range args {
		p, ok := model.LookupParameter(model.ParamKey(key))
		if !ok {
			return in, eris.Errorf("unknown parameter %q", key)
		}
		var v float64
		switch x := raw.(type) {
		case float64:
			v = x
		case int:
			v = float64(x)
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				return in, eris.Errorf("invalid value %q for %s", x, key)
			}
			v = f
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return in, eris.Errorf("invalid value %q for %s", x, key)
			}
			v = f
		default:
			return in, eris.Errorf("invalid value %v for %s", raw, key)
		}
		in = in.With(p.Key, p.Clamp(v))
	}
	return in, nil
}

// traced wraps a handler in a span and a debug log line.
func traced(name string, h Handler) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := otel.Tracer(tracerName).Start(ctx, "mcp.tool."+name,
			trace.WithAttributes(attribute.String("mcp.tool.name", name)),
		)
		defer span.End()

		start := time.Now()
		result, err := h(ctx, req)
		elapsed := time.Since(start)

		status := monitoring.StatusSuccess
		switch {
		case err != nil:
			status = monitoring.StatusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case result != nil && result.IsError:
			status = monitoring.StatusError
			span.SetStatus(codes.Error, "tool returned error result")
		default:
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(
			attribute.String("mcp.tool.status", status),
			attribute.Int64("mcp.tool.duration_ms", elapsed.Milliseconds()),
		)

		zap.L().Debug("mcptools: tool called",
			zap.String("tool", name),
			zap.String("status", status),
			zap.Duration("elapsed", elapsed),
		)
		return result, err
	}
}
