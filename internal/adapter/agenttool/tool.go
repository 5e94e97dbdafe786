// Package agenttool publishes the distance lookup as an agent tool.
// The tool only describes and executes the lookup; choosing when to call it
// is left to whichever agent runtime loads it.
package agenttool

import (
	"context"
	"fmt"
	"sort"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/couchcryptid/geo-distance-service/internal/domain"
)

// DistanceToolName is the name agents use to call the distance tool.
const DistanceToolName = "get_distance"

const distanceToolDesc = "Calculate the straight-line (great-circle) distance in kilometers between two locations, " +
	"e.g. location1=\"New York\", location2=\"Los Angeles\"."

// DistanceComputer is the distance lookup the tool delegates to.
type DistanceComputer interface {
	ComputeDistance(ctx context.Context, place1, place2 string) domain.DistanceReport
}

// DistanceArgs represents the get_distance tool input.
type DistanceArgs struct {
	Location1 string `json:"location1" jsonschema:"description=The first location such as New York"`
	Location2 string `json:"location2" jsonschema:"description=The second location such as Los Angeles"`
}

// DistanceResult represents the get_distance tool output.
type DistanceResult struct {
	Message    string                `json:"message" jsonschema:"description=Human readable result"`
	Status     domain.ReportStatus   `json:"status" jsonschema:"description=done or failed"`
	DistanceKm *float64              `json:"distance_km,omitempty" jsonschema:"description=Distance in kilometers rounded to two decimals"`
	Failures   []domain.PlaceFailure `json:"failures,omitempty"`
}

// NewDistanceTool creates the get_distance tool. Lookup failures are returned
// as a failed result rather than a tool error so the agent can relay them.
func NewDistanceTool(svc DistanceComputer) (tool.InvokableTool, error) {
	return utils.InferTool(
		DistanceToolName,
		distanceToolDesc,
		func(ctx context.Context, args *DistanceArgs) (*DistanceResult, error) {
			report := svc.ComputeDistance(ctx, args.Location1, args.Location2)
			return resultFromReport(report), nil
		},
	)
}

func resultFromReport(r domain.DistanceReport) *DistanceResult {
	out := &DistanceResult{
		Message:  r.Text(),
		Status:   r.Status,
		Failures: r.Failures,
	}
	if _, ok := r.Distance(); ok {
		km := r.RoundedKm()
		out.DistanceKm = &km
	}
	return out
}

// Registry indexes invokable tools by name.
type Registry struct {
	tools map[string]tool.InvokableTool
	infos map[string]*schema.ToolInfo
}

// NewRegistry loads the info of every tool and indexes it by name.
func NewRegistry(ctx context.Context, tools ...tool.InvokableTool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]tool.InvokableTool, len(tools)),
		infos: make(map[string]*schema.ToolInfo, len(tools)),
	}
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("load tool info: %w", err)
		}
		if _, dup := r.tools[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", info.Name)
		}
		r.tools[info.Name] = t
		r.infos[info.Name] = info
	}
	return r, nil
}

// Descriptor is the public summary of a registered tool.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Descriptors returns the registered tools sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.infos))
	for _, info := range r.infos {
		out = append(out, Descriptor{Name: info.Name, Description: info.Desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs the named tool with JSON arguments. The bool is false when no
// tool has that name.
func (r *Registry) Invoke(ctx context.Context, name, argumentsJSON string) (string, bool, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", false, nil
	}
	out, err := t.InvokableRun(ctx, argumentsJSON)
	return out, true, err
}
