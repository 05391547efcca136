// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/regulation-server/internal/query"
)

// toolHandler runs a tool against the façade with its single string argument.
type toolHandler func(app *query.App, arg string) any

type toolSpec struct {
	Tool
	arg     string
	handler toolHandler
	// wrapList marks tools whose response is a list; structured content
	// must be an object, so lists go under "result".
	wrapList bool
}

func stringSchema(arg, description string) json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			arg: map[string]any{"type": "string", "description": description},
		},
		"required": []string{arg},
	}
	data, _ := json.Marshal(schema)
	return data
}

var tools = []toolSpec{
	{
		Tool: Tool{
			Name: "get_regulation",
			Description: "Retrieve the full regulation by its ID, including articles, summaries, notes, " +
				"developer_guidance and risk_category. The ID is case-insensitive (e.g. \"gdpr\", \"hipaa\").",
			InputSchema: stringSchema("regulation_id", "The ID of the regulation to retrieve"),
		},
		arg:     "regulation_id",
		handler: func(app *query.App, id string) any { return app.GetRegulation(id) },
	},
	{
		Tool: Tool{
			Name: "get_region",
			Description: "Retrieve a region and the full records of all regulations that belong to it. " +
				"The ID is case-insensitive (e.g. \"eu\", \"usa\").",
			InputSchema: stringSchema("region_id", "The ID of the region to retrieve"),
		},
		arg:     "region_id",
		handler: func(app *query.App, id string) any { return app.GetRegion(id) },
	},
	{
		Tool: Tool{
			Name: "search_regulations",
			Description: "Search all regulations for a keyword phrase in names, summaries, article titles, " +
				"article summaries and developer guidance. Results are ranked with name matches first, then " +
				"summary, then article matches, and include a snippet showing why each regulation matched.",
			InputSchema: stringSchema("keywords", "Search keywords (case-insensitive)"),
		},
		arg:      "keywords",
		handler:  func(app *query.App, kw string) any { return app.SearchRegulations(kw) },
		wrapList: true,
	},
}

func findTool(name string) (toolSpec, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return toolSpec{}, false
}

// Tools returns the tool descriptions advertised by tools/list.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	for i, t := range tools {
		out[i] = t.Tool
	}
	return out
}

// call runs the named tool. Unknown tools and bad arguments produce an
// error result rather than a protocol error.
func call(app *query.App, name string, rawArgs json.RawMessage) ToolResult {
	spec, ok := findTool(name)
	if !ok {
		return errorResult(fmt.Sprintf("unknown tool %q", name))
	}

	args := map[string]any{}
	if len(rawArgs) > 0 && string(rawArgs) != "null" {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments for %s: %v", name, err))
		}
	}
	v, present := args[spec.arg]
	arg, isString := v.(string)
	if !present || !isString {
		return errorResult(fmt.Sprintf("%s requires a string argument %q", name, spec.arg))
	}

	out := spec.handler(app, arg)
	text, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encoding %s result: %v", name, err))
	}

	var structured any = json.RawMessage(text)
	if spec.wrapList {
		structured = map[string]any{"result": json.RawMessage(text)}
	}
	return ToolResult{
		Content:           []Content{{Type: "text", Text: string(text)}},
		StructuredContent: structured,
	}
}

func errorResult(msg string) ToolResult {
	return ToolResult{
		Content: []Content{{Type: "text", Text: strings.TrimSpace(msg)}},
		IsError: true,
	}
}
