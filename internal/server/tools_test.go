package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"color_convert",
		"ramp_sample",
		"ramp_save",
		"ramp_list",
		"ramp_get",
		"ramp_update",
		"ramp_delete",
		"ramp_duplicate",
		"ramp_clear",
		"ramp_rederive",
		"ramp_stats",
		"ramp_export",
		"ramp_import",
		"ramp_export_gpl",
		"ramp_import_gpl",
		"ramp_swatch_png",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}
			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required argument must be described.
			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %s is not defined", name)
				}
			}
		})
	}
}

func TestToolDefinitions_SourceArguments(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "ramp_sample" && tool.Name != "ramp_save" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, name := range []string{"colors", "image_path", "gpl", "sample_count", "sampling_function", "power", "start", "end"} {
			if _, ok := props[name]; !ok {
				t.Errorf("%s: missing property %s", tool.Name, name)
			}
		}
	}
}

func TestToolDefinitions_SamplingFunctionEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		prop, ok := props["sampling_function"].(map[string]interface{})
		if !ok {
			continue
		}
		enum, ok := prop["enum"].([]string)
		if !ok || len(enum) != 3 {
			t.Errorf("%s: sampling_function enum = %v, want 3 curves", tool.Name, prop["enum"])
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	// Should match GetToolDefinitions
	if expected := GetToolDefinitions(); len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
