package server

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func toolsByName() map[string]Tool {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}

	expected := []string{
		"split_load",
		"split_set_mode",
		"split_status",
		"split_reset",
		"split_slices",
		"split_get_slice",
		"split_save",
		"split_overlay",
	}
	if diff := cmp.Diff(expected, names); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
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

			// Every required argument must be declared
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required argument %s has no property", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool string
		want []string
	}{
		{"split_load", nil},
		{"split_set_mode", []string{"mode"}},
		{"split_get_slice", []string{"index"}},
		{"split_save", nil},
		{"split_overlay", nil},
	}

	toolMap := toolsByName()
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			required, _ := toolMap[tt.tool].InputSchema["required"].([]string)
			if diff := cmp.Diff(tt.want, required); diff != "" {
				t.Errorf("required mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToolDefinitions_ModeEnum(t *testing.T) {
	for _, name := range []string{"split_load", "split_set_mode"} {
		t.Run(name, func(t *testing.T) {
			props := toolsByName()[name].InputSchema["properties"].(map[string]interface{})
			mode, ok := props["mode"].(map[string]interface{})
			if !ok {
				t.Fatal("mode property missing")
			}
			if diff := cmp.Diff([]string{"horizontal", "grid"}, mode["enum"]); diff != "" {
				t.Errorf("mode enum mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToolDefinitions_SliceIndexRange(t *testing.T) {
	for _, name := range []string{"split_get_slice", "split_save"} {
		t.Run(name, func(t *testing.T) {
			props := toolsByName()[name].InputSchema["properties"].(map[string]interface{})
			index, ok := props["index"].(map[string]interface{})
			if !ok {
				t.Fatal("index property missing")
			}
			if index["minimum"] != 1 || index["maximum"] != 4 {
				t.Errorf("index range: got %v..%v, want 1..4", index["minimum"], index["maximum"])
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
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

	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
