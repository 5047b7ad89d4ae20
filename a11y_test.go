package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const sampleTree = `{"nodes":[
	{"nodeId":"1","role":{"type":"role","value":"RootWebArea"},"name":{"type":"computedString","value":"Fit 2026"},"childIds":["2","3","4","5"],"backendDOMNodeId":1},
	{"nodeId":"2","role":{"type":"role","value":"button"},"name":{"type":"computedString","value":"Daily"},"backendDOMNodeId":10},
	{"nodeId":"3","role":{"type":"role","value":"button"},"name":{"type":"computedString","value":"  History "},"backendDOMNodeId":11},
	{"nodeId":"4","ignored":true,"role":{"type":"role","value":"button"},"name":{"type":"computedString","value":"History (hidden)"},"backendDOMNodeId":12},
	{"nodeId":"5","role":{"type":"role","value":"button"},"name":{"type":"computedString","value":"Export All"},"properties":[{"name":"disabled","value":{"type":"boolean","value":true}}],"backendDOMNodeId":13},
	{"nodeId":"6","role":{"type":"role","value":"link"},"name":{"type":"computedString","value":"History"},"backendDOMNodeId":14}
]}`

func sampleNodes(t *testing.T) []rawAXNode {
	t.Helper()
	nodes, err := parseAXTree(json.RawMessage(sampleTree))
	if err != nil {
		t.Fatalf("parse sample tree: %v", err)
	}
	return nodes
}

func TestFindByRole_Match(t *testing.T) {
	m, err := findByRole(sampleNodes(t), roleQuery{Role: "button", Name: "History"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.BackendNodeID != 11 {
		t.Errorf("expected backend node 11, got %d", m.BackendNodeID)
	}
	if m.Disabled {
		t.Error("History should not be disabled")
	}
}

func TestFindByRole_CaseInsensitiveSubstring(t *testing.T) {
	m, err := findByRole(sampleNodes(t), roleQuery{Role: "button", Name: "export"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.BackendNodeID != 13 {
		t.Errorf("expected backend node 13, got %d", m.BackendNodeID)
	}
	if !m.Disabled {
		t.Error("expected disabled property to be read")
	}
}

func TestFindByRole_NotFound(t *testing.T) {
	_, err := findByRole(sampleNodes(t), roleQuery{Role: "button", Name: "Settings"})
	if !errors.Is(err, errNotFound) {
		t.Errorf("expected errNotFound, got %v", err)
	}
}

func TestFindByRole_RoleMustMatch(t *testing.T) {
	m, err := findByRole(sampleNodes(t), roleQuery{Role: "link", Name: "History"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.BackendNodeID != 14 {
		t.Errorf("expected link node 14, got %d", m.BackendNodeID)
	}
}

func TestFindByRole_StrictMode(t *testing.T) {
	_, err := findByRole(sampleNodes(t), roleQuery{Role: "button", Name: ""})
	if !errors.Is(err, errStrictMode) {
		t.Fatalf("expected errStrictMode, got %v", err)
	}
	if !strings.Contains(err.Error(), "3 elements") {
		t.Errorf("expected match count in error, got %v", err)
	}
}

func TestParseAXTree_BadJSON(t *testing.T) {
	if _, err := parseAXTree(json.RawMessage(`{broken`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestRawAXValue_String(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"History"`, "History"},
		{`true`, "true"},
		{`42`, "42"},
	}
	for _, tt := range tests {
		v := &rawAXValue{Value: json.RawMessage(tt.raw)}
		if got := v.String(); got != tt.want {
			t.Errorf("String(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	var nilVal *rawAXValue
	if nilVal.String() != "" {
		t.Error("nil value should render empty")
	}
}

func TestRoleQuery_String(t *testing.T) {
	if got := historyButton.String(); got != `role=button[name="History"]` {
		t.Errorf("unexpected query string %s", got)
	}
}
