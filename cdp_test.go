package main

import (
	"testing"

	"github.com/chromedp/cdproto/runtime"
	"github.com/mailru/easyjson"
)

func TestDecodeRemoteValue(t *testing.T) {
	var visible bool
	v := &runtime.RemoteObject{Type: runtime.TypeBoolean, Value: easyjson.RawMessage(`true`)}
	if err := decodeRemoteValue(v, &visible); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !visible {
		t.Error("expected true")
	}
}

func TestDecodeRemoteValue_Undefined(t *testing.T) {
	visible := true
	v := &runtime.RemoteObject{Type: runtime.TypeUndefined}
	if err := decodeRemoteValue(v, &visible); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !visible {
		t.Error("undefined result should leave res untouched")
	}
	if err := decodeRemoteValue(nil, &visible); err != nil {
		t.Errorf("nil object should be a no-op, got %v", err)
	}
}

func TestDecodeRemoteValue_NilRes(t *testing.T) {
	v := &runtime.RemoteObject{Type: runtime.TypeString, Value: easyjson.RawMessage(`"clicked"`)}
	if err := decodeRemoteValue(v, nil); err != nil {
		t.Errorf("nil res should be a no-op, got %v", err)
	}
}

func TestDecodeRemoteValue_TypeMismatch(t *testing.T) {
	var visible bool
	v := &runtime.RemoteObject{Type: runtime.TypeString, Value: easyjson.RawMessage(`"yes"`)}
	if err := decodeRemoteValue(v, &visible); err == nil {
		t.Error("expected decode error for string into bool")
	}
}

func TestParseAXTree_EasyJSONRaw(t *testing.T) {
	raw := easyjson.RawMessage(sampleTree)
	nodes, err := parseAXTree([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(nodes) != 6 {
		t.Errorf("expected 6 nodes, got %d", len(nodes))
	}
}
