package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNotFound   = errors.New("no element matches")
	errStrictMode = errors.New("strict mode violation")
)

// Raw a11y tree types. Parsed by hand to avoid cdproto deserialization issues
// with newer Chrome property names.
type rawAXNode struct {
	Ignored          bool        `json:"ignored"`
	Role             *rawAXValue `json:"role"`
	Name             *rawAXValue `json:"name"`
	Properties       []rawAXProp `json:"properties"`
	BackendDOMNodeID int64       `json:"backendDOMNodeId"`
}

type rawAXValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type rawAXProp struct {
	Name  string      `json:"name"`
	Value *rawAXValue `json:"value"`
}

func (v *rawAXValue) String() string {
	if v == nil || v.Value == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err == nil {
		return s
	}
	return strings.Trim(string(v.Value), `"`)
}

func (n rawAXNode) prop(name string) string {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value.String()
		}
	}
	return ""
}

// roleQuery selects an element by accessible role and name. Name matching is
// case-insensitive and by substring after whitespace is collapsed.
type roleQuery struct {
	Role string
	Name string
}

func (q roleQuery) String() string {
	return fmt.Sprintf("role=%s[name=%q]", q.Role, q.Name)
}

func (q roleQuery) matches(n rawAXNode) bool {
	if n.Ignored || n.BackendDOMNodeID == 0 {
		return false
	}
	if n.Role.String() != q.Role {
		return false
	}
	return strings.Contains(normalizeName(n.Name.String()), normalizeName(q.Name))
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// axMatch is a resolved role query hit.
type axMatch struct {
	BackendNodeID int64
	Name          string
	Disabled      bool
}

// findByRole returns the single node matching q. Zero matches is errNotFound,
// more than one is errStrictMode.
func findByRole(nodes []rawAXNode, q roleQuery) (axMatch, error) {
	var hits []axMatch
	for _, n := range nodes {
		if !q.matches(n) {
			continue
		}
		hits = append(hits, axMatch{
			BackendNodeID: n.BackendDOMNodeID,
			Name:          n.Name.String(),
			Disabled:      n.prop("disabled") == "true",
		})
	}
	switch len(hits) {
	case 0:
		return axMatch{}, fmt.Errorf("%s: %w", q, errNotFound)
	case 1:
		return hits[0], nil
	default:
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = fmt.Sprintf("%q", h.Name)
		}
		return axMatch{}, fmt.Errorf("%s resolved to %d elements (%s): %w",
			q, len(hits), strings.Join(names, ", "), errStrictMode)
	}
}

func parseAXTree(raw json.RawMessage) ([]rawAXNode, error) {
	var treeResp struct {
		Nodes []rawAXNode `json:"nodes"`
	}
	if err := json.Unmarshal(raw, &treeResp); err != nil {
		return nil, fmt.Errorf("parse a11y tree: %w", err)
	}
	return treeResp.Nodes, nil
}
