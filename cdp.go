package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/mailru/easyjson"
)

const locatorPollInterval = 100 * time.Millisecond

// fetchAXTree uses a raw CDP call and parses the result by hand; see rawAXNode.
func fetchAXTree(ctx context.Context) ([]rawAXNode, error) {
	var rawResult easyjson.RawMessage
	if err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return chromedp.FromContext(ctx).Target.Execute(ctx,
				"Accessibility.getFullAXTree", nil, &rawResult)
		}),
	); err != nil {
		return nil, fmt.Errorf("a11y tree: %w", err)
	}
	return parseAXTree(json.RawMessage(rawResult))
}

// callOnNode resolves a backend DOM node to a remote object and calls fn on
// it with `this` bound to the element. The return value is decoded into res
// when res is non-nil.
func callOnNode(ctx context.Context, backendNodeID int64, fn string, res any) error {
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			obj, err := dom.ResolveNode().WithBackendNodeID(cdp.BackendNodeID(backendNodeID)).Do(ctx)
			if err != nil {
				return fmt.Errorf("DOM.resolveNode: %w", err)
			}
			if obj == nil || obj.ObjectID == "" {
				return fmt.Errorf("no objectId for node %d", backendNodeID)
			}
			v, exp, err := runtime.CallFunctionOn(fn).
				WithObjectID(obj.ObjectID).
				WithReturnByValue(true).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("callFunctionOn: %w", err)
			}
			if exp != nil {
				return fmt.Errorf("callFunctionOn: %w", exp)
			}
			return decodeRemoteValue(v, res)
		}),
	)
}

// decodeRemoteValue unmarshals a by-value remote object into res. A nil res
// or an undefined result is a no-op.
func decodeRemoteValue(v *runtime.RemoteObject, res any) error {
	if res == nil || v == nil || len(v.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(v.Value, res); err != nil {
		return fmt.Errorf("decode %s result: %w", v.Type, err)
	}
	return nil
}

const visibleJS = `function() {
	this.scrollIntoView({block: "center", inline: "center"});
	const r = this.getBoundingClientRect();
	const s = getComputedStyle(this);
	return r.width > 0 && r.height > 0 && s.visibility !== "hidden";
}`

func clickByNodeID(ctx context.Context, backendNodeID int64) error {
	return callOnNode(ctx, backendNodeID, "function() { this.click(); }", nil)
}

// clickByRole waits until q resolves to exactly one visible, enabled element
// and clicks it. A strict-mode violation fails immediately.
func clickByRole(ctx context.Context, q roleQuery) error {
	ticker := time.NewTicker(locatorPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		match, err := findActionable(ctx, q)
		if err == nil {
			if err := clickByNodeID(ctx, match.BackendNodeID); err != nil {
				return fmt.Errorf("click %s: %w", q, err)
			}
			return nil
		}
		if errors.Is(err, errStrictMode) {
			return err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("click %s: %w (last: %v)", q, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}

func findActionable(ctx context.Context, q roleQuery) (axMatch, error) {
	nodes, err := fetchAXTree(ctx)
	if err != nil {
		return axMatch{}, err
	}
	match, err := findByRole(nodes, q)
	if err != nil {
		return axMatch{}, err
	}
	if match.Disabled {
		return axMatch{}, fmt.Errorf("%s is disabled", q)
	}
	var visible bool
	if err := callOnNode(ctx, match.BackendNodeID, visibleJS, &visible); err != nil {
		return axMatch{}, err
	}
	if !visible {
		return axMatch{}, fmt.Errorf("%s is not visible", q)
	}
	return match, nil
}
