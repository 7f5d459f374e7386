package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/gitlumen/gitlumen/pkg/core"
)

// MatchFilter evaluates a govaluate expression against the flattened
// canonical event. Top-level fields are plain identifiers ("kind",
// "projectId"); nested fields use bracket escaping ("[metadata.state]").
// A filter matches only when the expression evaluates to boolean true.
func MatchFilter(filter string, event core.Event) (bool, error) {
	expr, err := govaluate.NewEvaluableExpression(filter)
	if err != nil {
		return false, fmt.Errorf("compile filter %q: %w", filter, err)
	}
	params, err := eventParams(event)
	if err != nil {
		return false, err
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", filter, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", filter, result)
	}
	return matched, nil
}

func eventParams(event core.Event) (map[string]any, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event for filter: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal event for filter: %w", err)
	}
	return core.Flatten(data), nil
}
