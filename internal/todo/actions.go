package todo

import (
	"encoding/json"
	"fmt"
)

// ActionType is the discriminant carried by every action.
type ActionType string

const (
	ActionInit                ActionType = "@@INIT"
	ActionAddTodo             ActionType = "ADD_TODO"
	ActionToggleTodo          ActionType = "TOGGLE_TODO"
	ActionSetVisibilityFilter ActionType = "SET_VISIBILITY_FILTER"
)

// Action describes one intended state change.
type Action interface {
	Type() ActionType
}

// AddTodo appends a new, uncompleted todo.
type AddTodo struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ToggleTodo flips the completed flag of the todo with ID.
type ToggleTodo struct {
	ID int `json:"id"`
}

// SetVisibilityFilter replaces the visibility filter.
type SetVisibilityFilter struct {
	Filter VisibilityFilter `json:"filter"`
}

// Init is dispatched once when a store is created. No reducer handles it.
type Init struct{}

func (AddTodo) Type() ActionType             { return ActionAddTodo }
func (ToggleTodo) Type() ActionType          { return ActionToggleTodo }
func (SetVisibilityFilter) Type() ActionType { return ActionSetVisibilityFilter }
func (Init) Type() ActionType                { return ActionInit }

// MarshalAction encodes an action as a flat JSON object with a "type" key.
func MarshalAction(a Action) ([]byte, error) {
	var payload map[string]any
	switch v := a.(type) {
	case AddTodo:
		payload = map[string]any{"id": v.ID, "text": v.Text}
	case ToggleTodo:
		payload = map[string]any{"id": v.ID}
	case SetVisibilityFilter:
		payload = map[string]any{"filter": v.Filter}
	case Init:
		payload = map[string]any{}
	default:
		return nil, fmt.Errorf("marshal action: %w: %T", ErrUnknownAction, a)
	}
	payload["type"] = a.Type()
	return json.Marshal(payload)
}

// UnmarshalAction decodes an action produced by MarshalAction.
func UnmarshalAction(data []byte) (Action, error) {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("unmarshal action: %w", err)
	}
	return DecodePayload(head.Type, data)
}

// DecodePayload decodes the fields of an action whose type is already
// known. Extra keys (including "type") are ignored.
func DecodePayload(typ ActionType, data []byte) (Action, error) {
	switch typ {
	case ActionAddTodo:
		var a AddTodo
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return a, nil
	case ActionToggleTodo:
		var a ToggleTodo
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return a, nil
	case ActionSetVisibilityFilter:
		var a SetVisibilityFilter
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		return a, nil
	case ActionInit:
		return Init{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, typ)
}
