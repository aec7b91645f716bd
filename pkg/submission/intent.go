package submission

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IntentField carries the intent of the button that submitted the form.
const IntentField = "__intent__"

type IntentType string

const (
	IntentSubmit  IntentType = "submit"
	IntentAppend  IntentType = "append"
	IntentPrepend IntentType = "prepend"
	IntentRemove  IntentType = "remove"
	IntentReorder IntentType = "reorder"
	IntentReplace IntentType = "replace"
)

// ListPayload addresses a list field and the item an intent operates on.
type ListPayload struct {
	Name         string `json:"name"`
	Index        int    `json:"index,omitempty"`
	From         int    `json:"from,omitempty"`
	To           int    `json:"to,omitempty"`
	DefaultValue any    `json:"defaultValue,omitempty"`
}

// Intent describes why a form was submitted. List intents rewrite the
// payload instead of submitting it.
type Intent struct {
	Type    IntentType  `json:"type"`
	Payload ListPayload `json:"payload"`
}

// Submit is the intent of a plain submit button.
func Submit() Intent { return Intent{Type: IntentSubmit} }

func ListAppend(name string, defaultValue any) Intent {
	return Intent{Type: IntentAppend, Payload: ListPayload{Name: name, DefaultValue: defaultValue}}
}

func ListPrepend(name string, defaultValue any) Intent {
	return Intent{Type: IntentPrepend, Payload: ListPayload{Name: name, DefaultValue: defaultValue}}
}

func ListRemove(name string, index int) Intent {
	return Intent{Type: IntentRemove, Payload: ListPayload{Name: name, Index: index}}
}

func ListReorder(name string, from, to int) Intent {
	return Intent{Type: IntentReorder, Payload: ListPayload{Name: name, From: from, To: to}}
}

func ListReplace(name string, index int, defaultValue any) Intent {
	return Intent{Type: IntentReplace, Payload: ListPayload{Name: name, Index: index, DefaultValue: defaultValue}}
}

// IsList reports whether the intent rewrites a list.
func (i Intent) IsList() bool {
	switch i.Type {
	case IntentAppend, IntentPrepend, IntentRemove, IntentReorder, IntentReplace:
		return true
	default:
		return false
	}
}

// String encodes the intent as the value of a submit button.
func (i Intent) String() string {
	if i.Type == "" || i.Type == IntentSubmit {
		return string(IntentSubmit)
	}
	raw, err := json.Marshal(i)
	if err != nil {
		return string(IntentSubmit)
	}
	return string(raw)
}

// ParseIntent decodes a button value produced by Intent.String. An empty
// value is a plain submit.
func ParseIntent(raw string) (Intent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == string(IntentSubmit) {
		return Submit(), nil
	}
	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return Submit(), fmt.Errorf("submission: decode intent: %w", err)
	}
	if !intent.IsList() {
		return Submit(), fmt.Errorf("submission: unknown intent %q", intent.Type)
	}
	if strings.TrimSpace(intent.Payload.Name) == "" {
		return Submit(), fmt.Errorf("submission: intent %q has no list name", intent.Type)
	}
	return intent, nil
}

// apply rewrites list according to the intent. Out-of-range indexes leave
// the list unchanged.
func (i Intent) apply(list []any) []any {
	p := i.Payload
	switch i.Type {
	case IntentAppend:
		return append(list, normalizeValue(p.DefaultValue))
	case IntentPrepend:
		return append([]any{normalizeValue(p.DefaultValue)}, list...)
	case IntentRemove:
		if p.Index < 0 || p.Index >= len(list) {
			return list
		}
		return append(list[:p.Index], list[p.Index+1:]...)
	case IntentReorder:
		if p.From < 0 || p.From >= len(list) || p.To < 0 || p.To >= len(list) || p.From == p.To {
			return list
		}
		item := list[p.From]
		list = append(list[:p.From], list[p.From+1:]...)
		list = append(list[:p.To], append([]any{item}, list[p.To:]...)...)
		return list
	case IntentReplace:
		if p.Index < 0 || p.Index >= len(list) {
			return list
		}
		list[p.Index] = normalizeValue(p.DefaultValue)
		return list
	default:
		return list
	}
}

// normalizeValue maps empty strings to undefined, matching how posted
// values are read.
func normalizeValue(value any) any {
	if s, ok := value.(string); ok && s == "" {
		return nil
	}
	return value
}
