package playground

import (
	"fmt"
	"strings"
)

// HiddenField is a hidden input a page emits next to its visible fields,
// most importantly the reserved form identifier.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}
