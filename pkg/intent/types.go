// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package intent

import (
	"fmt"
	"slices"
	"strings"
)

// Action is the requested change verb.
type Action string

const (
	// ActionAdd adds a field or map entry that may not exist yet.
	ActionAdd Action = "add"
	// ActionUpdate changes an existing field value.
	ActionUpdate Action = "update"
	// ActionSet writes a field value unconditionally.
	ActionSet Action = "set"
	// ActionRemove clears a field or map entry.
	ActionRemove Action = "remove"
)

// IsValid reports whether the action is one of the supported verbs.
func (a Action) IsValid() bool {
	switch a {
	case ActionAdd, ActionUpdate, ActionSet, ActionRemove:
		return true
	default:
		return false
	}
}

// SupportedActions returns the supported action verbs for help text.
func SupportedActions() []string {
	return []string{
		string(ActionAdd),
		string(ActionUpdate),
		string(ActionSet),
		string(ActionRemove),
	}
}

// Well-known field hint keys.
const (
	// HintContainer names the container a container-targeted action applies to.
	HintContainer = "container"
	// HintOnlyIfMissing requests the change only where the field is absent.
	HintOnlyIfMissing = "onlyIfMissing"
)

// Selector scopes an intent to a set of resources. At least Kind must be set;
// empty Names/Labels/Namespace mean "all resources of this kind in scope".
type Selector struct {
	Kind      string            `json:"kind" yaml:"kind"`
	Names     []string          `json:"names,omitempty" yaml:"names,omitempty"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Namespace string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// HasName reports whether the selector explicitly names the given resource.
func (s Selector) HasName(name string) bool {
	return slices.Contains(s.Names, name)
}

// String renders the selector for logs and warnings.
func (s Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Kind)
	if s.Namespace != "" {
		fmt.Fprintf(&b, " in %s", s.Namespace)
	}
	if len(s.Names) > 0 {
		fmt.Fprintf(&b, " named %s", strings.Join(s.Names, ","))
	}
	if len(s.Labels) > 0 {
		keys := make([]string, 0, len(s.Labels))
		for k := range s.Labels {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+s.Labels[k])
		}
		fmt.Fprintf(&b, " with %s", strings.Join(pairs, ","))
	}
	return b.String()
}

// Intent is a single requested change, immutable once resolved.
// Seq is the position of the originating clause within the request and drives
// last-writer-wins conflict resolution downstream.
type Intent struct {
	Seq         int               `json:"seq" yaml:"seq"`
	Action      Action            `json:"action" yaml:"action"`
	Field       string            `json:"field" yaml:"field"`
	Value       any               `json:"value,omitempty" yaml:"value,omitempty"`
	Hints       map[string]string `json:"hints,omitempty" yaml:"hints,omitempty"`
	Selector    Selector          `json:"selector" yaml:"selector"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// ContainerHint returns the container name the intent targets, if any.
func (i Intent) ContainerHint() string {
	return i.Hints[HintContainer]
}

// Validate checks the intent's schema: a known action, a target field, and a
// selector with at least a kind.
func (i Intent) Validate() error {
	if !i.Action.IsValid() {
		return fmt.Errorf("unknown action %q (supported: %s)",
			i.Action, strings.Join(SupportedActions(), ", "))
	}
	if strings.TrimSpace(i.Field) == "" {
		return fmt.Errorf("intent has no target field")
	}
	if strings.TrimSpace(i.Selector.Kind) == "" {
		return fmt.Errorf("intent selector has no kind")
	}
	return nil
}
