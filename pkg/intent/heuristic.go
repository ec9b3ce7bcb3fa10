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
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/NVIDIA/patchform/pkg/version"
)

// HeuristicParser is a keyword-based Parser used when no external language
// understanding service is configured. It covers the common request shapes
// (resource limits, images, labels, annotations, replicas, security context,
// probes) and rejects anything it cannot classify rather than guessing.
type HeuristicParser struct{}

// NewHeuristicParser creates a keyword-based parser.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

var (
	clauseSplitRe = regexp.MustCompile(`(?:;|,)\s*(?:and\s+)?|\s+and\s+`)

	namespaceRe  = regexp.MustCompile(`\bin (?:the )?namespace ([a-z0-9][a-z0-9-]*)`)
	inWordRe     = regexp.MustCompile(`\bin ([a-z0-9][a-z0-9-]*)`)
	containerRe  = regexp.MustCompile(`\bcontainer ([a-z0-9][a-z0-9-]*)`)
	forNameRe    = regexp.MustCompile(`\bfor ([a-z0-9][a-z0-9.-]*)`)
	withLabelsRe = regexp.MustCompile(`\bwith labels? ((?:[a-z0-9_./-]+=[a-z0-9_.-]+,?\s*)+)`)
	kvPairRe     = regexp.MustCompile(`([A-Za-z0-9_./-]+)=([A-Za-z0-9_.-]+)`)

	quantityRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?(?:Ei|Pi|Ti|Gi|Mi|Ki|E|P|T|G|M|K))\b`)
	cpuRe      = regexp.MustCompile(`\b(\d+m|\d+(?:\.\d+)?)\b`)
	intRe      = regexp.MustCompile(`\b(\d+)\b`)
	portRe     = regexp.MustCompile(`\bport (\d+)\b`)

	updateToRe = regexp.MustCompile(`\b(?:update|change|set) ([a-z0-9][a-z0-9./_-]*) to ([a-zA-Z0-9][\w.:/-]*)`)
	fromToRe   = regexp.MustCompile(`\bfrom ([a-zA-Z0-9][\w.:/-]*) to ([a-zA-Z0-9][\w.:/-]*)`)
	imageToRe  = regexp.MustCompile(`\bimages? (?:to|=) ([a-zA-Z0-9][\w.:/-]*)`)
)

// words that terminate an "in <word>" namespace guess
var notNamespaces = map[string]bool{
	"all": true, "every": true, "each": true, "the": true,
	"namespace": true, "container": true, "cluster": true,
}

var kindWords = []struct {
	word string
	kind string
}{
	{"statefulset", "StatefulSet"},
	{"daemonset", "DaemonSet"},
	{"deployment", "Deployment"},
	{"deploy", "Deployment"},
	{"configmap", "ConfigMap"},
	{"service", "Service"},
	{"svc", "Service"},
	{"pod", "Pod"},
}

// Parse splits the request into clauses and classifies each one. The whole
// request fails when any clause cannot be classified.
func (p *HeuristicParser) Parse(_ context.Context, request string) ([]Intent, error) {
	clauses := clauseSplitRe.Split(strings.TrimSpace(request), -1)

	intents := make([]Intent, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(clause), "and "))
		if clause == "" {
			continue
		}
		in, err := p.parseClause(clause)
		if err != nil {
			return nil, fmt.Errorf("clause %q: %w", clause, err)
		}
		intents = append(intents, in)
	}

	slog.Debug("heuristic parse complete", "request", request, "intents", len(intents))
	return intents, nil
}

func (p *HeuristicParser) parseClause(clause string) (Intent, error) {
	lower := strings.ToLower(clause)

	in := Intent{
		Action:      p.detectAction(lower),
		Hints:       map[string]string{},
		Selector:    Selector{Kind: p.detectKind(lower)},
		Description: clause,
	}

	// Container hint must be extracted before the namespace guess so that
	// "in container api" is not read as a namespace.
	if m := containerRe.FindStringSubmatch(lower); m != nil {
		in.Hints[HintContainer] = m[1]
	}

	// Selector labels ("with label app=web") are consumed before value
	// parsing so the pairs are not mistaken for label values to add.
	// rest keeps the original casing (values like 512Mi are case-sensitive);
	// lower is its lowercased mirror used for keyword matching.
	rest := clause
	if loc := withLabelsRe.FindStringSubmatchIndex(lower); loc != nil {
		labels := map[string]string{}
		for _, kv := range kvPairRe.FindAllStringSubmatch(rest[loc[2]:loc[3]], -1) {
			labels[kv[1]] = kv[2]
		}
		in.Selector.Labels = labels
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
		lower = lower[:loc[0]] + " " + lower[loc[1]:]
	}

	if m := namespaceRe.FindStringSubmatch(lower); m != nil {
		in.Selector.Namespace = m[1]
	} else if m := inWordRe.FindStringSubmatch(lower); m != nil && !notNamespaces[m[1]] && p.detectKind(m[1]) == "" {
		in.Selector.Namespace = m[1]
	}

	if loc := forNameRe.FindStringSubmatchIndex(lower); loc != nil {
		in.Selector.Names = []string{lower[loc[2]:loc[3]]}
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
		lower = lower[:loc[0]] + " " + lower[loc[1]:]
	}

	if in.Selector.Kind == "" {
		in.Selector.Kind = "Deployment"
	}

	if err := p.detectFieldAndValue(rest, lower, &in); err != nil {
		return Intent{}, err
	}

	if len(in.Hints) == 0 {
		in.Hints = nil
	}
	return in, nil
}

func (p *HeuristicParser) detectAction(lower string) Action {
	switch {
	case strings.Contains(lower, "remove") || strings.Contains(lower, "delete"):
		return ActionRemove
	case strings.Contains(lower, "update") || strings.Contains(lower, "change"):
		return ActionUpdate
	case strings.Contains(lower, "set ") || strings.Contains(lower, "scale"):
		return ActionSet
	default:
		return ActionAdd
	}
}

func (p *HeuristicParser) detectKind(lower string) string {
	for _, kw := range kindWords {
		if strings.Contains(lower, kw.word) {
			return kw.kind
		}
	}
	return ""
}

// detectFieldAndValue classifies the clause into a target field and extracts
// the value. rest preserves the original casing (values like 512Mi are
// case-sensitive) with selector text removed; lower is its lowercased mirror.
func (p *HeuristicParser) detectFieldAndValue(rest, lower string, in *Intent) error {
	switch {
	case strings.Contains(lower, "memory"):
		in.Field = "resources.limits.memory"
		if strings.Contains(lower, "request") {
			in.Field = "resources.requests.memory"
		}
		if m := quantityRe.FindStringSubmatch(rest); m != nil {
			in.Value = m[1]
		}

	case strings.Contains(lower, "cpu"):
		in.Field = "resources.limits.cpu"
		if strings.Contains(lower, "request") {
			in.Field = "resources.requests.cpu"
		}
		if m := cpuRe.FindStringSubmatch(lower); m != nil {
			in.Value = m[1]
		}

	case strings.Contains(lower, "label"):
		in.Field = "labels"
		in.Value = p.pairValues(rest)

	case strings.Contains(lower, "annotation"):
		in.Field = "annotations"
		in.Value = p.pairValues(rest)

	case strings.Contains(lower, "replica") || strings.Contains(lower, "scale"):
		in.Field = "replicas"
		if m := intRe.FindStringSubmatch(lower); m != nil {
			n, _ := strconv.Atoi(m[1])
			in.Value = n
		}

	case strings.Contains(lower, "security context") ||
		strings.Contains(lower, "securitycontext") ||
		strings.Contains(lower, "non-root") || strings.Contains(lower, "nonroot"):
		in.Field = "securityContext"
		in.Value = map[string]any{"runAsNonRoot": true}

	case strings.Contains(lower, "liveness"):
		in.Field = "livenessProbe"
		in.Value = p.probeValue(lower)

	case strings.Contains(lower, "readiness") || strings.Contains(lower, "probe"):
		in.Field = "readinessProbe"
		in.Value = p.probeValue(lower)

	case strings.Contains(lower, "image"):
		in.Field = "image"
		if m := fromToRe.FindStringSubmatch(lower); m != nil {
			in.Value = map[string]any{"from": m[1], "to": m[2]}
		} else if m := imageToRe.FindStringSubmatch(lower); m != nil {
			in.Value = m[1]
		}

	case updateToRe.MatchString(lower):
		// "update nginx to v1.16" with no recognized field keyword reads as
		// an image tag update on the named container.
		m := updateToRe.FindStringSubmatch(lower)
		if _, err := version.ParseVersion(m[2]); err != nil {
			return fmt.Errorf("cannot classify update target %q", m[2])
		}
		in.Field = "image"
		in.Value = m[1] + ":" + m[2]
		if _, ok := in.Hints[HintContainer]; !ok {
			in.Hints[HintContainer] = m[1]
		}

	default:
		return fmt.Errorf("cannot determine target field")
	}

	if in.Value == nil && in.Action != ActionRemove {
		return fmt.Errorf("cannot determine value for field %s", in.Field)
	}
	return nil
}

func (p *HeuristicParser) pairValues(rest string) any {
	pairs := map[string]any{}
	for _, kv := range kvPairRe.FindAllStringSubmatch(rest, -1) {
		pairs[kv[1]] = kv[2]
	}
	if len(pairs) == 0 {
		return nil
	}
	return pairs
}

func (p *HeuristicParser) probeValue(lower string) map[string]any {
	port := 8080
	if m := portRe.FindStringSubmatch(lower); m != nil {
		port, _ = strconv.Atoi(m[1])
	}
	return map[string]any{
		"httpGet":             map[string]any{"path": "/health", "port": port},
		"initialDelaySeconds": 10,
		"periodSeconds":       10,
	}
}
