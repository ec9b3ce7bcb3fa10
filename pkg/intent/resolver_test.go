package intent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/patchform/pkg/errors"
)

// stubParser returns canned intents or an error.
type stubParser struct {
	intents []Intent
	err     error
}

func (s *stubParser) Parse(_ context.Context, _ string) ([]Intent, error) {
	return s.intents, s.err
}

func TestResolver_StampsSequence(t *testing.T) {
	parser := &stubParser{intents: []Intent{
		{Action: ActionSet, Field: "image", Value: "nginx:v1.16", Selector: Selector{Kind: "Deployment"}},
		{Action: ActionAdd, Field: "labels", Value: map[string]any{"env": "prod"}, Selector: Selector{Kind: "Deployment"}},
		{Action: ActionSet, Field: "resources.limits.cpu", Value: "500m", Selector: Selector{Kind: "Deployment"}},
	}}

	intents, err := NewResolver(parser).Resolve(t.Context(), "three changes")
	require.NoError(t, err)
	require.Len(t, intents, 3)

	for i, in := range intents {
		assert.Equal(t, i, in.Seq)
	}
}

func TestResolver_OneBadIntentFailsAll(t *testing.T) {
	parser := &stubParser{intents: []Intent{
		{Action: ActionAdd, Field: "labels", Value: map[string]any{"a": "b"}, Selector: Selector{Kind: "Service"}},
		{Action: ActionAdd, Field: "labels", Value: map[string]any{"c": "d"}, Selector: Selector{}}, // no kind
	}}

	_, err := NewResolver(parser).Resolve(t.Context(), "two changes")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIntentParse))
}

func TestResolver_ParserError(t *testing.T) {
	parser := &stubParser{err: fmt.Errorf("upstream unavailable")}

	_, err := NewResolver(parser).Resolve(t.Context(), "anything")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIntentParse))
}

func TestResolver_EmptyRequest(t *testing.T) {
	_, err := NewResolver(&stubParser{}).Resolve(t.Context(), "   ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestResolver_NoIntents(t *testing.T) {
	_, err := NewResolver(&stubParser{}).Resolve(t.Context(), "noop request")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIntentParse))
}

func TestIntent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		intent  Intent
		wantErr bool
	}{
		{
			name:   "valid",
			intent: Intent{Action: ActionAdd, Field: "labels", Selector: Selector{Kind: "Pod"}},
		},
		{
			name:    "unknown action",
			intent:  Intent{Action: "merge", Field: "labels", Selector: Selector{Kind: "Pod"}},
			wantErr: true,
		},
		{
			name:    "missing field",
			intent:  Intent{Action: ActionAdd, Selector: Selector{Kind: "Pod"}},
			wantErr: true,
		},
		{
			name:    "missing kind",
			intent:  Intent{Action: ActionAdd, Field: "labels"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.intent.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelector_String(t *testing.T) {
	s := Selector{
		Kind:      "Service",
		Namespace: "api",
		Names:     []string{"web"},
		Labels:    map[string]string{"team": "platform", "app": "web"},
	}
	// Label keys render sorted for stable output.
	assert.Equal(t, "Service in api named web with app=web,team=platform", s.String())
}
