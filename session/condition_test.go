package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in   string
		want Assignment
	}{
		{in: "PP-VR-5", want: Assignment{Condition: Physical, Feedback: FeedbackAll, SessionCount: 5}},
		{in: "MI-RV-3", want: Assignment{Condition: Imagery, Feedback: FeedbackAll, SessionCount: 3}},
		{in: "CC-R-1", want: Assignment{Condition: Control, Feedback: FeedbackResults, SessionCount: 1}},
		{in: "PP-V-2", want: Assignment{Condition: Physical, Feedback: FeedbackDrawing, SessionCount: 2}},
		{in: "MI-X-10", want: Assignment{Condition: Imagery, Feedback: FeedbackNone, SessionCount: 10}},
		{in: "MI-XV-4", want: Assignment{Condition: Imagery, Feedback: FeedbackDrawing, SessionCount: 4}},
		{in: "  CC-VV-1 ", want: Assignment{Condition: Control, Feedback: FeedbackDrawing, SessionCount: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCondition(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConditionErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind ConditionErrorKind
	}{
		{in: "", kind: InvalidFormat},
		{in: "PP-VR", kind: InvalidFormat},
		{in: "PP-VR-5-1", kind: InvalidFormat},
		{in: "XX-VR-5", kind: InvalidCondition},
		{in: "pp-VR-5", kind: InvalidCondition},
		{in: "XX-QQ-0", kind: InvalidCondition},
		{in: "PP-Q-5", kind: InvalidFeedback},
		{in: "PP-VRX-5", kind: InvalidFeedback},
		{in: "PP--5", kind: InvalidFeedback},
		{in: "PP-QQ-0", kind: InvalidFeedback},
		{in: "PP-V-0", kind: InvalidSessionCount},
		{in: "PP-V-x", kind: InvalidSessionCount},
		{in: "PP-V-+3", kind: InvalidSessionCount},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseCondition(tt.in)
			var ce *ConditionError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Contains(t, ce.Error(), "Please try again.")
		})
	}
}

func TestAssignmentString(t *testing.T) {
	for _, in := range []string{"PP-VR-5", "MI-R-1", "CC-V-3", "PP-X-2"} {
		a, err := ParseCondition(in)
		require.NoError(t, err)
		assert.Equal(t, in, a.String())
	}
}
