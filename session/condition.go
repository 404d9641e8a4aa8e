package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is the experimental condition a participant is assigned to.
type Condition string

const (
	Physical Condition = "physical"
	Imagery  Condition = "imagery"
	Control  Condition = "control"
)

// Feedback selects what the participant sees after each trial.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackDrawing Feedback = "drawing_feedback"
	FeedbackResults Feedback = "results_feedback"
	FeedbackAll     Feedback = "all_feedback"
)

// Type is the kind of session being run.
type Type string

const (
	TypeFigureCapture Type = "figure_capture"
	TypeTraining      Type = "training"
	TypeTesting       Type = "testing"
)

var conditionCodes = map[string]Condition{
	"PP": Physical,
	"MI": Imagery,
	"CC": Control,
}

// ConditionErrorKind says which part of a condition identifier was wrong.
type ConditionErrorKind string

const (
	InvalidFormat       ConditionErrorKind = "invalid_format"
	InvalidCondition    ConditionErrorKind = "invalid_condition"
	InvalidFeedback     ConditionErrorKind = "invalid_feedback"
	InvalidSessionCount ConditionErrorKind = "invalid_session_count"
)

var conditionMessages = map[ConditionErrorKind]string{
	InvalidFormat: "Experimental condition identifiers must be separated by hyphens, and contain three components:\n" +
		"Experimental condition, feedback condition, and the number of sessions.\nPlease try again.",
	InvalidCondition: "The experimental condition must commence with any of 'PP', 'MI' or 'CC'.\nPlease try again.",
	InvalidFeedback: "The feedback value was invalid.\n" +
		"It must contain any combination of 'V', 'R' or 'X' and be between one and two characters long.\n" +
		"Please try again.",
	InvalidSessionCount: "Number of sessions must be a valid integer greater than 0.\nPlease try again.",
}

// ConditionError reports a malformed condition identifier. Its message is
// meant to be shown to the operator as is.
type ConditionError struct {
	Kind  ConditionErrorKind
	Input string
}

func (e *ConditionError) Error() string {
	return conditionMessages[e.Kind]
}

// Assignment is a parsed condition identifier such as "PP-VR-5".
type Assignment struct {
	Condition    Condition
	Feedback     Feedback
	SessionCount int
}

// ParseCondition parses "<condition>-<feedback>-<sessions>". When several
// parts are wrong the condition is reported first, then the feedback, then
// the session count.
func ParseCondition(s string) (Assignment, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Assignment{}, &ConditionError{Kind: InvalidFormat, Input: s}
	}
	code, feedback, sessions := parts[0], parts[1], parts[2]

	cond, ok := conditionCodes[code]
	if !ok {
		return Assignment{}, &ConditionError{Kind: InvalidCondition, Input: s}
	}
	fb, ok := parseFeedback(feedback)
	if !ok {
		return Assignment{}, &ConditionError{Kind: InvalidFeedback, Input: s}
	}
	count, err := strconv.Atoi(sessions)
	if err != nil || count < 1 || strings.ContainsAny(sessions, "+-") {
		return Assignment{}, &ConditionError{Kind: InvalidSessionCount, Input: s}
	}

	return Assignment{Condition: cond, Feedback: fb, SessionCount: count}, nil
}

func parseFeedback(s string) (Feedback, bool) {
	if len(s) < 1 || len(s) > 2 {
		return FeedbackNone, false
	}
	if strings.Trim(s, "VRX") != "" {
		return FeedbackNone, false
	}

	hasV := strings.Contains(s, "V")
	hasR := strings.Contains(s, "R")
	switch {
	case hasV && hasR:
		return FeedbackAll, true
	case hasR:
		return FeedbackResults, true
	case hasV:
		return FeedbackDrawing, true
	default:
		return FeedbackNone, true
	}
}

// String renders the assignment back into identifier form.
func (a Assignment) String() string {
	code := ""
	for k, v := range conditionCodes {
		if v == a.Condition {
			code = k
		}
	}
	fb := "X"
	switch a.Feedback {
	case FeedbackAll:
		fb = "VR"
	case FeedbackResults:
		fb = "R"
	case FeedbackDrawing:
		fb = "V"
	}
	return fmt.Sprintf("%s-%s-%d", code, fb, a.SessionCount)
}
