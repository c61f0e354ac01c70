package services

import (
	"context"
	"fmt"
	"strings"
)

// Moderator reports whether text is flagged by a content moderation backend.
// A backend failure is an error wrapping ErrModerationService, never a
// silent "not flagged".
type Moderator interface {
	Moderate(ctx context.Context, text string) (flagged bool, err error)
}

// PassesModeration is the gate applied to a rendered prompt before it is sent
// for estimation.
func PassesModeration(ctx context.Context, m Moderator, text string) (bool, error) {
	flagged, err := m.Moderate(ctx, text)
	if err != nil {
		return false, err
	}
	return !flagged, nil
}

type ModerationMode string

const (
	ModerateNone          ModerationMode = "none"
	ModerateAll           ModerationMode = "gate-all"
	ModerateBySubjectType ModerationMode = "gate-by-subject-type"
)

// ModerationPolicy decides which estimation prompts go through the gate.
// Subjects is only consulted in gate-by-subject-type mode.
type ModerationPolicy struct {
	Mode     ModerationMode
	Subjects []SubjectType
}

// DefaultModerationPolicy gates exercise prompts only.
func DefaultModerationPolicy() ModerationPolicy {
	return ModerationPolicy{Mode: ModerateBySubjectType, Subjects: []SubjectType{SubjectExercise}}
}

// ParseModerationPolicy accepts "none", "gate-all", "gate-by-subject-type"
// (exercise only) or "gate-by-subject-type:food,exercise".
func ParseModerationPolicy(s string) (ModerationPolicy, error) {
	mode, list, hasList := strings.Cut(strings.TrimSpace(s), ":")
	switch ModerationMode(mode) {
	case "":
		return DefaultModerationPolicy(), nil
	case ModerateNone, ModerateAll:
		if hasList {
			return ModerationPolicy{}, fmt.Errorf("moderation mode %q takes no subject list", mode)
		}
		return ModerationPolicy{Mode: ModerationMode(mode)}, nil
	case ModerateBySubjectType:
		if !hasList {
			return DefaultModerationPolicy(), nil
		}
		p := ModerationPolicy{Mode: ModerateBySubjectType}
		for _, name := range strings.Split(list, ",") {
			st := SubjectType(strings.TrimSpace(name))
			if !st.valid() {
				return ModerationPolicy{}, fmt.Errorf("unknown moderation subject %q", name)
			}
			p.Subjects = append(p.Subjects, st)
		}
		return p, nil
	default:
		return ModerationPolicy{}, fmt.Errorf("unknown moderation policy %q", s)
	}
}

func (p ModerationPolicy) Gates(subject SubjectType) bool {
	switch p.Mode {
	case ModerateAll:
		return true
	case ModerateBySubjectType:
		for _, s := range p.Subjects {
			if s == subject {
				return true
			}
		}
	}
	return false
}
