package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Difficulty rating bounds. Ratings are multiples of 10 in [10, 100].
const (
	MinDifficulty = 10
	MaxDifficulty = 100
)

// ProofSubmission pairs a completion proof (flag) with a difficulty rating.
type ProofSubmission struct {
	Flag       string
	Difficulty int
}

// ParseProof parses the "<flag>:<difficulty>" submission format.
func ParseProof(s string) (ProofSubmission, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ProofSubmission{}, fmt.Errorf("%w: %q is not <flag>:<difficulty>", ErrInvalidProof, s)
	}
	difficulty, err := strconv.Atoi(parts[1])
	if err != nil {
		return ProofSubmission{}, &ValidationError{Rule: "difficulty must be an integer"}
	}
	return ProofSubmission{Flag: parts[0], Difficulty: difficulty}, nil
}

// ValidationError reports which difficulty rule a submission violated.
// Its message is the user-facing diagnostic.
type ValidationError struct {
	Rule string
}

func (e *ValidationError) Error() string {
	return e.Rule
}

// Is makes errors.Is(err, ErrInvalidDifficulty) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDifficulty
}

// Validate checks the difficulty rating rules. It names the specific rule
// violated and is always applied before any upstream call.
func (p ProofSubmission) Validate() error {
	if p.Difficulty%10 != 0 {
		return &ValidationError{Rule: "difficulty must be a multiple of 10"}
	}
	if p.Difficulty < MinDifficulty || p.Difficulty > MaxDifficulty {
		return &ValidationError{Rule: fmt.Sprintf("difficulty must be between %d and %d", MinDifficulty, MaxDifficulty)}
	}
	return nil
}
