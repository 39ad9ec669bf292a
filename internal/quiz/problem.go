package quiz

import (
	"fmt"

	"github.com/minyeol/songquiz/internal/models"
	"github.com/minyeol/songquiz/internal/normalize"
)

const (
	// BasePoints is what a correct answer earns with no hints consumed.
	BasePoints = 10
	// MaxHints is the per-problem hint budget; each hint spent costs one point.
	MaxHints = 2
	// MaxWrongAnswers is the shared wrong-answer budget; reaching it resolves
	// the problem as exhausted.
	MaxWrongAnswers = 10
	// SkipVotes is how many skip votes resolve a problem as skipped.
	SkipVotes = 3
)

// SubmitResult is the outcome of one answer submission.
type SubmitResult int

const (
	// SubmitCorrect means the answer matched and the problem is now completed.
	SubmitCorrect SubmitResult = iota
	// SubmitWrongRetry means the answer did not match but attempts remain.
	SubmitWrongRetry
	// SubmitWrongExhausted means this wrong answer consumed the last attempt;
	// the caller must resolve the problem without awarding points.
	SubmitWrongExhausted
	// SubmitAlreadyAnswered means the problem was completed earlier; this late
	// duplicate is informational and counted against nothing.
	SubmitAlreadyAnswered
)

func (r SubmitResult) String() string {
	switch r {
	case SubmitCorrect:
		return "correct"
	case SubmitWrongRetry:
		return "wrong-retry"
	case SubmitWrongExhausted:
		return "wrong-exhausted"
	case SubmitAlreadyAnswered:
		return "already-answered"
	default:
		return "unknown"
	}
}

// Hint is one hint response: a header, an optional body with the revealed
// detail, and a footer restating the current value of a correct answer.
type Hint struct {
	Header string
	Body   string
	Footer string
}

// Problem is one song-guessing round bound to a single Track. It is owned
// exclusively by one match session; the session serializes all access.
type Problem struct {
	track              models.Track
	wrongAnswers       int
	hintsRemaining     int
	skipVotesRemaining int
	completed          bool
}

// NewProblem creates a fresh problem for the given track.
func NewProblem(track models.Track) *Problem {
	return &Problem{
		track:              track,
		hintsRemaining:     MaxHints,
		skipVotesRemaining: SkipVotes,
	}
}

// Track returns the track this problem wraps.
func (p *Problem) Track() models.Track {
	return p.track
}

// Answer returns the ground-truth title.
func (p *Problem) Answer() string {
	return p.track.Title
}

// Completed reports whether the problem has been answered correctly.
func (p *Problem) Completed() bool {
	return p.completed
}

// WrongAnswers returns the shared wrong-answer count so far.
func (p *Problem) WrongAnswers() int {
	return p.wrongAnswers
}

// AttemptsLeft returns how many wrong answers the problem still tolerates.
func (p *Problem) AttemptsLeft() int {
	return MaxWrongAnswers - p.wrongAnswers
}

// SkipVotesLeft returns how many more skip votes resolve the problem.
func (p *Problem) SkipVotesLeft() int {
	return p.skipVotesRemaining
}

// PointsIfCorrect returns what a correct answer would earn right now,
// reflecting hints already spent.
func (p *Problem) PointsIfCorrect() int {
	return BasePoints - MaxHints + p.hintsRemaining
}

// Submit checks a raw answer against the track title. On a correct answer it
// marks the problem completed and returns the awarded points; once completed,
// every further submission returns SubmitAlreadyAnswered without touching the
// wrong-answer count.
func (p *Problem) Submit(rawAnswer string) (SubmitResult, int) {
	if p.completed {
		return SubmitAlreadyAnswered, 0
	}

	if normalize.Matches(p.track.Title, rawAnswer) {
		p.completed = true
		return SubmitCorrect, p.PointsIfCorrect()
	}

	p.wrongAnswers++
	if p.wrongAnswers >= MaxWrongAnswers {
		return SubmitWrongExhausted, 0
	}
	return SubmitWrongRetry, 0
}

// Hint consumes one hint and returns its content. The first hint reveals the
// first character of the title, the second the artist. Past the budget it
// returns a "no hints left" response without decrementing further.
func (p *Problem) Hint() Hint {
	var h Hint
	switch p.hintsRemaining {
	case MaxHints:
		p.hintsRemaining--
		h.Header = "Hint 1/2: the title starts with"
		h.Body = firstChar(p.track.Title)
	case 1:
		p.hintsRemaining--
		h.Header = "Hint 2/2: the artist is"
		h.Body = p.track.Artist
	default:
		h.Header = "No hints left for this song."
	}
	h.Footer = fmt.Sprintf("A correct answer is now worth %d points.", p.PointsIfCorrect())
	return h
}

// Skip records one skip vote and reports whether the problem is resolved as
// skipped. The counter floors at zero, so extra votes after resolution keep
// reporting true. One-vote-per-participant is enforced by the session, not
// here.
func (p *Problem) Skip() bool {
	if p.skipVotesRemaining > 0 {
		p.skipVotesRemaining--
	}
	return p.skipVotesRemaining == 0
}

func firstChar(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
