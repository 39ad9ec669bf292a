package quiz

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/minyeol/songquiz/internal/errors"
	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/models"
)

const (
	// MinSongCount and MaxSongCount bound the requested match length.
	MinSongCount = 10
	MaxSongCount = 50

	// extraListenTime extends the answer window past the end of the clip.
	extraListenTime = 8 * time.Second
	// pacingDelay separates a resolved problem from the next one.
	pacingDelay = 3 * time.Second
	// midpointPause holds the match after the mid-match scoreboard.
	midpointPause = 8 * time.Second
	// graceDisconnect is how long the voice connection lingers after a match
	// so a follow-up match can reuse it.
	graceDisconnect = 10 * time.Second
)

// StartParams carries the validated inputs of a start-match command.
type StartParams struct {
	GuildID      string
	ChannelID    string
	UserID       models.AccountID
	SongCount    int
	RandomOffset bool
	// InVoice reports whether the requester is connected to a voice channel;
	// the chat facade owns the actual voice state.
	InVoice bool
}

// session is the per-channel match state. All access is serialized by the
// engine mutex; timers re-validate epoch and cursor before touching it.
type session struct {
	id              string
	guildID         string
	channelID       string
	epoch           uint64
	problems        []*Problem
	current         int
	useRandomOffset bool
	scoreboard      map[models.AccountID]int
	skipVoters      map[models.AccountID]bool
}

func (s *session) problem() (*Problem, bool) {
	if s.current < 0 || s.current >= len(s.problems) {
		return nil, false
	}
	return s.problems[s.current], true
}

// Engine orchestrates song-quiz matches, at most one per channel. It owns the
// session cursor, timers and scoreboard, and arbitrates concurrent answer
// submissions; completed matches are handed to the Rewarder.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*session
	epochs   map[string]uint64

	catalog  Catalog
	audio    AudioPlayer
	notifier Notifier
	rewards  Rewarder
	log      *logger.Logger

	// schedule and randIntn are swapped out in tests.
	schedule func(d time.Duration, fn func())
	randIntn func(n int) int
}

// NewEngine creates an engine wired to the given collaborators.
func NewEngine(catalog Catalog, audio AudioPlayer, notifier Notifier, rewards Rewarder) *Engine {
	return &Engine{
		sessions: make(map[string]*session),
		epochs:   make(map[string]uint64),
		catalog:  catalog,
		audio:    audio,
		notifier: notifier,
		rewards:  rewards,
		log:      logger.Default().WithPrefix("quiz"),
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		randIntn: rand.Intn,
	}
}

// Running reports whether a match is active on the channel.
func (e *Engine) Running(channelID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.sessions[channelID]
	return ok
}

// Start validates the request, allocates a session and begins playback of the
// first problem.
func (e *Engine) Start(p StartParams) error {
	if p.SongCount < MinSongCount || p.SongCount > MaxSongCount {
		return apperrors.NewValidationError("song_count",
			fmt.Sprintf("must be between %d and %d, got %d", MinSongCount, MaxSongCount, p.SongCount))
	}
	if !p.InVoice {
		return apperrors.NewValidationError("voice", "join a voice channel to start a quiz")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, running := e.sessions[p.ChannelID]; running {
		return apperrors.NewConflictError("a quiz is already running on this channel; end it first")
	}

	tracks, err := e.catalog.Sample(p.SongCount)
	if err != nil {
		return err
	}

	e.epochs[p.ChannelID]++
	s := &session{
		id:              uuid.NewString(),
		guildID:         p.GuildID,
		channelID:       p.ChannelID,
		epoch:           e.epochs[p.ChannelID],
		problems:        make([]*Problem, 0, len(tracks)),
		useRandomOffset: p.RandomOffset,
		scoreboard:      make(map[models.AccountID]int),
		skipVoters:      make(map[models.AccountID]bool),
	}
	for _, t := range tracks {
		s.problems = append(s.problems, NewProblem(t))
	}
	e.sessions[p.ChannelID] = s

	e.log.Info("match started: session=%s channel=%s songs=%d random_offset=%v epoch=%d",
		s.id, s.channelID, len(s.problems), s.useRandomOffset, s.epoch)
	e.notifier.Notify(p.ChannelID, fmt.Sprintf("Starting a song quiz with %d songs!", len(s.problems)))
	e.playLocked(s, s.current)
	return nil
}

// Submit arbitrates one answer submission against the current problem.
func (e *Engine) Submit(channelID string, user models.AccountID, text string) (SubmitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[channelID]
	if s == nil {
		return 0, apperrors.NewValidationError("session", "no quiz is running on this channel")
	}
	prob, ok := s.problem()
	if !ok {
		e.abortLocked(s, fmt.Errorf("cursor %d out of range for %d problems", s.current, len(s.problems)))
		return 0, apperrors.NewInternalError(fmt.Errorf("session state corrupted"))
	}

	result, points := prob.Submit(text)
	switch result {
	case SubmitCorrect:
		e.stopAudioLocked(s)
		s.scoreboard[user] += points
		e.notifier.Notify(channelID, fmt.Sprintf("Correct! <@%d> earned %d points. The answer was **%s** by %s.",
			user, points, prob.Answer(), prob.Track().Artist))
		e.advanceLocked(s)
	case SubmitWrongExhausted:
		e.stopAudioLocked(s)
		e.notifier.Notify(channelID, fmt.Sprintf("Out of attempts! The answer was **%s** by %s. Nobody scores.",
			prob.Answer(), prob.Track().Artist))
		e.advanceLocked(s)
	case SubmitWrongRetry:
		e.notifier.Notify(channelID, fmt.Sprintf("Wrong answer. %d attempts remain for this song.", prob.AttemptsLeft()))
	case SubmitAlreadyAnswered:
		e.notifier.Notify(channelID, "Someone already answered this one.")
	}
	return result, nil
}

// Hint consumes one hint on the current problem and emits it.
func (e *Engine) Hint(channelID string) (Hint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[channelID]
	if s == nil {
		return Hint{}, apperrors.NewValidationError("session", "no quiz is running on this channel")
	}
	prob, ok := s.problem()
	if !ok {
		e.abortLocked(s, fmt.Errorf("cursor %d out of range for %d problems", s.current, len(s.problems)))
		return Hint{}, apperrors.NewInternalError(fmt.Errorf("session state corrupted"))
	}

	h := prob.Hint()
	if h.Body != "" {
		e.notifier.Notify(channelID, fmt.Sprintf("%s %s\n%s", h.Header, h.Body, h.Footer))
	} else {
		e.notifier.Notify(channelID, fmt.Sprintf("%s\n%s", h.Header, h.Footer))
	}
	return h, nil
}

// Skip records one skip vote from the participant. Each participant gets one
// vote per problem; the third vote resolves the problem as skipped.
func (e *Engine) Skip(channelID string, user models.AccountID) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[channelID]
	if s == nil {
		return false, apperrors.NewValidationError("session", "no quiz is running on this channel")
	}
	if s.skipVoters[user] {
		return false, apperrors.NewValidationError("skip", "you already voted to skip this song")
	}
	prob, ok := s.problem()
	if !ok {
		e.abortLocked(s, fmt.Errorf("cursor %d out of range for %d problems", s.current, len(s.problems)))
		return false, apperrors.NewInternalError(fmt.Errorf("session state corrupted"))
	}

	s.skipVoters[user] = true
	if prob.Skip() {
		e.stopAudioLocked(s)
		e.notifier.Notify(channelID, fmt.Sprintf("Skipped! The answer was **%s** by %s.",
			prob.Answer(), prob.Track().Artist))
		e.advanceLocked(s)
		return true, nil
	}
	e.notifier.Notify(channelID, fmt.Sprintf("Skip vote registered. %d more votes skip this song.", prob.SkipVotesLeft()))
	return false, nil
}

// Terminate ends the match immediately: the scoreboard becomes final, audio
// disconnects and rewards are flushed. It is a reported no-op when no match
// is running.
func (e *Engine) Terminate(channelID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[channelID]
	if s == nil {
		return apperrors.NewValidationError("session", "no quiz is running on this channel")
	}

	e.stopAudioLocked(s)
	e.notifier.Notify(channelID, "Quiz ended early. Final standings:\n"+formatScoreboard(s.scoreboard))
	delete(e.sessions, channelID)
	go e.applyRewards(channelID, copyScores(s.scoreboard))
	if err := e.audio.Disconnect(channelID); err != nil {
		e.log.Warn("audio disconnect failed: channel=%s err=%v", channelID, err)
	}
	e.log.Info("match terminated: session=%s channel=%s", s.id, channelID)
	return nil
}

// playLocked arms playback and the answer timer for problem i.
func (e *Engine) playLocked(s *session, i int) {
	prob := s.problems[i]
	s.skipVoters = make(map[models.AccountID]bool)

	offset := 0
	if s.useRandomOffset && prob.Track().AudioDuration > 0 {
		offset = e.randIntn(prob.Track().AudioDuration*2/3 + 1)
	}
	if err := e.audio.Play(s.channelID, prob.Track(), offset); err != nil {
		e.abortLocked(s, fmt.Errorf("audio play: %w", err))
		return
	}

	timeout := time.Duration(prob.Track().AudioDuration-offset)*time.Second + extraListenTime
	epoch, index, channelID := s.epoch, i, s.channelID
	e.schedule(timeout, func() { e.timeout(channelID, epoch, index) })

	e.log.Debug("problem playing: session=%s index=%d offset=%d timeout=%s", s.id, i, offset, timeout)
	e.notifier.Notify(s.channelID, fmt.Sprintf("Now playing! [Song %d/%d] Submit the title to answer.",
		i+1, len(s.problems)))
}

// timeout forces resolution of problem index unless the session moved on.
// The epoch and cursor are re-checked at fire time: a problem resolved early
// by a fast answer must not have its stale timer advance the session again.
func (e *Engine) timeout(channelID string, epoch uint64, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[channelID]
	if s == nil || s.epoch != epoch || s.current != index {
		e.log.Debug("discarding stale timeout: channel=%s epoch=%d index=%d", channelID, epoch, index)
		return
	}
	prob := s.problems[index]

	e.stopAudioLocked(s)
	e.notifier.Notify(channelID, fmt.Sprintf("Time's up! The answer was **%s** by %s.",
		prob.Answer(), prob.Track().Artist))
	e.advanceLocked(s)
}

// advanceLocked moves the cursor past a resolved problem and either completes
// the match or schedules the next problem after a pacing delay. The deferred
// continuation re-checks epoch and cursor, so a superseding match cancels it.
func (e *Engine) advanceLocked(s *session) {
	s.current++
	if s.current == len(s.problems) {
		e.completeLocked(s)
		return
	}

	next := s.current
	delay := pacingDelay
	if next == len(s.problems)/2 {
		e.notifier.Notify(s.channelID, "Halfway there! Current standings:\n"+formatScoreboard(s.scoreboard))
		delay = midpointPause
	}

	epoch, channelID := s.epoch, s.channelID
	e.schedule(delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		cur := e.sessions[channelID]
		if cur == nil || cur.epoch != epoch || cur.current != next {
			return
		}
		e.playLocked(cur, next)
	})
}

// completeLocked finishes the match: final scoreboard, rewards, and a delayed
// disconnect that yields to any match started during the grace period.
func (e *Engine) completeLocked(s *session) {
	e.notifier.Notify(s.channelID, "Quiz complete! Final standings:\n"+formatScoreboard(s.scoreboard))
	delete(e.sessions, s.channelID)
	go e.applyRewards(s.channelID, copyScores(s.scoreboard))

	epoch, channelID := s.epoch, s.channelID
	e.schedule(graceDisconnect, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.epochs[channelID] != epoch {
			return
		}
		if _, running := e.sessions[channelID]; running {
			return
		}
		if err := e.audio.Disconnect(channelID); err != nil {
			e.log.Warn("grace disconnect failed: channel=%s err=%v", channelID, err)
		}
	})
	e.log.Info("match complete: session=%s channel=%s participants=%d", s.id, s.channelID, len(s.scoreboard))
}

// abortLocked tears down a corrupted session. Session state is not the user's
// persisted data, so the engine force-returns the channel to idle instead of
// propagating a fatal error.
func (e *Engine) abortLocked(s *session, cause error) {
	e.log.Error("aborting session: session=%s channel=%s cause=%v", s.id, s.channelID, cause)
	delete(e.sessions, s.channelID)
	e.stopAudioLocked(s)
	if err := e.audio.Disconnect(s.channelID); err != nil {
		e.log.Warn("audio disconnect failed: channel=%s err=%v", s.channelID, err)
	}
	e.notifier.Notify(s.channelID, "Something went wrong; the quiz has been cancelled.")
}

func (e *Engine) stopAudioLocked(s *session) {
	if err := e.audio.Stop(s.channelID); err != nil {
		e.log.Warn("audio stop failed: channel=%s err=%v", s.channelID, err)
	}
}

func (e *Engine) applyRewards(channelID string, scores map[models.AccountID]int) {
	if len(scores) == 0 {
		return
	}
	if err := e.rewards.ApplyMatchResult(scores); err != nil {
		e.log.Error("failed to apply match rewards: channel=%s err=%v", channelID, err)
	}
}

func copyScores(scores map[models.AccountID]int) map[models.AccountID]int {
	out := make(map[models.AccountID]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func formatScoreboard(scores map[models.AccountID]int) string {
	if len(scores) == 0 {
		return "Nobody scored this match."
	}
	type entry struct {
		id     models.AccountID
		points int
	}
	entries := make([]entry, 0, len(scores))
	for id, points := range scores {
		entries = append(entries, entry{id, points})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].points != entries[j].points {
			return entries[i].points > entries[j].points
		}
		return entries[i].id < entries[j].id
	})

	var sb strings.Builder
	for i, en := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. <@%d>: %d points", i+1, en.id, en.points))
	}
	return sb.String()
}
