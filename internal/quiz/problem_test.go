package quiz_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minyeol/songquiz/internal/models"
	"github.com/minyeol/songquiz/internal/quiz"
)

func fixtureTrack() models.Track {
	return models.Track{
		ID:            1,
		Title:         "소격동 (At Gwanghwamun)",
		Artist:        "Seo Taiji",
		AudioSourceID: "src-1",
		AudioDuration: 200,
	}
}

func TestProblem_SubmitCorrect(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{name: "exact title", answer: "소격동 (At Gwanghwamun)"},
		{name: "main title only", answer: "소격동"},
		{name: "subtitle only", answer: "at gwanghwamun"},
		{name: "punctuation ignored", answer: "소격동!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quiz.NewProblem(fixtureTrack())

			result, points := p.Submit(tt.answer)
			assert.Equal(t, quiz.SubmitCorrect, result)
			assert.Equal(t, quiz.BasePoints, points)
			assert.True(t, p.Completed())
		})
	}
}

func TestProblem_SubmitExtraneousSegmentIsWrong(t *testing.T) {
	p := quiz.NewProblem(fixtureTrack())

	result, points := p.Submit("소격동 (live version)")
	assert.Equal(t, quiz.SubmitWrongRetry, result)
	assert.Zero(t, points)
	assert.False(t, p.Completed())
}

func TestProblem_SubmitAfterCompletionIsAlreadyAnswered(t *testing.T) {
	p := quiz.NewProblem(fixtureTrack())

	result, _ := p.Submit("소격동")
	require.Equal(t, quiz.SubmitCorrect, result)

	// Late duplicates must not double-pay, even when correct.
	result, points := p.Submit("소격동")
	assert.Equal(t, quiz.SubmitAlreadyAnswered, result)
	assert.Zero(t, points)

	result, _ = p.Submit("whatever")
	assert.Equal(t, quiz.SubmitAlreadyAnswered, result)
	assert.Zero(t, p.WrongAnswers(), "already-answered submissions must not count as wrong")
}

func TestProblem_WrongAnswerExhaustion(t *testing.T) {
	p := quiz.NewProblem(fixtureTrack())

	for i := 1; i < quiz.MaxWrongAnswers; i++ {
		result, _ := p.Submit(fmt.Sprintf("wrong guess %d", i))
		require.Equalf(t, quiz.SubmitWrongRetry, result, "submission %d should allow a retry", i)
	}

	result, _ := p.Submit("final wrong guess")
	assert.Equal(t, quiz.SubmitWrongExhausted, result)
	assert.Equal(t, quiz.MaxWrongAnswers, p.WrongAnswers())
}

func TestProblem_HintPointDeduction(t *testing.T) {
	p := quiz.NewProblem(fixtureTrack())
	require.Equal(t, 10, p.PointsIfCorrect())

	first := p.Hint()
	assert.Equal(t, "소", first.Body)
	assert.Contains(t, first.Footer, "9 points")
	assert.Equal(t, 9, p.PointsIfCorrect())

	second := p.Hint()
	assert.Equal(t, "Seo Taiji", second.Body)
	assert.Contains(t, second.Footer, "8 points")
	assert.Equal(t, 8, p.PointsIfCorrect())

	// A third hint has nothing to reveal and deducts nothing further.
	third := p.Hint()
	assert.Empty(t, third.Body)
	assert.Contains(t, third.Header, "No hints left")
	assert.Equal(t, 8, p.PointsIfCorrect())

	result, points := p.Submit("소격동")
	require.Equal(t, quiz.SubmitCorrect, result)
	assert.Equal(t, 8, points)
}

func TestProblem_HintThenCorrectAwards(t *testing.T) {
	tests := []struct {
		name     string
		hints    int
		expected int
	}{
		{name: "no hints", hints: 0, expected: 10},
		{name: "one hint", hints: 1, expected: 9},
		{name: "two hints", hints: 2, expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quiz.NewProblem(fixtureTrack())
			for i := 0; i < tt.hints; i++ {
				p.Hint()
			}

			result, points := p.Submit("소격동")
			require.Equal(t, quiz.SubmitCorrect, result)
			assert.Equal(t, tt.expected, points)
		})
	}
}

func TestProblem_SkipVoteSequence(t *testing.T) {
	p := quiz.NewProblem(fixtureTrack())

	assert.False(t, p.Skip())
	assert.False(t, p.Skip())
	assert.True(t, p.Skip())

	// Extra votes keep reporting resolved without underflowing the counter.
	assert.True(t, p.Skip())
	assert.Equal(t, 0, p.SkipVotesLeft())
}
