package store

import (
	"testing"

	"github.com/jjenkins/civic/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFeedback(t *testing.T, s *FeedbackStore, title string) model.FeedbackSubmission {
	t.Helper()
	fb, err := s.Create(model.FeedbackSubmission{
		Title:       title,
		Description: "Streetlight on 5th Ave is out",
		Category:    "infrastructure",
	})
	require.NoError(t, err)
	return fb
}

func TestFeedbackStore_CreateDefaults(t *testing.T) {
	s := NewFeedbackStore(newTestDB(t))

	fb, err := s.Create(model.FeedbackSubmission{
		Title:       "Pothole",
		Description: "Large pothole on Main St",
		SubmittedBy: "Dana",
		IsAnonymous: true,
		Upvotes:     99,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackOpen, fb.Status)
	assert.Equal(t, "general", fb.Category)
	assert.Equal(t, "medium", fb.Priority)
	assert.Empty(t, fb.SubmittedBy)
	assert.Zero(t, fb.Upvotes)

	_, err = s.Create(model.FeedbackSubmission{Title: "No description"})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestFeedbackStore_VoteTallies(t *testing.T) {
	s := NewFeedbackStore(newTestDB(t))
	fb := createFeedback(t, s, "Streetlight")

	got, err := s.Vote(model.FeedbackVote{FeedbackID: fb.ID, VoteType: model.Upvote, UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)

	got, err = s.Vote(model.FeedbackVote{FeedbackID: fb.ID, VoteType: model.Downvote, UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)

	_, err = s.Vote(model.FeedbackVote{FeedbackID: fb.ID, VoteType: model.Downvote, UserID: "u1"})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	stored, ok := s.Get(fb.ID)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Upvotes+stored.Downvotes)
}

func TestFeedbackStore_InvalidVotes(t *testing.T) {
	s := NewFeedbackStore(newTestDB(t))
	fb := createFeedback(t, s, "Streetlight")

	_, err := s.Vote(model.FeedbackVote{FeedbackID: fb.ID, VoteType: "sideways", UserID: "u1"})
	assert.ErrorIs(t, err, ErrInvalidVote)

	_, err = s.Vote(model.FeedbackVote{FeedbackID: "missing", VoteType: model.Upvote, UserID: "u1"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Vote(model.FeedbackVote{FeedbackID: fb.ID, VoteType: model.Upvote})
	assert.ErrorIs(t, err, ErrInvalidVote)
}

func TestFeedbackStore_ListAndUpdate(t *testing.T) {
	s := NewFeedbackStore(newTestDB(t))
	a := createFeedback(t, s, "Streetlight out")
	b := createFeedback(t, s, "Crosswalk paint")

	items, total := s.List(FeedbackFilter{}, 0, 0)
	require.Len(t, items, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, b.ID, items[0].ID)

	resolved := model.FeedbackResolved
	_, err := s.Update(a.ID, model.FeedbackPatch{Status: &resolved})
	require.NoError(t, err)

	items, total = s.List(FeedbackFilter{Status: model.FeedbackResolved}, 0, 0)
	require.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, items[0].ID)

	items, _ = s.List(FeedbackFilter{Query: "crosswalk"}, 0, 0)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	bogus := model.FeedbackStatus("ignored")
	_, err = s.Update(a.ID, model.FeedbackPatch{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.Update("missing", model.FeedbackPatch{Status: &resolved})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedbackStore_Comments(t *testing.T) {
	s := NewFeedbackStore(newTestDB(t))
	fb := createFeedback(t, s, "Streetlight")
	other := createFeedback(t, s, "Other")

	root, err := s.AddComment(model.FeedbackComment{FeedbackID: fb.ID, Content: "Reported to public works"})
	require.NoError(t, err)

	reply, err := s.AddComment(model.FeedbackComment{FeedbackID: fb.ID, ParentCommentID: root.ID, Content: "Thanks", IsOfficial: true})
	require.NoError(t, err)

	_, err = s.AddComment(model.FeedbackComment{FeedbackID: other.ID, ParentCommentID: root.ID, Content: "Wrong thread"})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.AddComment(model.FeedbackComment{FeedbackID: fb.ID, Content: "   "})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = s.AddComment(model.FeedbackComment{FeedbackID: "missing", Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := s.Comments(fb.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, root.ID, comments[0].ID)
	assert.Equal(t, reply.ID, comments[1].ID)
}

func TestFeedbackStore_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	s := NewFeedbackStore(db)
	fb := createFeedback(t, s, "Streetlight")

	_, err := s.Vote(model.FeedbackVote{FeedbackID: fb.ID, VoteType: model.Upvote, IPAddress: "1.2.3.4"})
	require.NoError(t, err)
	_, err = s.AddComment(model.FeedbackComment{FeedbackID: fb.ID, Content: "+1"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(fb.ID))
	counts := db.Counts()
	assert.Zero(t, counts.Feedback)
	assert.Zero(t, counts.FeedbackVotes)
	assert.Zero(t, counts.Comments)
	assert.Empty(t, db.feedbackVoterIndex)
}
