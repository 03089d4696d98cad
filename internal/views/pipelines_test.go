package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stageKeys lists the operator of each pipeline stage in order.
func stageKeys(pipeline []bson.D) []string {
	keys := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func findStage(t *testing.T, pipeline []bson.D, op string) bson.D {
	t.Helper()
	for _, stage := range pipeline {
		if stage[0].Key == op {
			return stage
		}
	}
	t.Fatalf("pipeline has no %s stage", op)
	return nil
}

func TestListVideosPipelineWithoutSearch(t *testing.T) {
	q := ListQuery{Page: 2, Limit: 10}
	pipeline := ListVideosPipeline(q)

	keys := stageKeys(pipeline)
	assert.Equal(t, []string{"$match", "$sort", "$lookup", "$unwind", "$skip", "$limit"}, keys)

	sort := findStage(t, pipeline, "$sort")[0].Value.(bson.D)
	require.Len(t, sort, 1)
	assert.Equal(t, "created_at", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)

	skip := findStage(t, pipeline, "$skip")[0].Value.(int64)
	assert.Equal(t, int64(10), skip)
}

func TestListVideosPipelineWithSearch(t *testing.T) {
	q := ListQuery{Page: 1, Limit: 10, Search: "the great escape"}
	pipeline := ListVideosPipeline(q)

	// two derived match-count fields precede the sort
	keys := stageKeys(pipeline)
	assert.Equal(t, []string{"$match", "$addFields", "$addFields", "$sort", "$lookup", "$unwind", "$skip", "$limit"}, keys)

	// ranking is by title word matches, descending; stop word "the" is gone
	sort := findStage(t, pipeline, "$sort")[0].Value.(bson.D)
	require.NotEmpty(t, sort)
	assert.Equal(t, "title_match_word_count", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)

	first := pipeline[1][0].Value.(bson.M)
	count, ok := first["title_match_word_count"].(bson.M)
	require.True(t, ok)
	filter := count["$size"].(bson.M)["$filter"].(bson.M)
	assert.Equal(t, []string{"great", "escape"}, filter["input"])
}

func TestListVideosPipelineExplicitSortBeatsDefault(t *testing.T) {
	q := ListQuery{Page: 1, Limit: 10, SortBy: "views", SortOrder: 1}
	pipeline := ListVideosPipeline(q)

	sort := findStage(t, pipeline, "$sort")[0].Value.(bson.D)
	require.Len(t, sort, 1)
	assert.Equal(t, "views", sort[0].Key)
	assert.Equal(t, 1, sort[0].Value)
}

func TestListVideosPipelineSearchWithExplicitSort(t *testing.T) {
	q := ListQuery{Page: 1, Limit: 10, Search: "escape", SortBy: "views", SortOrder: -1}
	pipeline := ListVideosPipeline(q)

	// title ranking leads, the explicit pair breaks ties
	sort := findStage(t, pipeline, "$sort")[0].Value.(bson.D)
	require.Len(t, sort, 2)
	assert.Equal(t, "title_match_word_count", sort[0].Key)
	assert.Equal(t, "views", sort[1].Key)
}

func TestChannelProfilePipelineMatchesUsername(t *testing.T) {
	pipeline := ChannelProfilePipeline("chai", primitive.NilObjectID)

	match := findStage(t, []bson.D(pipeline), "$match")[0].Value.(bson.M)
	assert.Equal(t, "chai", match["username"])
}

func TestChannelProfilePipelineViewerMembership(t *testing.T) {
	addedFieldsFor := func(viewerID primitive.ObjectID) bson.M {
		pipeline := ChannelProfilePipeline("chai", viewerID)
		return findStage(t, []bson.D(pipeline), "$addFields")[0].Value.(bson.M)
	}

	t.Run("counts come from the joined edge sets", func(t *testing.T) {
		fields := addedFieldsFor(primitive.NilObjectID)
		assert.Equal(t, bson.M{"$size": "$subscribers"}, fields["subscriber_count"])
		assert.Equal(t, bson.M{"$size": "$subscribed_to"}, fields["subscribed_to_count"])
	})

	t.Run("membership tests the viewer id against the subscriber set", func(t *testing.T) {
		viewerID := primitive.NewObjectID()
		cond := addedFieldsFor(viewerID)["is_subscribed"].(bson.M)["$cond"].(bson.M)

		in := cond["if"].(bson.M)["$in"].(bson.A)
		assert.Equal(t, viewerID, in[0])
		assert.Equal(t, "$subscribers.subscriber", in[1])
		assert.Equal(t, true, cond["then"])
		assert.Equal(t, false, cond["else"])
	})

	t.Run("anonymous viewer carries the zero id", func(t *testing.T) {
		// the zero id never appears as a subscriber, so the membership
		// test resolves false for anonymous viewers
		cond := addedFieldsFor(primitive.NilObjectID)["is_subscribed"].(bson.M)["$cond"].(bson.M)

		in := cond["if"].(bson.M)["$in"].(bson.A)
		assert.Equal(t, primitive.NilObjectID, in[0])
	})
}
