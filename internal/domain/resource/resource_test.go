package resource

import (
	"encoding/json"
	"testing"

	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	typ, err := Parse("teams")
	require.NoError(t, err)
	assert.Equal(t, Teams, typ)

	_, err = Parse("matches")
	require.Error(t, err)
	assert.ErrorIs(t, err, ierr.ErrInvalidResource)

	// Names are exact, no case folding or trimming at this layer.
	_, err = Parse("Teams")
	assert.ErrorIs(t, err, ierr.ErrInvalidResource)
	_, err = Parse("")
	assert.ErrorIs(t, err, ierr.ErrInvalidResource)
}

func TestScoresIsServeOnly(t *testing.T) {
	_, err := Parse("scores")
	assert.NoError(t, err)

	_, err = ParseSyncable("scores")
	assert.ErrorIs(t, err, ierr.ErrInvalidResource)

	assert.Len(t, All(), 13)
	assert.Len(t, Syncable(), 12)
	assert.NotContains(t, Syncable(), Scores)
}

func TestNamesMatchesServingSet(t *testing.T) {
	names := Names()
	require.Len(t, names, len(All()))
	for i, typ := range All() {
		assert.Equal(t, string(typ), names[i])
	}
}

func TestProjectTeam(t *testing.T) {
	payload := json.RawMessage(`{
		"id": 11,
		"country_id": 42,
		"name": "Eagles",
		"code": "EAG",
		"image_path": "https://cdn.example.com/eagles.png",
		"national_team": true,
		"resource": "teams",
		"updated_at": "2024-01-01T00:00:00Z"
	}`)

	fields, err := Teams.Project(payload)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(fields, &got))

	assert.Equal(t, "Eagles", got["name"])
	assert.Equal(t, "EAG", got["code"])
	assert.Equal(t, float64(42), got["country_id"])
	assert.Equal(t, true, got["national_team"])
	// Unmodeled upstream fields do not survive projection.
	assert.NotContains(t, got, "resource")
	assert.NotContains(t, got, "id")
}

func TestProjectPlayerFlattensPosition(t *testing.T) {
	payload := json.RawMessage(`{
		"id": 7,
		"fullname": "A Batter",
		"position": {"id": 2, "name": "Wicketkeeper"}
	}`)

	fields, err := Players.Project(payload)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(fields, &got))
	assert.Equal(t, "Wicketkeeper", got["position_name"])
	assert.Equal(t, "A Batter", got["fullname"])
}

func TestProjectUnmodeledType(t *testing.T) {
	fields, err := Positions.Project(json.RawMessage(`{"id": 1, "name": "Batsman"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(fields))
}

func TestRecordID(t *testing.T) {
	id, err := RecordID(json.RawMessage(`{"id": 123, "name": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	_, err = RecordID(json.RawMessage(`{"name": "x"}`))
	assert.Error(t, err)

	_, err = RecordID(json.RawMessage(`not json`))
	assert.Error(t, err)
}
