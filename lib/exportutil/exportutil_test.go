package exportutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type record struct {
	Id    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	Team  *string  `json:"team_id"`
}

func TestFromRecords(t *testing.T) {
	team := "3"
	dataset := FromRecords([]record{
		{Id: "1", Name: "alice", Roles: []string{"team", "jury"}, Team: &team},
		{Id: "2", Name: "bob"},
	})

	expected := Dataset{
		Headers: []string{"id", "name", "roles", "team_id"},
		Rows: [][]string{
			{"1", "alice", "team,jury", "3"},
			{"2", "bob", "", ""},
		},
	}
	if diff := cmp.Diff(expected, dataset); diff != "" {
		t.Fatalf("unexpected dataset (-want +got):\n%s", diff)
	}
}

func TestDrop(t *testing.T) {
	dataset := Dataset{
		Headers: []string{"id", "name", "roles"},
		Rows:    [][]string{{"1", "alice", "team"}},
	}
	got := dataset.Drop("roles", "id")

	expected := Dataset{
		Headers: []string{"name"},
		Rows:    [][]string{{"alice"}},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("unexpected dataset (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	dataset := Dataset{
		Headers: []string{"id", "name"},
		Rows:    [][]string{{"1", "alice"}, {"2", "bo,b"}},
	}

	var buf bytes.Buffer
	err := dataset.WriteCSV(&buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{`id,name`, `1,alice`, `2,"bo,b"`}, lines)
}

func TestWriteJSON(t *testing.T) {
	dataset := Dataset{
		Headers: []string{"id", "name"},
		Rows:    [][]string{{"1", "alice"}},
	}

	var buf bytes.Buffer
	err := dataset.WriteJSON(&buf)
	require.NoError(t, err)

	var records []map[string]string
	err = json.Unmarshal(buf.Bytes(), &records)
	require.NoError(t, err)
	require.Equal(t, []map[string]string{{"id": "1", "name": "alice"}}, records)
}
