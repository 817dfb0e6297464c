package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNormalize_BareString(t *testing.T) {
	for _, raw := range []string{`"buy milk"`, `""`, `"  spaced  "`} {
		e, err := Normalize(json.RawMessage(raw))
		require.NoError(t, err)

		var want string
		require.NoError(t, json.Unmarshal([]byte(raw), &want))

		assert.True(t, e.IsLegacy())
		assert.Equal(t, Task{Text: want}, e.Task())
		assert.False(t, e.Completed())
	}
}

func TestNormalize_RecordUnchanged(t *testing.T) {
	e, err := Normalize(json.RawMessage(`{"text":"y","completed":true,"category":null}`))
	require.NoError(t, err)
	assert.False(t, e.IsLegacy())
	assert.Equal(t, Task{Text: "y", Completed: true}, e.Task())
}

func TestNormalize_Malformed(t *testing.T) {
	for _, raw := range []string{`null`, `42`, `[1]`, ``} {
		_, err := Normalize(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestRoundTrip_FullRecord(t *testing.T) {
	full := Task{
		ID:        "0b3f6c1e-2d55-4b59-9b1a-0c1f7a3e8d11",
		Text:      "file taxes",
		Completed: true,
		Priority:  PriorityHigh,
		Category:  "Personal",
		DueDate:   "Mon Apr 15 2024",
		Notes:     "bring receipts",
		CreatedAt: "2024-01-01T00:00:00.000Z",
	}
	data, err := json.Marshal(Record(full))
	require.NoError(t, err)

	e, err := Normalize(data)
	require.NoError(t, err)
	assert.Equal(t, full, e.Task())
	assert.False(t, e.IsLegacy())
}

func TestDecodeEncode_MixedCollection(t *testing.T) {
	stored := `["x",{"text":"y","completed":true},"z"]`

	entries, err := Decode(stored)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsLegacy())
	assert.False(t, entries[1].IsLegacy())
	assert.True(t, entries[2].IsLegacy())

	out, err := Encode(entries)
	require.NoError(t, err)
	assert.JSONEq(t, stored, out)
}

func TestDecode_Empty(t *testing.T) {
	entries, err := Decode("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	out, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestDecode_ReportsElement(t *testing.T) {
	_, err := Decode(`["ok", 7]`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "element 1")
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityNormal.Rank())
	assert.Less(t, PriorityNormal.Rank(), PriorityLow.Rank())
	assert.Less(t, PriorityLow.Rank(), Priority("").Rank())
	assert.Equal(t, Priority("").Rank(), Priority("urgent").Rank())
}

func TestCreate(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 30, 0, 123_000_000, time.FixedZone("X", 3600))

	t.Run("new task gets defaults", func(t *testing.T) {
		got, err := Create(Input{Text: " walk dog "}, nil, now)
		require.NoError(t, err)
		assert.Equal(t, " walk dog ", got.Text)
		assert.Equal(t, PriorityNormal, got.Priority)
		assert.False(t, got.Completed)
		assert.Equal(t, "2024-03-05T09:30:00.123Z", got.CreatedAt)
		assert.NotEmpty(t, got.ID)
		assert.Empty(t, got.Category)
		assert.Empty(t, got.DueDate)
		assert.Empty(t, got.Notes)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		_, err := Create(Input{Text: "  \t"}, nil, now)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "text", verr.Field)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		_, err := Create(Input{Text: "a", Priority: "urgent"}, nil, now)
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})

	t.Run("edit keeps id, creation time and completion", func(t *testing.T) {
		orig := Record(Task{
			ID:        "keep-me",
			Text:      "old",
			Completed: true,
			Priority:  PriorityLow,
			CreatedAt: "2023-12-31T23:59:59.000Z",
		})
		got, err := Create(Input{Text: "new", Priority: PriorityHigh, Notes: "n"}, &orig, now)
		require.NoError(t, err)
		assert.Equal(t, Task{
			ID:        "keep-me",
			Text:      "new",
			Completed: true,
			Priority:  PriorityHigh,
			Notes:     "n",
			CreatedAt: "2023-12-31T23:59:59.000Z",
		}, got)
	})

	t.Run("editing a legacy task upgrades it", func(t *testing.T) {
		orig := Legacy("buy milk")
		got, err := Create(InputFrom(orig), &orig, now)
		require.NoError(t, err)
		assert.Equal(t, "buy milk", got.Text)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "2024-03-05T09:30:00.123Z", got.CreatedAt)
		assert.False(t, got.Completed)
	})
}

func TestCreated(t *testing.T) {
	ts, ok := Task{CreatedAt: "2024-01-02T00:00:00Z"}.Created()
	require.True(t, ok)
	assert.Equal(t, 2, ts.Day())

	_, ok = Task{}.Created()
	assert.False(t, ok)

	_, ok = Task{CreatedAt: "yesterday"}.Created()
	assert.False(t, ok)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-15", want: "Mon Jan 15 2024"},
		{in: "Mon Jan 15 2024", want: "Mon Jan 15 2024"},
		{in: "  ", want: ""},
		{in: "15/01/2024", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDueDate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, "2024-01-15", DueForInput("Mon Jan 15 2024"))
	assert.Equal(t, "someday", DueForInput("someday"))
	assert.Empty(t, DueForInput(""))
}

func TestEntryYAML(t *testing.T) {
	in := []Entry{
		Legacy("buy milk"),
		Record(Task{ID: "1", Text: "walk dog", Priority: PriorityLow, CreatedAt: "2024-01-01T00:00:00.000Z"}),
	}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- buy milk")

	var back []Entry
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, in, back)

	var bad []Entry
	err = yaml.Unmarshal([]byte("- [1, 2]\n"), &bad)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeYAML(t *testing.T) {
	entries, err := DecodeYAML([]byte("- buy milk\n- text: walk dog\n  priority: low\n"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{Legacy("buy milk"), Record(Task{Text: "walk dog", Priority: PriorityLow})}, entries)

	for _, empty := range []string{"", "~\n", "[]\n"} {
		entries, err := DecodeYAML([]byte(empty))
		require.NoError(t, err, "%q", empty)
		assert.Empty(t, entries)
	}

	tests := map[string]string{
		"null item":   "- buy milk\n- ~\n",
		"number item": "- 42\n",
		"not a list":  "text: buy milk\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeYAML([]byte(doc))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, CheckText(nil))
	assert.NoError(t, CheckText([]Entry{Legacy("a"), Record(Task{Text: "b"})}))

	for _, bad := range []Entry{Legacy(""), Legacy("  "), Record(Task{Text: ""}), {}} {
		err := CheckText([]Entry{Legacy("ok"), bad})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyText)
		assert.Contains(t, err.Error(), "element 1")
	}
}
