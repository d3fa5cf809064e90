package msgcontent

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const databaseJSON = `{
  "message_table": {
    "table": {
      "12": {"id": 12, "type": "stream", "sender_id": 7, "stream_id": 3, "user_ids": [], "topic": "release", "timestamp": 1706702400, "flags": ["read"], "content": "<p>second</p>"},
      "5": {"id": 5, "type": "private", "sender_id": 9, "stream_id": 0, "user_ids": [7, 9], "topic": "", "timestamp": 1706702000, "flags": ["read", "starred"], "content": "<p>first</p>"}
    }
  }
}`

const testCasesJSON = `{
  "regular_tests": [
    {"name": "paragraph", "input": "hello", "expected_output": "<p>hello</p>"},
    {"name": "quote", "input": "> hi", "expected_output": "<blockquote>\n<p>hi</p>\n</blockquote>"}
  ]
}`

func TestLoadCorpus(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Message
	}{
		{
			name: "array",
			in:   ` [{"id": 1, "type": "stream", "content": "<p>x</p>"}]`,
			want: []Message{{ID: 1, Type: "stream", Content: "<p>x</p>"}},
		},
		{
			name: "database",
			in:   databaseJSON,
			want: []Message{
				{ID: 5, Type: "private", SenderID: 9, UserIDs: []int{7, 9}, Timestamp: 1706702000, Flags: []string{"read", "starred"}, Content: "<p>first</p>"},
				{ID: 12, Type: "stream", SenderID: 7, StreamID: 3, UserIDs: []int{}, Topic: "release", Timestamp: 1706702400, Flags: []string{"read"}, Content: "<p>second</p>"},
			},
		},
		{
			name: "markdown test cases",
			in:   testCasesJSON,
			want: []Message{
				{ID: 1, Topic: "paragraph", Content: "<p>hello</p>"},
				{ID: 2, Topic: "quote", Content: "<blockquote>\n<p>hi</p>\n</blockquote>"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadCorpus(strings.NewReader(tt.in), tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.name, c.Label)
			if diff := cmp.Diff(c.Messages, tt.want); diff != "" {
				t.Errorf("messages diff (-got +want):\n%s", diff)
			}
		})
	}

	_, err := LoadCorpus(strings.NewReader(`{"other": 1}`), "bad")
	require.Error(t, err)
	_, err = LoadCorpus(strings.NewReader(`[{"id": "x"}]`), "bad")
	require.Error(t, err)
}

func TestFilter(t *testing.T) {
	c, err := LoadCorpus(strings.NewReader(databaseJSON), "db")
	require.NoError(t, err)

	tests := []struct {
		src  string
		want []int
	}{
		{"", []int{5, 12}},
		{"sender_id == 7", []int{12}},
		{`"starred" in flags`, []int{5}},
		{`type == "private" && 7 in user_ids`, []int{5}},
		{`stream_id == 3 && topic startsWith "rel"`, []int{12}},
		{"timestamp > 1706702400", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := NewFilter(tt.src)
			require.NoError(t, err)
			msgs, err := f.Apply(c)
			require.NoError(t, err)

			var ids []int
			for _, m := range msgs {
				ids = append(ids, m.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}

	_, err = NewFilter("sender_id +")
	require.Error(t, err)
	_, err = NewFilter(`"not a bool"`)
	require.Error(t, err)

	var nilFilter *Filter
	ok, err := nilFilter.Match(&Message{})
	require.NoError(t, err)
	require.True(t, ok)
}
