package msgcontent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Message is a stored message record. The expr tags name the fields inside
// filter expressions.
type Message struct {
	ID        int      `json:"id" expr:"id"`
	Type      string   `json:"type" expr:"type"`
	SenderID  int      `json:"sender_id" expr:"sender_id"`
	StreamID  int      `json:"stream_id" expr:"stream_id"`
	UserIDs   []int    `json:"user_ids" expr:"user_ids"`
	Topic     string   `json:"topic" expr:"topic"`
	Timestamp int64    `json:"timestamp" expr:"timestamp"`
	Flags     []string `json:"flags" expr:"flags"`
	Content   string   `json:"content" expr:"content"`
}

// Corpus is a set of messages loaded from one source.
type Corpus struct {
	Label    string
	Messages []Message
}

// database mirrors the message table of a local message database dump.
type database struct {
	MessageTable *struct {
		Table map[string]Message `json:"table"`
	} `json:"message_table"`
}

// markdownTestCases mirrors the server's markdown test fixtures.
type markdownTestCases struct {
	RegularTests []struct {
		Name           string `json:"name"`
		ExpectedOutput string `json:"expected_output"`
	} `json:"regular_tests"`
}

// LoadCorpus reads messages from r. Three layouts are understood: a JSON
// array of messages, a database dump with a message_table, and markdown test
// fixtures, whose expected outputs become messages numbered from 1.
func LoadCorpus(r io.Reader, label string) (*Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	c := &Corpus{Label: label}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &c.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
		return c, nil
	}

	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	if db.MessageTable != nil {
		for _, m := range db.MessageTable.Table {
			c.Messages = append(c.Messages, m)
		}
		sort.Slice(c.Messages, func(i, j int) bool { return c.Messages[i].ID < c.Messages[j].ID })
		return c, nil
	}

	var tc markdownTestCases
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	if tc.RegularTests == nil {
		return nil, errors.New("decode corpus: neither message_table nor regular_tests found")
	}
	for i, t := range tc.RegularTests {
		c.Messages = append(c.Messages, Message{ID: i + 1, Topic: t.Name, Content: t.ExpectedOutput})
	}
	return c, nil
}

// LoadCorpusFile loads a corpus from a file; "-" reads standard input.
func LoadCorpusFile(name string) (*Corpus, error) {
	if name == "-" {
		return LoadCorpus(os.Stdin, "stdin")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCorpus(f, filepath.Base(name))
}
