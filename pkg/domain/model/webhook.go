package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/types"
)

// Commit represents one commit in a push event. Only the fields that can
// carry leaked text are kept.
type Commit struct {
	Message  string
	Added    []string
	Modified []string
	Diff     string
}

// SearchableText concatenates the commit message, changed file names, and
// diff text (when the transport provided it) into one scannable blob.
func (c *Commit) SearchableText() string {
	var parts []string
	if c.Message != "" {
		parts = append(parts, c.Message)
	}
	parts = append(parts, c.Added...)
	parts = append(parts, c.Modified...)
	if c.Diff != "" {
		parts = append(parts, c.Diff)
	}
	return strings.Join(parts, "\n")
}

// PushEvent represents a verified push webhook payload. Repository, Pusher
// and Ref are audit metadata and may be empty.
type PushEvent struct {
	Repository string
	Pusher     string
	Ref        string
	Commits    []Commit
	ReceivedAt time.Time
	RawPayload []byte
}

// ParsePushEvent parses a raw webhook body into a PushEvent. The body must
// be a JSON object with a commits array; everything below that is optional,
// and a commit entry that cannot be decoded contributes nothing rather than
// failing the whole event.
func ParsePushEvent(raw []byte) (*PushEvent, error) {
	var payload struct {
		Ref        string `json:"ref"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
		Pusher struct {
			Name string `json:"name"`
		} `json:"pusher"`
		Commits []json.RawMessage `json:"commits"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, goerr.Wrap(err, "failed to parse webhook payload",
			goerr.T(types.ErrTagMalformedPayload))
	}
	if payload.Commits == nil {
		return nil, goerr.New("webhook payload has no commit list",
			goerr.T(types.ErrTagMalformedPayload))
	}

	event := &PushEvent{
		Repository: payload.Repository.FullName,
		Pusher:     payload.Pusher.Name,
		Ref:        payload.Ref,
		Commits:    make([]Commit, 0, len(payload.Commits)),
		RawPayload: raw,
	}
	for _, rawCommit := range payload.Commits {
		event.Commits = append(event.Commits, decodeCommit(rawCommit))
	}

	return event, nil
}

// decodeCommit extracts whatever fields of a commit entry decode cleanly.
// A malformed optional field drops that field only.
func decodeCommit(raw json.RawMessage) Commit {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Commit{}
	}

	var commit Commit
	_ = json.Unmarshal(fields["message"], &commit.Message)
	_ = json.Unmarshal(fields["added"], &commit.Added)
	_ = json.Unmarshal(fields["modified"], &commit.Modified)
	_ = json.Unmarshal(fields["diff"], &commit.Diff)
	return commit
}
