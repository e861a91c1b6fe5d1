package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

func TestParsePushEvent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, event *model.PushEvent)
	}{
		{
			name: "Full payload",
			body: `{
				"ref": "refs/heads/main",
				"repository": {"full_name": "acme/service"},
				"pusher": {"name": "bob"},
				"commits": [
					{
						"message": "add key",
						"added": ["cfg.txt"],
						"modified": ["main.go"],
						"diff": "+AKIA1111111111111111"
					}
				]
			}`,
			check: func(t *testing.T, event *model.PushEvent) {
				if event.Repository != "acme/service" {
					t.Errorf("Repository = %v, want acme/service", event.Repository)
				}
				if event.Pusher != "bob" {
					t.Errorf("Pusher = %v, want bob", event.Pusher)
				}
				if len(event.Commits) != 1 {
					t.Fatalf("Commits = %d, want 1", len(event.Commits))
				}
				if event.Commits[0].Diff != "+AKIA1111111111111111" {
					t.Errorf("Diff = %v", event.Commits[0].Diff)
				}
			},
		},
		{
			name: "Missing optional fields tolerated",
			body: `{"commits":[{"message":"no diff, no paths"}]}`,
			check: func(t *testing.T, event *model.PushEvent) {
				if len(event.Commits) != 1 {
					t.Fatalf("Commits = %d, want 1", len(event.Commits))
				}
				if event.Commits[0].Message != "no diff, no paths" {
					t.Errorf("Message = %v", event.Commits[0].Message)
				}
			},
		},
		{
			name: "Malformed optional field drops that field only",
			body: `{"commits":[{"message":"ok","added":"not-a-list","diff":"AKIA1111111111111111"}]}`,
			check: func(t *testing.T, event *model.PushEvent) {
				if len(event.Commits) != 1 {
					t.Fatalf("Commits = %d, want 1", len(event.Commits))
				}
				if event.Commits[0].Message != "ok" {
					t.Errorf("Message = %v", event.Commits[0].Message)
				}
				if len(event.Commits[0].Added) != 0 {
					t.Errorf("Added = %v, want empty", event.Commits[0].Added)
				}
				if event.Commits[0].Diff != "AKIA1111111111111111" {
					t.Errorf("Diff = %v", event.Commits[0].Diff)
				}
			},
		},
		{
			name: "Empty commit list is valid",
			body: `{"commits":[]}`,
			check: func(t *testing.T, event *model.PushEvent) {
				if len(event.Commits) != 0 {
					t.Errorf("Commits = %d, want 0", len(event.Commits))
				}
			},
		},
		{
			name:    "Missing commit list",
			body:    `{"repository":{"full_name":"acme/service"}}`,
			wantErr: true,
		},
		{
			name:    "Commits is not a list",
			body:    `{"commits":{"message":"x"}}`,
			wantErr: true,
		},
		{
			name:    "Not JSON",
			body:    `this is not json`,
			wantErr: true,
		},
		{
			name:    "Empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := model.ParsePushEvent([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePushEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, event)
			}
		})
	}
}

func TestCommitSearchableText(t *testing.T) {
	commit := model.Commit{
		Message:  "add config",
		Added:    []string{"cfg.txt", "key.pem"},
		Modified: []string{"main.go"},
		Diff:     "+secret stuff",
	}

	text := commit.SearchableText()
	for _, want := range []string{"add config", "cfg.txt", "key.pem", "main.go", "+secret stuff"} {
		if !strings.Contains(text, want) {
			t.Errorf("SearchableText() missing %q: %s", want, text)
		}
	}

	empty := model.Commit{}
	if empty.SearchableText() != "" {
		t.Errorf("SearchableText() of empty commit = %q, want empty", empty.SearchableText())
	}
}
