package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AlertMessage describes one detection and the remediation that followed.
// Exactly one is produced per candidate key per invocation.
type AlertMessage struct {
	ID          uuid.UUID
	Outcome     RemediationOutcome
	AccessKeyID string
	Principal   string
	Repository  string
	Pusher      string
	Ref         string
	CommitCount int
	DetectedAt  time.Time
}

// NewAlertMessage builds an alert from a remediation result and the push
// event it originated from.
func NewAlertMessage(result RemediationResult, event *PushEvent, detectedAt time.Time) *AlertMessage {
	return &AlertMessage{
		ID:          uuid.New(),
		Outcome:     result.Outcome,
		AccessKeyID: result.AccessKeyID,
		Principal:   result.Principal,
		Repository:  event.Repository,
		Pusher:      event.Pusher,
		Ref:         event.Ref,
		CommitCount: len(event.Commits),
		DetectedAt:  detectedAt,
	}
}

// MaskKeyID renders an access key ID safe for logs and chat channels,
// keeping enough prefix to correlate with the full ID in the alert body.
func MaskKeyID(keyID string) string {
	if len(keyID) <= 8 {
		return keyID
	}
	return keyID[:8] + "..."
}

// Subject returns a one-line summary suitable for notification subjects.
func (m *AlertMessage) Subject() string {
	return fmt.Sprintf("AWS Key Detected: %s - %s", MaskKeyID(m.AccessKeyID), m.Outcome)
}

// Body returns the full alert text, including the unmasked key ID so
// operators can verify the remediation in the directory.
func (m *AlertMessage) Body() string {
	principal := m.Principal
	if principal == "" {
		principal = "UNKNOWN (not found in identity directory)"
	}
	repository := m.Repository
	if repository == "" {
		repository = "unknown"
	}

	var b strings.Builder
	b.WriteString("SECURITY ALERT: AWS Access Key Detected in Git Commit\n\n")
	fmt.Fprintf(&b, "Alert ID: %s\n", m.ID)
	fmt.Fprintf(&b, "Timestamp: %s\n", m.DetectedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Access Key ID: %s\n", m.AccessKeyID)
	fmt.Fprintf(&b, "Owner: %s\n", principal)
	fmt.Fprintf(&b, "Action Taken: %s\n\n", m.Outcome)
	fmt.Fprintf(&b, "Repository: %s\n", repository)
	fmt.Fprintf(&b, "Pusher: %s\n", m.Pusher)
	fmt.Fprintf(&b, "Ref: %s\n", m.Ref)
	fmt.Fprintf(&b, "Commits: %d\n\n", m.CommitCount)
	b.WriteString("Required follow-up:\n")
	b.WriteString("1. Confirm the exposure is genuine\n")
	b.WriteString("2. Issue a replacement key and update dependent applications\n")
	b.WriteString("3. Remove the key from repository history on all branches\n")
	b.WriteString("4. Review access logs for unauthorized usage of this key\n")
	return b.String()
}
