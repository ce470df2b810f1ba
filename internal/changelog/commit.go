package changelog

import (
	"regexp"
	"strings"
)

// BreakingChangeMarker flags a breaking change anywhere in the message.
const BreakingChangeMarker = "BREAKING CHANGE"

var (
	conventionalPattern = regexp.MustCompile(`^([a-z]+)?(?:\((.+?)\))?(!)?:(.*)$`)
	trailingPRPattern   = regexp.MustCompile(`\(#(\d+)\)\s*$`)
)

// Message is the result of classifying a single subject line.
type Message struct {
	Prefix         string
	Scope          string
	BreakingChange bool
	PR             string
	Subject        string
}

// ParseMessage classifies a commit subject line of the form
// "type(scope)!: description". Every part of the header is optional.
// Lines that do not match are returned whole as the subject.
func ParseMessage(line string) Message {
	line = strings.TrimSpace(line)

	var msg Message
	rest := line
	if m := conventionalPattern.FindStringSubmatch(line); m != nil {
		msg.Prefix = m[1]
		msg.Scope = strings.TrimSpace(m[2])
		msg.BreakingChange = m[3] == "!"
		rest = strings.TrimSpace(m[4])
	}

	msg.Subject = rest
	if msg.Subject == "" {
		msg.Subject = line
	}
	if strings.Contains(rest, BreakingChangeMarker) {
		msg.BreakingChange = true
	}
	if m := trailingPRPattern.FindStringSubmatch(msg.Subject); m != nil {
		msg.PR = m[1]
	}

	return msg
}

// Classify turns a raw commit into a Commit. The first line of the message
// is the subject; the remainder (trimmed) is the body. index records the
// discovery order.
func Classify(raw RawCommit, index int) Commit {
	subject, body := splitMessage(raw.Message)
	msg := ParseMessage(subject)

	return Commit{
		Subject:        msg.Subject,
		Body:           body,
		Hash:           raw.Hash,
		Date:           raw.Date,
		Prefix:         msg.Prefix,
		Scope:          msg.Scope,
		BreakingChange: msg.BreakingChange || strings.Contains(body, BreakingChangeMarker),
		PR:             msg.PR,
		Index:          index,
	}
}

// ClassifyAll classifies raw commits preserving their order.
func ClassifyAll(raws []RawCommit) []Commit {
	commits := make([]Commit, len(raws))
	for i, raw := range raws {
		commits[i] = Classify(raw, i)
	}
	return commits
}

// splitMessage splits a commit message into its subject line and body.
func splitMessage(message string) (subject, body string) {
	message = strings.TrimLeft(message, "\r\n")
	subject, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}
