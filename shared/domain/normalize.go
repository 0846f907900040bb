package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// LocalZone interprets timestamps stored without an offset (datetime-local form input).
var LocalZone = time.FixedZone("KST", 9*60*60)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var ErrNotObject = errors.New("post record is not a json object")

// NormalizePost parses one store record. It only fails when raw is not a
// JSON object; malformed fields are repaired instead.
func NormalizePost(raw []byte) (Post, error) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil || record == nil {
		return Post{}, ErrNotObject
	}
	return NormalizeRecord(record), nil
}

// NormalizeRecord coerces a decoded record into a Post. Sequences are never
// nil afterwards, counters are never negative.
func NormalizeRecord(record map[string]json.RawMessage) Post {
	p := Post{
		Id:            parseId(record["id"]),
		Title:         parseText(record["title"]),
		Writer:        parseText(record["writer"]),
		WriterEmail:   parseText(record["writerEmail"]),
		PaymentMethod: parseText(record["paymentMethod"]),
		Image:         parseText(record["image"]),
		CreatedAt:     ParseTime(parseText(record["createdAt"])),
		EventDate:     ParseTime(parseText(record["eventDate"])),
		EndAt:         ParseTime(parseText(record["endAt"])),
		Members:       parseCount(record["members"]),
		Capacity:      parseLimit(record["capacity"]),
		MaxMembers:    parseLimit(record["maxMembers"]),
		MembersLimit:  parseLimit(record["membersLimit"]),
		Attendees:     dedupe(parseStrings(record["attendees"])),
		Likes:         parseCount(record["likes"]),
		LikedBy:       dedupe(parseStrings(record["likedBy"])),
		Reviews:       parseReviews(record["reviews"]),
	}
	for k, v := range record {
		if isKnown(k) {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	return p
}

// ParseDigits keeps only the decimal digits of s ("8명" is 8).
// ok is false when no digits remain or the value overflows.
func ParseDigits(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseNumber(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
			return 0, false
		}
		if f < 0 {
			f = -f
		}
		return int(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseDigits(s)
	}
	return 0, false
}

// parseCount is for counters: anything unreadable is 0.
func parseCount(raw json.RawMessage) int {
	n, _ := parseNumber(raw)
	return n
}

// parseLimit is for capacity candidates: only a positive value is authoritative.
func parseLimit(raw json.RawMessage) *int {
	n, ok := parseNumber(raw)
	if !ok || n <= 0 {
		return nil
	}
	return &n
}

func parseId(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// ParseTime accepts RFC 3339, datetime-local and plain dates. Anything else is nil.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, LocalZone); err == nil {
			return &t
		}
	}
	return nil
}

// unwrapString returns the payload of a JSON string that itself holds JSON,
// which is how some records store their arrays.
func unwrapString(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return json.RawMessage(s)
	}
	return raw
}

func parseStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(unwrapString(raw), &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err == nil {
			out = append(out, n.String())
		}
	}
	return out
}

func parseReviews(raw json.RawMessage) []Review {
	var items []json.RawMessage
	if err := json.Unmarshal(unwrapString(raw), &items); err != nil {
		return []Review{}
	}
	out := make([]Review, 0, len(items))
	for _, item := range items {
		var r Review
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// dedupe keeps the first occurrence of each entry.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
