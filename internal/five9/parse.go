// File: backend/internal/five9/parse.go
package five9

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Record is one decoded JSON object from cmdlet output.
type Record = map[string]any

// DecodeRecords interprets raw cmdlet output as a list of JSON objects.
// ConvertTo-Json collapses a single result to a bare object, so one object
// decodes as a one-element list. Empty output, malformed JSON, and any
// other decoded shape mean "no data" and never an error; the bridge has no
// richer signal to offer.
func DecodeRecords(raw string) []Record {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []Record{}
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return []Record{}
	}
	switch v := decoded.(type) {
	case map[string]any:
		return []Record{v}
	case []any:
		records := make([]Record, 0, len(v))
		for _, item := range v {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			}
		}
		return records
	default:
		return []Record{}
	}
}

// DecodeNames interprets raw cmdlet output as a list of name strings, the
// shape membership queries emit. ConvertTo-Json collapses a single name to
// a bare JSON string, which decodes as a one-element list.
func DecodeNames(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return []string{}
	}
	switch v := decoded.(type) {
	case string:
		return []string{v}
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	default:
		return []string{}
	}
}

// ParseCampaigns projects raw campaign records onto the dashboard table.
// Source keys are matched case-insensitively; missing keys produce empty
// fields, never errors.
func ParseCampaigns(records []Record) []Campaign {
	campaigns := make([]Campaign, 0, len(records))
	for _, record := range records {
		lowered := lowerKeys(record)
		campaigns = append(campaigns, Campaign{
			Name:  stringify(lowered["name"]),
			State: labelFor(lowered["state"], campaignStateLabels),
			Type:  labelFor(lowered["type"], campaignTypeLabels),
		})
	}
	return campaigns
}

// ParseContactLists projects raw list records onto {name, size} rows sorted
// ascending by name. An empty input still yields a typed empty table.
func ParseContactLists(records []Record) []ContactList {
	lists := make([]ContactList, 0, len(records))
	for _, record := range records {
		lowered := lowerKeys(record)
		lists = append(lists, ContactList{
			Name: stringify(lowered["name"]),
			Size: intOf(lowered["size"]),
		})
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].Name < lists[j].Name })
	return lists
}

// ParseActionResults folds per-item action records into an ActionSummary.
// Success identifiers are de-duplicated preserving first-seen order; a
// repeated failure identifier keeps its latest message. Records without an
// identifier render as "(unknown)"; failures without a message render as
// "Unknown error".
func ParseActionResults(records []Record) ActionSummary {
	summary := ActionSummary{
		Succeeded: []string{},
		Failed:    map[string]string{},
	}
	seen := map[string]bool{}
	for _, record := range records {
		identifier := "(unknown)"
		if v, ok := record["Identifier"]; ok && v != nil {
			identifier = stringify(v)
		}
		if truthy(record["Success"]) {
			if !seen[identifier] {
				seen[identifier] = true
				summary.Succeeded = append(summary.Succeeded, identifier)
			}
			continue
		}
		message := "Unknown error"
		if v, ok := record["Error"]; ok && truthy(v) {
			message = stringify(v)
		}
		summary.Failed[identifier] = message
	}
	return summary
}

func lowerKeys(record Record) Record {
	lowered := make(Record, len(record))
	for k, v := range record {
		lowered[strings.ToLower(k)] = v
	}
	return lowered
}

// stringify renders a decoded JSON scalar the way operators read it;
// whole-valued numbers print without a fractional part, null prints empty.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// labelFor maps an integer-coded field to its display label. String values
// pass through untouched; integers outside the table and every other scalar
// render as their string form.
func labelFor(v any, labels map[int]string) string {
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		if label, found := labels[int(f)]; found {
			return label
		}
	}
	return stringify(v)
}

func intOf(v any) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}

// truthy applies the loose success test action records rely on: a bool is
// itself, numbers count when non-zero, strings when non-empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}
