package extract

import "strings"

// Role is a semantic column role targeted by the extractors.
type Role string

const (
	// RoleText marks message-content columns.
	RoleText Role = "text"
	// RoleSender marks originating-party columns.
	RoleSender Role = "sender"
	// RoleReceiver marks destination-party columns.
	RoleReceiver Role = "receiver"
	// RoleTimestamp marks time-encoding columns.
	RoleTimestamp Role = "timestamp"
	// RoleName marks contact display-name columns.
	RoleName Role = "name"
	// RolePhone marks phone-number columns.
	RolePhone Role = "phone"
	// RoleEmail marks email-address columns.
	RoleEmail Role = "email"
)

// signatures holds the keyword signature per role. A column matches a
// role when its lower-cased name contains any keyword as a substring.
var signatures = map[Role][]string{
	RoleText:      {"data", "message", "body", "text", "content"},
	RoleSender:    {"sender", "from", "author", "address", "src", "caller"},
	RoleReceiver:  {"receiver", "to", "dest", "remote", "chat", "recipient", "callee"},
	RoleTimestamp: {"time", "date", "timestamp"},
	RoleName:      {"display_name", "name", "given_name"},
	RolePhone:     {"phone", "number", "msisdn"},
	RoleEmail:     {"email"},
}

// Classify selects one column per role from a table's declared column
// list. The first matching column in declared order wins; there is no
// scoring. Roles with no matching column are absent from the result.
//
// The first-match policy is deliberate: classification must stay
// deterministic and auditable for chain-of-custody review, and a
// scored ranking would make the selected column depend on tuning.
func Classify(columns []string) map[Role]string {
	selected := make(map[Role]string)
	for role, keywords := range signatures {
		for _, column := range columns {
			lower := strings.ToLower(column)
			if containsAny(lower, keywords) {
				selected[role] = lower
				break
			}
		}
	}
	return selected
}

func containsAny(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// columnSet builds a lower-cased membership set for exact-name checks.
func columnSet(columns []string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, column := range columns {
		set[strings.ToLower(column)] = true
	}
	return set
}

// hasAll reports whether every required name is present in the set.
func hasAll(set map[string]bool, required ...string) bool {
	for _, name := range required {
		if !set[name] {
			return false
		}
	}
	return true
}
