package match

import (
	"strings"
)

// defaultLocationAliases maps canonical place names to abbreviations, nicknames and
// districts commonly written in profile location fields.
var defaultLocationAliases = map[string][]string{
	"new york":             {"nyc", "new york city", "ny", "manhattan", "brooklyn"},
	"san francisco":        {"sf", "bay area", "san fran", "frisco"},
	"los angeles":          {"hollywood", "socal"},
	"silicon valley":       {"palo alto", "mountain view", "san jose", "sunnyvale", "cupertino"},
	"washington dc":        {"washington d c", "district of columbia"},
	"chicago":              {"chitown", "windy city"},
	"boston":               {"beantown"},
	"seattle":              {"emerald city"},
	"philadelphia":         {"philly"},
	"las vegas":            {"vegas"},
	"new orleans":          {"nola"},
	"austin":               {"atx"},
	"dallas":               {"dfw"},
	"houston":              {"htx"},
	"london":               {"ldn"},
	"united kingdom":       {"uk", "great britain", "britain"},
	"united states":        {"usa", "united states of america"},
	"toronto":              {"tdot", "gta"},
	"mumbai":               {"bombay"},
	"chennai":              {"madras"},
	"kolkata":              {"calcutta"},
	"bengaluru":            {"bangalore"},
	"beijing":              {"peking"},
	"saint petersburg":     {"st petersburg", "spb"},
	"ho chi minh city":     {"saigon", "hcmc"},
	"mexico city":          {"cdmx"},
	"rio de janeiro":       {"cidade maravilhosa"},
	"sao paulo":            {"são paulo", "sampa"},
	"amsterdam":            {"mokum"},
	"tel aviv":             {"tlv"},
	"hong kong":            {"hk", "hksar"},
	"united arab emirates": {"uae", "dubai", "abu dhabi"},
}

// DefaultLocationAliases returns a copy of the shipped location alias seed list.
func DefaultLocationAliases() map[string][]string {
	return cloneTable(defaultLocationAliases)
}

// normalizeLocation case-folds s, treats periods and commas as spaces and collapses
// whitespace runs: "San Francisco, CA." becomes "san francisco ca".
func normalizeLocation(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return ' '
		}
		return r
	}, fold(s))
	return strings.Join(strings.Fields(s), " ")
}

// aliased returns true if some alias group has a member contained in a and a
// (possibly different) member contained in b. Both inputs must already be normalized.
func (t *groupTable) aliased(a, b string) bool {
	for _, group := range t.groups {
		if containsAny(a, group) && containsAny(b, group) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
