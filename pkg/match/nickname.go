package match

import (
	"maps"
	"slices"
	"strings"
)

// defaultNicknames maps formal first names to the informal variants people use on
// their profiles. Entries are disjoint: a variant belongs to exactly one formal name.
var defaultNicknames = map[string][]string{
	"abigail":     {"abby", "abbie", "gail"},
	"albert":      {"al", "bert", "bertie"},
	"alexander":   {"alex", "xander", "sasha"},
	"alexandra":   {"lexi", "alexa", "sandra"},
	"andrew":      {"andy", "drew"},
	"anthony":     {"tony", "ant"},
	"benjamin":    {"ben", "benny", "benji"},
	"catherine":   {"cathy", "cat", "cate"},
	"charles":     {"charlie", "chuck", "chas"},
	"christina":   {"tina", "chrissy"},
	"christopher": {"chris", "kit", "topher"},
	"daniel":      {"dan", "danny"},
	"david":       {"dave", "davy"},
	"deborah":     {"debbie", "deb"},
	"donald":      {"don", "donnie"},
	"dorothy":     {"dot", "dottie"},
	"edward":      {"ed", "eddie", "ted", "ned"},
	"elizabeth":   {"liz", "lizzie", "beth", "betty", "eliza"},
	"frances":     {"fran"},
	"francis":     {"frank", "frankie"},
	"frederick":   {"fred", "freddie"},
	"gerald":      {"gerry", "jerry"},
	"gregory":     {"greg"},
	"henry":       {"hank", "harry"},
	"isabella":    {"bella", "izzy"},
	"jacqueline":  {"jackie"},
	"james":       {"jim", "jimmy", "jamie"},
	"jeffrey":     {"jeff"},
	"jennifer":    {"jen", "jenny"},
	"jessica":     {"jess", "jessie"},
	"john":        {"johnny", "jack", "jon"},
	"jonathan":    {"jonny", "jonty"},
	"joseph":      {"joe", "joey"},
	"josephine":   {"josie", "jo"},
	"katherine":   {"kate", "kathy", "katie", "kat"},
	"kenneth":     {"ken", "kenny"},
	"lawrence":    {"larry"},
	"margaret":    {"maggie", "meg", "peggy", "marge"},
	"mary":        {"molly", "polly", "mae"},
	"matthew":     {"matt", "matty"},
	"michael":     {"mike", "mikey", "mick"},
	"nathaniel":   {"nate", "nat", "nathan"},
	"nicholas":    {"nick", "nicky", "nico"},
	"olivia":      {"liv", "livvy"},
	"patricia":    {"patty", "trish", "tricia"},
	"patrick":     {"pat", "paddy"},
	"peter":       {"pete"},
	"raymond":     {"ray"},
	"rebecca":     {"becky", "becca"},
	"richard":     {"rich", "rick", "ricky", "dick"},
	"robert":      {"rob", "bob", "bobby", "robbie"},
	"ronald":      {"ron", "ronnie"},
	"samantha":    {"sammie"},
	"samuel":      {"sam", "sammy"},
	"stephanie":   {"steph", "stephie"},
	"steven":      {"steve", "stevie", "stephen"},
	"susan":       {"sue", "susie"},
	"theodore":    {"theo", "teddy"},
	"thomas":      {"tom", "tommy"},
	"timothy":     {"tim", "timmy"},
	"victoria":    {"vicky", "tori"},
	"william":     {"will", "bill", "billy", "willy", "liam"},
	"zachary":     {"zach", "zack"},
}

// DefaultNicknames returns a copy of the shipped nickname seed list.
func DefaultNicknames() map[string][]string {
	return cloneTable(defaultNicknames)
}

// groupTable is a read-only list of name groups with a reverse index from member to
// group. Each group is the formal/canonical name followed by its variants.
type groupTable struct {
	groups [][]string
	index  map[string][]int
}

// newGroupTable merges extra into base and indexes the result. Keys and values are
// passed through normalize. An extra key that already exists in base extends that
// group; new keys become new groups, appended in sorted order.
func newGroupTable(base, extra map[string][]string, normalize func(string) string) *groupTable {
	merged := make(map[string][]string, len(base)+len(extra))
	add := func(key string, values []string) {
		key = normalize(key)
		if key == "" {
			return
		}
		for _, v := range values {
			v = normalize(v)
			if v == "" || v == key || slices.Contains(merged[key], v) {
				continue
			}
			merged[key] = append(merged[key], v)
		}
		if _, ok := merged[key]; !ok {
			merged[key] = nil
		}
	}
	for _, k := range slices.Sorted(maps.Keys(base)) {
		add(k, base[k])
	}
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		add(k, extra[k])
	}

	t := &groupTable{index: make(map[string][]int)}
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		group := append([]string{k}, merged[k]...)
		n := len(t.groups)
		t.groups = append(t.groups, group)
		for _, member := range group {
			if !slices.Contains(t.index[member], n) {
				t.index[member] = append(t.index[member], n)
			}
		}
	}
	return t
}

// sameGroup returns true if a and b are both members of one group.
func (t *groupTable) sameGroup(a, b string) bool {
	for _, ga := range t.index[a] {
		if slices.Contains(t.index[b], ga) {
			return true
		}
	}
	return false
}

// nicknameEquivalent returns true if two first-name tokens are identical or share
// a nickname group. Tokens are compared case-insensitively.
func (s *Scorer) nicknameEquivalent(a, b string) bool {
	a = fold(strings.TrimSpace(a))
	b = fold(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return s.nicknames.sameGroup(a, b)
}

func normalizeName(s string) string {
	return fold(strings.TrimSpace(s))
}

func cloneTable(t map[string][]string) map[string][]string {
	out := make(map[string][]string, len(t))
	for k, v := range t {
		out[k] = slices.Clone(v)
	}
	return out
}
