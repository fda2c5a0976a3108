// Package teams turns sportsbook team names into the short codes and school
// keys used by prediction-market tickers and titles.
package teams

import (
	"sort"
	"strings"
)

var (
	sortedCityPrefixes = byLengthDesc(cityPrefixes)
	sortedMascots      = byLengthDesc(collegeMascots)
	mergedNicknames    = mergeNicknames()
	nicknamesBySport   = indexNicknames()
	collegeAliasIndex  = indexCollegeAliases()
)

func byLengthDesc(in []string) []string {
	out := append([]string(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func mergeNicknames() map[string]string {
	out := make(map[string]string)
	for _, l := range leagueNicknames {
		for k, v := range l.table {
			out[k] = v
		}
	}
	return out
}

func indexNicknames() map[string]map[string]string {
	out := make(map[string]map[string]string, len(leagueNicknames))
	for _, l := range leagueNicknames {
		out[l.sport] = l.table
	}
	return out
}

func indexCollegeAliases() map[string][]string {
	out := make(map[string][]string, len(collegeSchools))
	for _, e := range collegeSchools {
		if _, ok := out[e.code]; !ok {
			out[e.code] = e.aliases
		}
	}
	return out
}

// StripCity lowercases name, removes the longest matching city or region
// prefix and collapses whitespace. "Los Angeles Lakers" becomes "lakers".
func StripCity(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	for _, prefix := range sortedCityPrefixes {
		if strings.HasPrefix(n, prefix+" ") {
			n = n[len(prefix):]
			break
		}
	}
	return strings.Join(strings.Fields(n), " ")
}

// NormalizePro resolves a pro team name to its short code using the
// cross-league nickname table. It returns "" for unknown teams.
func NormalizePro(name string) string {
	return normalizePro(name, mergedNicknames)
}

// NormalizeProFor resolves name using the nickname table of sport first, so a
// nickname shared between leagues ("giants", "kings") maps to the right club.
// Unknown sports fall back to NormalizePro.
func NormalizeProFor(sport, name string) string {
	table, ok := nicknamesBySport[sport]
	if !ok {
		return NormalizePro(name)
	}
	if code := normalizePro(name, table); code != "" {
		return code
	}
	return NormalizePro(name)
}

func normalizePro(name string, nicknames map[string]string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if code, ok := fullNameToCode[n]; ok {
		return code
	}
	if code, ok := nicknames[StripCity(name)]; ok {
		return code
	}
	return ""
}

// SchoolKey reduces a college team name to the school part used for title
// containment: mascot removed, "state" shortened to "st" and apostrophes
// dropped. "Ohio State Buckeyes" becomes "ohio st".
func SchoolKey(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	for _, mascot := range sortedMascots {
		if strings.HasSuffix(n, " "+mascot) {
			n = strings.TrimSpace(n[:len(n)-len(mascot)-1])
			break
		}
	}
	return strings.TrimSpace(canonicalSchool(n))
}

func canonicalSchool(s string) string {
	s = strings.ReplaceAll(s, "st.", "st")
	s = strings.ReplaceAll(s, "state", "st")
	s = strings.ReplaceAll(s, "'s", "s")
	return strings.ReplaceAll(s, "'", "")
}

// NormalizeCollege resolves a college team name to its short code. An exact
// alias match anywhere in the table beats a prefix or substring match, which
// keeps "Kansas State" from resolving to Kansas. Schools missing from the
// table get a generated code: initials for multi-word names, otherwise the
// first three letters.
func NormalizeCollege(name string) string {
	school := SchoolKey(name)
	if school == "" {
		return ""
	}
	for _, e := range collegeSchools {
		for _, alias := range e.aliases {
			if school == canonicalSchool(alias) {
				return e.code
			}
		}
	}
	for _, e := range collegeSchools {
		for _, alias := range e.aliases {
			a := canonicalSchool(alias)
			if strings.HasPrefix(school, a) || strings.Contains(school, a) {
				return e.code
			}
		}
	}
	return generatedCode(school)
}

func generatedCode(school string) string {
	words := strings.Fields(school)
	if len(words) == 1 {
		r := []rune(words[0])
		if len(r) > 3 {
			r = r[:3]
		}
		return string(r)
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteRune([]rune(w)[0])
	}
	return b.String()
}

// CollegeAliases returns the lowercase alias names for a college code, or nil
// when the code is not in the table.
func CollegeAliases(code string) []string {
	return collegeAliasIndex[code]
}

// IsCollegeSport reports whether an odds-source sport key is a college league.
func IsCollegeSport(sportKey string) bool {
	return strings.Contains(strings.ToLower(sportKey), "ncaa")
}
