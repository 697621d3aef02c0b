package registration

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const (
	whoisMinSimilarity = 0.5
	whoisKeepRatio     = 0.9
)

// GuildMember is a guild member as seen by /whois.
type GuildMember struct {
	ID          string
	DisplayName string
	Username    string
}

type WhoisMatch struct {
	Member     GuildMember
	Record     MemberRecord
	Registered bool
	Similarity float64
}

// Whois ranks guild members by how well argument matches their names, student
// data or id. A 6-digit argument equal to a registered index wins outright.
// When nothing scores above 0.5 the result is empty; otherwise every match
// within 90% of the best one is returned, best first.
func Whois(members []GuildMember, records []MemberRecord, argument string) []WhoisMatch {
	byID := make(map[string]MemberRecord, len(records))
	for _, r := range records {
		byID[r.MemberID] = r
	}

	if ValidateIndex(argument) == nil {
		guild := make(map[string]GuildMember, len(members))
		for _, m := range members {
			guild[m.ID] = m
		}
		for _, r := range records {
			if r.StudentID != argument {
				continue
			}
			if m, ok := guild[r.MemberID]; ok {
				return []WhoisMatch{{Member: m, Record: r, Registered: true, Similarity: 1}}
			}
			break
		}
	}

	if len(members) == 0 {
		return nil
	}

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	arg := strings.ToLower(argument)

	matches := make([]WhoisMatch, 0, len(members))
	best := 0.0
	for _, m := range members {
		rec, ok := byID[m.ID]
		compare := []string{
			m.DisplayName,
			m.Username,
			rec.FirstName,
			rec.LastName,
			rec.FirstName + rec.LastName,
			rec.LastName + rec.FirstName,
			m.ID,
		}

		score := 0.0
		for _, c := range compare {
			if c == "" {
				continue
			}
			if s := strutil.Similarity(strings.ToLower(c), arg, lev); s > score {
				score = s
			}
		}
		best = max(best, score)
		matches = append(matches, WhoisMatch{Member: m, Record: rec, Registered: ok, Similarity: score})
	}

	if best <= whoisMinSimilarity {
		return nil
	}

	threshold := best * whoisKeepRatio
	out := matches[:0]
	for _, m := range matches {
		if m.Similarity >= threshold {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}
