package qscore

import (
	"strings"

	"qscore-workers/internal/assessment"
)

var adversityWords = []string{
	"failed", "rejected", "lost", "quit", "fired", "broke",
	"ran out", "couldn't", "crisis", "disaster", "wrong",
	"mistake", "terrible", "devastating", "collapse",
}

// ScoreTeam scores founder-problem fit, unfair advantage, team shape and resilience.
func ScoreTeam(d *assessment.Data) DimensionScore {
	if allEmpty(d.ProblemStory, d.AdvantageExplanation, d.Advantages, d.HardshipStory) {
		return DimensionScore{Score: 0, RawPoints: 0, MaxPoints: maxPoints}
	}

	origin := strings.ToLower(d.ProblemStory)
	advantage := d.AdvantageExplanation
	if strings.TrimSpace(advantage) == "" {
		advantage = strings.Join(d.Advantages, ", ")
	}
	advantageLower := strings.ToLower(advantage)

	points := 0

	// Origin story (max 20 points)
	personal := containsAny(origin, "i ", "my ", "we ")
	if n := textLen(d.ProblemStory); n > 0 {
		if n >= 300 && personal {
			points += 20
		} else if n >= 200 && personal {
			points += 17
		} else if n >= 150 {
			points += 14
		} else if n >= 100 {
			points += 10
		} else {
			points += 5
		}
	}

	// Unfair advantage (max 20 points)
	if n := textLen(advantage); n > 0 {
		kinds := 0
		if containsAny(advantageLower, "experience", "worked", "industry") {
			kinds++
		}
		if containsAny(advantageLower, "network", "connection", "relationship") {
			kinds++
		}
		if containsAny(advantageLower, "technical", "engineer", "built") {
			kinds++
		}
		if n >= 200 && kinds >= 2 {
			points += 20
		} else if n >= 150 && kinds >= 2 {
			points += 17
		} else if n >= 100 && kinds >= 1 {
			points += 14
		} else if n >= 100 {
			points += 10
		} else {
			points += 5
		}
	} else {
		points += 2
	}

	// Team shape, inferred from the narratives (max 30 points)
	narrative := origin + " " + advantageLower
	cofounder := containsAny(narrative, "cofounder", "co-founder", "partner", "founded with")
	team := containsAny(narrative, "team", "we ", "us ")
	roles := containsAny(advantageLower, "ceo", "cto", "technical", "business")

	if cofounder && team {
		points += 15
	} else if cofounder {
		points += 12
	} else if team {
		points += 9
	} else {
		points += 6
	}

	if cofounder && roles {
		points += 15
	} else if cofounder {
		points += 10
	} else if team {
		points += 8
	} else {
		points += 3
	}

	// Resilience from the hardship story (max 30 points)
	hardship := strings.ToLower(d.HardshipStory)
	switch n := textLen(d.HardshipStory); {
	case n >= 200:
		points += 15
	case n >= 150:
		points += 13
	case n >= 100:
		points += 10
	case n >= 50:
		points += 7
	case n > 0:
		points += 3
	}

	if strings.TrimSpace(hardship) != "" {
		hits := 0
		for _, w := range adversityWords {
			if strings.Contains(hardship, w) {
				hits++
			}
		}
		if hits >= 3 {
			points += 15
		} else if hits >= 1 {
			points += 10
		} else {
			points += 5
		}
	}

	return result(points)
}
