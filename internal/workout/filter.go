package workout

import (
	"regexp"
	"slices"
	"strings"
	"wodassist-backend/internal/scrapers/wodify"
)

// PrimaryWorkout strips a workout down to its main part: no warm-up, nothing
// after the extras and no scaled variants.
func PrimaryWorkout(components []wodify.WorkoutComponent) []wodify.WorkoutComponent {
	components = ExcludeWarmup(components)
	components = ExcludeExtras(components)
	components = ExcludeScaled(components)
	return components
}

var warmupNames = []string{"warm-up", "warm up", "warmup", "general warm-up"}

func ExcludeWarmup(components []wodify.WorkoutComponent) []wodify.WorkoutComponent {
	var out []wodify.WorkoutComponent
	for _, c := range components {
		if slices.Contains(warmupNames, strings.ToLower(strings.TrimSpace(c.Name))) {
			continue
		}
		out = append(out, c)
	}
	return out
}

var extrasSectionName = regexp.MustCompile(`(?i)^(Extras|Extra Work|Stretching|Aerobic Conditioning|Midline|Aerobic Capacity|Gymnastics|Weightlifting|Strength|FOR SCORING PURPOSE ONLY|Mobility)$`)

// ExcludeExtras drops the first extras section and everything after it. A
// workout that starts with an extras section is kept whole.
func ExcludeExtras(components []wodify.WorkoutComponent) []wodify.WorkoutComponent {
	index := slices.IndexFunc(components, func(c wodify.WorkoutComponent) bool {
		return extrasSectionName.MatchString(strings.TrimSpace(c.Name))
	})
	if index > 0 {
		return components[:index]
	}
	return components
}

// scaled variants are written after the primary instructions, each pattern
// removes one kind of trailing block.
var scaledBlocks = []*regexp.Regexp{
	regexp.MustCompile(`(?ims)^[^a-z0-9\n]*INTERMEDIATE[^a-z0-9\n]*\n.+$`),
	regexp.MustCompile(`(?ims)^Scaling:.+$`),
	regexp.MustCompile(`(?ims)^RX\+:\s*\n.+`),
	regexp.MustCompile(`(?ims)^Int\.?\n.+^Beg\.?\n.+`),
}

// replaceFirst removes only the leftmost match of pattern.
func replaceFirst(pattern *regexp.Regexp, text string) string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + text[loc[1]:]
}

func stripScaled(text string) string {
	text = PlainText(text)
	for _, pattern := range scaledBlocks {
		text = replaceFirst(pattern, text)
	}
	return text
}

// ExcludeScaled converts descriptions and comments to plain text and removes
// the multi-line intermediate and beginner variants from them. Single line
// scaling options are kept.
func ExcludeScaled(components []wodify.WorkoutComponent) []wodify.WorkoutComponent {
	out := make([]wodify.WorkoutComponent, len(components))
	for i, c := range components {
		c.Description = stripScaled(c.Description)
		c.Comment = stripScaled(c.Comment)
		out[i] = c
	}
	return out
}
