package workout

import (
	"regexp"
	"strings"
	"wodassist-backend/internal/scrapers/wodify"
)

var (
	trailingWhitespace = regexp.MustCompile(`(?m)[\t ]+$`)
	extraNewlines      = regexp.MustCompile(`\n\n\n+`)
)

// Format renders workout components as a plain text card.
func Format(components []wodify.WorkoutComponent) string {
	components = retainSections(components)
	components = excludeEmptySections(components)

	parts := make([]string, len(components))
	var section *wodify.WorkoutComponent
	for i := range components {
		c := cleanText(components[i])
		if c.IsSection {
			section = &c
			parts[i] = renderSection(c)
			continue
		}
		parts[i] = renderComponent(c, section)
	}

	out := strings.Join(parts, "\n\n")
	out = strings.ReplaceAll(out, "\r", "")
	out = trailingWhitespace.ReplaceAllString(out, "")
	out = extraNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// retainSections drops every section header unless there is one after the
// first component, a lone leading header does not make a workout sectioned.
func retainSections(components []wodify.WorkoutComponent) []wodify.WorkoutComponent {
	for i, c := range components {
		if c.IsSection && i > 0 {
			return components
		}
	}

	var out []wodify.WorkoutComponent
	for _, c := range components {
		if !c.IsSection {
			out = append(out, c)
		}
	}
	return out
}

// excludeEmptySections drops section headers without a comment that are
// last or directly followed by another header.
func excludeEmptySections(components []wodify.WorkoutComponent) []wodify.WorkoutComponent {
	var out []wodify.WorkoutComponent
	for i, c := range components {
		empty := c.IsSection &&
			strings.TrimSpace(PlainText(c.Comment)) == "" &&
			(i+1 == len(components) || components[i+1].IsSection)
		if empty {
			continue
		}
		out = append(out, c)
	}
	return out
}

func cleanText(c wodify.WorkoutComponent) wodify.WorkoutComponent {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(PlainText(c.Description))
	c.Comment = strings.TrimSpace(PlainText(c.Comment))
	return c
}

func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func renderSection(c wodify.WorkoutComponent) string {
	return joinNonEmpty([]string{
		strings.ToUpper(c.Name),
		RemoveFillerText(c.Comment),
	}, "\n\n")
}

func renderComponent(c wodify.WorkoutComponent, section *wodify.WorkoutComponent) string {
	return joinNonEmpty([]string{
		joinNonEmpty([]string{displayName(c, section), RemoveFillerText(c.Description)}, "\n"),
		c.MeasureRepScheme,
		strings.Join(c.TotalWeightLiftingComponents.List, "\n"),
		RemoveFillerText(c.Comment),
	}, "\n\n")
}

// displayName returns the name to show above a component, or nothing if the
// name would only repeat its section, its description or a generic label.
func displayName(c wodify.WorkoutComponent, section *wodify.WorkoutComponent) string {
	name := strings.ToLower(c.Name)
	description := strings.ToLower(c.Description)
	comment := strings.ToLower(c.Comment)

	sectionName := ""
	if section != nil {
		sectionName = strings.ToLower(section.Name)
	}

	switch {
	case name == sectionName,
		strings.HasPrefix(description, name),
		description == "" && strings.HasPrefix(comment, name),
		name == "metcon",
		name == "workout":
		return ""
	}
	return c.Name
}
