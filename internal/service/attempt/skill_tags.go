package attempt

import "github.com/parlato/parlato-api/internal/domain"

// CombineSkillTags merges a question's own skill tags with its
// teaching's, question tags first, preserving encounter order and
// dropping duplicates by name.
func CombineSkillTags(q *domain.Question) []string {
	if q == nil {
		return nil
	}

	var teachingTags []domain.SkillTag
	if q.Teaching != nil {
		teachingTags = q.Teaching.SkillTags
	}

	seen := make(map[string]struct{}, len(q.SkillTags)+len(teachingTags))
	combined := make([]string, 0, len(q.SkillTags)+len(teachingTags))
	for _, tag := range q.SkillTags {
		if _, ok := seen[tag.Name]; ok || tag.Name == "" {
			continue
		}
		seen[tag.Name] = struct{}{}
		combined = append(combined, tag.Name)
	}
	for _, tag := range teachingTags {
		if _, ok := seen[tag.Name]; ok || tag.Name == "" {
			continue
		}
		seen[tag.Name] = struct{}{}
		combined = append(combined, tag.Name)
	}

	return combined
}
