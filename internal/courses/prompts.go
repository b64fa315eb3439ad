package courses

import (
	"encoding/json"
	"fmt"
)

func modulesPrompt(topic, content string) string {
	return fmt.Sprintf(`From the following content of a course page about '%s', identify and list the main modules, sections, or key topics of the course.
Present the modules as a JSON array of strings. Each string should be a concise title of a module or topic.
If no clear modules, sections, or key topics are found, return an empty JSON array.

Content: %s
`, topic, content)
}

func rankPrompt(topic string, modules []string) string {
	list, _ := json.MarshalIndent(modules, "", "  ")
	return fmt.Sprintf(`You are an expert curriculum advisor. Given the following list of course modules/topics and a target skill,
rank them from most relevant to least relevant for someone learning "%[1]s".

Modules to rank:
%[2]s

Target Skill: %[1]s

Return a JSON array of objects, where each object contains:
- "module": the exact module name from the input list
- "relevance_score": a number from 1-10 (10 being most relevant)
- "reason": a brief explanation (1-2 sentences) of why this module is relevant to %[1]s

Order the array from highest relevance_score to lowest relevance_score.

Example format:
[
  {"module": "Module Name", "relevance_score": 9, "reason": "Brief explanation of relevance"}
]
`, topic, list)
}
