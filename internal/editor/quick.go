package editor

import "github.com/ziadkadry99/clil-studio/internal/lesson"

// QuickCustomization is a one-click customization shortcut.
type QuickCustomization struct {
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

var quickCustomizations = map[lesson.Section][]QuickCustomization{
	lesson.SectionContent: {
		{"Make it more practical and hands-on", "Rewrite these objectives to be more practical and hands-on, focusing on what students will actually do rather than abstract concepts."},
		{"Simplify for younger students", "Adapt these objectives for younger students, using simpler language and more basic concepts while maintaining the core learning goals."},
		{"Add cross-curricular connections", "Enhance these objectives by adding connections to other subjects like math, science, or art where relevant."},
		{"Focus on critical thinking", "Revise these objectives to emphasize critical thinking skills, analysis, and problem-solving."},
	},
	lesson.SectionLanguage: {
		{"Add more everyday phrases", "Include more everyday conversational phrases and expressions that students can use outside the classroom."},
		{"Focus on academic language", "Enhance the academic vocabulary and formal language structures needed for this topic."},
		{"Add pronunciation focus", "Include specific pronunciation goals and speaking practice opportunities."},
		{"Simplify vocabulary", "Simplify the vocabulary and language structures while maintaining the key learning points."},
	},
	lesson.SectionTasks: {
		{"Make more interactive", "Transform these tasks to be more interactive and engaging, with more student-to-student interaction."},
		{"Add group activities", "Modify these tasks to include more collaborative group work and team-based learning."},
		{"Include digital tools", "Integrate digital tools and technology into these tasks to enhance learning."},
		{"Add game elements", "Add game-like elements and friendly competition to make these tasks more engaging."},
	},
	lesson.SectionAssessment: {
		{"Add peer assessment", "Include opportunities for peer assessment and feedback in these criteria."},
		{"Make more observable", "Make the assessment criteria more specific and observable, with clear indicators of success."},
		{"Add self-reflection", "Include self-assessment and reflection components in these criteria."},
		{"Simplify rubric", "Simplify the assessment criteria while maintaining clear standards for evaluation."},
	},
	lesson.SectionMaterials: {
		{"Simplify Language", "Adjust the text and questions to use simpler language while maintaining the core concepts."},
		{"Add Real-World Examples", "Include more practical, real-world examples and applications in the text and questions."},
		{"Enhance Critical Thinking", "Add more analytical and evaluative questions that promote deeper critical thinking."},
		{"Cultural Perspectives", "Include diverse cultural perspectives and cross-cultural comparisons in the text and questions."},
		{"Visual Learning", "Suggest visual aids, diagrams, or multimedia elements that could complement the text."},
	},
}

// QuickCustomizations returns a copy of the shortcuts for a section.
func QuickCustomizations(sec lesson.Section) []QuickCustomization {
	return append([]QuickCustomization(nil), quickCustomizations[sec]...)
}
