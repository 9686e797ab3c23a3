package prompts

// themes rewrite the whole activity around a theme.
var themes = map[string]string{
	"superhero": `Transform the activity using superhero themes:
- Use superhero characters and powers as examples
- Include superhero-themed vocabulary and scenarios
- Reference popular superheroes in examples
- Use superhero missions as learning challenges
- Make students feel like heroes in training`,
	"space": `Make the activity space-themed:
- Use astronomy and space exploration examples
- Include planets, stars, and space missions
- Reference space technology and discoveries
- Use space travel scenarios
- Connect learning to space exploration`,
	"mystery": `Turn the activity into a detective investigation:
- Structure tasks as clues to solve
- Include mysteries and puzzles
- Use detective vocabulary and scenarios
- Make students act as investigators
- Create suspense and discovery moments`,
	"music": `Integrate music throughout the activity:
- Use songs and rhythm in learning
- Include musical instruments as examples
- Connect concepts to musical terms
- Add singing and musical activities
- Use music-based metaphors`,
	"food": `Theme the activity around cooking and food:
- Use cooking metaphors and examples
- Include food-related vocabulary
- Structure tasks like cooking recipes
- Reference different cuisines and dishes
- Connect learning to food preparation`,
}

// learningStyles shape the activity structure.
var learningStyles = map[string]LearningStyle{
	"station_rotation": {
		Name: "Station Rotation",
		Description: `Learning style where students rotate through different stations, each focusing on a specific aspect of the content:
- Typically 3-5 stations with different learning objectives
- Students work in small groups
- Each station has a different learning approach (hands-on, digital, written, etc.)
- Timed rotations (usually 15-20 minutes per station)
- Can include teacher-led, independent, and collaborative stations`,
	},
	"think_pair_share": {
		Name: "Think-Pair-Share",
		Description: `Three-step collaborative learning structure:
- Individual thinking time for concept processing
- Pairing with a partner to discuss ideas
- Sharing insights with the larger group
- Emphasizes both individual reflection and collaborative learning
- Builds speaking and listening skills`,
	},
	"project_based": {
		Name: "Project Based",
		Description: `Extended learning experience centered around a real-world project:
- Focuses on creating a final product or presentation
- Involves research, planning, and execution phases
- Integrates multiple skills and subject areas
- Emphasizes student autonomy and decision-making
- Includes regular progress checks and feedback`,
	},
	"interactive_presentation": {
		Name: "Interactive Presentation",
		Description: `Engaging presentation format with active audience participation:
- Combines direct instruction with student interaction
- Includes regular check-ins and audience response moments
- Uses multimedia elements
- Incorporates quick activities and discussions
- Balances teacher guidance with student participation`,
	},
	"debate_format": {
		Name: "Debate Format",
		Description: `Structured discussion format focusing on different viewpoints:
- Clear positions or arguments to be defended
- Research and preparation phase
- Formal presentation of arguments
- Rebuttal and counter-argument practice
- Emphasis on evidence-based reasoning`,
	},
	"jigsaw_learning": {
		Name: "Jigsaw Learning",
		Description: `Cooperative learning strategy where students become experts in one area:
- Students split into 'expert' groups for specific topics
- Deep learning of assigned content
- Regrouping to teach others their expertise
- Everyone learns all parts from the experts
- Builds teaching and communication skills`,
	},
	"lab_investigation": {
		Name: "Lab Investigation",
		Description: `Hands-on experimental learning approach:
- Clear hypothesis or question to investigate
- Step-by-step experimental procedure
- Data collection and analysis
- Drawing conclusions from evidence
- Connecting findings to larger concepts`,
	},
	"research_present": {
		Name: "Research & Present",
		Description: `Independent research project with presentation component:
- Topic selection and research question development
- Information gathering from multiple sources
- Analysis and synthesis of findings
- Creation of presentation materials
- Formal sharing of learning with peers`,
	},
	"game_based": {
		Name: "Game Based Learning",
		Description: `Learning through structured game activities:
- Clear learning objectives within game format
- Competitive or cooperative elements
- Point systems or progress tracking
- Immediate feedback and rewards
- Fun and engaging interaction`,
	},
	"digital_story": {
		Name: "Digital Story Creation",
		Description: `Creating narrative content using digital tools:
- Story planning and storyboarding
- Digital media creation or selection
- Narrative development
- Technical production skills
- Sharing and presenting final stories`,
	},
	"peer_teaching": {
		Name: "Peer Teaching",
		Description: `Students teaching other students:
- Preparation of teaching materials
- Clear explanation of concepts
- Answering peer questions
- Checking for understanding
- Building teaching and leadership skills`,
	},
	"role_play": {
		Name: "Role Play",
		Description: `Learning through acting out scenarios:
- Character/role assignment
- Scenario preparation
- Acting out situations
- Reflection and discussion
- Real-world application practice`,
	},
	"case_study": {
		Name: "Case Study",
		Description: `Analysis of specific real or simulated situations:
- Detailed case information
- Problem identification
- Analysis of factors
- Solution development
- Application of learning to similar cases`,
	},
}
