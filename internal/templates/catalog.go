// Package templates holds the static catalog of note templates. Each
// template carries a prompt skeleton with {meetingTitle} and
// {transcription} placeholders that controls how a transcript is
// summarized.
package templates

import "strings"

// Template is a named prompt skeleton
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Prompt      string `json:"-"`
}

// DefaultID is the fallback template id
const DefaultID = "general"

var catalog = []Template{
	{
		ID:          "general",
		Name:        "General Meeting",
		Description: "Standard meeting notes for any type of meeting",
		Icon:        "📋",
		Prompt: `You are an expert meeting note-taker. Analyze the following meeting transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Meeting Overview
Meeting purpose, key participants and their roles, and overall context.

## Key Discussion Points
The main topics discussed, with specific details, quotes, numbers, and who said what where speakers are identified.

## Decisions Made
All decisions and agreements reached, who made them, and the rationale if mentioned.

## Action Items
Each task with a clear description, responsible party, and due date or timeline if mentioned.

## Next Steps
Follow-up actions, future meetings, deadlines, and blockers.

## Additional Notes
Open questions, risks, resources mentioned, and context worth keeping.

Format your response in clean markdown. Be thorough and include specific details, quotes, numbers, and data points from the transcription.`,
	},
	{
		ID:          "sales",
		Name:        "Sales Call",
		Description: "For sales calls, demos, and client meetings",
		Icon:        "💼",
		Prompt: `You are an expert sales meeting note-taker. Analyze the following sales call transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Meeting Overview
Client or prospect, company, meeting type, sales stage, and participants from both sides.

## Client Information
Company background, current situation and pain points, budget and timeline, and the decision-making process.

## Product & Demo Discussion
Features discussed, questions the client asked, objections raised and how they were handled, and any competitive mentions.

## Pricing & Terms
Pricing figures, payment or contract terms, discounts, and the decision timeline.

## Next Steps & Follow-up
Action items with owners, materials to send, the next meeting, and decision dates.

## Key Quotes & Insights
Client quotes that reveal pain points, budget signals, decision criteria, or concerns.

Format your response in clean markdown. Include all specific numbers, quotes, and data points from the transcription.`,
	},
	{
		ID:          "interview",
		Name:        "Job Interview",
		Description: "For candidate interviews and hiring discussions",
		Icon:        "👤",
		Prompt: `You are an expert interview note-taker. Analyze the following job interview transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Interview Overview
Candidate, position, interview type, and interviewers present.

## Candidate Background
Current role, experience, education, and relevant skills mentioned.

## Technical Assessment
Questions asked and answers given, strengths demonstrated, gaps identified, and projects discussed.

## Behavioral Assessment
Examples of leadership, teamwork, and problem-solving, plus communication style and cultural fit indicators.

## Candidate Questions
What the candidate asked and any concerns raised.

## Overall Assessment
Strengths, concerns, and how the candidate compares to the role requirements.

## Next Steps
Follow-up interviews, references, additional assessments, and the decision timeline.

Format your response in clean markdown. Include specific examples, quotes, and details from the interview.`,
	},
	{
		ID:          "standup",
		Name:        "Standup / Daily Sync",
		Description: "For daily standups and team syncs",
		Icon:        "🔄",
		Prompt: `You are an expert standup meeting note-taker. Analyze the following standup meeting transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Standup Overview
Date, team members present, and duration.

## Individual Updates
For each team member: what they completed, what they are working on, blockers, and help needed.

## Team Metrics & Progress
Sprint or milestone progress, velocity, and deadlines discussed.

## Blockers & Dependencies
Every blocker identified, who is blocked and by what, and escalations needed.

## Decisions Made
Quick decisions, process changes, and priority adjustments.

## Action Items
Follow-up tasks, blockers to resolve, and next steps.

Format your response in clean markdown. Be concise but thorough, including specific task names and ticket numbers mentioned.`,
	},
	{
		ID:          "oneOnOne",
		Name:        "1-on-1 Meeting",
		Description: "For manager-employee 1-on-1s",
		Icon:        "🤝",
		Prompt: `You are an expert 1-on-1 meeting note-taker. Analyze the following 1-on-1 meeting transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Meeting Overview
Participants, date, and format.

## Updates & Progress
Work updates, current projects, progress on goals, and wins.

## Challenges & Concerns
Obstacles faced, areas where support is needed, and workload or capacity issues.

## Career Development
Goals, growth opportunities, skills to develop, and training needs.

## Feedback
Feedback given and received, areas of improvement, and recognition.

## Action Items
Commitments made by either party, follow-ups, and next steps.

## Personal Notes
Personal updates and work-life balance topics.

Format your response in clean markdown. Maintain confidentiality and focus on actionable items.`,
	},
	{
		ID:          "retrospective",
		Name:        "Retrospective",
		Description: "For sprint retros and team retrospectives",
		Icon:        "🔍",
		Prompt: `You are an expert retrospective meeting note-taker. Analyze the following retrospective meeting transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Retrospective Overview
Sprint or period reviewed, team members present, and the retro format used.

## What Went Well
Successes, processes that worked, and team wins, with specific examples.

## What Didn't Go Well
Challenges, process issues, communication breakdowns, and their impact.

## Action Items
Improvements to implement, with owners, timelines, and success metrics.

## Experiments & Changes
New approaches to try and team agreements made.

## Team Health
Morale, workload, and support needed.

Format your response in clean markdown. Include specific examples, quotes, and actionable items.`,
	},
	{
		ID:          "planning",
		Name:        "Planning Meeting",
		Description: "For sprint planning, project planning, and roadmap sessions",
		Icon:        "📅",
		Prompt: `You are an expert planning meeting note-taker. Analyze the following planning meeting transcription and create a comprehensive, detailed summary in markdown format.

Meeting Title: {meetingTitle}

Transcription:
{transcription}

Please create a well-structured, descriptive summary with the following sections:

## Planning Overview
The planning period, participants, goals, and timeline.

## Scope & Priorities
Work items planned, priority order and rationale, and scope changes.

## Estimates & Capacity
Effort estimates, team capacity, and risk factors affecting estimates.

## Timeline & Milestones
Key dates, deliverables, and critical path items.

## Risks & Dependencies
Identified risks and mitigations, external dependencies, and assumptions.

## Decisions Made
Scope, technical, and resourcing decisions.

## Action Items
Tasks assigned with owners and next steps.

Format your response in clean markdown. Include specific details, numbers, dates, and actionable items.`,
	},
}

// Get returns the template with the given id, falling back to the
// general template for unknown or empty ids. Never fails.
func Get(id string) Template {
	for _, t := range catalog {
		if t.ID == id {
			return t
		}
	}
	return Get(DefaultID)
}

// All returns every template in catalog-declaration order
func All() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// BuildPrompt substitutes the meeting title and transcription into the
// template's prompt skeleton. The transcription is inserted verbatim:
// the consumer is a local LLM prompt, not a rendered document.
func BuildPrompt(t Template, transcription, meetingTitle string) string {
	prompt := strings.ReplaceAll(t.Prompt, "{meetingTitle}", meetingTitle)
	return strings.ReplaceAll(prompt, "{transcription}", transcription)
}
