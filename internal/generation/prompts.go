package generation

import "text/template"

type workoutPromptFields struct {
	Goal            string
	ExperienceLevel string
	DaysPerWeek     int
	Equipment       string
}

var workoutPromptTmpl = template.Must(template.New("workout").Parse(
	`Design a weekly workout program for a client.

Goal: {{ .Goal }}
Experience level: {{ .ExperienceLevel }}
Training days per week: {{ .DaysPerWeek }}
{{- if .Equipment }}
Available equipment: {{ .Equipment }}
{{- end }}

Give each day a focus and a short list of exercises with sets and reps.
Keep the program realistic for the stated experience level.`))

type mealPromptFields struct {
	Goal         string
	Calories     int
	Restrictions string
}

var mealPromptTmpl = template.Must(template.New("meal").Parse(
	`Design a one day meal plan for a client.

Goal: {{ .Goal }}
Daily calorie target: {{ .Calories }}
{{- if .Restrictions }}
Dietary restrictions: {{ .Restrictions }}
{{- end }}

Split the calories across 3 to 5 meals. Give each meal a name, its food
items, and its protein, carb, and fat grams. The meal macros should add up
to roughly the calorie target.`))

type contentPromptFields struct {
	Topic    string
	Audience string
	Tone     string
}

var contentPromptTmpl = template.Must(template.New("content").Parse(
	`Write a short piece of coaching content.

Topic: {{ .Topic }}
Audience: {{ .Audience }}
{{- if .Tone }}
Tone: {{ .Tone }}
{{- end }}

Give it a title and a body of a few paragraphs. Keep the advice practical
and specific to the audience.`))

const generationSystemPrompt = `You are an experienced strength and conditioning coach. ` +
	`You produce training and nutrition material that is safe, specific, and actionable. ` +
	`Respond with JSON matching the requested schema.`
