package service

import "fmt"

const coursePlannerPrompt = `You are an expert curriculum designer. You are given a YouTube video.
Split it into 3-5 logical modules. Return ONLY valid JSON matching this schema:
{
  "courseTitle": "a good title for the course",
  "modules": [
    {
      "name": "Module 1: Express Setup & Routes",
      "startTime": 0,
      "endTime": 600,
      "quizData": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}],
      "projectBrief": "Build a small project..." or null
    }
  ]
}

Rules:
1. Ignore filler such as subscribe reminders, sponsor reads, intros and off-topic stories.
2. The video may be in Hinglish; the output must be English only.
3. startTime and endTime are in seconds; modules are contiguous and endTime > startTime.
4. Each module has exactly 3 multiple-choice questions about that module only; "answer" is copied exactly from "options".
5. Modules under 10 minutes get "projectBrief": null. Longer modules get a 2-3 sentence mini-capstone brief.
Do not write any other text or markdown.`

const transcriptQuizPrompt = `You are an expert technical educator. You are given a YouTube video.
First transcribe the entire video word for word; the audio may be in Hinglish and contain filler.
Then, ignoring the filler, write a 5 question multiple-choice quiz on the core technical concepts only.
Return ONLY valid JSON:
{
  "fullTranscript": "the full transcript...",
  "quiz": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}]
}
"answer" must be copied exactly from "options".`

func buildReviewPrompt(brief, code string) string {
	return fmt.Sprintf(`You are a senior tech lead reviewing a learner's project: strict but fair.
Analyse the code below against the project brief. Point out mistakes, areas to improve and a
simpler approach where one exists, staying within the topics the learner has covered so far.
If the code does not implement this brief at all, set solvesBrief to false and say so in feedback.
Return ONLY valid JSON:
{
  "solvesBrief": true or false,
  "qualityScore": 1 to 10,
  "feedback": "short, constructive feedback",
  "verificationQuestion": "one conceptual question about their own code that proves they understand it"
}

[PROJECT BRIEF]
%s

[LEARNER'S CODE]
%s`, brief, code)
}

func buildAnswerCheckPrompt(question, answer string) string {
	return fmt.Sprintf(`You are a grader. Decide whether the learner's answer correctly answers the question.
Judge the concept, not the wording.

[QUESTION]
"%s"

[LEARNER'S ANSWER]
"%s"

Return ONLY valid JSON: {"isCorrect": true or false}`, question, answer)
}

func buildResumePrompt(data string) string {
	return fmt.Sprintf(`You are a professional career coach and resume writer.
A developer has a list of AI-verified projects. Write a complete resume in the JSON Resume format.

Rules:
1. Write a strong professional "summary" from their skills.
2. List every verified project under "projects", using the given name, summary and highlights.
3. Every project's "highlights" must keep the AI feedback and the proof link.
4. "skills" is an array of objects like {"name": "AI-Verified Skills", "level": "Proficient", "keywords": [...]} built from the unique skills.
Return ONLY the JSON object.

Developer data:
%s`, data)
}
