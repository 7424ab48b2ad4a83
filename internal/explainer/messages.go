package explainer

const refusalMessage = "I cannot assist with that request. My purpose is to explain AI detection " +
	"results, not to help bypass detection or generate academic content.\n\n" +
	"Academic integrity is important for:\n" +
	"• Developing your own critical thinking skills\n" +
	"• Earning credentials that accurately reflect your abilities\n" +
	"• Maintaining the value of academic qualifications\n\n" +
	"If you need help with writing, please consult your institution's " +
	"writing center or academic support services."

const greetingMessage = "Hello! I'm your AI Detection Explainer Assistant. I can help you understand:\n\n" +
	"• Your paper's detection scores and what they mean\n" +
	"• Specific features like perplexity, burstiness, and pattern detection\n" +
	"• Why your paper received a particular decision\n" +
	"• How our detection methodology works\n\n" +
	"What would you like to know about your analysis results?"

const thanksMessage = "You're welcome! Remember, understanding AI detection helps you become a " +
	"better writer. If you have more questions about your analysis, feel free to ask!"

const helpMessage = "I can help you understand your paper's AI detection analysis. " +
	"Here are some things you can ask me:\n\n" +
	"📊 **About Scores:**\n" +
	"• 'Explain my scores'\n" +
	"• 'Why was my paper flagged?'\n\n" +
	"🔍 **About Features:**\n" +
	"• 'What is perplexity?'\n" +
	"• 'Explain burstiness'\n" +
	"• 'What is GPT-style repetition?'\n\n" +
	"📝 **About Decisions:**\n" +
	"• 'Why was my paper rejected?'\n" +
	"• 'What does Review Needed mean?'\n\n" +
	"💡 **About Improvement:**\n" +
	"• 'How can I improve my writing?'\n" +
	"• 'Tips for more natural writing'\n\n" +
	"What would you like to know?"

const noContextMessage = "I don't have an analysis result to explain. Please upload a paper " +
	"for analysis first, or provide the analysis data in your question."

const writingTipsMessage = "📝 **Tips for Natural Human Writing**\n\n" +
	"**1. Vary Your Sentence Structure**\n" +
	"Mix short sentences with longer, more complex ones. AI tends to " +
	"produce uniform sentence lengths.\n\n" +
	"**2. Use Unique Word Choices**\n" +
	"Don't rely on common academic phrases. Find your own voice and " +
	"ways to express ideas.\n\n" +
	"**3. Avoid Formulaic Transitions**\n" +
	"Instead of 'In conclusion' or 'It is important to note', try more " +
	"specific transitions that connect your actual ideas.\n\n" +
	"**4. Be Appropriately Direct**\n" +
	"Balance confidence with uncertainty. Don't over-hedge with 'perhaps' " +
	"and 'possibly' but also don't be overconfident without evidence.\n\n" +
	"**5. Verify All Citations**\n" +
	"Always cite real, verifiable sources. Never use citations you haven't " +
	"actually read and verified.\n\n" +
	"**6. Show Your Thinking Process**\n" +
	"Include your reasoning, questions, and the evolution of your ideas. " +
	"AI tends to present polished conclusions without the messy thinking.\n\n" +
	"**Remember:** The goal isn't to 'beat' detection - it's to develop " +
	"genuine writing skills that serve you throughout your career."

const methodologyMessage = "🔬 **How the Detection System Works**\n\n" +
	"Our system uses multiple approaches to detect AI-generated content:\n\n" +
	"**1. Machine Learning Classification**\n" +
	"An optional trained classifier scores the text when one is configured; " +
	"otherwise sentence-length and vocabulary heuristics are used.\n\n" +
	"**2. GenAI-Specific Features**\n" +
	"We extract features characteristic of different LLMs:\n" +
	"• GPT-style repetition patterns\n" +
	"• Gemini explanatory overflow\n" +
	"• Claude uncertainty hedging\n\n" +
	"**3. Statistical Measures**\n" +
	"• **Perplexity:** How predictable is the text?\n" +
	"• **Burstiness:** How varied are sentence lengths?\n\n" +
	"**4. Citation Analysis**\n" +
	"We check for potentially hallucinated or fabricated references.\n\n" +
	"**5. Score Aggregation**\n" +
	"Individual scores are weighted and combined for a final decision:\n" +
	"• Accept (< 30% AI probability)\n" +
	"• Review Needed (30-70%)\n" +
	"• Reject (> 70%)\n\n" +
	"**Important:** No AI detection system is 100% accurate. Results " +
	"should be used as one input to human judgment, not as definitive verdicts."

const nextStepsMessage = "\n\n**What You Can Do:**\n" +
	"• Review the specific feature scores for problem areas\n" +
	"• Ask me to explain any feature you don't understand\n" +
	"• Consider revising sections with high AI-like patterns\n" +
	"• Ensure all citations are accurate and verifiable"

const clarificationMessage = "I'm not sure I understood your question. I can help you with:\n\n" +
	"• **Explaining your scores** - 'What do my scores mean?'\n" +
	"• **Understanding features** - 'What is perplexity?'\n" +
	"• **Decision explanation** - 'Why was my paper flagged?'\n" +
	"• **Writing improvement** - 'How can I improve my writing?'\n" +
	"• **Methodology** - 'How does the detection work?'\n\n" +
	"Could you rephrase your question or choose one of these topics?"
