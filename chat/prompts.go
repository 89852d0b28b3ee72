package chat

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// CondenseSystemPrompt instructs the model to rewrite a follow-up question
// so it can be understood without the conversation.
const CondenseSystemPrompt = "Given a chat history and latest user question " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. DO NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

// DefaultAnswerPrompt is the system prompt template for answering.
// The {{.context}} variable receives the retrieved chunk texts.
const DefaultAnswerPrompt = "You are a helpful assistant that answers questions about HR policies. " +
	"You answer based on the information provided in the chat history and " +
	"the retrieved documents. If you don't know the answer, say so. " +
	"Use three sentences maximum and keep the answer concise." +
	"\n\n" +
	"{{.context}}"

// contextSeparator joins chunk texts inside the context block.
const contextSeparator = "\n\n"

// newAnswerTemplate creates the answer prompt template from text.
func newAnswerTemplate(text string) prompts.PromptTemplate {
	return prompts.NewPromptTemplate(text, []string{"context"})
}

// buildContext concatenates chunk texts in ranked order.
func buildContext(texts []string) string {
	return strings.Join(texts, contextSeparator)
}
