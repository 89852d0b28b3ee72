// Package chat answers HR policy questions in a multi-turn conversation.
//
// A turn makes two model calls connected by plain data:
//
//  1. The Condenser rewrites a follow-up question into a standalone one
//     using the conversation so far. With no history the question is used
//     as is and the model is not called.
//  2. The retriever finds the chunks most relevant to the standalone
//     question, and the Generator answers the original question grounded
//     in those chunks.
//
// A Session ties the steps together, owns the conversation history and
// serializes turns: a question asked while another is being answered is
// rejected with core.ErrSessionBusy. Failed turns leave the history
// untouched.
package chat
