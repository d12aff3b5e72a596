package openai

const summarizationPrompt = `Summarize the given conversation excerpt in 2-4 plain sentences.

Rules:
- Preserve the topics discussed, the tools and technologies named, and the outcome if one is stated.
- Write plain prose. No markdown, no lists, no code blocks, no quotes.
- Do not include any preamble or explanation. Start directly with the summary.
- If the text is mostly code or logs, describe what the code or logs are about rather than repeating them.`

const rephrasePrompt = `Rewrite the given text as plain natural-language prose.

Rules:
- Preserve the meaning and all topics mentioned.
- Remove code fences, markup, escape sequences, repeated symbols, and any unusual tokens.
- Write complete sentences using ordinary vocabulary.
- Do not include any preamble or explanation. Start directly with the rewritten text.`
