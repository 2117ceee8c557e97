package genai

import (
	"fmt"
	"strings"

	"github.com/Risho92/rufus/internal/model"
)

// planPrompt asks for a structured crawl strategy as a JSON object.
func planPrompt(startURL, instructions string) string {
	return fmt.Sprintf(`I need to extract information from %s based on these instructions:
"%s"

Please create a crawling strategy with:
1. Important keywords to look for
2. Types of pages that would be most relevant (e.g., FAQ, pricing, product info)
3. What specific information to extract

Format your response as a JSON object with these fields:
- keywords: [list of important keywords]
- content_types: [list of relevant content types]
- task: "description of the task"`, startURL, instructions)
}

// selectLinksPrompt asks which candidate links are worth following.
func selectLinksPrompt(strategy *model.CrawlStrategy, candidates []string) string {
	return fmt.Sprintf(`I am trying to perform this task: "%s".
Keywords related to this task are %s.
Content types related to this task are %s.
Given below is the list of website addresses which may have relevant information.

%s

Please think hard and make a best guess on which of these links may have information relevant to my task.

Format your response as a JSON object with this field:
- relevant_links: list of links relevant for the task`,
		strategy.Task,
		strings.Join(strategy.Keywords, ", "),
		strings.Join(strategy.ContentTypes, ", "),
		strings.Join(candidates, "\n"))
}

// judgeRelevancePrompt asks for a bare 0-1 relevance rating.
func judgeRelevancePrompt(task, excerpt string) string {
	return fmt.Sprintf(`Rate the relevance of this content on a scale of 0.0 to 1.0 for the task:
"%s"

Content:
"%s"

Return only a number between 0 and 1.`, task, excerpt)
}

// categoryGuidance holds the synthesis guidance per content category.
// Categories without an entry use defaultGuidance.
var categoryGuidance = map[string]string{
	"faq": `Format the content as questions and answers.
Each question should be clear and concise.
Group related questions together under appropriate headings.`,

	"product": `Organize information by features, benefits, and specifications.
Include clear sections with descriptive headings.
Highlight key product information that would be most relevant to users.`,

	"pricing": `Clearly structure different pricing tiers or options.
Include information about what's included in each tier.
Mention any discounts, promotions, or special offers.`,
}

const defaultGuidance = `Organize the information with clear headings and sections.
Focus on the most important and relevant details.
Ensure the document flows logically from general to specific information.`

// synthesisPrompt builds the category-specific document synthesis prompt.
func synthesisPrompt(category, combinedContent, instructions string) string {
	guidance, ok := categoryGuidance[category]
	if !ok {
		guidance = defaultGuidance
	}

	return fmt.Sprintf(`Based on these web pages about %s:

%s

Create a comprehensive and structured document that covers all important information.

%s

User instructions: "%s"

The document should be well-structured with:
- A clear title
- Organized sections with headings
- Concise, informative content
- No repetition or filler text`, category, combinedContent, guidance, instructions)
}
