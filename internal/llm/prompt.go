package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Rrens/quackbot/internal/domain"
)

// GeneralTopic answers about the whole catalog; any other topic names a company
const GeneralTopic = domain.TopicGeneral

// BuildAnswerPrompt asks for an answer grounded in the retrieved companies
func BuildAnswerPrompt(topic, utterance string, records []domain.Company) string {
	reference := RenderRecords(records)

	if topic == GeneralTopic {
		return fmt.Sprintf(`You are QuackBot, a General chatbot for 'Y Combinator'.
Given the user query: %q, and the reference document: %s,
please provide a precise on point answer strictly based on this information provided. If the query is irrelevant reply with saying Out of Bound Question please ask related to Y Combinator Data.`,
			utterance, reference)
	}

	return fmt.Sprintf(`You are QuackBot, a specialized chatbot for %s.
Using only the information provided in the reference document: %s, answer exactly the following query: %q.
Please provide a precise answer strictly based on this information. If the query is irrelevant reply with saying Out of Bound Question please ask related to %s.`,
		topic, reference, utterance, topic)
}

// BuildSearchPrompt asks the model to turn a general question into a single field match
func BuildSearchPrompt(utterance string) string {
	return fmt.Sprintf(`You are an expert in generating search queries.
Generate a query for the user query: %q.
If the query asks about companies founded in a year like 2018, search the batch instead, e.g. W18 or S18 or F18 (winter, summer, fall).

The catalog stores company information with the following structure:
- company_name (String)
- short_description (String)
- long_description (String)
- batch (String, e.g. W21)
- status (String, Active or Inactive)
- tags (Array of Strings)
- location (String, "City, Region")
- country (String)
- year_founded (Integer)
- num_founders (Integer)
- founders_names (Array of Strings)
- team_size (Integer)

Output the query strictly in the following JSON format without explanations or additional text:
{"query": {"match": {"<field_name>": "<value>"}}}
Replace <field_name> with the appropriate field based on the user query.`, utterance)
}

// RenderRecords serializes records for inclusion in a prompt
func RenderRecords(records []domain.Company) string {
	data, err := json.Marshal(records)
	if err != nil {
		return "[]"
	}
	return string(data)
}

var matchPattern = regexp.MustCompile(`"match"\s*:\s*\{\s*"([^"]+)"\s*:\s*"([^"]+)"\s*\}`)

// ExtractMatch pulls the field and value out of a {"match": {field: value}} reply
func ExtractMatch(content string) (field, value string, ok bool) {
	m := matchPattern.FindStringSubmatch(content)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
