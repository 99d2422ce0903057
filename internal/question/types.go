package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty bounds accepted when creating questions.
const (
	DifficultyMin = 1
	DifficultyMax = 5
)

// DefaultPageSize is the number of questions returned per listing page.
const DefaultPageSize = 10

// UnknownCategory labels questions whose category no longer resolves.
const UnknownCategory = "unknown"

// Category is a labeled grouping of questions.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Question is a single trivia item.
type Question struct {
	ID         int64  `json:"id"`
	Prompt     string `json:"question"`
	Answer     string `json:"answer"`
	CategoryID int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewQuestion carries the fields required to insert a question.
type NewQuestion struct {
	Prompt     string
	Answer     string
	CategoryID int64
	Difficulty int
}

// QuestionView is a question decorated with its resolved category label.
type QuestionView struct {
	Question
	CategoryType string `json:"category_type"`
}

// CategoryScope selects the pool a quiz draw picks from.
type CategoryScope struct {
	ID  int64
	All bool
}

// AllCategories is the scope that skips category filtering.
var AllCategories = CategoryScope{All: true}

// ScopeFor returns the scope for a single category.
func ScopeFor(id int64) CategoryScope {
	return CategoryScope{ID: id}
}

func (s CategoryScope) String() string {
	if s.All {
		return "all"
	}
	return fmt.Sprint(s.ID)
}

// UnmarshalJSON accepts "all", a bare integer, or an object {"id": n}.
// An id of 0 selects every category, matching the legacy quiz client.
func (s *CategoryScope) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("quiz_category is null")
	}

	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.EqualFold(raw, "all") {
			*s = AllCategories
			return nil
		}
		return fmt.Errorf("quiz_category %q is neither \"all\" nor an id", raw)
	case '{':
		var obj struct {
			ID *json.Number `json:"id"`
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			return err
		}
		if obj.ID == nil {
			return fmt.Errorf("quiz_category.id is required")
		}
		return s.setID(*obj.ID)
	default:
		return s.setID(json.Number(data))
	}
}

func (s *CategoryScope) setID(n json.Number) error {
	id, err := n.Int64()
	if err != nil {
		return fmt.Errorf("quiz_category id %q is not an integer", n.String())
	}
	if id < 0 {
		return fmt.Errorf("quiz_category id must not be negative")
	}
	if id == 0 {
		*s = AllCategories
		return nil
	}
	*s = ScopeFor(id)
	return nil
}

// MarshalJSON renders "all" or the numeric id.
func (s CategoryScope) MarshalJSON() ([]byte, error) {
	if s.All {
		return []byte(`"all"`), nil
	}
	return json.Marshal(s.ID)
}

// CreateQuestionRequest is the validated payload for creating a question.
// Pointer fields distinguish "missing" from zero values.
type CreateQuestionRequest struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int64  `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// DrawRequest is one quiz turn. The caller resends the growing exclusion
// set on every turn; nothing is kept server-side.
type DrawRequest struct {
	Category            *CategoryScope `json:"quiz_category"`
	PreviousQuestionIDs []int64        `json:"previous_questions"`
}

// CategoryList is the payload for ListCategories.
type CategoryList struct {
	Categories map[int64]string
	Total      int
}

// QuestionPage is one page of the full question listing.
type QuestionPage struct {
	Questions      []QuestionView
	TotalQuestions int
	Categories     map[int64]string
}

// SearchResult holds questions matching a search term.
type SearchResult struct {
	Questions []QuestionView
	Total     int
}

// CategoryQuestions holds the questions of one category.
type CategoryQuestions struct {
	Questions []QuestionView
	Total     int
	Category  Category
}

// Created reports the outcome of CreateQuestion.
type Created struct {
	ID             int64
	TotalQuestions int
}
