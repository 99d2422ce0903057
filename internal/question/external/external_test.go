package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-bank/internal/question"
)

func TestOpenTDBClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("amount"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_code":0,"results":[
			{"category":"Science &amp; Nature","type":"multiple","difficulty":"hard",
			 "question":"What does &quot;DNA&quot; stand for?","correct_answer":"Deoxyribonucleic acid",
			 "incorrect_answers":["a","b","c"]}
		]}`))
	}))
	defer srv.Close()

	got, err := NewOpenTDBClient(srv.URL, srv.Client()).Fetch(context.Background(), 80)
	require.NoError(t, err)
	assert.Equal(t, []question.ImportedQuestion{{
		Category:   "Science & Nature",
		Prompt:     `What does "DNA" stand for?`,
		Answer:     "Deoxyribonucleic acid",
		Difficulty: 5,
	}}, got)
}

func TestOpenTDBClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "http error", status: http.StatusServiceUnavailable, payload: `{}`},
		{name: "provider code", status: http.StatusOK, payload: `{"response_code":1,"results":[]}`},
		{name: "bad json", status: http.StatusOK, payload: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			_, err := NewOpenTDBClient(srv.URL, srv.Client()).Fetch(context.Background(), 5)
			assert.Error(t, err)
		})
	}
}

func TestTriviaAPIClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`[
			{"id":"x1","category":"film_and_tv","difficulty":"medium",
			 "question":{"text":"Who directed Jaws?"},"correctAnswer":"Steven Spielberg",
			 "incorrectAnswers":["a","b","c"]}
		]`))
	}))
	defer srv.Close()

	got, err := NewTriviaAPIClient(srv.URL+"/", "secret", srv.Client()).Fetch(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Film And Tv", got[0].Category)
	assert.Equal(t, "Who directed Jaws?", got[0].Prompt)
	assert.Equal(t, 3, got[0].Difficulty)
}

func TestSources_ZeroAmount(t *testing.T) {
	got, err := NewOpenTDBClient("http://127.0.0.1:0", nil).Fetch(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewTriviaAPIClient("http://127.0.0.1:0", "", nil).Fetch(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "General Knowledge", categoryLabel("general_knowledge"))
	assert.Equal(t, "Science", categoryLabel("science"))
	assert.Equal(t, "Arts Literature", categoryLabel("arts-literature"))
}
