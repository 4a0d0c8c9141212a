package generate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/interviewform/internal/fakemodel"
	"github.com/tbxark/interviewform/types"
)

func validPayload() Payload {
	return NewPayload(types.FormState{
		InterviewType:   types.InterviewTechnical,
		Role:            "Backend Engineer",
		ExperienceLevel: types.LevelSenior,
		Skills:          []string{"Go", "SQL"},
		QuestionCount:   5,
		UserID:          "u1",
	})
}

func TestNewPayload(t *testing.T) {
	p := validPayload()
	assert.Equal(t, "Go, SQL", p.Skills)
	assert.Equal(t, "technical", p.Type)
	assert.Equal(t, "senior", p.Level)
	assert.Equal(t, 5, p.Amount)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, []string{"Go", "SQL"}, p.SkillList())

	raw, err := sonic.Marshal(p)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &wire))
	assert.Equal(t, "Go, SQL", wire["skills"])
	assert.Contains(t, wire, "userid")
	assert.Contains(t, wire, "amount")
	assert.Contains(t, wire, "level")
}

func TestNewPayload_NoSkills(t *testing.T) {
	p := NewPayload(types.FormState{Skills: []string{}})
	assert.Equal(t, "", p.Skills)
	assert.Nil(t, p.SkillList())
}

func TestValidatePayload(t *testing.T) {
	require.NoError(t, ValidatePayload(validPayload()))

	p := validPayload()
	p.Amount = 7
	err := ValidatePayload(p)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.NotEmpty(t, se.Errors)

	p = validPayload()
	p.UserID = ""
	assert.Error(t, ValidatePayload(p))
}

func TestPayloadSchema(t *testing.T) {
	doc, err := PayloadSchema()
	require.NoError(t, err)
	assert.Contains(t, string(doc), "userid")
	assert.NotContains(t, string(doc), "$schema")
}

func TestHTTPClient_Success(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL).Generate(context.Background(), validPayload())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Go, SQL", got.Skills)
}

func TestHTTPClient_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Generate(context.Background(), validPayload())
	require.NoError(t, err)
}

func TestHTTPClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusTooManyRequests, `{"message":"rate limited"}`, "rate limited"},
		{"error field", http.StatusBadRequest, `{"error":"bad role"}`, "bad role"},
		{"message preferred", http.StatusBadRequest, `{"error":"e","message":"m"}`, "m"},
		{"nested error", http.StatusBadRequest, `{"error":{"message":"nested"}}`, "nested"},
		{"unparsable", http.StatusBadGateway, `<html>bad gateway</html>`, "request failed with status 502 (Bad Gateway)"},
		{"empty body", http.StatusInternalServerError, ``, "request failed with status 500 (Internal Server Error)"},
		{"blank message", http.StatusInternalServerError, `{"message":"  "}`, "request failed with status 500 (Internal Server Error)"},
		{"success false", http.StatusOK, `{"success":false,"error":"quota exceeded"}`, "quota exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL).Generate(context.Background(), validPayload())
			var re *ResponseError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.message, re.Message)
			assert.Equal(t, tt.status, re.StatusCode)
		})
	}
}

func TestHTTPClient_RejectsInvalidPayload(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := validPayload()
	p.Type = "trivia"
	_, err := NewHTTPClient(srv.URL).Generate(context.Background(), p)
	require.Error(t, err)
	assert.False(t, called)
}

func TestHTTPClient_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url).Generate(context.Background(), validPayload())
	require.Error(t, err)
	var re *ResponseError
	assert.False(t, errors.As(err, &re))
	assert.NotEmpty(t, err.Error())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHTTPClient_UnreadableSuccessBody(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(failingBody{}),
			Request:    r,
		}, nil
	})}

	res, err := NewHTTPClient("http://generator.invalid", WithClient(client)).Generate(context.Background(), validPayload())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "read response body")
	assert.ErrorContains(t, err, "connection reset")
	var re *ResponseError
	assert.False(t, errors.As(err, &re))
}

func TestLLMGenerator(t *testing.T) {
	m := fakemodel.ToolCall(questionToolName, `{"questions":["Q1"," ","Q2","Q3","Q4","Q5","Q6"]}`)
	g, err := NewLLMGenerator(m)
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), validPayload())
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, res.Questions)

	prompts := m.Prompts()
	require.Len(t, prompts, 1)
	user := prompts[0][len(prompts[0])-1].Content
	assert.True(t, strings.Contains(user, "- Go") && strings.Contains(user, "- SQL"))
}

func TestLLMGenerator_NoQuestions(t *testing.T) {
	g, err := NewLLMGenerator(fakemodel.ToolCall(questionToolName, `{"questions":[]}`))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), validPayload())
	var re *ResponseError
	require.ErrorAs(t, err, &re)
	assert.NotEmpty(t, re.Message)
}

func TestLLMGenerator_ModelError(t *testing.T) {
	g, err := NewLLMGenerator(&fakemodel.Model{Err: errors.New("boom")})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), validPayload())
	assert.ErrorContains(t, err, "boom")
}
