package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SquaredPiano/emissionary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com/v1", "test-model", 10*time.Second)

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com/v1", client.baseURL)
	assert.Equal(t, "test-model", client.model)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com/v1", "test-model", 10*time.Second)

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

// completionWith wraps a message content in the chat-completions envelope
func completionWith(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestClassifyLines_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "MYSTERY SNACK 2.99")

		content := `[{"original": "MYSTERY SNACK 2.99", "is_food_item": true, "canonical_name": "snack", "category": "processed", "estimated_weight_kg": 0.2, "estimated_carbon_emissions_kg": 0.5}]`
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionWith(content))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "test-model", 10*time.Second)
	verdicts, err := client.ClassifyLines(context.Background(), []string{"MYSTERY SNACK 2.99"})

	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].IsFoodItem)
	assert.Equal(t, "snack", verdicts[0].CanonicalName)
	assert.Equal(t, "processed", verdicts[0].Category)
	require.NotNil(t, verdicts[0].EstimatedWeightKg)
	assert.InDelta(t, 0.2, *verdicts[0].EstimatedWeightKg, 0.0001)
	require.NotNil(t, verdicts[0].EstimatedCarbonEmissionsKg)
	assert.InDelta(t, 0.5, *verdicts[0].EstimatedCarbonEmissionsKg, 0.0001)
}

func TestClassifyLines_ProseWrappedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "Here are the results:\n[{\"is_food_item\": true, \"canonical_name\": \"banana\", \"category\": \"produce\"}]\nLet me know if you need anything else."
		json.NewEncoder(w).Encode(completionWith(content))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "test-model", 10*time.Second)
	verdicts, err := client.ClassifyLines(context.Background(), []string{"BANANAS"})

	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].IsFoodItem)
	assert.Equal(t, "banana", verdicts[0].CanonicalName)
}

func TestClassifyLines_ShortArrayPadsRemainder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := `[{"is_food_item": true, "canonical_name": "apple", "category": "produce"}]`
		json.NewEncoder(w).Encode(completionWith(content))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "test-model", 10*time.Second)
	verdicts, err := client.ClassifyLines(context.Background(), []string{"APPLES", "GARBAGE LINE"})

	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].IsFoodItem)
	assert.False(t, verdicts[1].IsFoodItem)
	assert.Equal(t, "unknown", verdicts[1].CanonicalName)
}

func TestClassifyLines_RetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		content := `[{"is_food_item": true, "canonical_name": "milk", "category": "dairy"}]`
		json.NewEncoder(w).Encode(completionWith(content))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "test-model", 10*time.Second)
	verdicts, err := client.ClassifyLines(context.Background(), []string{"MILK 2L"})

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, verdicts, 1)
	assert.Equal(t, "milk", verdicts[0].CanonicalName)
}

func TestClassifyLines_GivesUpAfterRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "test-model", 10*time.Second)
	_, err := client.ClassifyLines(context.Background(), []string{"MILK 2L"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassifierFailure))
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestClassifyLines_MalformedBodyNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(completionWith("I could not parse that receipt, sorry."))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "test-model", 10*time.Second)
	_, err := client.ClassifyLines(context.Background(), []string{"MILK 2L"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassifierFailure))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClassifyLines_DisabledWithoutKey(t *testing.T) {
	client := NewClient("", "https://api.example.com/v1", "test-model", 10*time.Second)

	_, err := client.ClassifyLines(context.Background(), []string{"MILK 2L"})

	assert.True(t, errors.Is(err, domain.ErrClassifierDisabled))
}

func TestClassifyLines_EmptyBatch(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com/v1", "test-model", 10*time.Second)

	verdicts, err := client.ClassifyLines(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, verdicts)
}
