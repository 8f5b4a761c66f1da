package prediction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hemalink/hemalink-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(&config.Config{PredictorURL: url, PredictorTimeout: timeout})
}

func TestPredictSuccess(t *testing.T) {
	var gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"class": "Myeloblast"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	label, err := client.Predict(context.Background(), "cell.png", []byte("img-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Myeloblast", label)
	assert.Equal(t, "cell.png", gotFilename)
}

func TestPredictNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), "cell.png", []byte("img"))
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

func TestPredictBadResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), "cell.png", []byte("img"))
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

func TestPredictEmptyLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"class": ""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), "cell.png", []byte("img"))
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

func TestPredictTransportError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := client.Predict(context.Background(), "cell.png", []byte("img"))
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

func TestPredictTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"class": "Myeloblast"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50*time.Millisecond)
	_, err := client.Predict(context.Background(), "cell.png", []byte("img"))
	assert.ErrorIs(t, err, ErrPredictionFailed)
}
