package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// replayedResponse is the stored outcome of an already-processed
// mutation.
type replayedResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// captureWriter tees the response body so it can be stored for replay.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// replayStore persists responses keyed by caller, route and client key,
// so one caller's replay can never serve another caller's response.
type replayStore struct {
	client *redis.Client
}

func (s *replayStore) key(c *gin.Context, clientKey string) string {
	sum := sha256.Sum256([]byte(ExternalID(c) + "\x00" + c.Request.Method + "\x00" + c.FullPath() + "\x00" + clientKey))
	return "idempotency:" + hex.EncodeToString(sum[:])
}

func (s *replayStore) get(ctx context.Context, key string) (*replayedResponse, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var stored replayedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *replayStore) put(ctx context.Context, key string, resp *replayedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, idempotencyTTL).Err()
}

// IdempotencyMiddleware replays the stored response when a mutation
// arrives again with the same Idempotency-Key. Server errors are not
// stored, so a failed mutation can be retried with the same key.
func IdempotencyMiddleware(client *redis.Client) gin.HandlerFunc {
	store := &replayStore{client: client}

	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		clientKey := c.GetHeader(idempotencyHeader)
		if clientKey == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := store.key(c, clientKey)

		stored, err := store.get(ctx, key)
		if err == nil {
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, redis.Nil) {
			// Redis trouble degrades to processing the request normally.
			c.Next()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 500 {
			_ = store.put(ctx, key, &replayedResponse{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			})
		}
	}
}
