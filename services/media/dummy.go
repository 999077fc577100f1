package mediasvc

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const dummyBaseURL = "https://media.test"

// dummyService keeps uploads in memory; for tests.
type dummyService struct {
	mu      sync.Mutex
	objects map[string][]byte
	maxSize int64
}

var _ Service = (*dummyService)(nil)

func NewDummyService(maxSize int64) Service {
	return &dummyService{
		objects: make(map[string][]byte),
		maxSize: maxSize,
	}
}

func (svc *dummyService) Upload(_ context.Context, _, contentType string, size int64, body io.Reader) (string, error) {
	if err := ValidateImage(contentType, size, svc.maxSize); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(body, svc.maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > svc.maxSize {
		return "", ErrTooLarge
	}

	key := uuid.NewString() + extFor(contentType)
	svc.mu.Lock()
	svc.objects[key] = data
	svc.mu.Unlock()
	return dummyBaseURL + "/" + key, nil
}

func (svc *dummyService) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, dummyBaseURL+"/")
	svc.mu.Lock()
	delete(svc.objects, key)
	svc.mu.Unlock()
	return nil
}
