package blob

import (
	"context"
	"sync"
)

// Object is what Memory keeps per key.
type Object struct {
	Body        []byte
	ContentType string
}

// Memory is an ObjectStore powered by a map, to be used for testing or local
// development.
type Memory struct {
	sync.Mutex
	m map[string]Object
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]Object)}
}

func (s *Memory) PutObject(_ context.Context, key string, body []byte, contentType string) error {
	s.Lock()
	s.m[key] = Object{Body: append([]byte(nil), body...), ContentType: contentType}
	s.Unlock()
	return nil
}

// Object returns the object stored at key.
func (s *Memory) Object(key string) (Object, bool) {
	s.Lock()
	defer s.Unlock()
	o, ok := s.m[key]
	return o, ok
}

func (s *Memory) Len() int {
	s.Lock()
	defer s.Unlock()
	return len(s.m)
}
