package kv

// MemoryStore is a map-backed store for tests and --backend memory.
type MemoryStore struct {
	values map[string]string
	// Writes counts successful Set and Delete calls.
	Writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.values[key] = value
	s.Writes++
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	delete(s.values, key)
	s.Writes++
	return nil
}

func (s *MemoryStore) Close() error { return nil }
