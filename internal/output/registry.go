package output

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available output writers
type Registry struct {
	writers map[Format]Writer
	mu      sync.RWMutex
}

// NewRegistry creates a new writer registry
func NewRegistry() *Registry {
	return &Registry{
		writers: make(map[Format]Writer),
	}
}

// Register adds a writer to the registry
func (r *Registry) Register(writer Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	format := writer.Format()
	if _, exists := r.writers[format]; exists {
		return fmt.Errorf("writer already registered: %s", format)
	}

	r.writers[format] = writer
	return nil
}

// Get retrieves a writer by format
func (r *Registry) Get(format Format) (Writer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	writer, exists := r.writers[format]
	if !exists {
		return nil, fmt.Errorf("writer not found: %s", format)
	}

	return writer, nil
}

// ForPath retrieves the writer matching a file's extension
func (r *Registry) ForPath(path string) (Writer, error) {
	return r.Get(FormatForPath(path))
}

// Formats returns the registered formats, sorted
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.writers))
	for f := range r.writers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
