package naming

import (
	"sync"

	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// fakeStorage is an in-memory stand-in for a registered storage server,
// implementing both ClientStub and CommandStub directly against a map
// instead of over the network — grounded on the same fake-transport idiom
// the teacher's own store tests use to exercise call sequences without a
// socket in the loop.
type fakeStorage struct {
	mu      sync.Mutex
	address string
	files   map[string][]byte

	copies  []nspath.Path
	deletes []nspath.Path

	failCopy   bool
	failDelete bool
}

func newFakeStorage(address string) *fakeStorage {
	return &fakeStorage{address: address, files: map[string][]byte{}}
}

func (f *fakeStorage) Address() string { return f.address }

func (f *fakeStorage) Size(path nspath.Path) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path.String()]
	if !ok {
		return 0, errs.Newf(errs.NotFound, path.String(), "file not found")
	}
	return int64(len(data)), nil
}

func (f *fakeStorage) Read(path nspath.Path, offset, length int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path.String()]
	if !ok {
		return nil, errs.Newf(errs.NotFound, path.String(), "file not found")
	}
	return data[offset : offset+length], nil
}

func (f *fakeStorage) Write(path nspath.Path, offset int64, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := f.files[path.String()]
	needed := int(offset) + len(data)
	if needed > len(existing) {
		grown := make([]byte, needed)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[offset:], data)
	f.files[path.String()] = existing
	return nil
}

func (f *fakeStorage) Create(path nspath.Path) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path.String()]; ok {
		return false, nil
	}
	f.files[path.String()] = []byte{}
	return true, nil
}

func (f *fakeStorage) Delete(path nspath.Path) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, path)
	if f.failDelete {
		return false, nil
	}
	delete(f.files, path.String())
	return true, nil
}

func (f *fakeStorage) Copy(path nspath.Path, source ClientStub) (bool, error) {
	f.mu.Lock()
	if f.failCopy {
		f.mu.Unlock()
		return false, nil
	}
	f.mu.Unlock()

	size, err := source.Size(path)
	if err != nil {
		return false, err
	}
	data, err := source.Read(path, 0, size)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies = append(f.copies, path)
	f.files[path.String()] = data
	return true, nil
}
