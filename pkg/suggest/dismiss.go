package suggest

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Point is a pointer position in host coordinates.
type Point struct {
	X, Y int
}

// Boundary is the area a control occupies.
type Boundary interface {
	Contains(p Point) bool
}

// Bounds is a fixed rectangle. Width and Height are exclusive.
type Bounds struct {
	X, Y, Width, Height int
}

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height
}

// BoundaryFunc lets a control report a boundary that moves with its layout.
type BoundaryFunc func(p Point) bool

func (f BoundaryFunc) Contains(p Point) bool {
	return f(p)
}

// Document fans pointer-down events out to its subscribers.
type Document struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Point)
}

// NewDocument creates a document with no listeners.
func NewDocument() *Document {
	return &Document{listeners: make(map[int]func(Point))}
}

// Subscribe registers fn for every pointer-down. The returned func removes it
// and is safe to call more than once.
func (d *Document) Subscribe(fn func(Point)) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// PointerDown delivers p to every listener in subscription order.
// Listeners run outside the lock and may unsubscribe themselves.
func (d *Document) PointerDown(p Point) {
	d.mu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Point), len(ids))
	for i, id := range ids {
		fns[i] = d.listeners[id]
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

// Listeners returns the number of live subscriptions.
func (d *Document) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Watcher hides a control's suggestion list when the pointer goes down outside it.
// Each control owns exactly one Watcher for its lifetime.
type Watcher struct {
	root        Boundary
	engine      *Engine
	unsubscribe func()
}

// Watch subscribes to doc on behalf of the control at root. Call Close on teardown.
func Watch(doc *Document, root Boundary, engine *Engine) *Watcher {
	w := &Watcher{root: root, engine: engine}
	w.unsubscribe = doc.Subscribe(w.handle)
	return w
}

func (w *Watcher) handle(p Point) {
	if w.root.Contains(p) {
		return
	}
	if w.engine.state.Visible {
		log.Debug("Pointer down outside control, hiding suggestions", "x", p.X, "y", p.Y)
	}
	w.engine.Hide()
}

// Close releases the subscription. Further calls do nothing.
func (w *Watcher) Close() {
	w.unsubscribe()
}
