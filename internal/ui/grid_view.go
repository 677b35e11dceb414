package ui

import (
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/imgmg/internal/gallery"
	"github.com/ytget/imgmg/internal/grid"
	"github.com/ytget/imgmg/internal/model"
	"github.com/ytget/imgmg/internal/scroll"
)

var errNoGallery = errors.New("grid view has no gallery")

// GridView is the scrollable thumbnail grid. It publishes the scroll offset
// and viewport size for the gallery and repaints cells on redraw signals.
type GridView struct {
	widget.BaseWidget

	offset   *scroll.AtomicOffset
	viewport *gallery.AtomicViewport
	loc      *Localization
	logger   *slog.Logger

	gallery *gallery.Gallery
	scroll  *container.Scroll
	content *fyne.Container

	cells    map[string]*cellView // by slot id; UI goroutine only
	lastSize fyne.Size

	OnOpen   func(slot *model.Slot)
	OnReveal func(slot *model.Slot)
}

// NewGridView creates an empty grid view
func NewGridView(loc *Localization, logger *slog.Logger) *GridView {
	if logger == nil {
		logger = slog.Default()
	}
	v := &GridView{
		offset:   &scroll.AtomicOffset{},
		viewport: &gallery.AtomicViewport{},
		loc:      loc,
		logger:   logger,
		cells:    make(map[string]*cellView),
	}
	v.content = container.New(&gridLayout{view: v})
	v.scroll = container.NewVScroll(v.content)
	v.scroll.OnScrolled = func(pos fyne.Position) {
		v.offset.Store(int(pos.Y))
	}
	v.ExtendBaseWidget(v)
	return v
}

// Offset returns the scroll offset read by the gallery poller. The gallery
// rewinds it when a new directory is opened.
func (v *GridView) Offset() scroll.OffsetStore {
	return v.offset
}

// Viewport returns the viewport size source read by the gallery
func (v *GridView) Viewport() gallery.ViewportSource {
	return v.viewport
}

// SetGallery binds the gallery whose layout positions the cells
func (v *GridView) SetGallery(g *gallery.Gallery) {
	v.gallery = g
}

func (v *GridView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.scroll)
}

// Resize records the new viewport size and requests a layout pass when it
// changed.
func (v *GridView) Resize(size fyne.Size) {
	v.viewport.Store(int(size.Width), int(size.Height))
	v.BaseWidget.Resize(size)

	if size == v.lastSize {
		return
	}
	v.lastSize = size
	if g := v.gallery; g != nil {
		g.RequestPass()
	}
}

// SetSlots replaces all cells. The view scrolls back to the top only when
// the gallery rewound its offset; a reload keeps the position. UI goroutine
// only.
func (v *GridView) SetSlots(slots []*model.Slot, rewound bool) {
	cells := make(map[string]*cellView, len(slots))
	objects := make([]fyne.CanvasObject, len(slots))
	for i, slot := range slots {
		c := newCellView(slot, v.loc, v.open, v.reveal)
		cells[slot.ID] = c
		objects[i] = c
	}

	v.cells = cells
	v.content.Objects = objects
	if rewound {
		v.scroll.ScrollToTop()
	}
	v.Relayout()
}

// Relayout recomputes cell positions after a geometry change
func (v *GridView) Relayout() {
	v.content.Refresh()
	v.scroll.Refresh()
}

// Notify implements lazyload.Redrawer. Unknown ids belong to a replaced
// item list and are ignored.
func (v *GridView) Notify(containerID string) {
	fyne.Do(func() {
		if c, ok := v.cells[containerID]; ok {
			c.sync()
		}
	})
}

func (v *GridView) open(slot *model.Slot) {
	if v.OnOpen != nil {
		v.OnOpen(slot)
	}
}

func (v *GridView) reveal(slot *model.Slot) {
	if v.OnReveal != nil {
		v.OnReveal(slot)
	}
}

// layout returns the gallery layout for the current viewport
func (v *GridView) layout() (*grid.Layout, error) {
	if v.gallery == nil {
		return nil, errNoGallery
	}
	return v.gallery.Layout()
}

// gridLayout places cells at the positions computed by grid.Layout
type gridLayout struct {
	view *GridView
}

func (l *gridLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	layout, err := l.view.layout()
	if err != nil {
		return
	}
	cell := float32(layout.Config().CellSize)
	for i, o := range objects {
		x, y := layout.CellPosition(i)
		o.Move(fyne.NewPos(float32(x), float32(y)))
		o.Resize(fyne.NewSquareSize(cell))
	}
}

func (l *gridLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	layout, err := l.view.layout()
	if err != nil {
		return fyne.NewSize(0, 0)
	}
	cfg := layout.Config()
	return fyne.NewSize(float32(cfg.CellSize+2*cfg.CellMargin), float32(layout.TotalContentHeight()))
}
