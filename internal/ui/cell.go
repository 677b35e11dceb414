package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/imgmg/internal/model"
)

// cellView renders one slot: a placeholder label until the asset is loaded,
// then the scaled image.
type cellView struct {
	widget.BaseWidget

	slot *model.Slot
	loc  *Localization

	bg    *canvas.Rectangle
	image *canvas.Image
	label *widget.Label

	onTapped    func(slot *model.Slot)
	onSecondary func(slot *model.Slot)
}

func newCellView(slot *model.Slot, loc *Localization, onTapped, onSecondary func(*model.Slot)) *cellView {
	c := &cellView{
		slot:        slot,
		loc:         loc,
		bg:          canvas.NewRectangle(theme.Color(ColorNameCellBackground)),
		image:       &canvas.Image{FillMode: canvas.ImageFillContain},
		label:       widget.NewLabel(""),
		onTapped:    onTapped,
		onSecondary: onSecondary,
	}
	c.label.Alignment = fyne.TextAlignCenter
	c.ExtendBaseWidget(c)
	c.sync()
	return c
}

func (c *cellView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.bg, c.image, container.NewCenter(c.label)))
}

// Tapped opens a loaded image
func (c *cellView) Tapped(*fyne.PointEvent) {
	if _, ok := c.slot.Asset(); ok && c.onTapped != nil {
		c.onTapped(c.slot)
	}
}

// TappedSecondary reveals the file
func (c *cellView) TappedSecondary(*fyne.PointEvent) {
	if c.onSecondary != nil {
		c.onSecondary(c.slot)
	}
}

// sync copies the slot state into the canvas objects. UI goroutine only.
func (c *cellView) sync() {
	snap := c.slot.Snapshot()
	name := shortName(model.DisplayName(c.slot.Source))

	c.bg.FillColor = theme.Color(ColorNameCellBackground)
	switch snap.Status {
	case model.SlotStatusLoaded:
		c.image.Image = snap.Asset.Image
		c.image.Show()
		c.label.Hide()
	case model.SlotStatusFailed:
		c.image.Image = nil
		c.image.Hide()
		c.bg.FillColor = theme.Color(ColorNameCellFailed)
		c.label.SetText(IconError + " " + c.loc.GetText(KeyLoadFailed) + "\n" + name)
		c.label.Show()
	case model.SlotStatusLoading:
		c.image.Hide()
		c.label.SetText(IconLoading + " " + name)
		c.label.Show()
	default:
		c.image.Hide()
		c.label.SetText(name)
		c.label.Show()
	}

	c.bg.Refresh()
	c.image.Refresh()
}

// shortName trims long file names to fit under a thumbnail
func shortName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxCellLabelRunes {
		return name
	}
	return string(runes[:MaxCellLabelRunes-1]) + "…"
}
