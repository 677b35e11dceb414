package ui

import (
	"errors"
	"image"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/imgmg/internal/model"
)

type tapRecorder struct {
	opened   []*model.Slot
	revealed []*model.Slot
}

func (r *tapRecorder) open(s *model.Slot)   { r.opened = append(r.opened, s) }
func (r *tapRecorder) reveal(s *model.Slot) { r.revealed = append(r.revealed, s) }

func newTestCell(t *testing.T, source string) (*cellView, *model.Slot, *tapRecorder) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	slot := model.NewSlot(0, source)
	rec := &tapRecorder{}
	return newCellView(slot, NewLocalization(), rec.open, rec.reveal), slot, rec
}

func TestCellView_Placeholder(t *testing.T) {
	c, _, _ := newTestCell(t, "/photos/holiday.jpg")

	assert.Equal(t, "holiday", c.label.Text)
	assert.True(t, c.label.Visible())
	assert.False(t, c.image.Visible())
}

func TestCellView_Loading(t *testing.T) {
	c, slot, _ := newTestCell(t, "/photos/holiday.jpg")

	require.True(t, slot.TryClaim())
	c.sync()

	assert.Equal(t, IconLoading+" holiday", c.label.Text)
	assert.False(t, c.image.Visible())
}

func TestCellView_Loaded(t *testing.T) {
	c, slot, rec := newTestCell(t, "/photos/holiday.jpg")

	c.Tapped(nil)
	assert.Empty(t, rec.opened, "nothing to open before the asset is loaded")

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	require.True(t, slot.TryClaim())
	require.NoError(t, slot.Complete(model.NewAsset(slot.Source, img, model.Size{Width: 8, Height: 8})))
	c.sync()

	assert.True(t, c.image.Visible())
	assert.False(t, c.label.Visible())
	assert.Same(t, img, c.image.Image)

	c.Tapped(nil)
	require.Len(t, rec.opened, 1)
	assert.Same(t, slot, rec.opened[0])
}

func TestCellView_Failed(t *testing.T) {
	c, slot, rec := newTestCell(t, "/photos/broken.png")

	require.True(t, slot.TryClaim())
	slot.Fail(errors.New("decode failed"))
	c.sync()

	assert.False(t, c.image.Visible())
	assert.True(t, c.label.Visible())
	assert.True(t, strings.HasPrefix(c.label.Text, IconError+" Failed"))
	assert.Contains(t, c.label.Text, "broken")

	c.Tapped(nil)
	assert.Empty(t, rec.opened)

	c.TappedSecondary(nil)
	require.Len(t, rec.revealed, 1)
	assert.Same(t, slot, rec.revealed[0])
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "short", shortName("short"))

	exact := strings.Repeat("a", MaxCellLabelRunes)
	assert.Equal(t, exact, shortName(exact))

	long := strings.Repeat("ж", MaxCellLabelRunes+5)
	got := shortName(long)
	assert.Equal(t, MaxCellLabelRunes, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
