// Package resultview provides the fyne widget that shows one generation
// result: title, photograph with overlay, story, and an unavailable notice.
package resultview

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"constellation-viewer/internal/view"
	"constellation-viewer/ui/canvas"
)

// Mode is what the image area currently shows.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeLoading
	ModeCanvas
	ModePlainImage
	ModeNotice
)

// View is a view.Presenter backed by fyne widgets. Its methods must be
// called on the fyne goroutine; use view.WithDispatcher(fyne.Do).
type View struct {
	title    *widget.Label
	story    *widget.Label
	notice   *widget.Label
	progress *widget.ProgressBarInfinite
	canvas   *canvas.ImageCanvas

	mode    Mode
	content fyne.CanvasObject
}

var _ view.Presenter = (*View)(nil)

// New creates an empty result view.
func New() *View {
	v := &View{
		title:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		story:    widget.NewLabel(""),
		notice:   widget.NewLabel(""),
		progress: widget.NewProgressBarInfinite(),
		canvas:   canvas.NewImageCanvas(),
	}
	v.story.Wrapping = fyne.TextWrapWord
	v.notice.Wrapping = fyne.TextWrapWord
	v.notice.Importance = widget.WarningImportance
	v.notice.Hide()
	v.progress.Stop()
	v.progress.Hide()

	top := container.NewVBox(v.title, v.progress)
	bottom := container.NewVBox(v.notice, v.story)
	v.content = container.NewBorder(top, bottom, nil, nil, v.canvas.Container())
	return v
}

// Container returns the view for embedding in layouts.
func (v *View) Container() fyne.CanvasObject {
	return v.content
}

// Canvas returns the image canvas so zoom controls can drive it.
func (v *View) Canvas() *canvas.ImageCanvas {
	return v.canvas
}

// Mode returns what the image area shows.
func (v *View) Mode() Mode {
	return v.mode
}

// Title returns the displayed constellation name.
func (v *View) Title() string { return v.title.Text }

// Story returns the displayed story.
func (v *View) Story() string { return v.story.Text }

// Notice returns the displayed notice, or "" when hidden.
func (v *View) Notice() string {
	if !v.notice.Visible() {
		return ""
	}
	return v.notice.Text
}

// ShowText replaces the title and story and clears the image area.
func (v *View) ShowText(name, story string) {
	v.title.SetText(name)
	v.story.SetText(story)
	v.hideNotice()
	v.stopProgress()
	v.canvas.SetImage(nil)
	v.mode = ModeEmpty
}

func (v *View) ShowLoading() {
	v.hideNotice()
	v.progress.Show()
	v.progress.Start()
	v.mode = ModeLoading
}

// ShowCanvas displays the rendered overlay. The pixels are copied because
// the session reuses its canvas for the next render.
func (v *View) ShowCanvas(img image.Image) {
	v.stopProgress()
	v.canvas.SetImage(snapshot(img))
	v.mode = ModeCanvas
}

// ShowPlainImage displays the photograph without an overlay.
func (v *View) ShowPlainImage(img image.Image) {
	v.stopProgress()
	v.canvas.SetImage(img)
	v.mode = ModePlainImage
}

// ShowNotice shows msg in place of the image; title and story stay.
func (v *View) ShowNotice(msg string) {
	v.stopProgress()
	v.canvas.SetImage(nil)
	v.notice.SetText(msg)
	v.notice.Show()
	v.mode = ModeNotice
}

func (v *View) hideNotice() {
	v.notice.SetText("")
	v.notice.Hide()
}

func (v *View) stopProgress() {
	v.progress.Stop()
	v.progress.Hide()
}

func snapshot(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
