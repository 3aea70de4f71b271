package filing

import (
	"fmt"
	"image"
	"time"

	"github.com/Law4Us/Law4Us-sub002/internal/attach"
	"github.com/Law4Us/Law4Us-sub002/internal/compose"
	"github.com/Law4Us/Law4Us-sub002/internal/overlay"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// FormFiller stamps submission values onto the raster pages of a court form.
type FormFiller struct {
	renderer *overlay.Renderer
	layout   *overlay.Layout
	pages    []image.Image
	lawyer   compose.Lawyer
	clock    compose.Clock
}

// NewFormFiller stamps values onto pages. clock dates the form; nil selects the
// system clock.
func NewFormFiller(r *overlay.Renderer, l *overlay.Layout, pages []image.Image, lawyer compose.Lawyer, clock compose.Clock) (*FormFiller, error) {
	if len(pages) != len(l.Pages) {
		return nil, fmt.Errorf("layout %q has %d pages, got %d images", l.Name, len(l.Pages), len(pages))
	}
	if clock == nil {
		clock = compose.SystemClock
	}
	return &FormFiller{
		renderer: r,
		layout:   l,
		pages:    pages,
		lawyer:   lawyer,
		clock:    clock,
	}, nil
}

// Fill returns one PNG per form page.
func (f *FormFiller) Fill(sub *types.Submission) ([][]byte, error) {
	return overlay.FillForm(f.renderer, f.layout, FormValues(sub, f.clock.Now(), f.lawyer), f.pages)
}

// Attachment implements FormSource.
func (f *FormFiller) Attachment(sub *types.Submission, label string) (types.AttachmentSpec, error) {
	pages, err := f.Fill(sub)
	if err != nil {
		return types.AttachmentSpec{}, err
	}
	return overlay.Attachment(label, f.layout.Title, pages), nil
}

// FormValues flattens the template values of sub into strings for the overlay.
func FormValues(sub *types.Submission, now time.Time, lawyer compose.Lawyer) map[string]string {
	values := compose.Values(sub, sub.Claims(), now, lawyer)

	out := make(map[string]string, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

// nextLabel is the label following the last of existing.
func nextLabel(existing []types.AttachmentSpec) string {
	return attach.Label(len(existing) + 1)
}
