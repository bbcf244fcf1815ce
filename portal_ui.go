package main

import (
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/portal/ecs/component"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

type portalPanel struct {
	ui     *ebitenui.UI
	status *widget.Text

	clipboardReady bool
}

// newPortalPanel builds the debug panel in the top-right corner: a status
// line and Open, Close, Toggle and Copy buttons. The buttons only queue
// requests; the portal system decides whether they apply.
func newPortalPanel(g *Game) *portalPanel {
	p := &portalPanel{}
	if err := clipboard.Init(); err != nil {
		log.Printf("portal: clipboard unavailable: %v", err)
	} else {
		p.clipboardReady = true
	}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 160})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x44, B: 0x77, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	p.status = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(180, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(p.status)
	panel.AddChild(button("Open", func() {
		g.request(func(pc *component.Portal) { pc.OpenRequested = true })
	}))
	panel.AddChild(button("Close", func() {
		g.request(func(pc *component.Portal) { pc.CloseRequested = true })
	}))
	panel.AddChild(button("Toggle", func() {
		g.request(func(pc *component.Portal) { pc.ToggleRequested = true })
	}))
	panel.AddChild(button("Copy uniforms", func() {
		p.copyUniforms(g)
	}))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	p.ui = &ebitenui.UI{Container: root}
	return p
}

func (p *portalPanel) setStatus(s string) {
	if p.status != nil {
		p.status.Label = s
	}
}

func (p *portalPanel) copyUniforms(g *Game) {
	data, err := snapshotUniforms(g.world, g.root)
	if err != nil {
		log.Printf("portal: copy uniforms: %v", err)
		return
	}
	if !p.clipboardReady {
		log.Printf("portal: uniforms:\n%s", data)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
}
