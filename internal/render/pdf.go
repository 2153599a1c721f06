package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	dcimage "github.com/JaimeStill/document-context/pkg/image"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/draw"
)

// ContentTypePDF is the only content type the default backend renders.
const ContentTypePDF = "application/pdf"

const pointsPerInch = 72.0

type pdfBackend struct {
	doc        document.Document
	sizes      []Size
	background string
}

// OpenPDF opens a PDF for rasterization on a white background.
func OpenPDF(path string) (Backend, error) {
	return PDFOpener("white")(path)
}

// PDFOpener returns an Opener that renders PDF pages over background.
// Page count and native page sizes come from pdfcpu; page rasters come from
// document-context's ImageMagick renderer.
func PDFOpener(background string) Opener {
	return func(path string) (Backend, error) {
		count, err := api.PageCountFile(path)
		if err != nil {
			return nil, fmt.Errorf("read page count: %w", err)
		}

		dims, err := api.PageDimsFile(path)
		if err != nil {
			return nil, fmt.Errorf("read page dimensions: %w", err)
		}

		sizes := make([]Size, count)
		for i := range sizes {
			if i < len(dims) {
				sizes[i] = Size{Width: dims[i].Width, Height: dims[i].Height}
			}
			if sizes[i].Width <= 0 || sizes[i].Height <= 0 {
				return nil, fmt.Errorf("page %d has no usable media box", i)
			}
		}

		doc, err := document.Open(path, ContentTypePDF)
		if err != nil {
			return nil, fmt.Errorf("open pdf: %w", err)
		}

		return &pdfBackend{
			doc:        doc,
			sizes:      sizes,
			background: background,
		}, nil
	}
}

func (b *pdfBackend) PageCount() int {
	return len(b.sizes)
}

func (b *pdfBackend) OpenPage(index int) (Page, error) {
	// document-context numbers pages from 1.
	page, err := b.doc.ExtractPage(index + 1)
	if err != nil {
		return nil, err
	}
	return &pdfPage{
		page:       page,
		size:       b.sizes[index],
		background: b.background,
	}, nil
}

func (b *pdfBackend) Close() error {
	return b.doc.Close()
}

type pdfPage struct {
	page       document.Page
	size       Size
	background string
}

func (p *pdfPage) Size() Size {
	return p.size
}

func (p *pdfPage) Render(width, height int) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}

	renderer, err := dcimage.NewImageMagickRenderer(dcconfig.ImageConfig{
		Format: "png",
		DPI:    RenderDPI(p.size, width),
		Options: map[string]any{
			"background": p.background,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	data, err := p.page.ToImage(renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}

	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func (p *pdfPage) Close() error {
	return nil
}

// RenderDPI is the smallest DPI at which a page of the given native size is at least width pixels wide.
func RenderDPI(size Size, width int) int {
	if size.Width <= 0 {
		return int(pointsPerInch)
	}
	return int(math.Ceil(float64(width) * pointsPerInch / size.Width))
}
