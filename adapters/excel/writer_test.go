package excel

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"samplewms/adapters/images"
	"samplewms/domain/core"
	"samplewms/domain/sample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// stubImages serves a generated PNG for refs containing "ok" and reports
// every other ref unavailable. Delays invert completion order.
type stubImages struct {
	png   []byte
	mu    sync.Mutex
	calls []string
}

func newStubImages(t *testing.T) *stubImages {
	img := image.NewRGBA(image.Rect(0, 0, 160, 140))
	for x := 0; x < 160; x++ {
		img.Set(x, x%140, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &stubImages{png: buf.Bytes()}
}

func (s *stubImages) Acquire(ctx context.Context, ref string) (*images.Image, bool) {
	s.mu.Lock()
	s.calls = append(s.calls, ref)
	delay := time.Duration(10-len(s.calls)) * time.Millisecond
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if !strings.Contains(ref, "ok") {
		return nil, false
	}
	return &images.Image{Data: s.png, Encoding: images.EncodingPNG, Width: 160, Height: 140}, true
}

func exportFixture() []sample.Sample {
	procurement := 88.5
	return []sample.Sample{
		{
			ID: core.SampleID("s-1"), Name: "保湿面霜", BrandName: "珀莱雅", Category: sample.CategoryBeauty,
			ImageURL: "https://img.test/ok-1.png", LocationCode: "A-01-01", StockQuantity: 12,
			Price: 299, CommissionRate: 20, Mechanism: "买一送一",
			Platforms: []sample.Platform{sample.PlatformDouyin, sample.PlatformKuaishou},
			EntryDate: sample.NewDate(2024, time.March, 1), ProcurementPrice: &procurement,
		},
		{
			ID: core.SampleID("s-2"), Name: "坏链接", LocationCode: "B-02-01", Category: sample.CategoryElectronics,
			ImageURL: "https://img.test/missing.png", Platforms: []sample.Platform{sample.PlatformTaobao},
			EntryDate: sample.NewDate(2024, time.March, 2),
		},
		{
			ID: core.SampleID("s-3"), Name: "无图样品", LocationCode: "C-03-01", Category: sample.CategoryOther,
			Platforms: []sample.Platform{sample.PlatformOther}, EntryDate: sample.NewDate(2024, time.March, 3),
		},
		{
			ID: core.SampleID("s-4"), Name: "第二张图", LocationCode: "D-04-01", Category: sample.CategoryFood, ImageURL: "https://img.test/ok-4.png",
			Platforms: []sample.Platform{sample.PlatformChannels}, EntryDate: sample.NewDate(2024, time.March, 4),
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbookWriter_Export(t *testing.T) {
	source := newStubImages(t)
	w := NewWorkbookWriter(DefaultExportConfig(), source, zap.NewNop())

	data, err := w.Export(context.Background(), exportFixture())
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"样品清单"}, f.GetSheetList())

	rows, err := f.GetRows("样品清单")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "产品图片", rows[0][1])
	assert.Equal(t, "备注", rows[0][17])

	// rows keep input order regardless of fetch completion order
	assert.Equal(t, "保湿面霜", rows[1][2])
	assert.Equal(t, "坏链接", rows[2][2])
	assert.Equal(t, "无图样品", rows[3][2])
	assert.Equal(t, "第二张图", rows[4][2])

	assert.Equal(t, "美妆护肤", rows[1][4])
	assert.Equal(t, "20%", rows[1][8])
	assert.Equal(t, "抖音, 快手", rows[1][10])
	assert.Equal(t, "2024-03-01", rows[1][12])
	assert.Equal(t, "12", rows[1][6])

	formula, err := f.GetCellFormula("样品清单", "B2")
	require.NoError(t, err)
	assert.Equal(t, `HYPERLINK("https://img.test/ok-1.png","查看图片")`, formula)

	// link cells are formula-only; the label comes from recalculation on open
	props, err := f.GetCalcProps()
	require.NoError(t, err)
	require.NotNil(t, props.FullCalcOnLoad)
	assert.True(t, *props.FullCalcOnLoad)

	// unreachable image keeps its link
	formula, err = f.GetCellFormula("样品清单", "B3")
	require.NoError(t, err)
	assert.Contains(t, formula, "missing.png")

	// no reference at all
	assert.Equal(t, "无图", rows[3][1])
	formula, err = f.GetCellFormula("样品清单", "B4")
	require.NoError(t, err)
	assert.Empty(t, formula)

	pics, err := f.GetPictures("样品清单", "B2")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
	pics, err = f.GetPictures("样品清单", "B3")
	require.NoError(t, err)
	assert.Empty(t, pics)
	pics, err = f.GetPictures("样品清单", "B5")
	require.NoError(t, err)
	assert.Len(t, pics, 1)

	height, err := f.GetRowHeight("样品清单", 2)
	require.NoError(t, err)
	assert.Equal(t, 90.0, height)

	assert.Len(t, source.calls, 3)
}

func TestWorkbookWriter_ExportEmpty(t *testing.T) {
	w := NewWorkbookWriter(DefaultExportConfig(), nil, nil)
	data, err := w.Export(context.Background(), nil)
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows("样品清单")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 18)
}

func TestWorkbookWriter_LongInlineReference(t *testing.T) {
	s := exportFixture()[2]
	s.ImageURL = "data:image/png;base64," + strings.Repeat("A", maxFormulaLen)

	w := NewWorkbookWriter(DefaultExportConfig(), nil, nil)
	data, err := w.Export(context.Background(), []sample.Sample{s})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	value, err := f.GetCellValue("样品清单", "B2")
	require.NoError(t, err)
	assert.Equal(t, "内嵌图片", value)
	formula, err := f.GetCellFormula("样品清单", "B2")
	require.NoError(t, err)
	assert.Empty(t, formula)
}

func TestWorkbookWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorkbookWriter(DefaultExportConfig(), newStubImages(t), nil)
	_, err := w.Export(ctx, exportFixture())
	assert.Error(t, err)
}

func TestHyperlinkFormula_EscapesQuotes(t *testing.T) {
	assert.Equal(t, `HYPERLINK("https://x.test/a""b.png","查看图片")`,
		hyperlinkFormula(`https://x.test/a"b.png`, "查看图片"))
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 5, 6, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "LiveWMS_Export_2024-05-06.xlsx", ExportFileName("", now))
	assert.Equal(t, "样品_2024-05-06.xlsx", ExportFileName(" 样品 ", now))
}
