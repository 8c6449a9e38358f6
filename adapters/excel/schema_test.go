package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportColumns_Layout(t *testing.T) {
	cols := ExportColumns()
	require.Len(t, cols, 18)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.ExportHeader()
	}
	assert.Equal(t, []string{
		"ID", "产品图片", "产品名称", "品牌", "分类", "货架位置", "库存", "直播价", "佣金率",
		"机制", "平台", "规格", "入库时间", "快递单号", "商务对接", "商家对接", "商家电话", "备注",
	}, headers)
}

func TestTemplateColumns_HeadersResolveToTheirFields(t *testing.T) {
	cols := TemplateColumns()
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = c.TemplateHeader()
	}

	m := ResolveHeaders(row)
	require.Len(t, m, len(cols))
	for i, c := range cols {
		assert.Equal(t, c.Key, m[i], "header %q", row[i])
	}
	assert.Equal(t, "产品名称 *", row[0])
	assert.Contains(t, row, "平台 (逗号分隔)")
	assert.Contains(t, row, "入库时间 (YYYY-MM-DD)")
}

func TestResolveHeaders(t *testing.T) {
	m := ResolveHeaders([]string{"  产品名称 * ", "", "备用列", "货架位置", "直播价(元)", "佣金率%", "图片链接"})

	assert.Equal(t, FieldName, m[0])
	_, mapped := m[1]
	assert.False(t, mapped)
	_, mapped = m[2]
	assert.False(t, mapped)
	assert.Equal(t, FieldLocation, m[3])
	assert.Equal(t, FieldPrice, m[4])
	assert.Equal(t, FieldCommission, m[5])
	assert.Equal(t, FieldImage, m[6])
	assert.Equal(t, []int{0, 3, 4, 5, 6}, m.Columns())
	assert.True(t, m.Has(FieldName))
	assert.False(t, m.Has(FieldBrand))
}

func TestResolveHeaders_ExportHeadersRoundTrip(t *testing.T) {
	cols := ExportColumns()
	row := make([]string, len(cols))
	for i, c := range cols {
		row[i] = c.ExportHeader()
	}
	m := ResolveHeaders(row)

	// ID and the picture column are export-only
	assert.False(t, m.Has(FieldID))
	assert.False(t, m.Has(FieldImage))
	assert.True(t, m.Has(FieldName))
	assert.True(t, m.Has(FieldLocation))
	assert.True(t, m.Has(FieldRemarks))
}

func TestFieldByKey(t *testing.T) {
	f, ok := FieldByKey(FieldStock)
	require.True(t, ok)
	assert.Equal(t, KindInteger, f.Kind)
	assert.True(t, f.Kind.numeric())

	_, ok = FieldByKey("nope")
	assert.False(t, ok)
}
