package coercer

import (
	"testing"
	"time"

	"samplewms/domain/sample"

	"github.com/stretchr/testify/assert"
)

func newTestCoercer() *TypeCoercer {
	cfg := DefaultCoercionConfig()
	cfg.Location = time.UTC
	fixed := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	return NewTypeCoercer(cfg).WithClock(func() time.Time { return fixed })
}

func TestTypeCoercer_Integer(t *testing.T) {
	c := newTestCoercer()
	tests := []struct {
		raw      interface{}
		want     int
		wantDiag bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"12件", 12, true},
		{"1,200", 1200, false},
		{"abc", 0, true},
		{"", 0, false},
		{nil, 0, false},
		{"-5", 0, true},
		{float64(30), 30, false},
		{float64(3.9), 3, false},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, d := c.Integer(tt.raw)
		assert.Equal(t, tt.want, got, "raw %v", tt.raw)
		assert.Equal(t, tt.wantDiag, d != nil, "diagnostic for raw %v", tt.raw)
	}
}

func TestTypeCoercer_Decimal(t *testing.T) {
	c := newTestCoercer()
	tests := []struct {
		raw      interface{}
		want     float64
		wantDiag bool
	}{
		{"¥99.5", 99.5, false},
		{"￥1,299.00", 1299, false},
		{"20%", 20, false},
		{"15.5％", 15.5, false},
		{"$ 12", 12, false},
		{"88元", 88, false},
		{"abc", 0, true},
		{"", 0, false},
		{float64(19.9), 19.9, false},
		{"-3", 0, true},
	}
	for _, tt := range tests {
		got, d := c.Decimal(tt.raw)
		assert.InDelta(t, tt.want, got, 1e-9, "raw %v", tt.raw)
		assert.Equal(t, tt.wantDiag, d != nil, "diagnostic for raw %v", tt.raw)
	}
}

func TestTypeCoercer_NumericFieldsNeverFail(t *testing.T) {
	c := newTestCoercer()
	for _, raw := range []interface{}{"", "  ", "n/a", "—", "¥", "%", "..", nil, true} {
		n, _ := c.Integer(raw)
		f, _ := c.Decimal(raw)
		assert.Equal(t, 0, n, "integer raw %v", raw)
		assert.Equal(t, 0.0, f, "decimal raw %v", raw)
	}
}

func TestTypeCoercer_Category(t *testing.T) {
	c := newTestCoercer()

	got, d := c.Category("美妆护肤")
	assert.Equal(t, sample.CategoryBeauty, got)
	assert.Nil(t, d)

	for _, raw := range []string{"化妆品", "Beauty", "美妆"} {
		got, d = c.Category(raw)
		assert.Equal(t, sample.CategoryOther, got)
		assert.NotNil(t, d)
	}
}

func TestTypeCoercer_Platforms(t *testing.T) {
	c := newTestCoercer()

	got, d := c.Platforms("抖音, 火星")
	assert.Equal(t, []sample.Platform{sample.PlatformDouyin}, got)
	assert.NotNil(t, d)

	got, _ = c.Platforms("火星")
	assert.Equal(t, []sample.Platform{sample.PlatformOther}, got)

	got, d = c.Platforms("快手，淘宝,快手")
	assert.Equal(t, []sample.Platform{sample.PlatformKuaishou, sample.PlatformTaobao}, got)
	assert.Nil(t, d)

	for _, raw := range []interface{}{"", ",,", " ， ", nil, float64(3)} {
		got, _ = c.Platforms(raw)
		assert.NotEmpty(t, got, "raw %v", raw)
	}
}

func TestTypeCoercer_Date(t *testing.T) {
	c := newTestCoercer()
	today := sample.NewDate(2024, 6, 15)

	tests := []struct {
		name     string
		raw      interface{}
		want     sample.Date
		wantDiag bool
	}{
		{"iso text", "2024-01-15", sample.NewDate(2024, 1, 15), false},
		{"slashed text", "2024/01/15", sample.NewDate(2024, 1, 15), false},
		{"english text", "Jan 15, 2024", sample.NewDate(2024, 1, 15), false},
		{"time value", time.Date(2024, 2, 3, 17, 45, 0, 0, time.UTC), sample.NewDate(2024, 2, 3), false},
		{"serial number", float64(45306), sample.NewDate(2024, 1, 15), false},
		{"serial text", "45306", sample.NewDate(2024, 1, 15), false},
		{"garbage", "next tuesday-ish", today, true},
		{"empty", "", today, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, d := c.Date(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDiag, d != nil)
		})
	}
}

func TestTypeCoercer_Bool(t *testing.T) {
	c := newTestCoercer()

	v, d := c.Bool("是", false)
	assert.True(t, v)
	assert.Nil(t, d)

	v, _ = c.Bool("否", true)
	assert.False(t, v)

	v, _ = c.Bool("", true)
	assert.True(t, v)

	v, d = c.Bool("maybe", true)
	assert.True(t, v)
	assert.NotNil(t, d)
}

func TestTypeCoercer_Text(t *testing.T) {
	c := newTestCoercer()
	assert.Equal(t, "A-01-01", c.Text("  A-01-01 "))
	assert.Equal(t, "13800138000", c.Text(float64(13800138000)))
	assert.Equal(t, "", c.Text(nil))
}
