package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"samplewms/domain/sample"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// TypeCoercer converts raw spreadsheet cells into typed sample fields.
// Every method returns a usable value; problems travel as a Diagnostic.
type TypeCoercer struct {
	config CoercionConfig
	now    func() time.Time
}

// CoercionConfig defines the fallback values and symbol tables
type CoercionConfig struct {
	CurrencySymbols  []string        `json:"currency_symbols"`
	DefaultCategory  sample.Category `json:"default_category"`
	FallbackPlatform sample.Platform `json:"fallback_platform"` // used when no platform token is recognized
	Location         *time.Location  `json:"-"`
}

// DefaultCoercionConfig returns the rules used by the import driver
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		CurrencySymbols:  []string{"¥", "￥", "$", "€", "£", "元", "RMB", "CNY"},
		DefaultCategory:  sample.CategoryOther,
		FallbackPlatform: sample.PlatformOther,
		Location:         time.Local,
	}
}

// Diagnostic explains a substitution made while coercing one cell
type Diagnostic struct {
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s (raw %q)", d.Reason, d.Raw)
}

func diag(raw, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Raw: raw, Reason: fmt.Sprintf(format, args...)}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.Location == nil {
		config.Location = time.Local
	}
	return &TypeCoercer{config: config, now: time.Now}
}

// WithClock replaces the clock used for the "today" fallback
func (c *TypeCoercer) WithClock(now func() time.Time) *TypeCoercer {
	c.now = now
	return c
}

// Today returns the current calendar date in the configured location
func (c *TypeCoercer) Today() sample.Date {
	return sample.DateOf(c.now().In(c.config.Location))
}

var (
	leadingInt     = regexp.MustCompile(`^[+-]?\d+`)
	leadingDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	serialDate     = regexp.MustCompile(`^\d{5}(\.\d+)?$`) // 1927..2173 as Excel serials
)

// Text returns the trimmed textual form of a cell
func (c *TypeCoercer) Text(raw interface{}) string {
	return strings.TrimSpace(c.toString(raw))
}

// Integer parses the leading integer of a cell. Thousands separators are
// ignored, fractions truncated, negatives clamped to zero.
func (c *TypeCoercer) Integer(raw interface{}) (int, *Diagnostic) {
	if f, ok := raw.(float64); ok {
		if math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
			return 0, diag(c.toString(raw), "number out of range, using 0")
		}
		return c.clampInt(int64(math.Trunc(f)), c.toString(raw))
	}

	text := c.Text(raw)
	if text == "" {
		return 0, nil
	}
	cleaned := strings.ReplaceAll(text, ",", "")
	match := leadingInt.FindString(cleaned)
	if match == "" {
		return 0, diag(text, "not a number, using 0")
	}
	n, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, diag(text, "number out of range, using 0")
	}
	value, d := c.clampInt(n, text)
	if d == nil && match != cleaned {
		d = diag(text, "ignored trailing text after %s", match)
	}
	return value, d
}

func (c *TypeCoercer) clampInt(n int64, text string) (int, *Diagnostic) {
	if n < 0 {
		return 0, diag(text, "negative value clamped to 0")
	}
	if n > math.MaxInt32 {
		return 0, diag(text, "number out of range, using 0")
	}
	return int(n), nil
}

// Decimal parses a price-like cell after stripping currency and percent
// symbols. Failures and negatives yield 0.
func (c *TypeCoercer) Decimal(raw interface{}) (float64, *Diagnostic) {
	if f, ok := raw.(float64); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, diag(c.toString(raw), "not a finite number, using 0")
		}
		if f < 0 {
			return 0, diag(c.toString(raw), "negative value clamped to 0")
		}
		return f, nil
	}

	text := c.Text(raw)
	if text == "" {
		return 0, nil
	}
	cleaned := text
	for _, symbol := range c.config.CurrencySymbols {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.ReplaceAll(cleaned, "％", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	match := leadingDecimal.FindString(cleaned)
	if match == "" {
		return 0, diag(text, "not a number, using 0")
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, diag(text, "number out of range, using 0")
	}
	if f < 0 {
		return 0, diag(text, "negative value clamped to 0")
	}
	return f, nil
}

// Category matches the enumeration exactly, falling back to the default
func (c *TypeCoercer) Category(raw interface{}) (sample.Category, *Diagnostic) {
	text := c.Text(raw)
	if cat, ok := sample.ParseCategory(text); ok {
		return cat, nil
	}
	if text == "" {
		return c.config.DefaultCategory, nil
	}
	return c.config.DefaultCategory, diag(text, "unknown category, using %s", c.config.DefaultCategory)
}

// Platforms splits on ASCII and full-width commas and keeps recognized tokens
// in order, without duplicates. The result is never empty.
func (c *TypeCoercer) Platforms(raw interface{}) ([]sample.Platform, *Diagnostic) {
	text := c.Text(raw)
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，'
	})

	var (
		result  []sample.Platform
		dropped []string
	)
	seen := make(map[sample.Platform]bool)
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		p, ok := sample.ParsePlatform(token)
		if !ok {
			dropped = append(dropped, token)
			continue
		}
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	var d *Diagnostic
	if len(dropped) > 0 {
		d = diag(text, "dropped unknown platforms %s", strings.Join(dropped, ", "))
	}
	if len(result) == 0 {
		result = []sample.Platform{c.config.FallbackPlatform}
		if d == nil && text != "" {
			d = diag(text, "no platform recognized, using %s", c.config.FallbackPlatform)
		}
	}
	return result, d
}

// Date normalizes date cells to calendar precision and parses text dates.
// Unparseable text becomes today; the diagnostic records that the original
// intent was lost.
func (c *TypeCoercer) Date(raw interface{}) (sample.Date, *Diagnostic) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return c.Today(), diag("", "empty date, using today")
		}
		return sample.DateOf(v), nil
	case sample.Date:
		if v.IsZero() {
			return c.Today(), diag("", "empty date, using today")
		}
		return v, nil
	case float64:
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			return sample.DateOf(t), nil
		}
		return c.Today(), diag(c.toString(raw), "serial date out of range, using today")
	}

	text := c.Text(raw)
	if text == "" {
		return c.Today(), diag(text, "empty date, using today")
	}
	if serialDate.MatchString(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return sample.DateOf(t), nil
			}
		}
	}
	t, err := dateparse.ParseIn(text, c.config.Location)
	if err != nil {
		return c.Today(), diag(text, "unparseable date, substituted today")
	}
	return sample.DateOf(t), nil
}

// Bool recognizes common yes/no spellings; anything else keeps fallback
func (c *TypeCoercer) Bool(raw interface{}, fallback bool) (bool, *Diagnostic) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	text := c.Text(raw)
	switch strings.ToLower(text) {
	case "":
		return fallback, nil
	case "true", "1", "yes", "y", "on", "是", "包邮", "含", "含运费", "√", "✓":
		return true, nil
	case "false", "0", "no", "n", "off", "否", "不包邮", "不含", "不含运费", "×", "✗":
		return false, nil
	}
	return fallback, diag(text, "not a yes/no value, using %t", fallback)
}

func (c *TypeCoercer) toString(val interface{}) string {
	if val == nil {
		return ""
	}
	if t, ok := val.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return s
}
