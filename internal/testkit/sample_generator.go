package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"samplewms/domain/core"
	"samplewms/domain/sample"
)

// SampleGeneratorConfig configures the sample fixture generator
type SampleGeneratorConfig struct {
	Count         int       `json:"count"`
	Seed          int64     `json:"seed"`
	Today         time.Time `json:"today"`
	MaxAgeDays    int       `json:"max_age_days"`
	ImageRatio    float64   `json:"image_ratio"`    // share of samples with an image reference
	LowStockRatio float64   `json:"low_stock_ratio"` // share of samples below 10 units
	ImageBaseURL  string    `json:"image_base_url"`
}

// DefaultSampleConfig returns sensible defaults for fixture generation
func DefaultSampleConfig() SampleGeneratorConfig {
	return SampleGeneratorConfig{
		Count:         20,
		Seed:          42,
		Today:         time.Now(),
		MaxAgeDays:    45,
		ImageRatio:    0.8,
		LowStockRatio: 0.2,
		ImageBaseURL:  "https://picsum.photos/seed",
	}
}

// SampleGenerator produces realistic warehouse samples
type SampleGenerator struct {
	config SampleGeneratorConfig
	rng    *rand.Rand
}

// NewSampleGenerator creates a new generator
func NewSampleGenerator(config SampleGeneratorConfig) *SampleGenerator {
	if config.Today.IsZero() {
		config.Today = time.Now()
	}
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = 1
	}
	return &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	brands     = []string{"花西子", "完美日记", "珀莱雅", "三只松鼠", "良品铺子", "安踏", "小米", "欧莱雅", "元气森林", "薇诺娜"}
	products   = []string{"保湿面霜", "精华液", "口红礼盒", "坚果大礼包", "运动鞋", "蓝牙耳机", "洗发水", "气泡水", "防晒霜", "保温杯"}
	specs      = []string{"50ml", "30ml*2", "500g", "1kg", "42码", "标准版", "6瓶装", "400ml"}
	mechanisms = []string{"买一送一", "第二件半价", "满199减30", "赠小样", "直降50", ""}
	contacts   = []string{"小王", "小李", "阿杰", "Lily", "陈经理"}
	merchants  = []string{"李总", "张总", "刘经理", "周老板"}
	assistants = []string{"小李", "小周", "Momo", ""}
)

// Generate returns Count samples in creation order (newest first)
func (g *SampleGenerator) Generate() []sample.Sample {
	out := make([]sample.Sample, 0, g.config.Count)
	for i := 0; i < g.config.Count; i++ {
		out = append(out, g.Next(i))
	}
	return out
}

// Next generates the i-th sample
func (g *SampleGenerator) Next(i int) sample.Sample {
	categories := sample.Categories()
	platforms := sample.Platforms()

	s := sample.Sample{
		ID:        core.NewSampleID(),
		Name:      fmt.Sprintf("%s %s", pick(g.rng, brands), pick(g.rng, products)),
		BrandName: pick(g.rng, brands),
		Category:  categories[g.rng.Intn(len(categories))],
		EntryDate: sample.DateOf(g.config.Today).AddDays(-g.rng.Intn(g.config.MaxAgeDays)),

		LocationCode:   fmt.Sprintf("%c-%02d-%02d", 'A'+rune(g.rng.Intn(4)), g.rng.Intn(12)+1, g.rng.Intn(6)+1),
		StockQuantity:  10 + g.rng.Intn(190),
		TrackingNumber: fmt.Sprintf("SF%010d", g.rng.Int63n(1e10)),

		Price:          float64(g.rng.Intn(500)) + 0.9,
		CommissionRate: float64(5 + g.rng.Intn(30)),
		Mechanism:      pick(g.rng, mechanisms),
		SelectionCount: g.rng.Intn(25),
		Specs:          pick(g.rng, specs),

		BusinessContact:    pick(g.rng, contacts),
		MerchantContact:    pick(g.rng, merchants),
		MerchantPhone:      fmt.Sprintf("13%09d", g.rng.Int63n(1e9)),
		IncludeShippingFee: g.rng.Float64() < 0.3,
		IsFreeShipping:     g.rng.Float64() < 0.7,
		AssistantAnchor:    pick(g.rng, assistants),
		RemarkImages:       []string{},
	}

	if g.rng.Float64() < g.config.LowStockRatio {
		s.StockQuantity = g.rng.Intn(10)
	}
	if g.rng.Float64() < g.config.ImageRatio {
		s.ImageURL = fmt.Sprintf("%s/sample-%d/200/200", g.config.ImageBaseURL, i+1)
	}
	if g.rng.Float64() < 0.5 {
		p := s.Price * 0.7
		s.ProcurementPrice = &p
	}

	n := 1 + g.rng.Intn(2)
	for _, idx := range g.rng.Perm(len(platforms))[:n] {
		s.Platforms = append(s.Platforms, platforms[idx])
	}
	if g.rng.Float64() < 0.3 {
		s.Remarks = "寄样前请确认 https://example.com/brief"
	}
	return s
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
