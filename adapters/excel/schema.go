package excel

// FieldKey is the canonical name of a sample attribute in spreadsheets
type FieldKey string

const (
	FieldID                 FieldKey = "id"
	FieldImage              FieldKey = "image_url"
	FieldName               FieldKey = "name"
	FieldBrand              FieldKey = "brand_name"
	FieldCategory           FieldKey = "category"
	FieldLocation           FieldKey = "location_code"
	FieldStock              FieldKey = "stock_quantity"
	FieldPrice              FieldKey = "price"
	FieldCommission         FieldKey = "commission_rate"
	FieldMechanism          FieldKey = "mechanism"
	FieldPlatforms          FieldKey = "platform"
	FieldSpecs              FieldKey = "specs"
	FieldEntryDate          FieldKey = "entry_date"
	FieldTracking           FieldKey = "tracking_number"
	FieldBusinessContact    FieldKey = "business_contact"
	FieldMerchantContact    FieldKey = "merchant_contact"
	FieldMerchantPhone      FieldKey = "merchant_phone"
	FieldRemarks            FieldKey = "remarks"
	FieldProcurementPrice   FieldKey = "procurement_price"
	FieldSelectionCount     FieldKey = "selection_count"
	FieldAssistantAnchor    FieldKey = "assistant_anchor"
	FieldFreeShipping       FieldKey = "is_free_shipping"
	FieldIncludeShippingFee FieldKey = "include_shipping_fee"
)

// Kind selects the coercion rule for a field
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindPercent
	KindDate
	KindCategory
	KindPlatforms
	KindBoolean
	KindImage
)

func (k Kind) numeric() bool {
	return k == KindInteger || k == KindDecimal || k == KindPercent
}

// Field describes one column of the exchange format
type Field struct {
	Key      FieldKey
	Kind     Kind
	Labels   []string // header substrings recognized on import; Labels[0] is canonical
	Header   string   // export header when it differs from Labels[0]
	Hint     string   // template annotation after the label
	Required bool
	Width    float64
	Example  interface{} // template placeholder; nil for date fields means today
}

// Importable reports whether the header resolver can bind the field
func (f Field) Importable() bool { return len(f.Labels) > 0 }

// ExportHeader is the header text written by the workbook assembler
func (f Field) ExportHeader() string {
	if f.Header != "" {
		return f.Header
	}
	if len(f.Labels) > 0 {
		return f.Labels[0]
	}
	return string(f.Key)
}

// TemplateHeader is the header text written to the import template. It always
// contains Labels[0] so the resolver recognizes it.
func (f Field) TemplateHeader() string {
	h := f.Labels[0]
	if f.Required {
		h += " *"
	}
	if f.Hint != "" {
		h += " " + f.Hint
	}
	return h
}

// schema is ordered for header resolution: a column binds to the first field
// whose label it contains.
var schema = []Field{
	{Key: FieldName, Kind: KindText, Labels: []string{"产品名称"}, Required: true, Width: 30, Example: "示例: 高保湿面霜"},
	{Key: FieldBrand, Kind: KindText, Labels: []string{"品牌"}, Width: 15, Example: "示例品牌"},
	{Key: FieldCategory, Kind: KindCategory, Labels: []string{"分类"}, Width: 15, Example: "美妆护肤"},
	{Key: FieldLocation, Kind: KindText, Labels: []string{"货架位置"}, Required: true, Width: 15, Example: "A-01-01"},
	{Key: FieldStock, Kind: KindInteger, Labels: []string{"库存"}, Width: 10, Example: 50},
	{Key: FieldPrice, Kind: KindDecimal, Labels: []string{"直播价"}, Width: 12, Example: 299},
	{Key: FieldCommission, Kind: KindPercent, Labels: []string{"佣金率"}, Width: 10, Example: 20},
	{Key: FieldMechanism, Kind: KindText, Labels: []string{"机制"}, Width: 25, Example: "买一送一"},
	{Key: FieldPlatforms, Kind: KindPlatforms, Labels: []string{"平台"}, Hint: "(逗号分隔)", Width: 20, Example: "抖音, 快手"},
	{Key: FieldSpecs, Kind: KindText, Labels: []string{"规格"}, Width: 15, Example: "50ml"},
	{Key: FieldEntryDate, Kind: KindDate, Labels: []string{"入库时间"}, Hint: "(YYYY-MM-DD)", Width: 15},
	{Key: FieldTracking, Kind: KindText, Labels: []string{"快递单号"}, Width: 20, Example: "SF123456789"},
	{Key: FieldBusinessContact, Kind: KindText, Labels: []string{"商务对接"}, Width: 15, Example: "小王"},
	{Key: FieldMerchantContact, Kind: KindText, Labels: []string{"商家对接"}, Width: 15, Example: "李总"},
	{Key: FieldMerchantPhone, Kind: KindText, Labels: []string{"商家电话"}, Width: 15, Example: "13800138000"},
	{Key: FieldRemarks, Kind: KindText, Labels: []string{"备注"}, Width: 30, Example: "这是示例数据，请删除"},
	{Key: FieldImage, Kind: KindImage, Labels: []string{"图片链接"}, Header: "产品图片", Width: 18, Example: "https://example.com/image.jpg"},
	{Key: FieldProcurementPrice, Kind: KindDecimal, Labels: []string{"集采价"}, Width: 12, Example: 199},
	{Key: FieldSelectionCount, Kind: KindInteger, Labels: []string{"选品次数"}, Width: 10, Example: 0},
	{Key: FieldAssistantAnchor, Kind: KindText, Labels: []string{"助播"}, Width: 12, Example: "小李"},
	{Key: FieldFreeShipping, Kind: KindBoolean, Labels: []string{"包邮"}, Width: 10, Example: "是"},
	{Key: FieldIncludeShippingFee, Kind: KindBoolean, Labels: []string{"含运费"}, Width: 10, Example: "否"},
	{Key: FieldID, Kind: KindText, Header: "ID", Width: 10},
}

// exportLayout is the fixed column order of exported workbooks
var exportLayout = []FieldKey{
	FieldID,
	FieldImage,
	FieldName,
	FieldBrand,
	FieldCategory,
	FieldLocation,
	FieldStock,
	FieldPrice,
	FieldCommission,
	FieldMechanism,
	FieldPlatforms,
	FieldSpecs,
	FieldEntryDate,
	FieldTracking,
	FieldBusinessContact,
	FieldMerchantContact,
	FieldMerchantPhone,
	FieldRemarks,
}

// Schema returns the field table in resolution order
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// FieldByKey looks up a field definition
func FieldByKey(key FieldKey) (Field, bool) {
	for _, f := range schema {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// ExportColumns returns the export layout as field definitions
func ExportColumns() []Field {
	out := make([]Field, 0, len(exportLayout))
	for _, key := range exportLayout {
		if f, ok := FieldByKey(key); ok {
			out = append(out, f)
		}
	}
	return out
}

// TemplateColumns returns every importable field in resolution order
func TemplateColumns() []Field {
	out := make([]Field, 0, len(schema))
	for _, f := range schema {
		if f.Importable() {
			out = append(out, f)
		}
	}
	return out
}

// columnIndex returns the 0-based position of key within columns, or -1
func columnIndex(columns []Field, key FieldKey) int {
	for i, f := range columns {
		if f.Key == key {
			return i
		}
	}
	return -1
}
